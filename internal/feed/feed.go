package feed

import (
	"sync"

	"github.com/google/uuid"
	"github.com/mbeoliero/kit/log"

	"github.com/KennedyWusunanwa/gida-sub000/internal/entity"
	"github.com/KennedyWusunanwa/gida-sub000/internal/observability"
)

// EventType identifies the kind of change carried by an Event
type EventType int32

const (
	// EventMessageInsert is emitted once per message appended to the store
	EventMessageInsert EventType = 1
)

// Event is one change notification. Delivery order relative to in-flight
// request/response calls is not guaranteed; consumers must not assume it.
type Event struct {
	Type    EventType
	Message *entity.MessageInfo
}

// Publisher is the write side of the hub, injected into services so they do
// not depend on the delivery machinery.
type Publisher interface {
	Publish(ev *Event)
}

// Subscription is a live channel of events. It must be released exactly once
// via Close when its owning view is torn down or re-targeted; a leaked
// subscription keeps receiving events and causes duplicate delivery on the
// next subscribe.
type Subscription struct {
	id             string
	conversationId string // empty for system-wide subscriptions
	ch             chan *Event
	hub            *Hub
	closeOnce      sync.Once
}

// Events returns the receive channel. The channel is closed when the
// subscription is released.
func (s *Subscription) Events() <-chan *Event {
	return s.ch
}

// ConversationId returns the conversation this subscription is scoped to,
// or "" for a system-wide subscription.
func (s *Subscription) ConversationId() string {
	return s.conversationId
}

// Close releases the subscription. Safe to call more than once; only the
// first call has effect.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.hub.remove(s)
	})
}

// Hub fans message-insert events out to conversation-scoped and system-wide
// subscribers. Publishing never blocks: a subscriber that cannot keep up has
// events dropped, counted and logged.
type Hub struct {
	mu      sync.RWMutex
	byConv  map[string]map[string]*Subscription // conversationId -> subId -> sub
	global  map[string]*Subscription            // subId -> sub
	bufSize int
}

// NewHub creates a hub whose subscriptions buffer bufSize events
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = 256
	}
	return &Hub{
		byConv:  make(map[string]map[string]*Subscription),
		global:  make(map[string]*Subscription),
		bufSize: bufSize,
	}
}

// Subscribe registers a subscription scoped to one conversation
func (h *Hub) Subscribe(conversationId string) *Subscription {
	sub := &Subscription{
		id:             uuid.New().String(),
		conversationId: conversationId,
		ch:             make(chan *Event, h.bufSize),
		hub:            h,
	}

	h.mu.Lock()
	subs, ok := h.byConv[conversationId]
	if !ok {
		subs = make(map[string]*Subscription)
		h.byConv[conversationId] = subs
	}
	subs[sub.id] = sub
	h.mu.Unlock()

	return sub
}

// SubscribeAll registers a system-wide subscription receiving every message
// insert. Used by the inbox aggregator's coarse invalidation.
func (h *Hub) SubscribeAll() *Subscription {
	sub := &Subscription{
		id:  uuid.New().String(),
		ch:  make(chan *Event, h.bufSize),
		hub: h,
	}

	h.mu.Lock()
	h.global[sub.id] = sub
	h.mu.Unlock()

	return sub
}

// Publish delivers ev to all subscriptions scoped to its conversation and
// to all system-wide subscriptions
func (h *Hub) Publish(ev *Event) {
	if ev == nil || ev.Message == nil {
		return
	}

	// Sends happen under the read lock and channel close under the write
	// lock in remove, so an event is never sent on a closed channel. Sends
	// are non-blocking, so holding the lock here is cheap.
	h.mu.RLock()
	defer h.mu.RUnlock()

	deliver := func(sub *Subscription) {
		select {
		case sub.ch <- ev:
			observability.IncFeedDelivered()
		default:
			observability.IncFeedDropped()
			log.Warn("feed subscriber full, event dropped: conversation_id=%s, sub_id=%s",
				ev.Message.ConversationId, sub.id)
		}
	}

	for _, sub := range h.byConv[ev.Message.ConversationId] {
		deliver(sub)
	}
	for _, sub := range h.global {
		deliver(sub)
	}
}

// SubscriberCount returns the number of live subscriptions for a
// conversation plus system-wide ones
func (h *Hub) SubscriberCount(conversationId string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byConv[conversationId]) + len(h.global)
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub.conversationId == "" {
		delete(h.global, sub.id)
	} else if subs, ok := h.byConv[sub.conversationId]; ok {
		delete(subs, sub.id)
		if len(subs) == 0 {
			delete(h.byConv, sub.conversationId)
		}
	}

	close(sub.ch)
}
