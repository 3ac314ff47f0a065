package service

import (
	"context"
	"strings"

	"github.com/mbeoliero/kit/log"
	"gorm.io/gorm"

	"github.com/KennedyWusunanwa/gida-sub000/internal/entity"
	"github.com/KennedyWusunanwa/gida-sub000/internal/feed"
	"github.com/KennedyWusunanwa/gida-sub000/internal/observability"
	"github.com/KennedyWusunanwa/gida-sub000/internal/repository"
	"github.com/KennedyWusunanwa/gida-sub000/pkg/errcode"
	"github.com/KennedyWusunanwa/gida-sub000/pkg/idgen"
)

// MessageService handles the append-only message log: sends and history
// loads. Newly appended messages are published to the feed hub after commit;
// watchers (the sender's own connections included) observe them through the
// feed rather than through the send call's response.
type MessageService struct {
	msgRepo     *repository.MessageRepo
	convRepo    *repository.ConversationRepo
	profileRepo *repository.ProfileRepo
	repos       *repository.Repositories
	membership  *MembershipService
	publisher   feed.Publisher
}

// NewMessageService creates a new MessageService
func NewMessageService(repos *repository.Repositories, membership *MembershipService) *MessageService {
	return &MessageService{
		msgRepo:     repos.Message,
		convRepo:    repos.Conversation,
		profileRepo: repos.Profile,
		repos:       repos,
		membership:  membership,
	}
}

// SetPublisher sets the feed publisher
func (s *MessageService) SetPublisher(publisher feed.Publisher) {
	s.publisher = publisher
}

// SendMessageRequest represents a send request
type SendMessageRequest struct {
	ConversationId string `json:"conversation_id"`
	ClientMsgId    string `json:"client_msg_id"`
	Body           string `json:"body"`
}

// Send appends one message to a conversation. The body must be non-empty
// after trimming; the sender must be a participant. A resend with the same
// client_msg_id returns the originally appended row.
func (s *MessageService) Send(ctx context.Context, senderId string, req *SendMessageRequest) (*entity.Message, error) {
	if req.ConversationId == "" {
		return nil, errcode.ErrInvalidParam
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, errcode.ErrEmptyBody
	}

	if err := s.membership.RequireMember(ctx, req.ConversationId, senderId); err != nil {
		return nil, err
	}

	clientMsgId := req.ClientMsgId
	if clientMsgId != "" {
		existing, err := s.msgRepo.GetByClientMsgId(ctx, senderId, clientMsgId)
		if err != nil {
			log.CtxError(ctx, "idempotency check failed: %v", err)
			return nil, errcode.ErrInternalServer
		}
		if existing != nil {
			log.CtxDebug(ctx, "duplicate message: client_msg_id=%s", clientMsgId)
			return existing, nil
		}
	} else {
		// Mint one server-side so every row carries a dedup handle
		id, err := idgen.NextID()
		if err != nil {
			log.CtxError(ctx, "mint client_msg_id failed: %v", err)
			return nil, errcode.ErrInternalServer
		}
		clientMsgId = "srv_" + id
	}

	msg := &entity.Message{
		ConversationId: req.ConversationId,
		ClientMsgId:    clientMsgId,
		SenderId:       senderId,
		Body:           body,
		SentAt:         entity.NowUnixMilli(),
	}

	err := s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		return s.msgRepo.Create(ctx, tx, msg)
	})
	if err != nil {
		log.CtxError(ctx, "send message failed: conversation_id=%s, error=%v", req.ConversationId, err)
		return nil, errcode.ErrSendFailed
	}

	observability.IncMessageSent()

	// The sender has read their own message; best-effort, same as MarkRead.
	if err := s.convRepo.AdvanceLastRead(ctx, req.ConversationId, senderId, msg.SentAt); err != nil {
		log.CtxWarn(ctx, "advance sender read failed: conversation_id=%s, error=%v", req.ConversationId, err)
	}

	if s.publisher != nil {
		s.publisher.Publish(&feed.Event{
			Type:    feed.EventMessageInsert,
			Message: s.hydrateOne(ctx, msg),
		})
	}

	log.CtxInfo(ctx, "message sent: conversation_id=%s, sender_id=%s, id=%d",
		msg.ConversationId, senderId, msg.Id)
	return msg, nil
}

// LoadHistory returns a conversation's messages ascending by (sent_at, id),
// hydrated with sender display attributes. The caller must be a participant.
func (s *MessageService) LoadHistory(ctx context.Context, userId, conversationId string, limit int) ([]*entity.MessageInfo, error) {
	if conversationId == "" {
		return nil, errcode.ErrInvalidParam
	}

	if err := s.membership.RequireMember(ctx, conversationId, userId); err != nil {
		return nil, err
	}

	messages, err := s.msgRepo.GetHistory(ctx, conversationId, limit)
	if err != nil {
		log.CtxError(ctx, "load history failed: conversation_id=%s, error=%v", conversationId, err)
		return nil, errcode.ErrHistoryLoadFailed
	}

	return s.hydrate(ctx, messages), nil
}

// hydrate attaches sender display attributes, batched by distinct sender id
// so hydration costs one profile query per load, not one per message.
func (s *MessageService) hydrate(ctx context.Context, messages []*entity.Message) []*entity.MessageInfo {
	senderIds := make([]string, 0, 4)
	seen := make(map[string]bool, 4)
	for _, msg := range messages {
		if !seen[msg.SenderId] {
			seen[msg.SenderId] = true
			senderIds = append(senderIds, msg.SenderId)
		}
	}

	profiles, err := s.profileRepo.GetByIds(ctx, senderIds)
	if err != nil {
		// Display hydration is cosmetic; history still loads without it.
		log.CtxWarn(ctx, "hydrate senders failed: %v", err)
		profiles = map[string]*entity.Profile{}
	}

	infos := make([]*entity.MessageInfo, 0, len(messages))
	for _, msg := range messages {
		info := msg.ToMessageInfo()
		if p, ok := profiles[msg.SenderId]; ok {
			info.SenderName = p.FullName
			info.SenderAvatarUrl = p.AvatarUrl
		}
		infos = append(infos, info)
	}
	return infos
}

func (s *MessageService) hydrateOne(ctx context.Context, msg *entity.Message) *entity.MessageInfo {
	infos := s.hydrate(ctx, []*entity.Message{msg})
	return infos[0]
}
