package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/KennedyWusunanwa/gida-sub000/internal/entity"
)

// MessageRepo is the repository for message operations
type MessageRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewMessageRepo creates a new MessageRepo
func NewMessageRepo(db *gorm.DB, rdb *redis.Client) *MessageRepo {
	return &MessageRepo{db: db, rdb: rdb}
}

// Create appends a new message
func (r *MessageRepo) Create(ctx context.Context, tx *gorm.DB, msg *entity.Message) error {
	now := entity.NowUnixMilli()
	if msg.SentAt == 0 {
		msg.SentAt = now
	}
	msg.CreatedAt = now
	return tx.WithContext(ctx).Create(msg).Error
}

// GetByClientMsgId gets a message by sender_id and client_msg_id (for
// idempotent resends). Returns nil when absent.
func (r *MessageRepo) GetByClientMsgId(ctx context.Context, senderId, clientMsgId string) (*entity.Message, error) {
	var msg entity.Message
	err := r.db.WithContext(ctx).
		Where("sender_id = ? AND client_msg_id = ?", senderId, clientMsgId).
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

// GetHistory gets messages of a conversation ordered ascending by
// (sent_at, id); the id tiebreak keeps the order stable when timestamps
// collide in the same millisecond. limit is capped at 500.
func (r *MessageRepo) GetHistory(ctx context.Context, conversationId string, limit int) ([]*entity.Message, error) {
	if limit <= 0 || limit > 500 {
		limit = 500
	}

	var messages []*entity.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationId).
		Order("sent_at ASC, id ASC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// GetLatestByConvIds gets the newest message per conversation for the given
// set, newest in the (sent_at, id) order that GetHistory uses. Ids alone do
// not follow timestamp order when sends commit concurrently, so the grouped
// query picks the max sent_at and ties are broken by id in latestPerConv.
func (r *MessageRepo) GetLatestByConvIds(ctx context.Context, conversationIds []string) (map[string]*entity.Message, error) {
	if len(conversationIds) == 0 {
		return map[string]*entity.Message{}, nil
	}

	type convLatest struct {
		ConversationId string
		SentAt         int64
	}
	var rows []convLatest
	err := r.db.WithContext(ctx).
		Model(&entity.Message{}).
		Select("conversation_id, MAX(sent_at) AS sent_at").
		Where("conversation_id IN ?", conversationIds).
		Group("conversation_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return map[string]*entity.Message{}, nil
	}

	pairs := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		pairs = append(pairs, []interface{}{row.ConversationId, row.SentAt})
	}

	var messages []*entity.Message
	err = r.db.WithContext(ctx).
		Where("(conversation_id, sent_at) IN ?", pairs).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	return latestPerConv(messages), nil
}

// latestPerConv keeps, per conversation, the message greatest in the
// (sent_at, id) order.
func latestPerConv(messages []*entity.Message) map[string]*entity.Message {
	latest := make(map[string]*entity.Message, len(messages))
	for _, msg := range messages {
		cur, ok := latest[msg.ConversationId]
		if !ok || msg.SentAt > cur.SentAt || (msg.SentAt == cur.SentAt && msg.Id > cur.Id) {
			latest[msg.ConversationId] = msg
		}
	}
	return latest
}
