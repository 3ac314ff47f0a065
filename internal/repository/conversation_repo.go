package repository

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KennedyWusunanwa/gida-sub000/internal/entity"
)

// ConversationRepo is the repository for conversation and participant
// operations
type ConversationRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewConversationRepo creates a new ConversationRepo
func NewConversationRepo(db *gorm.DB, rdb *redis.Client) *ConversationRepo {
	return &ConversationRepo{db: db, rdb: rdb}
}

// EnsureConversation atomically finds-or-creates a conversation and its
// initial participant set. The conversation row and all participant rows are
// inserted with on-conflict-do-nothing inside tx, so concurrent calls for the
// same key converge on a single conversation with no partial-creation window.
func (r *ConversationRepo) EnsureConversation(ctx context.Context, tx *gorm.DB, conv *entity.Conversation, userIds []string) error {
	now := entity.NowUnixMilli()
	if conv.CreatedAt == 0 {
		conv.CreatedAt = now
	}

	err := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "conversation_id"}},
		DoNothing: true,
	}).Create(conv).Error
	if err != nil {
		return err
	}

	participants := make([]*entity.Participant, 0, len(userIds))
	for _, userId := range userIds {
		participants = append(participants, &entity.Participant{
			ConversationId: conv.ConversationId,
			UserId:         userId,
			CreatedAt:      now,
		})
	}

	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "conversation_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(participants).Error
}

// IsMember checks participant existence
func (r *ConversationRepo) IsMember(ctx context.Context, conversationId, userId string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Participant{}).
		Where("conversation_id = ? AND user_id = ?", conversationId, userId).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetParticipantsByConvIds gets participant rows for a set of conversations
func (r *ConversationRepo) GetParticipantsByConvIds(ctx context.Context, conversationIds []string) ([]*entity.Participant, error) {
	if len(conversationIds) == 0 {
		return nil, nil
	}
	var participants []*entity.Participant
	err := r.db.WithContext(ctx).
		Where("conversation_id IN ?", conversationIds).
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// GetUserConversations gets all conversations the user participates in,
// ordered by conversation creation time descending.
func (r *ConversationRepo) GetUserConversations(ctx context.Context, userId string) ([]*entity.Conversation, error) {
	var convs []*entity.Conversation
	err := r.db.WithContext(ctx).
		Joins("JOIN conversation_participants p ON p.conversation_id = conversations.conversation_id").
		Where("p.user_id = ?", userId).
		Order("conversations.created_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}

// AdvanceLastRead moves the participant's last_read_at forward to readAt.
// GREATEST keeps the timestamp monotonic when calls race or arrive late.
func (r *ConversationRepo) AdvanceLastRead(ctx context.Context, conversationId, userId string, readAt int64) error {
	return r.db.WithContext(ctx).
		Model(&entity.Participant{}).
		Where("conversation_id = ? AND user_id = ?", conversationId, userId).
		Update("last_read_at", gorm.Expr("GREATEST(COALESCE(last_read_at, 0), ?)", readAt)).Error
}
