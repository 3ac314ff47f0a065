package service

import (
	"context"

	"github.com/mbeoliero/kit/log"

	"github.com/KennedyWusunanwa/gida-sub000/internal/entity"
	"github.com/KennedyWusunanwa/gida-sub000/internal/repository"
	"github.com/KennedyWusunanwa/gida-sub000/pkg/errcode"
)

// MembershipService is the membership ledger: it gates conversation access
// and tracks each participant's read state.
type MembershipService struct {
	convRepo *repository.ConversationRepo
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(repos *repository.Repositories) *MembershipService {
	return &MembershipService{convRepo: repos.Conversation}
}

// IsMember reports whether userId belongs to the conversation
func (s *MembershipService) IsMember(ctx context.Context, conversationId, userId string) (bool, error) {
	return s.convRepo.IsMember(ctx, conversationId, userId)
}

// RequireMember returns ErrNotParticipant unless userId belongs to the
// conversation. Missing conversations surface the same way: to a
// non-participant the two cases are indistinguishable by design.
func (s *MembershipService) RequireMember(ctx context.Context, conversationId, userId string) error {
	ok, err := s.convRepo.IsMember(ctx, conversationId, userId)
	if err != nil {
		log.CtxError(ctx, "membership check failed: conversation_id=%s, user_id=%s, error=%v",
			conversationId, userId, err)
		return errcode.ErrInternalServer
	}
	if !ok {
		return errcode.ErrNotParticipant
	}
	return nil
}

// MarkRead advances the caller's last-read timestamp to server now. Read
// tracking is best-effort bookkeeping: persistence failures are logged and
// swallowed so they never fail the caller's flow. Non-members are still
// rejected.
func (s *MembershipService) MarkRead(ctx context.Context, conversationId, userId string) error {
	if err := s.RequireMember(ctx, conversationId, userId); err != nil {
		return err
	}

	if err := s.convRepo.AdvanceLastRead(ctx, conversationId, userId, entity.NowUnixMilli()); err != nil {
		log.CtxWarn(ctx, "mark read failed: conversation_id=%s, user_id=%s, error=%v",
			conversationId, userId, err)
	}
	return nil
}
