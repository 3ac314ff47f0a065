package service

import (
	"context"

	"github.com/mbeoliero/kit/log"
	"gorm.io/gorm"

	"github.com/KennedyWusunanwa/gida-sub000/internal/entity"
	"github.com/KennedyWusunanwa/gida-sub000/internal/repository"
	"github.com/KennedyWusunanwa/gida-sub000/pkg/constant"
	"github.com/KennedyWusunanwa/gida-sub000/pkg/errcode"
)

// DirectoryService resolves conversation ids idempotently: one conversation
// per (listing, unordered participant pair), one per 1:1 pair, one support
// conversation per user. The conversation key is derived deterministically
// from the inputs and inserted with conflict-do-nothing together with the
// participant rows, so concurrent first contacts converge on a single row.
type DirectoryService struct {
	convRepo      *repository.ConversationRepo
	listingRepo   *repository.ListingRepo
	profileRepo   *repository.ProfileRepo
	repos         *repository.Repositories
	supportUserId string
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(repos *repository.Repositories, supportUserId string) *DirectoryService {
	return &DirectoryService{
		convRepo:      repos.Conversation,
		listingRepo:   repos.Listing,
		profileRepo:   repos.Profile,
		repos:         repos,
		supportUserId: supportUserId,
	}
}

// EnsureListingConversation finds-or-creates the user_host conversation for
// a listing and the unordered pair {viewer, host}. Argument order of the two
// identities does not affect the result.
func (s *DirectoryService) EnsureListingConversation(ctx context.Context, viewerId, listingId, hostId string) (string, error) {
	if viewerId == "" || hostId == "" || listingId == "" {
		return "", errcode.ErrInvalidParam
	}
	if viewerId == hostId {
		return "", errcode.ErrSelfConversation
	}

	listing, err := s.listingRepo.GetById(ctx, listingId)
	if err != nil {
		log.CtxError(ctx, "get listing failed: listing_id=%s, error=%v", listingId, err)
		return "", errcode.ErrInternalServer
	}
	if listing == nil {
		return "", errcode.ErrListingNotFound
	}
	if listing.HostId != hostId {
		return "", errcode.ErrHostMismatch
	}

	if err := s.checkIdentities(ctx, viewerId, hostId); err != nil {
		return "", err
	}

	conversationId := entity.ListingConversationKey(listingId, viewerId, hostId)
	conv := &entity.Conversation{
		ConversationId: conversationId,
		Type:           constant.ConvTypeUserHost,
		ListingId:      listingId,
	}

	if err := s.ensure(ctx, conv, []string{viewerId, hostId}); err != nil {
		return "", err
	}

	log.CtxInfo(ctx, "listing conversation ensured: conversation_id=%s, listing_id=%s", conversationId, listingId)
	return conversationId, nil
}

// EnsureDirectConversation finds-or-creates the 1:1 conversation for the
// unordered pair {caller, other}, independent of any listing.
func (s *DirectoryService) EnsureDirectConversation(ctx context.Context, callerId, otherId string) (string, error) {
	if callerId == "" || otherId == "" {
		return "", errcode.ErrInvalidParam
	}
	if callerId == otherId {
		return "", errcode.ErrSelfConversation
	}

	if err := s.checkIdentities(ctx, callerId, otherId); err != nil {
		return "", err
	}

	conversationId := entity.DirectConversationKey(callerId, otherId)
	conv := &entity.Conversation{
		ConversationId: conversationId,
		Type:           constant.ConvTypeDirect,
	}

	if err := s.ensure(ctx, conv, []string{callerId, otherId}); err != nil {
		return "", err
	}

	log.CtxInfo(ctx, "direct conversation ensured: conversation_id=%s", conversationId)
	return conversationId, nil
}

// EnsureSupportConversation finds-or-creates the caller's conversation with
// the configured support account.
func (s *DirectoryService) EnsureSupportConversation(ctx context.Context, callerId string) (string, error) {
	if callerId == "" {
		return "", errcode.ErrInvalidParam
	}
	if callerId == s.supportUserId {
		return "", errcode.ErrSelfConversation
	}

	conversationId := entity.SupportConversationKey(callerId)
	conv := &entity.Conversation{
		ConversationId: conversationId,
		Type:           constant.ConvTypeSupport,
	}

	if err := s.ensure(ctx, conv, []string{callerId, s.supportUserId}); err != nil {
		return "", err
	}

	return conversationId, nil
}

func (s *DirectoryService) ensure(ctx context.Context, conv *entity.Conversation, userIds []string) error {
	err := s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		return s.convRepo.EnsureConversation(ctx, tx, conv, userIds)
	})
	if err != nil {
		log.CtxError(ctx, "ensure conversation failed: conversation_id=%s, error=%v", conv.ConversationId, err)
		return errcode.ErrConvCreateFailed
	}
	return nil
}

func (s *DirectoryService) checkIdentities(ctx context.Context, userIds ...string) error {
	for _, userId := range userIds {
		profile, err := s.profileRepo.GetById(ctx, userId)
		if err != nil {
			log.CtxError(ctx, "check identity failed: user_id=%s, error=%v", userId, err)
			return errcode.ErrInternalServer
		}
		if profile == nil {
			return errcode.ErrIdentityNotFound
		}
	}
	return nil
}
