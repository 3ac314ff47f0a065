package service

import (
	"context"

	"github.com/mbeoliero/kit/log"

	"github.com/KennedyWusunanwa/gida-sub000/internal/entity"
	"github.com/KennedyWusunanwa/gida-sub000/internal/repository"
	"github.com/KennedyWusunanwa/gida-sub000/pkg/constant"
	"github.com/KennedyWusunanwa/gida-sub000/pkg/errcode"
)

// InboxService aggregates a user's conversations into inbox entries:
// the other party's display attributes, the latest message, and the unread
// flag derived from the caller's read state.
type InboxService struct {
	convRepo      *repository.ConversationRepo
	msgRepo       *repository.MessageRepo
	profileRepo   *repository.ProfileRepo
	listingRepo   *repository.ListingRepo
	supportUserId string
}

// NewInboxService creates a new InboxService
func NewInboxService(repos *repository.Repositories, supportUserId string) *InboxService {
	return &InboxService{
		convRepo:      repos.Conversation,
		msgRepo:       repos.Message,
		profileRepo:   repos.Profile,
		listingRepo:   repos.Listing,
		supportUserId: supportUserId,
	}
}

// ListConversations returns the caller's inbox ordered by conversation
// creation time descending. Each entry is composed from three batched
// queries (participants, latest messages, profiles) regardless of inbox size.
func (s *InboxService) ListConversations(ctx context.Context, userId string) ([]*entity.ConversationInfo, error) {
	if userId == "" {
		return nil, errcode.ErrInvalidParam
	}

	convs, err := s.convRepo.GetUserConversations(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "list conversations failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrInternalServer
	}
	if len(convs) == 0 {
		return []*entity.ConversationInfo{}, nil
	}

	convIds := make([]string, 0, len(convs))
	for _, conv := range convs {
		convIds = append(convIds, conv.ConversationId)
	}

	participants, err := s.convRepo.GetParticipantsByConvIds(ctx, convIds)
	if err != nil {
		log.CtxError(ctx, "load participants failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrInternalServer
	}

	latest, err := s.msgRepo.GetLatestByConvIds(ctx, convIds)
	if err != nil {
		log.CtxError(ctx, "load latest messages failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrInternalServer
	}

	otherIds := make([]string, 0, len(convs))
	seen := make(map[string]bool, len(convs))
	for _, p := range participants {
		if p.UserId != userId && !seen[p.UserId] {
			seen[p.UserId] = true
			otherIds = append(otherIds, p.UserId)
		}
	}
	profiles, err := s.profileRepo.GetByIds(ctx, otherIds)
	if err != nil {
		// Inbox still lists without display attributes.
		log.CtxWarn(ctx, "load profiles failed: user_id=%s, error=%v", userId, err)
		profiles = map[string]*entity.Profile{}
	}

	listingIds := make([]string, 0, len(convs))
	for _, conv := range convs {
		if conv.ListingId != "" {
			listingIds = append(listingIds, conv.ListingId)
		}
	}
	listings, err := s.listingRepo.GetByIds(ctx, listingIds)
	if err != nil {
		log.CtxWarn(ctx, "load listings failed: user_id=%s, error=%v", userId, err)
		listings = map[string]*entity.Listing{}
	}

	return composeInbox(userId, s.supportUserId, convs, participants, latest, listings, profiles), nil
}

// composeInbox merges the batched rows into inbox entries for viewerId,
// preserving the order of convs. Pure so its derivation rules (other-party
// selection, support display fallback, unread state) can be tested directly.
func composeInbox(
	viewerId, supportUserId string,
	convs []*entity.Conversation,
	participants []*entity.Participant,
	latest map[string]*entity.Message,
	listings map[string]*entity.Listing,
	profiles map[string]*entity.Profile,
) []*entity.ConversationInfo {
	byConv := make(map[string][]*entity.Participant, len(convs))
	for _, p := range participants {
		byConv[p.ConversationId] = append(byConv[p.ConversationId], p)
	}

	infos := make([]*entity.ConversationInfo, 0, len(convs))
	for _, conv := range convs {
		info := &entity.ConversationInfo{
			ConversationId: conv.ConversationId,
			Type:           conv.Type,
			ListingId:      conv.ListingId,
			CreatedAt:      conv.CreatedAt,
		}

		var self *entity.Participant
		for _, p := range byConv[conv.ConversationId] {
			if p.UserId == viewerId {
				self = p
			} else if info.OtherUserId == "" {
				info.OtherUserId = p.UserId
			}
		}

		if l, ok := listings[conv.ListingId]; ok {
			info.ListingTitle = l.Title
		}

		if p, ok := profiles[info.OtherUserId]; ok {
			info.OtherName = p.FullName
			info.OtherAvatarUrl = p.AvatarUrl
		}
		// No other party at all (self-only row or data anomaly) also gets
		// the support label rather than an empty name.
		if info.OtherName == "" && (conv.Type == constant.ConvTypeSupport || info.OtherUserId == supportUserId || info.OtherUserId == "") {
			info.OtherName = constant.SupportDisplayName
		}

		if msg, ok := latest[conv.ConversationId]; ok {
			info.LastMessageAt = msg.SentAt
			info.LastMessageBody = msg.Body
			if self != nil {
				info.HasUnread = entity.HasUnread(msg.SentAt, self.LastReadAt)
			}
		}

		infos = append(infos, info)
	}
	return infos
}
