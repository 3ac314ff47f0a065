package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/KennedyWusunanwa/gida-sub000/internal/middleware"
	"github.com/KennedyWusunanwa/gida-sub000/internal/service"
	"github.com/KennedyWusunanwa/gida-sub000/pkg/errcode"
	"github.com/KennedyWusunanwa/gida-sub000/pkg/response"
)

// ConversationHandler handles conversation-related requests
type ConversationHandler struct {
	dirService        *service.DirectoryService
	inboxService      *service.InboxService
	membershipService *service.MembershipService
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(dirService *service.DirectoryService, inboxService *service.InboxService, membershipService *service.MembershipService) *ConversationHandler {
	return &ConversationHandler{
		dirService:        dirService,
		inboxService:      inboxService,
		membershipService: membershipService,
	}
}

// EnsureListingRequest represents an ensure listing conversation request
type EnsureListingRequest struct {
	ListingId string `json:"listing_id"`
	HostId    string `json:"host_id"`
}

// EnsureListing handles find-or-create for a listing conversation
func (h *ConversationHandler) EnsureListing(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req EnsureListingRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	conversationId, err := h.dirService.EnsureListingConversation(ctx, userId, req.ListingId, req.HostId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"conversation_id": conversationId,
	})
}

// EnsureDirectRequest represents an ensure direct conversation request
type EnsureDirectRequest struct {
	OtherUserId string `json:"other_user_id"`
}

// EnsureDirect handles find-or-create for a 1:1 conversation
func (h *ConversationHandler) EnsureDirect(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req EnsureDirectRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	conversationId, err := h.dirService.EnsureDirectConversation(ctx, userId, req.OtherUserId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"conversation_id": conversationId,
	})
}

// EnsureSupport handles find-or-create for the caller's support conversation
func (h *ConversationHandler) EnsureSupport(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	conversationId, err := h.dirService.EnsureSupportConversation(ctx, userId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"conversation_id": conversationId,
	})
}

// List handles the inbox listing request
func (h *ConversationHandler) List(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	convs, err := h.inboxService.ListConversations(ctx, userId)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, convs)
}

// MarkReadRequest represents mark read request
type MarkReadRequest struct {
	ConversationId string `json:"conversation_id"`
}

// MarkRead handles mark conversation as read request
func (h *ConversationHandler) MarkRead(ctx context.Context, c *app.RequestContext) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return
	}

	var req MarkReadRequest
	if err := c.BindAndValidate(&req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}
	if req.ConversationId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	if err := h.membershipService.MarkRead(ctx, req.ConversationId, userId); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, nil)
}
