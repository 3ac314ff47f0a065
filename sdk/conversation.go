package sdk

import "context"

// EnsureListingConversation finds-or-creates the conversation for a listing
// and the caller/host pair, returning its id
func (c *Client) EnsureListingConversation(ctx context.Context, listingId, hostId string) (string, error) {
	var result EnsureResponse
	err := c.post(ctx, "/conversation/ensure", &EnsureListingRequest{
		ListingId: listingId,
		HostId:    hostId,
	}, &result)
	if err != nil {
		return "", err
	}
	return result.ConversationId, nil
}

// EnsureDirectConversation finds-or-creates the 1:1 conversation with another
// user, returning its id
func (c *Client) EnsureDirectConversation(ctx context.Context, otherUserId string) (string, error) {
	var result EnsureResponse
	err := c.post(ctx, "/conversation/ensure_direct", &EnsureDirectRequest{
		OtherUserId: otherUserId,
	}, &result)
	if err != nil {
		return "", err
	}
	return result.ConversationId, nil
}

// EnsureSupportConversation finds-or-creates the caller's support
// conversation, returning its id
func (c *Client) EnsureSupportConversation(ctx context.Context) (string, error) {
	var result EnsureResponse
	if err := c.post(ctx, "/conversation/ensure_support", struct{}{}, &result); err != nil {
		return "", err
	}
	return result.ConversationId, nil
}

// ListConversations returns the caller's inbox
func (c *Client) ListConversations(ctx context.Context) ([]*ConversationInfo, error) {
	var result []*ConversationInfo
	if err := c.get(ctx, "/conversation/list", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// MarkRead advances the caller's read state for a conversation
func (c *Client) MarkRead(ctx context.Context, conversationId string) error {
	return c.post(ctx, "/conversation/mark_read", &MarkReadRequest{
		ConversationId: conversationId,
	}, nil)
}
