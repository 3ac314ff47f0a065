package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KennedyWusunanwa/gida-sub000/internal/repository"
	"github.com/KennedyWusunanwa/gida-sub000/pkg/errcode"
)

// Argument validation happens before any storage access, so these run
// against a service with empty repositories.
func newBareDirectoryService() *DirectoryService {
	return NewDirectoryService(&repository.Repositories{}, "support")
}

func TestEnsureListingConversation_Validation(t *testing.T) {
	s := newBareDirectoryService()
	ctx := context.Background()

	_, err := s.EnsureListingConversation(ctx, "", "l1", "bob")
	assert.ErrorIs(t, err, errcode.ErrInvalidParam)

	_, err = s.EnsureListingConversation(ctx, "alice", "", "bob")
	assert.ErrorIs(t, err, errcode.ErrInvalidParam)

	_, err = s.EnsureListingConversation(ctx, "alice", "l1", "")
	assert.ErrorIs(t, err, errcode.ErrInvalidParam)

	_, err = s.EnsureListingConversation(ctx, "alice", "l1", "alice")
	assert.ErrorIs(t, err, errcode.ErrSelfConversation)
}

func TestEnsureDirectConversation_Validation(t *testing.T) {
	s := newBareDirectoryService()
	ctx := context.Background()

	_, err := s.EnsureDirectConversation(ctx, "alice", "")
	assert.ErrorIs(t, err, errcode.ErrInvalidParam)

	_, err = s.EnsureDirectConversation(ctx, "", "bob")
	assert.ErrorIs(t, err, errcode.ErrInvalidParam)

	_, err = s.EnsureDirectConversation(ctx, "alice", "alice")
	assert.ErrorIs(t, err, errcode.ErrSelfConversation)
}

func TestEnsureSupportConversation_Validation(t *testing.T) {
	s := newBareDirectoryService()
	ctx := context.Background()

	_, err := s.EnsureSupportConversation(ctx, "")
	assert.ErrorIs(t, err, errcode.ErrInvalidParam)

	_, err = s.EnsureSupportConversation(ctx, "support")
	assert.ErrorIs(t, err, errcode.ErrSelfConversation)
}
