package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KennedyWusunanwa/gida-sub000/internal/repository"
	"github.com/KennedyWusunanwa/gida-sub000/pkg/errcode"
)

func newBareMessageService() *MessageService {
	repos := &repository.Repositories{}
	return NewMessageService(repos, NewMembershipService(repos))
}

func TestSend_RejectsMissingConversationId(t *testing.T) {
	s := newBareMessageService()

	_, err := s.Send(context.Background(), "alice", &SendMessageRequest{
		Body: "hello",
	})
	assert.ErrorIs(t, err, errcode.ErrInvalidParam)
}

func TestSend_RejectsEmptyBody(t *testing.T) {
	s := newBareMessageService()

	tests := []string{"", "   ", "\n\t  \n"}
	for _, body := range tests {
		_, err := s.Send(context.Background(), "alice", &SendMessageRequest{
			ConversationId: "dm_alice:bob",
			Body:           body,
		})
		assert.ErrorIs(t, err, errcode.ErrEmptyBody, "body %q should be rejected", body)
	}
}

func TestLoadHistory_RejectsMissingConversationId(t *testing.T) {
	s := newBareMessageService()

	_, err := s.LoadHistory(context.Background(), "alice", "", 50)
	assert.ErrorIs(t, err, errcode.ErrInvalidParam)
}
