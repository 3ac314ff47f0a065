package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasUnread(t *testing.T) {
	readAt := int64(1000)

	tests := []struct {
		name            string
		latestMessageAt int64
		lastReadAt      *int64
		want            bool
	}{
		{"no messages", 0, nil, false},
		{"no messages but read before", 0, &readAt, false},
		{"never read with messages", 500, nil, true},
		{"message after read", 1500, &readAt, true},
		{"message before read", 900, &readAt, false},
		{"message at exact read time", 1000, &readAt, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasUnread(tt.latestMessageAt, tt.lastReadAt))
		})
	}
}
