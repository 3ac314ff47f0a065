package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestClient(userId, connId string) *Client {
	return NewClient(nil, userId, SDKTypeGo, connId, nil)
}

func TestUserMap_RegisterAndUnregister(t *testing.T) {
	m := NewUserMap(nil)
	ctx := context.Background()

	c1 := newTestClient("alice", "conn1")
	c2 := newTestClient("alice", "conn2")

	m.Register(ctx, c1)
	m.Register(ctx, c2)

	assert.True(t, m.HasConnection("alice"))
	assert.Equal(t, 1, m.GetOnlineUserCount())
	assert.Equal(t, 2, m.GetOnlineConnCount())

	clients, ok := m.GetAll("alice")
	assert.True(t, ok)
	assert.Len(t, clients, 2)

	// Removing one connection keeps the user online
	offline := m.Unregister(ctx, c1)
	assert.False(t, offline)
	assert.True(t, m.HasConnection("alice"))

	// Removing the last one takes the user offline
	offline = m.Unregister(ctx, c2)
	assert.True(t, offline)
	assert.False(t, m.HasConnection("alice"))
	assert.Equal(t, 0, m.GetOnlineUserCount())
}

func TestUserMap_UnregisterUnknownUser(t *testing.T) {
	m := NewUserMap(nil)

	offline := m.Unregister(context.Background(), newTestClient("ghost", "conn1"))
	assert.False(t, offline)
}

func TestUserMap_GetAllReturnsCopy(t *testing.T) {
	m := NewUserMap(nil)
	ctx := context.Background()

	m.Register(ctx, newTestClient("alice", "conn1"))

	clients, _ := m.GetAll("alice")
	clients[0] = nil

	again, _ := m.GetAll("alice")
	assert.NotNil(t, again[0])
}

func TestUserMap_IsOnlineWithoutRedis(t *testing.T) {
	m := NewUserMap(nil)
	ctx := context.Background()

	assert.False(t, m.IsOnline(ctx, "alice"))

	m.Register(ctx, newTestClient("alice", "conn1"))
	assert.True(t, m.IsOnline(ctx, "alice"))
}

func TestUserMap_GetAllOnlineUserIds(t *testing.T) {
	m := NewUserMap(nil)
	ctx := context.Background()

	m.Register(ctx, newTestClient("alice", "conn1"))
	m.Register(ctx, newTestClient("bob", "conn2"))

	ids := m.GetAllOnlineUserIds()
	assert.ElementsMatch(t, []string{"alice", "bob"}, ids)
}
