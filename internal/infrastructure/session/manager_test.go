package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWith(cookies ...*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/dashboard/creditors", nil)
	for _, ck := range cookies {
		r.AddCookie(ck)
	}
	return r
}

func TestManager_StartAndMarker(t *testing.T) {
	m := NewManager(newTestCodec(), NewInMemoryRevocations(), nil)
	ctx := context.Background()

	ck, err := m.Start("owner@shop.ng")
	require.NoError(t, err)

	assert.Equal(t, "owner@shop.ng", m.Marker(ctx, requestWith(ck)))
	assert.Empty(t, m.Marker(ctx, requestWith()))
	assert.Empty(t, m.Marker(ctx, requestWith(&http.Cookie{Name: "session_email", Value: "owner@shop.ng"})))
}

func TestManager_EndRevokes(t *testing.T) {
	revoked := NewInMemoryRevocations()
	m := NewManager(newTestCodec(), revoked, nil)
	ctx := context.Background()

	ck, err := m.Start("owner@shop.ng")
	require.NoError(t, err)

	cleared := m.End(ctx, requestWith(ck))
	assert.Equal(t, -1, cleared.MaxAge)
	assert.Equal(t, 1, revoked.Size())

	_, err = m.Claims(ctx, requestWith(ck))
	assert.ErrorIs(t, err, ErrRevokedMarker)
	assert.Empty(t, m.Marker(ctx, requestWith(ck)))
}

func TestManager_EndWithoutMarker(t *testing.T) {
	revoked := NewInMemoryRevocations()
	m := NewManager(newTestCodec(), revoked, nil)

	cleared := m.End(context.Background(), requestWith())
	assert.Equal(t, "session_email", cleared.Name)
	assert.Equal(t, 0, revoked.Size())
}

type failingRevocations struct{}

func (failingRevocations) Revoke(context.Context, string, time.Duration) error {
	return errors.New("redis down")
}

func (failingRevocations) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestManager_RevocationOutageKeepsMarker(t *testing.T) {
	m := NewManager(newTestCodec(), failingRevocations{}, nil)
	ctx := context.Background()

	ck, err := m.Start("owner@shop.ng")
	require.NoError(t, err)

	assert.Equal(t, "owner@shop.ng", m.Marker(ctx, requestWith(ck)))
	assert.Equal(t, -1, m.End(ctx, requestWith(ck)).MaxAge)
}

func TestManager_ForeignCookies(t *testing.T) {
	m := NewManager(newTestCodec(), nil, nil)
	r := requestWith(
		&http.Cookie{Name: "session_email", Value: "x"},
		&http.Cookie{Name: "connect.sid", Value: "abc"},
	)

	got := m.ForeignCookies(r)
	require.Len(t, got, 1)
	assert.Equal(t, "connect.sid", got[0].Name)
}

func TestInMemoryRevocations_Expiry(t *testing.T) {
	r := NewInMemoryRevocations()
	ctx := context.Background()
	now := time.Now()
	r.now = func() time.Time { return now }

	require.NoError(t, r.Revoke(ctx, "m1", time.Minute))
	require.NoError(t, r.Revoke(ctx, "m2", 0))

	ok, err := r.IsRevoked(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = r.IsRevoked(ctx, "m2")
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	ok, _ = r.IsRevoked(ctx, "m1")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Size())
}

func TestRedisRevocations(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	r := NewRedisRevocations(client)
	ctx := context.Background()
	id := "test-" + time.Now().Format(time.RFC3339Nano)

	require.NoError(t, r.Revoke(ctx, id, time.Minute))
	ok, err := r.IsRevoked(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.IsRevoked(ctx, id+"-other")
	require.NoError(t, err)
	assert.False(t, ok)
}
