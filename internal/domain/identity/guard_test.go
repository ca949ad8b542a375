package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serverReturns(email string, err error) ServerCheck {
	return func(context.Context) (string, error) {
		return email, err
	}
}

func TestGuard_Decide(t *testing.T) {
	boom := errors.New("connection refused")

	tests := []struct {
		name   string
		probe  Probe
		state  State
		email  string
		source Source
	}{
		{"server confirms", Probe{Server: serverReturns("a@shop.ng", nil), Marker: "b@shop.ng"}, StateAuthorized, "a@shop.ng", SourceServer},
		{"server empty, marker present", Probe{Server: serverReturns("", nil), Marker: "b@shop.ng"}, StateAuthorized, "b@shop.ng", SourceMarker},
		{"server fails, marker present", Probe{Server: serverReturns("", boom), Marker: "b@shop.ng"}, StateAuthorized, "b@shop.ng", SourceMarker},
		{"server fails, marker absent", Probe{Server: serverReturns("", boom)}, StateUnauthorized, "", SourceNone},
		{"server error ignores returned email", Probe{Server: serverReturns("x@shop.ng", boom)}, StateUnauthorized, "", SourceNone},
		{"no server check", Probe{Marker: "b@shop.ng"}, StateAuthorized, "b@shop.ng", SourceMarker},
		{"nothing", Probe{}, StateUnauthorized, "", SourceNone},
	}

	g := NewGuard(time.Second)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := g.Decide(context.Background(), tc.probe)
			assert.Equal(t, tc.state, d.State)
			assert.Equal(t, tc.email, d.Email)
			assert.Equal(t, tc.source, d.Source)
			assert.Equal(t, tc.state == StateAuthorized, d.Authorized())
		})
	}
}

func TestGuard_DecideReportsServerError(t *testing.T) {
	boom := errors.New("timeout")
	d := NewGuard(0).Decide(context.Background(), Probe{Server: serverReturns("", boom), Marker: "m@shop.ng"})

	assert.ErrorIs(t, d.ServerErr, boom)
	assert.True(t, d.Authorized())
}

func TestGuard_DecideBoundsServerCheck(t *testing.T) {
	slow := func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}

	start := time.Now()
	d := NewGuard(20*time.Millisecond).Decide(context.Background(), Probe{Server: slow, Marker: "m@shop.ng"})

	assert.Less(t, time.Since(start), time.Second)
	assert.ErrorIs(t, d.ServerErr, context.DeadlineExceeded)
	assert.Equal(t, SourceMarker, d.Source)
}

func TestGuard_Evaluate(t *testing.T) {
	ch := NewGuard(time.Second).Evaluate(context.Background(), Probe{Server: serverReturns("a@shop.ng", nil)})

	d, ok := <-ch
	require.True(t, ok)
	assert.Equal(t, StateAuthorized, d.State)

	_, ok = <-ch
	assert.False(t, ok)
}

func TestGuard_EvaluateDiscardsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	server := func(context.Context) (string, error) {
		<-release
		return "a@shop.ng", nil
	}

	ch := NewGuard(0).Evaluate(ctx, Probe{Server: server, Marker: "m@shop.ng"})
	cancel()
	close(release)

	_, ok := <-ch
	assert.False(t, ok)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "checking", StateChecking.String())
	assert.Equal(t, "authorized", StateAuthorized.String())
	assert.Equal(t, "unauthorized", StateUnauthorized.String())
}

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"owner@shop.ng", "owner@shop.ng", false},
		{"  owner@shop.ng ", "owner@shop.ng", false},
		{"", "", true},
		{"not-an-email", "", true},
		{"Owner <owner@shop.ng>", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			id, err := Parse(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, id.Email)
			assert.Equal(t, tc.want, id.DisplayName())
		})
	}

	assert.Equal(t, "Mama Put", Identity{Email: "a@b.ng", BusinessName: "Mama Put"}.DisplayName())
	assert.True(t, Identity{}.IsZero())
}
