package identity

import (
	"context"
	"time"
)

// State is the guard state for one navigation
type State int

const (
	StateChecking State = iota
	StateAuthorized
	StateUnauthorized
)

// String returns a lowercase name for logs
func (s State) String() string {
	switch s {
	case StateAuthorized:
		return "authorized"
	case StateUnauthorized:
		return "unauthorized"
	default:
		return "checking"
	}
}

// Source tells which check produced an authorized decision
type Source string

const (
	SourceNone   Source = ""
	SourceServer Source = "server"
	SourceMarker Source = "marker"
)

// ServerCheck asks the backend who the caller is. An empty email with a nil
// error means the backend did not confirm anyone.
type ServerCheck func(ctx context.Context) (email string, err error)

// Probe is everything the guard consults for one navigation
type Probe struct {
	Server ServerCheck
	// Marker is the email held by the local session marker, empty if absent
	Marker string
}

// Decision is the outcome of a guard evaluation
type Decision struct {
	State     State
	Email     string
	Source    Source
	ServerErr error
}

// Authorized reports whether the guarded content may be rendered
func (d Decision) Authorized() bool {
	return d.State == StateAuthorized
}

// Guard admits or redirects a navigation to a dashboard view
type Guard struct {
	timeout time.Duration
}

// NewGuard creates a guard whose server check is bounded by timeout.
// A zero timeout leaves the bound to the caller's context.
func NewGuard(timeout time.Duration) *Guard {
	return &Guard{timeout: timeout}
}

// Decide runs the server check, falling back to the local marker when the
// server confirms nobody or fails. Server errors never fail the decision;
// they are reported in Decision.ServerErr for diagnostics.
func (g *Guard) Decide(ctx context.Context, p Probe) Decision {
	var d Decision
	if p.Server != nil {
		checkCtx := ctx
		if g.timeout > 0 {
			var cancel context.CancelFunc
			checkCtx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}
		email, err := p.Server(checkCtx)
		if err == nil && email != "" {
			return Decision{State: StateAuthorized, Email: email, Source: SourceServer}
		}
		d.ServerErr = err
	}

	if p.Marker != "" {
		d.State = StateAuthorized
		d.Email = p.Marker
		d.Source = SourceMarker
		return d
	}
	d.State = StateUnauthorized
	return d
}

// Evaluate runs Decide in the background. The channel yields the decision
// and is then closed; if ctx is done by the time the decision is ready the
// decision is discarded and the channel is closed empty.
func (g *Guard) Evaluate(ctx context.Context, p Probe) <-chan Decision {
	ch := make(chan Decision, 1)
	go func() {
		defer close(ch)
		d := g.Decide(ctx, p)
		if ctx.Err() != nil {
			return
		}
		ch <- d
	}()
	return ch
}
