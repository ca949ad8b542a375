package identity

import "context"

// PreferenceStore keeps display preferences per identity. The business name
// is the only preference; it is cleared on logout along with the marker.
type PreferenceStore interface {
	BusinessName(ctx context.Context, email string) (string, error)
	SetBusinessName(ctx context.Context, email, name string) error
	Clear(ctx context.Context, email string) error
}
