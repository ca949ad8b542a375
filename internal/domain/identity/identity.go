// Package identity holds the signed-in identity and the guard that decides
// whether a dashboard view may be shown.
package identity

import (
	"net/mail"
	"strings"

	"github.com/erp/dashboard/internal/domain/shared"
)

// Identity is the email that scopes every backend call, plus an optional
// business name used only for display
type Identity struct {
	Email        string `json:"email"`
	BusinessName string `json:"businessName,omitempty"`
}

// Parse validates an email address and returns the Identity for it
func Parse(email string) (Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Identity{}, shared.NewDomainError("INVALID_INPUT", "Email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return Identity{}, shared.NewDomainError("INVALID_INPUT", "Email is not a valid address")
	}
	return Identity{Email: email}, nil
}

// IsZero reports whether no identity is present
func (i Identity) IsZero() bool {
	return i.Email == ""
}

// DisplayName is the business name if known, else the email
func (i Identity) DisplayName() string {
	if i.BusinessName != "" {
		return i.BusinessName
	}
	return i.Email
}
