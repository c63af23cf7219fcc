package types

import (
	"strings"

	"github.com/paylaterhq/storefront-core/pkg/enums"
)

// Actor is the signed-in identity as reported by the backend. The client
// holds a cached, possibly stale copy; the backend stays authoritative.
type Actor struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Phone         string     `json:"phone,omitempty"`
	Role          enums.Role `json:"role"`
	EmailVerified bool       `json:"email_verified"`
	PhoneVerified bool       `json:"phone_verified"`
}

// FullName joins the name parts, tolerating either being blank.
func (a Actor) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}
