// Package storage is the device key-value port backing cart snapshots and
// cached auth artifacts. Core logic never touches a concrete backend
// directly; it goes through Store so tests can substitute the in-memory
// adapter.
package storage

import (
	"context"
	"errors"
)

// Fixed keys for everything the storefront persists locally.
const (
	KeyCart        = "storefront:cart"
	KeyAccessToken = "storefront:access_token"
	KeyLastEmail   = "storefront:last_email"
	KeyPopupSeenAt = "storefront:popup_seen_at"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("storage: key not found")

// Store is the minimal key-value surface the core depends on.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, keys ...string) error
}
