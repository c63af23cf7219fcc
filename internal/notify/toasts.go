// Package notify buffers transient toast notifications for failures the
// user must see, e.g. a rejected checkout submission.
package notify

import (
	"sync"

	"github.com/google/uuid"

	pkgerrors "github.com/paylaterhq/storefront-core/pkg/errors"
)

// Level classifies how a toast renders.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Toast is one pending message.
type Toast struct {
	ID      string
	Level   Level
	Message string
}

// DefaultCapacity bounds the buffer; the oldest toast is dropped on overflow.
const DefaultCapacity = 16

// Buffer collects toasts until the rendering layer drains them.
type Buffer struct {
	mu       sync.Mutex
	toasts   []Toast
	capacity int
}

// NewBuffer builds a buffer with the given capacity (<=0 means default).
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{capacity: capacity}
}

// Push derives a toast from an error. The backend's human-readable message
// wins when the typed error carries one; otherwise the code's public
// message is used, falling back to a generic line for untyped errors.
func (b *Buffer) Push(err error) {
	if err == nil {
		return
	}

	message := pkgerrors.MetadataFor(pkgerrors.CodeInternal).PublicMessage
	if typed := pkgerrors.As(err); typed != nil {
		message = pkgerrors.MetadataFor(typed.Code()).PublicMessage
		if m := typed.Message(); m != "" {
			message = m
		}
	}
	b.PushText(LevelError, message)
}

// PushText enqueues an ad-hoc toast.
func (b *Buffer) PushText(level Level, message string) {
	if message == "" {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.toasts = append(b.toasts, Toast{
		ID:      uuid.NewString(),
		Level:   level,
		Message: message,
	})
	if len(b.toasts) > b.capacity {
		b.toasts = b.toasts[len(b.toasts)-b.capacity:]
	}
}

// Drain returns all pending toasts and clears the buffer.
func (b *Buffer) Drain() []Toast {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.toasts
	b.toasts = nil
	return out
}
