package notify

import (
	"errors"
	"testing"

	pkgerrors "github.com/paylaterhq/storefront-core/pkg/errors"
)

func TestPushPrefersBackendMessage(t *testing.T) {
	buffer := NewBuffer(0)
	buffer.Push(pkgerrors.New(pkgerrors.CodeValidation, "card number is invalid"))

	toasts := buffer.Drain()
	if len(toasts) != 1 {
		t.Fatalf("expected one toast, got %d", len(toasts))
	}
	if toasts[0].Message != "card number is invalid" {
		t.Fatalf("expected backend message, got %q", toasts[0].Message)
	}
	if toasts[0].Level != LevelError {
		t.Fatalf("expected error level, got %s", toasts[0].Level)
	}
	if toasts[0].ID == "" {
		t.Fatal("expected generated toast id")
	}
}

func TestPushFallsBackToPublicMessage(t *testing.T) {
	buffer := NewBuffer(0)
	buffer.Push(pkgerrors.New(pkgerrors.CodeTransient, ""))

	toasts := buffer.Drain()
	want := pkgerrors.MetadataFor(pkgerrors.CodeTransient).PublicMessage
	if len(toasts) != 1 || toasts[0].Message != want {
		t.Fatalf("expected public message %q, got %+v", want, toasts)
	}
}

func TestPushUntypedErrorUsesGenericMessage(t *testing.T) {
	buffer := NewBuffer(0)
	buffer.Push(errors.New("pq: deadlock detected"))

	toasts := buffer.Drain()
	want := pkgerrors.MetadataFor(pkgerrors.CodeInternal).PublicMessage
	if len(toasts) != 1 || toasts[0].Message != want {
		t.Fatalf("internal details must never leak into toasts, got %+v", toasts)
	}
}

func TestPushNilIsNoOp(t *testing.T) {
	buffer := NewBuffer(0)
	buffer.Push(nil)
	if toasts := buffer.Drain(); len(toasts) != 0 {
		t.Fatalf("expected empty buffer, got %+v", toasts)
	}
}

func TestDrainClears(t *testing.T) {
	buffer := NewBuffer(0)
	buffer.PushText(LevelInfo, "saved")

	if toasts := buffer.Drain(); len(toasts) != 1 {
		t.Fatalf("expected one toast, got %+v", toasts)
	}
	if toasts := buffer.Drain(); len(toasts) != 0 {
		t.Fatalf("expected drained buffer, got %+v", toasts)
	}
}

func TestOverflowDropsOldest(t *testing.T) {
	buffer := NewBuffer(2)
	buffer.PushText(LevelInfo, "first")
	buffer.PushText(LevelInfo, "second")
	buffer.PushText(LevelInfo, "third")

	toasts := buffer.Drain()
	if len(toasts) != 2 {
		t.Fatalf("expected capacity 2, got %d", len(toasts))
	}
	if toasts[0].Message != "second" || toasts[1].Message != "third" {
		t.Fatalf("expected oldest dropped, got %+v", toasts)
	}
}
