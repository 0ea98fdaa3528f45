package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := NotFound("Task not found")
	kind, ok := KindOf(err)
	if !ok || kind != KindNotFound {
		t.Fatalf("KindOf = (%v, %v), want (KindNotFound, true)", kind, ok)
	}

	wrapped := fmt.Errorf("handling request: %w", err)
	if !IsKind(wrapped, KindNotFound) {
		t.Error("kind should survive wrapping with %w")
	}

	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("plain errors carry no kind")
	}
}

func TestStorageHidesCause(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := Storage(cause)

	if PublicMessage(err) != "storage unavailable" {
		t.Errorf("public message leaked: %q", PublicMessage(err))
	}
	if !errors.Is(err, cause) {
		t.Error("cause should still be reachable via errors.Is")
	}
}

func TestPublicMessageFallback(t *testing.T) {
	if got := PublicMessage(errors.New("boom")); got != "internal error" {
		t.Errorf("PublicMessage = %q, want \"internal error\"", got)
	}
}
