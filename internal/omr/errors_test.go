package omr

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_KindMatching(t *testing.T) {
	err := fmt.Errorf("scan: %w", NewCodeNotFoundError("metadata", "no code decoded", errors.New("qr: not found")))

	if !IsKind(err, KindCodeNotFound) {
		t.Errorf("IsKind should see through wrapping, got kind %q", KindOf(err))
	}
	if IsKind(err, KindMalformedMetadata) {
		t.Error("wrong kind matched")
	}
	if !errors.Is(err, &Error{Kind: KindCodeNotFound}) {
		t.Error("errors.Is should match on kind")
	}

	var e *Error
	if !errors.As(err, &e) || e.Stage != "metadata" {
		t.Errorf("errors.As: got %+v", e)
	}
	if errors.Unwrap(e) == nil {
		t.Error("cause should be preserved")
	}
}

func TestKindOf_PlainError(t *testing.T) {
	if k := KindOf(errors.New("boom")); k != "" {
		t.Errorf("plain error kind: got %q", k)
	}
	if IsKind(nil, KindNotFound) {
		t.Error("nil error has no kind")
	}
}
