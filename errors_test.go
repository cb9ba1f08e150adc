package webfinger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorKindsAreDisjoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  *Error
		want Kind
	}{
		{contentError("bad resource"), KindContent},
		{jrdError(nil, "bad descriptor"), KindJRD},
		{networkError("https://example.org", errors.New("refused")), KindNetwork},
		{httpError("https://example.org", 404), KindHTTP},
	}
	checks := []struct {
		kind Kind
		fn   func(error) bool
	}{
		{KindContent, IsContent},
		{KindJRD, IsJRD},
		{KindNetwork, IsNetwork},
		{KindHTTP, IsHTTP},
	}
	for _, tt := range tests {
		for _, check := range checks {
			if got := check.fn(tt.err); got != (tt.want == check.kind) {
				t.Fatalf("Is%v(%v)=%v", check.kind, tt.err, got)
			}
		}
	}
}

func TestErrorIsByKind(t *testing.T) {
	t.Parallel()

	err := httpError("https://example.org", 410)
	if !errors.Is(err, &Error{Kind: KindHTTP}) {
		t.Fatal("kind match failed")
	}
	if errors.Is(err, &Error{Kind: KindNetwork}) {
		t.Fatal("kind mismatch matched")
	}
}

func TestErrorMatchesThroughWrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("lookup alice: %w", networkError("https://example.org", context.DeadlineExceeded))
	if !IsNetwork(wrapped) {
		t.Fatalf("err=%v", wrapped)
	}
	if !errors.Is(wrapped, context.DeadlineExceeded) {
		t.Fatalf("cause lost: %v", wrapped)
	}
}

func TestStatusCode(t *testing.T) {
	t.Parallel()

	if got := StatusCode(httpError("https://example.org", 404)); got != 404 {
		t.Fatalf("status=%d", got)
	}
	if got := StatusCode(networkError("https://example.org", errors.New("refused"))); got != 0 {
		t.Fatalf("status=%d want=0", got)
	}
	if got := StatusCode(nil); got != 0 {
		t.Fatalf("status=%d want=0", got)
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	msg := httpError("https://example.org/.well-known/webfinger", 500).Error()
	for _, part := range []string{"webfinger", "http", "500", "https://example.org"} {
		if !strings.Contains(msg, part) {
			t.Fatalf("message %q missing %q", msg, part)
		}
	}
}
