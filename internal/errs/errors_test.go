package errs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrKindInvalidInput, "unknown dialect: sqlite"),
			want: "[invalid_input] unknown dialect: sqlite",
		},
		{
			name: "with cause",
			err:  Wrap(ErrKindTimeout, "introspection timed out", context.DeadlineExceeded),
			want: "[timeout] introspection timed out: context deadline exceeded",
		},
		{
			name: "formatted",
			err:  Newf(ErrKindInternal, "enum %s.%s was never registered", "public", "mood"),
			want: "[internal] enum public.mood was never registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestPredicates_TraverseWrapping(t *testing.T) {
	base := Wrap(ErrKindConnectionFailed, "ping failed", errors.New("dial tcp: refused"))
	wrapped := fmt.Errorf("connect: %w", base)

	assert.True(t, IsConnectionFailed(wrapped))
	assert.False(t, IsTimeout(wrapped))
	assert.Equal(t, ErrKindConnectionFailed, KindOf(wrapped))
	assert.Equal(t, ErrKindUnknown, KindOf(errors.New("plain")))
	assert.True(t, errors.Is(Wrap(ErrKindTimeout, "x", context.Canceled), context.Canceled))
}

func TestErrKind_String(t *testing.T) {
	kinds := map[ErrKind]string{
		ErrKindUnknown:          "unknown",
		ErrKindNotFound:         "not_found",
		ErrKindConnectionFailed: "connection_failed",
		ErrKindTimeout:          "timeout",
		ErrKindQueryFailed:      "query_failed",
		ErrKindInvalidInput:     "invalid_input",
		ErrKindPermissionDenied: "permission_denied",
		ErrKindInternal:         "internal",
	}
	for kind, want := range kinds {
		assert.Equal(t, want, kind.String())
	}
}

func TestErrKind_StringOutOfRange(t *testing.T) {
	assert.Equal(t, "unknown", ErrKind(42).String())
	assert.Equal(t, "unknown", ErrKind(-1).String())
}

func TestKindOf_NilAndNested(t *testing.T) {
	assert.Equal(t, ErrKindUnknown, KindOf(nil))

	inner := New(ErrKindNotFound, "object missing")
	outer := Wrap(ErrKindQueryFailed, "publish failed", inner)
	assert.Equal(t, ErrKindQueryFailed, KindOf(outer), "outermost kind wins")
	assert.True(t, errors.Is(outer, inner))
}
