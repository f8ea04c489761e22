package errx

import (
	"errors"
	"fmt"
	"testing"
)

func TestE(t *testing.T) {
	t.Run("returns nil when error is nil", func(t *testing.T) {
		got := E("op", NotFound, nil)
		if got != nil {
			t.Errorf("E() with nil error = %v, want nil", got)
		}
	})

	t.Run("constructs Error with all fields", func(t *testing.T) {
		root := errors.New("root cause")
		err := E("store.Lookup", NotFound, root)

		var e *Error
		if !errors.As(err, &e) {
			t.Fatal("expected error to be of type *errx.Error")
		}

		if got, want := e.Op, "store.Lookup"; got != want {
			t.Errorf("Op = %q, want %q", got, want)
		}
		if got, want := e.Kind, NotFound; got != want {
			t.Errorf("Kind = %v, want %v", got, want)
		}
		if !errors.Is(e.Err, root) {
			t.Errorf("Err = %v, want %v", e.Err, root)
		}
	})

	t.Run("preserves all error kinds", func(t *testing.T) {
		kinds := []Kind{Unknown, NotFound, Conflict, Invalid, Unavailable, Internal}
		root := errors.New("test error")

		for _, kind := range kinds {
			t.Run(fmt.Sprintf("kind_%d", kind), func(t *testing.T) {
				err := E("operation", kind, root)
				if got := KindOf(err); got != kind {
					t.Errorf("KindOf() = %v, want %v", got, kind)
				}
			})
		}
	})
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "nil inner error returns op",
			err:  &Error{Op: "handler.Redirect", Kind: NotFound, Err: nil},
			want: "handler.Redirect",
		},
		{
			name: "empty op returns inner error message",
			err:  &Error{Op: "", Kind: Unknown, Err: errors.New("root cause")},
			want: "root cause",
		},
		{
			name: "normal case formats op and error",
			err:  &Error{Op: "service.Resolve", Kind: NotFound, Err: errors.New("root cause")},
			want: "service.Resolve: root cause",
		},
		{
			name: "both empty returns empty op",
			err:  &Error{Op: "", Kind: Unknown, Err: nil},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	t.Run("unwraps to inner error", func(t *testing.T) {
		root := errors.New("root")
		err := E("store.Lookup", NotFound, root)

		if !errors.Is(err, root) {
			t.Error("errors.Is() failed to identify root error through unwrapping")
		}
	})

	t.Run("supports nested wrapping", func(t *testing.T) {
		root := errors.New("database error")
		layer1 := E("store.Lookup", Unavailable, root)
		layer2 := E("service.Resolve", KindOf(layer1), layer1)
		layer3 := E("handler.Redirect", KindOf(layer2), layer2)

		if !errors.Is(layer3, root) {
			t.Error("errors.Is() failed with deeply nested errors")
		}
	})

	t.Run("returns nil when Err is nil", func(t *testing.T) {
		err := &Error{Op: "test", Kind: Unknown, Err: nil}
		if unwrapped := err.Unwrap(); unwrapped != nil {
			t.Errorf("Unwrap() = %v, want nil", unwrapped)
		}
	})
}

func TestKindOf(t *testing.T) {
	t.Run("returns Unknown for standard error", func(t *testing.T) {
		err := errors.New("standard error")
		if got := KindOf(err); got != Unknown {
			t.Errorf("KindOf() = %v, want %v", got, Unknown)
		}
	})

	t.Run("returns Unknown for nil error", func(t *testing.T) {
		if got := KindOf(nil); got != Unknown {
			t.Errorf("KindOf(nil) = %v, want %v", got, Unknown)
		}
	})

	t.Run("extracts kind through wrapping chain", func(t *testing.T) {
		root := errors.New("root")
		store := E("store.Lookup", NotFound, root)
		service := E("service.Resolve", KindOf(store), store)
		handler := E("handler.Redirect", KindOf(service), service)

		if got := KindOf(handler); got != NotFound {
			t.Errorf("KindOf() = %v, want %v", got, NotFound)
		}
	})

	t.Run("finds first Kind in chain with mixed errors", func(t *testing.T) {
		root := errors.New("root")
		wrapped := fmt.Errorf("wrapped: %w", root)
		errxErr := E("operation", Conflict, wrapped)

		if got := KindOf(errxErr); got != Conflict {
			t.Errorf("KindOf() = %v, want %v", got, Conflict)
		}
	})
}

func TestOpOf(t *testing.T) {
	t.Run("returns empty for standard error", func(t *testing.T) {
		err := errors.New("standard error")
		if got := OpOf(err); got != "" {
			t.Errorf("OpOf() = %q, want empty string", got)
		}
	})

	t.Run("returns empty for nil error", func(t *testing.T) {
		if got := OpOf(nil); got != "" {
			t.Errorf("OpOf(nil) = %q, want empty string", got)
		}
	})

	t.Run("extracts outermost op from chain", func(t *testing.T) {
		root := errors.New("root")
		store := E("store.Insert", Conflict, root)
		service := E("service.Shorten", KindOf(store), store)

		// errors.As finds the first (outermost) match
		if got, want := OpOf(service), "service.Shorten"; got != want {
			t.Errorf("OpOf() = %q, want %q", got, want)
		}
	})
}

func TestErrorsAs(t *testing.T) {
	t.Run("does not match standard errors", func(t *testing.T) {
		err := errors.New("standard error")

		var e *Error
		if errors.As(err, &e) {
			t.Error("errors.As() = true for standard error, want false")
		}
	})

	t.Run("finds errx.Error through fmt.Errorf wrapping", func(t *testing.T) {
		errxErr := E("operation", Invalid, errors.New("bad input"))
		wrapped := fmt.Errorf("context: %w", errxErr)

		var e *Error
		if !errors.As(wrapped, &e) {
			t.Error("errors.As() failed to find errx.Error through fmt.Errorf wrapping")
		}
	})
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Unknown, "Unknown"},
		{NotFound, "NotFound"},
		{Conflict, "Conflict"},
		{Invalid, "Invalid"},
		{Unavailable, "Unavailable"},
		{Internal, "Internal"},
		{Kind(99), "Kind(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := tt.kind.String()
			if got != tt.want {
				t.Errorf("Kind.String() = %q, want %q", got, tt.want)
			}
		})
	}
}
