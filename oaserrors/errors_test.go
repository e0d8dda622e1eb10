package oaserrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestDuplicatePathError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &DuplicatePathError{Path: "/api/users"}
		if err.Error() != "path /api/users already exists" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Is matches ErrDuplicatePath", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", &DuplicatePathError{Path: "/a"})
		if !errors.Is(err, ErrDuplicatePath) {
			t.Error("DuplicatePathError should match ErrDuplicatePath")
		}
		if errors.Is(err, ErrTypeNotFound) {
			t.Error("DuplicatePathError should not match ErrTypeNotFound")
		}
	})
}

func TestTypeNotFoundError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("no such package")
		err := &TypeNotFoundError{TypeKey: "example.User", Message: "lookup failed", Cause: cause}
		expected := "type not found: example.User: lookup failed: no such package"
		if err.Error() != expected {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		err := &TypeNotFoundError{}
		if err.Error() != "type not found" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("underlying")
		err := &TypeNotFoundError{Cause: cause}
		//nolint:errorlint // testing pointer identity
		if unwrapped := err.Unwrap(); unwrapped != cause {
			t.Error("Unwrap should return cause")
		}
	})

	t.Run("As extracts TypeNotFoundError", func(t *testing.T) {
		err := fmt.Errorf("schemagen: %w", &TypeNotFoundError{TypeKey: "pkg.Missing"})
		var nf *TypeNotFoundError
		if !errors.As(err, &nf) {
			t.Fatal("errors.As should succeed")
		}
		if nf.TypeKey != "pkg.Missing" {
			t.Errorf("unexpected type key: %s", nf.TypeKey)
		}
		if !errors.Is(err, ErrTypeNotFound) {
			t.Error("should match ErrTypeNotFound")
		}
	})
}

func TestAnnotationError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := &AnnotationError{
			TypeKey:  "example.User",
			Property: "name",
			Tag:      "example",
			Payload:  "Jan",
			Cause:    errors.New("invalid character 'J'"),
		}
		expected := `malformed annotation @example on example.User.name (payload "Jan"): invalid character 'J'`
		if err.Error() != expected {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		err := &AnnotationError{}
		if err.Error() != "malformed annotation" {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Is matches ErrAnnotation", func(t *testing.T) {
		err := &AnnotationError{Tag: "enum"}
		if !errors.Is(err, ErrAnnotation) {
			t.Error("AnnotationError should match ErrAnnotation")
		}
	})
}

func TestNameCollisionError(t *testing.T) {
	err := &NameCollisionError{ShortName: "User", Existing: "a.User", Incoming: "b.User"}
	expected := `schema name collision: a.User and b.User both map to "User"`
	if err.Error() != expected {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, ErrNameCollision) {
		t.Error("NameCollisionError should match ErrNameCollision")
	}
}

func TestConfigError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := &ConfigError{
			Option:  "paths./a.trace",
			Value:   "trace",
			Message: "unsupported method",
			Cause:   errors.New("boom"),
		}
		expected := "configuration error for paths./a.trace (value: trace): unsupported method: boom"
		if err.Error() != expected {
			t.Errorf("unexpected error message: %s", err.Error())
		}
	})

	t.Run("Is matches ErrConfig only", func(t *testing.T) {
		err := &ConfigError{}
		if !errors.Is(err, ErrConfig) {
			t.Error("ConfigError should match ErrConfig")
		}
		if errors.Is(err, ErrAnnotation) {
			t.Error("ConfigError should not match ErrAnnotation")
		}
	})
}
