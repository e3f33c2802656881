package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotFound, "template not found")
		if err.Error() != "[NOT_FOUND] template not found" {
			t.Errorf("expected [NOT_FOUND] template not found, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("unexpected indent")
		err := Wrap(original, CodeSyntax, "parse failed")
		expected := "[SYNTAX_ERROR] parse failed: unexpected indent"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
		if !errors.Is(err, original) {
			t.Error("expected wrapped error to unwrap to original")
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeValidationError, "invalid style")
		if !IsCode(err, CodeValidationError) {
			t.Error("expected IsCode to return true for CodeValidationError")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to return false for CodeNotFound")
		}
	})

	t.Run("IsCodeThroughFmtWrap", func(t *testing.T) {
		err := fmt.Errorf("render: %w", New(CodeNotFound, "missing def.txt"))
		if !IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to see through fmt wrapping")
		}
	})

	t.Run("AddContext", func(t *testing.T) {
		err := AddContext(New(CodeSyntax, "bad source"), CtxPath, "a.py")
		var de *DomainError
		if !errors.As(err, &de) {
			t.Fatal("expected DomainError")
		}
		if de.Context[CtxPath] != "a.py" {
			t.Errorf("expected path context, got %v", de.Context)
		}

		foreign := AddContext(errors.New("boom"), CtxOperation, "write")
		if !IsCode(foreign, CodeInternal) {
			t.Errorf("expected foreign error to be wrapped as internal, got %v", foreign)
		}
	})
}
