package usecase

import (
	"errors"
	"fmt"
	"testing"
)

func TestFieldErrors(t *testing.T) {
	validation := &ValidationError{Fields: map[string]string{"surname": "surname is required"}}
	if got := FieldErrors(validation); got["surname"] != "surname is required" {
		t.Errorf("FieldErrors(validation) = %v", got)
	}

	conflict := &ConflictError{Field: "login", Message: "login already exists"}
	if got := FieldErrors(fmt.Errorf("wrapped: %w", conflict)); got["login"] != "login already exists" {
		t.Errorf("FieldErrors(conflict) = %v", got)
	}

	if got := FieldErrors(errors.New("boom")); got != nil {
		t.Errorf("FieldErrors(internal) = %v, want nil", got)
	}
	if got := FieldErrors(ErrRecordNotFound); got != nil {
		t.Errorf("FieldErrors(not found) = %v, want nil", got)
	}
}

func TestFieldErrors_ReturnsCopy(t *testing.T) {
	validation := &ValidationError{Fields: map[string]string{"name": "name is required"}}
	FieldErrors(validation)["general"] = "x"

	if _, ok := validation.Fields["general"]; ok {
		t.Error("FieldErrors() must not alias the error's map")
	}
}

func TestParseID(t *testing.T) {
	if _, ok := parseID("not-a-uuid"); ok {
		t.Error("parseID(garbage) ok = true")
	}
	if _, ok := parseID("00000000-0000-0000-0000-000000000000"); ok {
		t.Error("parseID(nil uuid) ok = true")
	}
	if _, ok := parseID("3f2b8e0e-6a57-4d0c-9f6f-0c3a9b1e2d4f"); !ok {
		t.Error("parseID(valid) ok = false")
	}
}
