package validation

import (
	"errors"
	"testing"
)

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type toggle struct {
	Star *bool `json:"star" validate:"required"`
}

func TestValidateStruct(t *testing.T) {
	if err := ValidateStruct(&credentials{Email: "a@b.co", Password: "x"}); err != nil {
		t.Fatalf("valid credentials rejected: %v", err)
	}

	err := ValidateStruct(&credentials{Email: "nope"})
	var verrs Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("err = %T %v, want Errors", err, err)
	}
	if len(verrs) != 2 {
		t.Fatalf("got %d field errors: %v", len(verrs), verrs)
	}
	if verrs[0].Field != "email" || verrs[0].Tag != "email" {
		t.Errorf("first error = %+v", verrs[0])
	}
	if verrs[1].Error() != "password is required" {
		t.Errorf("second error = %q", verrs[1].Error())
	}
}

func TestRequiredPointerBool(t *testing.T) {
	if err := ValidateStruct(&toggle{}); err == nil {
		t.Error("missing star accepted")
	}
	off := false
	if err := ValidateStruct(&toggle{Star: &off}); err != nil {
		t.Errorf("explicit false rejected: %v", err)
	}
}

func TestEchoAdapter(t *testing.T) {
	var v Echo
	if err := v.Validate(&credentials{Email: "a@b.co", Password: "x"}); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if err := v.Validate(&credentials{}); err == nil {
		t.Error("empty credentials accepted")
	}
}
