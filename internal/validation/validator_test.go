package validation

import (
	"errors"
	"testing"

	domainerrors "github.com/estetoscopio/esteto-server/internal/errors"
)

type signupInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestValidate_OK(t *testing.T) {
	v := New()

	err := v.Validate(signupInput{
		Name:     "Maria Souza",
		Email:    "maria@example.com",
		Password: "senha-muito-segura",
	})
	if err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
}

func TestValidate_UsesJSONTagNames(t *testing.T) {
	v := New()

	err := v.Validate(signupInput{Name: "M", Email: "not-an-email", Password: "curta"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	var derr *domainerrors.Error
	if !errors.As(err, &derr) {
		t.Fatalf("not a domain error: %v", err)
	}
	if derr.Code != domainerrors.CodeValidation {
		t.Errorf("code = %v, want validation", derr.Code)
	}

	details, ok := derr.Details.(map[string]string)
	if !ok {
		t.Fatalf("details = %T, want map[string]string", derr.Details)
	}
	for _, field := range []string{"name", "email", "password"} {
		if _, present := details[field]; !present {
			t.Errorf("missing error for field %q, details: %v", field, details)
		}
	}
}

func TestValidate_TagColor(t *testing.T) {
	v := New()

	type tagInput struct {
		Color string `json:"color" validate:"omitempty,hexcolor"`
	}

	if err := v.Validate(tagInput{Color: "#e63946"}); err != nil {
		t.Errorf("valid color rejected: %v", err)
	}
	if err := v.Validate(tagInput{Color: "vermelho"}); err == nil {
		t.Error("invalid color accepted")
	}
	if err := v.Validate(tagInput{}); err != nil {
		t.Errorf("empty optional color rejected: %v", err)
	}
}
