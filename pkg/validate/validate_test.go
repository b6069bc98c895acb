package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/inbox/pkg/validate"
)

type registerInput struct {
	Name                 string `json:"name"                  validate:"required,min=2,max=100"`
	Email                string `json:"email"                 validate:"required,email"`
	Password             string `json:"password"              validate:"required,min=6,confirmed"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
	Quantity             int    `json:"quantity"              validate:"required,gte=1,lte=1000"`
	Status               string `json:"status"                validate:"required,in=pending,approved,in_progress"`
	Nickname             string `json:"nickname"              validate:"nullable,alpha_dash"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Name:                 "Ana Souza",
		Email:                "ana@example.com",
		Password:             "secret123",
		PasswordConfirmation: "secret123",
		Quantity:             3,
		Status:               "pending",
		Nickname:             "", // nullable — allowed to be empty
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	if !validate.HasErrors(errs) {
		t.Error("expected required errors")
	}
	if _, ok := errs["name"]; !ok {
		t.Error("expected name to be required")
	}
	if _, ok := errs["email"]; !ok {
		t.Error("expected email to be required")
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{Email: "not-an-email"})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email validation error")
	}
	errs = validate.Struct(in{Email: "valid@example.com"})
	if validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestDateRule(t *testing.T) {
	type in struct {
		StartDate string `json:"start_date" validate:"required,date"`
	}
	if errs := validate.Struct(in{StartDate: "2026-09-01"}); validate.HasErrors(errs) {
		t.Errorf("expected ISO date to pass, got: %v", errs)
	}
	if errs := validate.Struct(in{StartDate: "next tuesday"}); !validate.HasErrors(errs) {
		t.Error("expected unparseable date to fail")
	}
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Quantity int `json:"quantity" validate:"required,gte=1,lte=100"`
	}
	if errs := validate.Struct(in{Quantity: 0}); !validate.HasErrors(errs) {
		t.Error("expected quantity < 1 to fail")
	}
	if errs := validate.Struct(in{Quantity: 5}); validate.HasErrors(errs) {
		t.Errorf("expected quantity 5 to pass, got: %v", errs)
	}
}

func TestInRule(t *testing.T) {
	type in struct {
		Status string `json:"status" validate:"required,in=pending,approved,in_progress"`
	}
	if errs := validate.Struct(in{Status: "archived"}); !validate.HasErrors(errs) {
		t.Error("expected invalid status to fail")
	}
	if errs := validate.Struct(in{Status: "approved"}); validate.HasErrors(errs) {
		t.Errorf("expected approved to pass: %v", errs)
	}
}

func TestConfirmedRule(t *testing.T) {
	// The rule sits on the base field and checks the <field>_confirmation
	// sibling, as in the register controller.
	type in struct {
		Password             string `json:"password"              validate:"required,min=6,confirmed"`
		PasswordConfirmation string `json:"password_confirmation" validate:"required"`
	}
	if errs := validate.Struct(in{Password: "secret123", PasswordConfirmation: "wrong"}); !validate.HasErrors(errs) {
		t.Error("expected confirmation mismatch to fail")
	}
	if _, ok := validate.Struct(in{Password: "secret123", PasswordConfirmation: "wrong"})["password"]; !ok {
		t.Error("expected the mismatch to be reported on the base field")
	}
	if errs := validate.Struct(in{Password: "secret123", PasswordConfirmation: "secret123"}); validate.HasErrors(errs) {
		t.Errorf("expected matching confirmation to pass: %v", errs)
	}
}

func TestNullableSkipsRules(t *testing.T) {
	type in struct {
		Nickname string `json:"nickname" validate:"nullable,alpha_dash"`
	}
	if errs := validate.Struct(in{Nickname: ""}); validate.HasErrors(errs) {
		t.Errorf("expected empty nullable to pass: %v", errs)
	}
	if errs := validate.Struct(in{Nickname: "bad nickname!"}); !validate.HasErrors(errs) {
		t.Error("expected invalid alpha_dash to fail")
	}
}

func TestBetweenRule(t *testing.T) {
	type in struct {
		Quantity int `json:"quantity" validate:"required,between=1,50"`
	}
	if errs := validate.Struct(in{Quantity: 75}); !validate.HasErrors(errs) {
		t.Error("expected quantity > 50 to fail")
	}
	if errs := validate.Struct(in{Quantity: 25}); validate.HasErrors(errs) {
		t.Errorf("expected quantity 25 to pass: %v", errs)
	}
}
