package service

import (
	"errors"
	"testing"
)

func TestRegisterHashesPassword(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)

	user, err := svc.Register(RegisterInput{
		Username:        "newbie",
		Email:           "newbie@example.com",
		Password:        "s3cret-pass",
		PasswordConfirm: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Password == "s3cret-pass" {
		t.Fatal("expected password to be hashed")
	}

	authed, err := svc.Authenticate("newbie", "s3cret-pass")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, authed.ID)
	}
}

func TestRegisterEmailOptional(t *testing.T) {
	gdb := setupServiceTestDB(t)

	if _, err := NewUserService(gdb).Register(RegisterInput{
		Username:        "quiet",
		Password:        "long-enough",
		PasswordConfirm: "long-enough",
	}); err != nil {
		t.Fatalf("expected registration without email to succeed: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)

	tests := []struct {
		name  string
		input RegisterInput
		field string
	}{
		{name: "short username", input: RegisterInput{Username: "ab", Password: "password1", PasswordConfirm: "password1"}, field: "username"},
		{name: "bad characters", input: RegisterInput{Username: "bad name!", Password: "password1", PasswordConfirm: "password1"}, field: "username"},
		{name: "bad email", input: RegisterInput{Username: "valid", Email: "nope", Password: "password1", PasswordConfirm: "password1"}, field: "email"},
		{name: "short password", input: RegisterInput{Username: "valid", Password: "short", PasswordConfirm: "short"}, field: "password1"},
		{name: "mismatch", input: RegisterInput{Username: "valid", Password: "password1", PasswordConfirm: "password2"}, field: "password2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(tt.input)
			verr, ok := AsValidationError(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Field(tt.field) == "" {
				t.Fatalf("expected error on %s, got %+v", tt.field, verr.Fields)
			}
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	gdb := setupServiceTestDB(t)
	seedUser(t, gdb, "taken")

	_, err := NewUserService(gdb).Register(RegisterInput{Username: "Taken", Password: "password1", PasswordConfirm: "password1"})
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthenticateRejectsWrongPassword(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewUserService(gdb)

	if _, err := svc.Register(RegisterInput{Username: "alice", Password: "password1", PasswordConfirm: "password1"}); err != nil {
		t.Fatalf("failed to register: %v", err)
	}
	if _, err := svc.Authenticate("alice", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate("ghost", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
