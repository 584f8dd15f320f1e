package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndParse(t *testing.T) {
	mgr := NewTokenManager(strings.Repeat("s", 32), 2*time.Hour)

	userID := uuid.New().String()
	token, expires, err := mgr.Generate(userID, "ana@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if until := time.Until(expires); until < time.Hour || until > 2*time.Hour {
		t.Fatalf("unexpected expiry window: %v", until)
	}

	claims, err := mgr.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != userID {
		t.Fatalf("expected subject %s, got %s", userID, claims.Subject)
	}
	if claims.Email != "ana@example.com" {
		t.Fatalf("expected email claim, got %s", claims.Email)
	}
}

func TestParseTokenExpirado(t *testing.T) {
	mgr := NewTokenManager(strings.Repeat("s", 32), -time.Minute)

	token, _, err := mgr.Generate(uuid.New().String(), "ana@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	_, err = mgr.Parse(token)
	if !errors.Is(err, ErrTokenExpirado) {
		t.Fatalf("expected ErrTokenExpirado, got %v", err)
	}
}

func TestParseRejeitaAssinaturaDeOutroSegredo(t *testing.T) {
	mgr := NewTokenManager(strings.Repeat("a", 32), time.Hour)
	outro := NewTokenManager(strings.Repeat("b", 32), time.Hour)

	token, _, err := outro.Generate(uuid.New().String(), "ana@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := mgr.Parse(token); !errors.Is(err, ErrTokenInvalido) {
		t.Fatalf("expected ErrTokenInvalido, got %v", err)
	}

	if _, err := mgr.Parse("não-é-um-jwt"); !errors.Is(err, ErrTokenInvalido) {
		t.Fatalf("expected ErrTokenInvalido for garbage, got %v", err)
	}
}
