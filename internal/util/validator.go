package util

import (
	"errors"
	"net/mail"
	"strings"
)

// ValidateEmail retorna erro para e-mails inválidos.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email obrigatório")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("email inválido")
	}
	return nil
}

// ValidatePassword verifica o tamanho mínimo de senha.
func ValidatePassword(password string) error {
	if len([]rune(password)) < 6 {
		return errors.New("senha deve ter pelo menos 6 caracteres")
	}
	return nil
}

// ValidateNome exige nome com pelo menos duas letras.
func ValidateNome(nome string) error {
	if len([]rune(strings.TrimSpace(nome))) < 2 {
		return errors.New("nome deve ter pelo menos 2 caracteres")
	}
	return nil
}
