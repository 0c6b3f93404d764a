package validator

import (
	"context"
	"net/mail"
	"strings"
	"unicode/utf8"

	"onlinestore/internal/usecase"
)

const (
	passwordMinLen   = 8
	passwordMaxLen   = 32
	passwordSpecials = "!@#$%^&*"
)

type authValidator struct{}

// Usecaseは interface を依存注入
func NewAuthValidator() usecase.AuthValidator {
	return &authValidator{}
}

// 登録の入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, email string, password string) error {
	var details []usecase.FieldError

	if d, ok := checkEmail(email); !ok {
		details = append(details, d)
	}
	details = append(details, checkPassword(password)...)

	if len(details) > 0 {
		return usecase.NewValidationError("Validation failed", details)
	}
	return nil
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	var details []usecase.FieldError

	if d, ok := checkEmail(email); !ok {
		details = append(details, d)
	}
	// 必須チェック
	if password == "" {
		details = append(details, usecase.FieldError{Field: "password", Message: "is required"})
	}

	if len(details) > 0 {
		return usecase.NewValidationError("Validation failed", details)
	}
	return nil
}

func checkEmail(email string) (usecase.FieldError, bool) {
	email = strings.TrimSpace(email)
	if email == "" {
		return usecase.FieldError{Field: "email", Message: "is required"}, false
	}
	if !isEmailLike(email) {
		return usecase.FieldError{Field: "email", Message: "must be a valid email"}, false
	}
	return usecase.FieldError{}, true
}

// 8..32文字、大文字・数字・記号(!@#$%^&*)をそれぞれ1つ以上
func checkPassword(pw string) []usecase.FieldError {
	var out []usecase.FieldError
	add := func(msg string) {
		out = append(out, usecase.FieldError{Field: "password", Message: msg})
	}

	n := utf8.RuneCountInString(pw)
	if n < passwordMinLen || n > passwordMaxLen {
		add("must be between 8 and 32 characters")
	}

	var upper, digit, special bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	if !upper {
		add("must contain an uppercase letter")
	}
	if !digit {
		add("must contain a digit")
	}
	if !special {
		add("must contain one of !@#$%^&*")
	}
	return out
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	// "Name <a@b>" 形式は不可
	if addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	return at > 0 && strings.Contains(s[at+1:], ".")
}
