package user

import (
	"strings"
	"unicode"

	"appointly/utils"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func validateName(name string) error {
	if len(strings.TrimSpace(name)) < 3 {
		return utils.ValidationError("name must be at least 3 characters long")
	}
	return nil
}

func validateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return utils.ValidationError("invalid email address")
	}
	return nil
}

// validatePassword requires 8+ characters with upper, lower, digit and symbol.
func validatePassword(password string) error {
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	if len(password) < 8 || !upper || !lower || !digit || !symbol {
		return utils.ValidationError("password must be at least 8 characters and include uppercase, lowercase, number, and symbol")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
