package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const (
	maxDeckNameLength = 100
	maxCardTextLength = 500
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateName checks if a name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	return nil
}

// ValidateDeckName checks if a deck name is valid
func ValidateDeckName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "deck name is required"}
	}
	if len(name) > maxDeckNameLength {
		return ValidationError{Field: "name", Message: fmt.Sprintf("deck name must be at most %d characters", maxDeckNameLength)}
	}
	return nil
}

// ValidateCardText checks one side of a card. field is the JSON field name
// reported back to the client ("sourceText" or "targetText").
func ValidateCardText(field, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ValidationError{Field: field, Message: "card text is required"}
	}
	if len(text) > maxCardTextLength {
		return ValidationError{Field: field, Message: fmt.Sprintf("card text must be at most %d characters", maxCardTextLength)}
	}
	return nil
}
