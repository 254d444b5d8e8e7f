package httpapi

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/datalyn/internal/common"
	"github.com/dmitrijs2005/datalyn/internal/cryptox"
)

// MinPasswordLength applies to new passwords only.
const MinPasswordLength = 6

var reportSchedules = map[string]struct{}{
	"daily":   {},
	"weekly":  {},
	"monthly": {},
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorValidation, fmt.Sprintf(format, args...))
}

// normalizeEmail trims surrounding whitespace and accepts only a bare
// address (no display name, no angle brackets). Case is preserved.
func normalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", invalid("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return "", invalid("email is not a valid address")
	}
	return email, nil
}

func validateSignup(req *signupRequest) error {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return err
	}
	req.Email = email

	if utf8.RuneCountInString(req.Password) < MinPasswordLength {
		return invalid("password must be at least %d characters", MinPasswordLength)
	}
	if len(req.Password) > cryptox.MaxPasswordBytes {
		return invalid("password must be at most %d bytes", cryptox.MaxPasswordBytes)
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return invalid("name is required")
	}
	return nil
}

func validateLogin(req *loginRequest) error {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return err
	}
	req.Email = email

	if req.Password == "" {
		return invalid("password is required")
	}
	return nil
}

func validateSettings(req *settingsRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return invalid("name must not be empty")
		}
		req.Name = &name
	}
	if req.ReportSchedule != nil {
		if _, ok := reportSchedules[*req.ReportSchedule]; !ok {
			return invalid("report_schedule must be one of daily, weekly, monthly")
		}
	}
	return nil
}
