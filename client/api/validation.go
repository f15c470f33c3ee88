package api

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRequest is wrapped by client-side validation failures; no call is made.
var ErrInvalidRequest = errors.New("invalid request")

const (
	otpLength         = 6
	minPasswordLength = 6
	minPhoneLength    = 10
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

func validateOTP(otp string) error {
	if len(otp) != otpLength {
		return invalid("OTP must be exactly %d digits", otpLength)
	}
	for _, r := range otp {
		if r < '0' || r > '9' {
			return invalid("OTP must be exactly %d digits", otpLength)
		}
	}
	return nil
}

func validateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return invalid("email is required")
	}
	if strings.TrimSpace(password) == "" {
		return invalid("password is required")
	}
	return nil
}

func (r *SignUpRequest) validate() error {
	if r.FirstName == "" || r.LastName == "" || r.Email == "" || r.Password == "" || r.Token == "" || r.Role == "" {
		return invalid("all fields are required")
	}
	if len(r.Password) < minPasswordLength {
		return invalid("password must be at least %d characters long", minPasswordLength)
	}
	if r.Phone != "" && len(r.Phone) < minPhoneLength {
		return invalid("phone number must be at least %d digits", minPhoneLength)
	}
	return nil
}

func (r *SignUpRequest) payload() *signUpPayload {
	return &signUpPayload{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Username:  strings.TrimSpace(r.FirstName + " " + r.LastName),
		Email:     r.Email,
		Password:  r.Password,
		Role:      strings.ToUpper(r.Role),
		Token:     r.Token,
		Phone:     r.Phone,
	}
}
