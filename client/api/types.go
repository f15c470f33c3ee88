package api

import (
	"encoding/json"
	"strings"

	"github.com/edupath/dashclient/internal/conv"
)

// ID is a backend primary key; the API emits it as a number or a string.
type ID string

func (i *ID) UnmarshalJSON(data []byte) error {
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*i = ID(conv.AsString(value))
	return nil
}

func (i ID) String() string {
	return string(i)
}

// Page is a paginated listing.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasNext reports whether another page exists.
func (p *Page[T]) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

type User struct {
	ID         ID      `json:"id"`
	Username   string  `json:"username,omitempty"`
	Email      string  `json:"email,omitempty"`
	FirstName  string  `json:"first_name,omitempty"`
	LastName   string  `json:"last_name,omitempty"`
	Role       string  `json:"role,omitempty"`
	Groups     []Group `json:"groups,omitempty"`
	Phone      string  `json:"phone,omitempty"`
	IsActive   bool    `json:"is_active,omitempty"`
	Status     string  `json:"status,omitempty"`
	DateJoined string  `json:"date_joined,omitempty"`
}

// Group is a backend permission group.
type Group struct {
	Name string `json:"name"`
}

// Group returns the lower-cased name of the user's primary group, or "" when the user has none.
func (u *User) Group() string {
	if len(u.Groups) == 0 {
		return ""
	}
	return strings.ToLower(u.Groups[0].Name)
}

// Record is a loosely shaped row (students, account details) rendered as is.
type Record map[string]interface{}

type OTPRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	OTP        string `json:"otp"`
	RememberMe bool   `json:"-"`
}

type LoginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	Role    string `json:"role"`
	PK      ID     `json:"pk"`
}

type SignUpRequest struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
	Token     string
	Phone     string
}

type signUpPayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Token     string `json:"token"`
	Phone     string `json:"phone,omitempty"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type InviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Invite is the invitation looked up by its token during signup.
type Invite struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}
