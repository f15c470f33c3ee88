package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/edupath/dashclient/client/auth/session"
)

// SignUp registers an invited user.
func (c *Client) SignUp(ctx context.Context, request *SignUpRequest) (*User, error) {
	if err := request.validate(); err != nil {
		return nil, err
	}
	return public[User](ctx, c, http.MethodPost, "users/", request.payload())
}

// RequestOTP verifies email and password and asks the backend to send a one-time password.
func (c *Client) RequestOTP(ctx context.Context, email, password string) error {
	if err := validateCredentials(email, password); err != nil {
		return err
	}
	_, err := public[empty](ctx, c, http.MethodPost, "otp/", &OTPRequest{Email: email, Password: password})
	return err
}

// Login exchanges email, password and OTP for tokens and stores them in the session.
func (c *Client) Login(ctx context.Context, request *LoginRequest) (*LoginResponse, error) {
	if err := validateCredentials(request.Email, request.Password); err != nil {
		return nil, err
	}
	if err := validateOTP(request.OTP); err != nil {
		return nil, err
	}
	resp, err := public[LoginResponse](ctx, c, http.MethodPost, "token/", request)
	if err != nil {
		return nil, err
	}
	if resp.Access == "" {
		return nil, fmt.Errorf("login response did not contain an access token")
	}
	role, err := session.ParseRole(resp.Role)
	if err != nil {
		c.logger.Warn("unrecognised role, storing as is", "role", resp.Role)
		role = session.Role(strings.ToUpper(resp.Role))
	}
	credentials := session.Credentials{
		AccessToken:  resp.Access,
		RefreshToken: resp.Refresh,
		Role:         role,
		UserID:       resp.PK.String(),
		RememberMe:   request.RememberMe,
	}
	if err = c.Session().SetCredentials(ctx, credentials); err != nil {
		c.logger.Warn("session was not persisted", "error", err)
	}
	c.logger.Info("logged in", "userId", credentials.UserID, "role", credentials.Role)
	return resp, nil
}

// Logout discards the local session.
func (c *Client) Logout(ctx context.Context) error {
	return c.Session().Clear(ctx)
}
