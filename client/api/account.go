package api

import (
	"context"
	"net/http"
	"net/url"
)

// GetAccount returns the signed-in user's account details.
func (c *Client) GetAccount(ctx context.Context, id string) (Record, error) {
	ret, err := authorized[Record](ctx, c, http.MethodGet, "account/"+url.PathEscape(id)+"/", nil, nil)
	if err != nil {
		return nil, err
	}
	return *ret, nil
}

// ChangePassword changes the signed-in user's password.
func (c *Client) ChangePassword(ctx context.Context, username string, request *ChangePasswordRequest) error {
	if request.NewPassword == "" {
		return invalid("new password is required")
	}
	if len(request.NewPassword) < minPasswordLength {
		return invalid("password must be at least %d characters long", minPasswordLength)
	}
	_, err := authorized[empty](ctx, c, http.MethodPut, "account/"+url.PathEscape(username)+"/change-password/", nil, request)
	return err
}

// SendForgotPasswordEmail mails a password reset link.
func (c *Client) SendForgotPasswordEmail(ctx context.Context, email string) error {
	if email == "" {
		return invalid("email is required")
	}
	_, err := public[empty](ctx, c, http.MethodPost, "send-forgot-password-email/", &forgotPasswordRequest{Email: email})
	return err
}

// ResetPassword sets a new password using the emailed reset token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return invalid("reset token is required")
	}
	if len(newPassword) < minPasswordLength {
		return invalid("password must be at least %d characters long", minPasswordLength)
	}
	_, err := public[empty](ctx, c, http.MethodPost, "account/email/reset-password/", &resetPasswordRequest{Token: token, NewPassword: newPassword})
	return err
}
