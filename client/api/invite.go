package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/edupath/dashclient/client/auth/session"
)

// GetInvite looks up an invitation by token.
func (c *Client) GetInvite(ctx context.Context, token string) (*Invite, error) {
	if token == "" {
		return nil, invalid("invalid or missing invitation token")
	}
	return public[Invite](ctx, c, http.MethodGet, "get-invite/"+url.PathEscape(token)+"/", nil)
}

// SendInvite invites a new user with the given role.
func (c *Client) SendInvite(ctx context.Context, request *InviteRequest) error {
	if request.Email == "" {
		return invalid("email is required")
	}
	role, err := session.ParseRole(request.Role)
	if err != nil || role == "" {
		return invalid("role %q is not supported", request.Role)
	}
	payload := &InviteRequest{Email: strings.TrimSpace(request.Email), Role: string(role)}
	_, err = authorized[empty](ctx, c, http.MethodPost, "send-invite/", nil, payload)
	return err
}
