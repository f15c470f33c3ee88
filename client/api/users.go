package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/edupath/dashclient/client/auth/session"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultPageSize matches the dashboard table page size.
	DefaultPageSize = 10
	// scanPageSize is used when every page is fetched.
	scanPageSize = 100
)

// ListUsers returns one page of users; page starts at 1.
func (c *Client) ListUsers(ctx context.Context, page, pageSize int) (*Page[User], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))
	return authorized[Page[User]](ctx, c, http.MethodGet, "users/", query, nil)
}

// ListUsersByRole fetches every page of users and keeps those whose primary group belongs to role.
func (c *Client) ListUsersByRole(ctx context.Context, role session.Role) ([]User, error) {
	group := role.Group()
	if group == "" {
		return nil, fmt.Errorf("%w: unsupported role %q", ErrInvalidRequest, role)
	}
	var ret []User
	for page := 1; ; page++ {
		users, err := c.ListUsers(ctx, page, scanPageSize)
		if err != nil {
			return nil, err
		}
		for _, user := range users.Results {
			if user.Group() == group {
				ret = append(ret, user)
			}
		}
		if !users.HasNext() {
			return ret, nil
		}
	}
}

// GetUser returns a user by id (admin view).
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	return authorized[User](ctx, c, http.MethodGet, "users/"+url.PathEscape(id)+"/", nil, nil)
}

// UpdateProfile patches the given user fields.
func (c *Client) UpdateProfile(ctx context.Context, id string, fields map[string]interface{}) (*User, error) {
	return authorized[User](ctx, c, http.MethodPatch, "users/"+url.PathEscape(id)+"/", nil, fields)
}

// DeleteUser deletes a user by id.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	_, err := authorized[empty](ctx, c, http.MethodDelete, "users/"+url.PathEscape(id)+"/", nil, nil)
	return err
}

// DeleteUsers deletes users in parallel and joins the failures, one per id.
func (c *Client) DeleteUsers(ctx context.Context, ids ...string) error {
	errs := make([]error, len(ids))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(c.deleteConcurrency)
	for i, id := range ids {
		i, id := i, id
		group.Go(func() error {
			if err := c.DeleteUser(ctx, id); err != nil {
				errs[i] = fmt.Errorf("failed to delete user %v: %w", id, err)
			}
			return nil
		})
	}
	_ = group.Wait()
	return errors.Join(errs...)
}
