package mock

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/edupath/dashclient/client/auth/session"
	"github.com/edupath/dashclient/internal/collection"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultOTP is accepted by every login unless WithOTP overrides it.
	DefaultOTP = "123456"
	// BasePath is the prefix every API route is mounted under.
	BasePath = "/api/"
)

// User is a backend account
type User struct {
	ID           string  `json:"id"`
	Username     string  `json:"username"`
	Email        string  `json:"email"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Role         string  `json:"role"`
	Groups       []Group `json:"groups"`
	Phone        string  `json:"phone,omitempty"`
	IsActive     bool    `json:"is_active"`
	DateJoined   string  `json:"date_joined"`
	passwordHash []byte
}

// Group is a backend permission group; users belong to the group of their role.
type Group struct {
	Name string `json:"name"`
}

func (u *User) role() session.Role {
	role, _ := session.ParseRole(u.Role)
	return role
}

// Invite is a pending invitation
type Invite struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Backend simulates the dashboard REST API.
type Backend struct {
	OTP        string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	secret        []byte
	logRequests   bool
	cors          *Cors
	generation    atomic.Int64
	rejectRefresh atomic.Bool
	users         *collection.SyncMap[string, *User]
	emails        *collection.SyncMap[string, string]
	invites       *collection.SyncMap[string, *Invite]
	resets        *collection.SyncMap[string, string]
	calls         *collection.SyncMap[string, *atomic.Int64]
}

// NewBackend creates an empty backend
func NewBackend(opts ...Option) (*Backend, error) {
	ret := &Backend{
		OTP:        DefaultOTP,
		AccessTTL:  5 * time.Minute,
		RefreshTTL: 24 * time.Hour,
		users:      collection.NewSyncMap[string, *User](),
		emails:     collection.NewSyncMap[string, string](),
		invites:    collection.NewSyncMap[string, *Invite](),
		resets:     collection.NewSyncMap[string, string](),
		calls:      collection.NewSyncMap[string, *atomic.Int64](),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if len(ret.secret) == 0 {
		ret.secret = make([]byte, 32)
		if _, err := rand.Read(ret.secret); err != nil {
			return nil, fmt.Errorf("failed to generate signing secret: %w", err)
		}
	}
	return ret, nil
}

// AddUser creates an active user with the given password and returns it.
func (b *Backend) AddUser(email, password, role, firstName, lastName string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	user := &User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(firstName + " " + lastName),
		Email:        strings.ToLower(email),
		FirstName:    firstName,
		LastName:     lastName,
		Role:         strings.ToUpper(role),
		IsActive:     true,
		DateJoined:   time.Now().UTC().Format(time.RFC3339),
		passwordHash: hash,
	}
	if group := user.role().Group(); group != "" {
		user.Groups = []Group{{Name: group}}
	}
	if !b.emails.PutIfAbsent(user.Email, user.ID) {
		return nil, fmt.Errorf("user with email %v already exists", user.Email)
	}
	b.users.Put(user.ID, user)
	return user, nil
}

// AddInvite registers an invitation and returns its token.
func (b *Backend) AddInvite(email, role string) string {
	token := uuid.NewString()
	b.invites.Put(token, &Invite{Email: strings.ToLower(email), Role: strings.ToUpper(role)})
	return token
}

// InviteToken returns the pending invitation token for email.
func (b *Backend) InviteToken(email string) (string, bool) {
	var ret string
	b.invites.Range(func(token string, invite *Invite) bool {
		if invite.Email == strings.ToLower(email) {
			ret = token
			return false
		}
		return true
	})
	return ret, ret != ""
}

// ResetToken returns the password reset token mailed to email.
func (b *Backend) ResetToken(email string) (string, bool) {
	var ret string
	b.resets.Range(func(token string, candidate string) bool {
		if candidate == strings.ToLower(email) {
			ret = token
			return false
		}
		return true
	})
	return ret, ret != ""
}

// User returns a user by id
func (b *Backend) User(id string) (*User, bool) {
	return b.users.Get(id)
}

// UserCount returns the number of users
func (b *Backend) UserCount() int {
	return b.users.Len()
}

// ExpireAccessTokens invalidates every access token issued so far.
func (b *Backend) ExpireAccessTokens() {
	b.generation.Add(1)
}

// RejectRefresh makes the refresh endpoint fail while enabled.
func (b *Backend) RejectRefresh(reject bool) {
	b.rejectRefresh.Store(reject)
}

// Calls returns how many times method path (relative to BasePath, e.g. "token/refresh/") was served.
func (b *Backend) Calls(method, path string) int {
	counter, ok := b.calls.Get(callKey(method, BasePath+strings.TrimLeft(path, "/")))
	if !ok {
		return 0
	}
	return int(counter.Load())
}

func (b *Backend) countCall(method, route string) {
	key := callKey(method, route)
	b.calls.PutIfAbsent(key, &atomic.Int64{})
	counter, _ := b.calls.Get(key)
	counter.Add(1)
}

func callKey(method, route string) string {
	return method + " " + route
}

func (b *Backend) userByEmail(email string) *User {
	id, ok := b.emails.Get(strings.ToLower(email))
	if !ok {
		return nil
	}
	user, _ := b.users.Get(id)
	return user
}

// deleteUser removes the user and releases its email.
func (b *Backend) deleteUser(id string) bool {
	user, ok := b.users.Get(id)
	if !ok || !b.users.Delete(id) {
		return false
	}
	b.emails.Delete(user.Email)
	return true
}

// changeEmail moves the email index entry of user id; it reports false when email is taken.
func (b *Backend) changeEmail(id, from, to string) bool {
	if from == to {
		return true
	}
	if !b.emails.PutIfAbsent(to, id) {
		return false
	}
	b.emails.Delete(from)
	return true
}

func (b *Backend) userByUsername(username string) *User {
	var ret *User
	b.users.Range(func(_ string, user *User) bool {
		if user.Username == username || user.Email == strings.ToLower(username) {
			ret = user
			return false
		}
		return true
	})
	return ret
}

// sortedUsers returns users ordered by email, optionally filtered by role.
func (b *Backend) sortedUsers(role string) []*User {
	var ret []*User
	b.users.Range(func(_ string, user *User) bool {
		if role == "" || user.Role == role {
			ret = append(ret, user)
		}
		return true
	})
	sort.Slice(ret, func(i, j int) bool { return ret[i].Email < ret[j].Email })
	return ret
}

// Handler returns an http.Handler serving every API route.
func (b *Backend) Handler() http.Handler {
	return b.router()
}
