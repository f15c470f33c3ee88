package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/edupath/dashclient"
	"github.com/edupath/dashclient/client/api"
	"github.com/edupath/dashclient/client/auth/session"
	"github.com/edupath/dashclient/internal/conv"
)

// Service implements dashctl commands on top of a dashboard client.
type Service struct {
	client *dashclient.Client
	out    io.Writer
}

// staffCommands may only be run by staff roles.
var staffCommands = map[string]bool{
	"users list":   true,
	"users delete": true,
	"students":     true,
	"invite":       true,
}

func (s *Service) Execute(ctx context.Context, command string, options *Options) error {
	if staffCommands[command] {
		if err := s.authorize(command); err != nil {
			return err
		}
	}
	switch command {
	case "login":
		return s.login(ctx, &options.Login)
	case "logout":
		if err := s.client.Logout(ctx); err != nil {
			return err
		}
		_, err := fmt.Fprintln(s.out, "logged out")
		return err
	case "whoami":
		return s.whoAmI()
	case "users list":
		return s.listUsers(ctx, &options.Users.List)
	case "users delete":
		return s.deleteUsers(ctx, options.Users.Delete.Args.IDs)
	case "students":
		return s.students(ctx)
	case "invite":
		if err := s.client.SendInvite(ctx, &api.InviteRequest{Email: options.Invite.Email, Role: options.Invite.Role}); err != nil {
			return err
		}
		_, err := fmt.Fprintf(s.out, "invitation sent to %v\n", options.Invite.Email)
		return err
	default:
		return fmt.Errorf("unsupported command: %q", command)
	}
}

// authorize rejects signed-in non-staff roles; without a session the request itself reports the missing login.
func (s *Service) authorize(command string) error {
	sess := s.client.Session()
	if !sess.Authenticated() || sess.Role().IsStaff() {
		return nil
	}
	role := sess.Role().String()
	if role == "" {
		role = "unknown"
	}
	return fmt.Errorf("%w: %v cannot run %q", ErrPermissionDenied, role, command)
}

func (s *Service) login(ctx context.Context, cmd *LoginCommand) error {
	if cmd.OTP == "" {
		if err := s.client.RequestOTP(ctx, cmd.Email, cmd.Password); err != nil {
			return err
		}
		_, err := fmt.Fprintf(s.out, "OTP sent to %v, rerun with --otp\n", cmd.Email)
		return err
	}
	_, err := s.client.Login(ctx, &api.LoginRequest{Email: cmd.Email, Password: cmd.Password, OTP: cmd.OTP, RememberMe: cmd.Remember})
	if err != nil {
		return err
	}
	sess := s.client.Session()
	_, err = fmt.Fprintf(s.out, "logged in as %v (%v)\n", sess.UserID(), sess.Role())
	return err
}

func (s *Service) whoAmI() error {
	sess := s.client.Session()
	if !sess.Authenticated() {
		return fmt.Errorf("not logged in")
	}
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "user\t%v\n", sess.UserID())
	fmt.Fprintf(w, "role\t%v\n", sess.Role())
	fmt.Fprintf(w, "remembered\t%v\n", sess.RememberMe())
	if claims, err := sess.AccessClaims(); err == nil && !claims.Expiry.IsZero() {
		state := "valid"
		if claims.Expired(time.Now()) {
			state = "expired, refreshed on next call"
		}
		fmt.Fprintf(w, "access token\t%v (%v)\n", claims.Expiry.Format(time.RFC3339), state)
	}
	return w.Flush()
}

func (s *Service) listUsers(ctx context.Context, cmd *UsersListCommand) error {
	if cmd.Role != "" {
		return s.listUsersByRole(ctx, cmd.Role)
	}
	page, err := s.client.ListUsers(ctx, cmd.Page, cmd.PageSize)
	if err != nil {
		return err
	}
	if err = s.printUsers(page.Results); err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.out, "page %d, %d users total\n", cmd.Page, page.Count)
	return err
}

func (s *Service) listUsersByRole(ctx context.Context, value string) error {
	role, err := session.ParseRole(value)
	if err != nil {
		return err
	}
	users, err := s.client.ListUsersByRole(ctx, role)
	if err != nil {
		return err
	}
	if err = s.printUsers(users); err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.out, "%d users in group %v\n", len(users), role.Group())
	return err
}

func (s *Service) printUsers(users []api.User) error {
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tGROUP\tACTIVE")
	for _, user := range users {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\t%v\n", user.ID, user.Email, user.Username, user.Role, user.Group(), user.IsActive)
	}
	return w.Flush()
}

func (s *Service) deleteUsers(ctx context.Context, ids []string) error {
	if err := s.client.DeleteUsers(ctx, ids...); err != nil {
		return err
	}
	_, err := fmt.Fprintf(s.out, "deleted %d users\n", len(ids))
	return err
}

func (s *Service) students(ctx context.Context) error {
	students, err := s.client.ListStudents(ctx)
	if err != nil {
		return err
	}
	if len(students) == 0 {
		_, err = fmt.Fprintln(s.out, "no students")
		return err
	}
	columns := recordColumns(students)
	w := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(columns, "\t")))
	for _, student := range students {
		values := make([]string, len(columns))
		for i, column := range columns {
			values[i] = conv.AsString(student[column])
		}
		fmt.Fprintln(w, strings.Join(values, "\t"))
	}
	return w.Flush()
}

// recordColumns returns the union of record keys, "id" first.
func recordColumns(records []api.Record) []string {
	seen := map[string]bool{}
	var ret []string
	for _, record := range records {
		for key := range record {
			if !seen[key] {
				seen[key] = true
				ret = append(ret, key)
			}
		}
	}
	sort.Slice(ret, func(i, j int) bool {
		if ret[i] == "id" || ret[j] == "id" {
			return ret[i] == "id"
		}
		return ret[i] < ret[j]
	})
	return ret
}
