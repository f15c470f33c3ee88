package cli

import "github.com/edupath/dashclient"

type Options struct {
	ConfigURL string `long:"config" description:"YAML options file URL"`
	Verbose   bool   `short:"v" long:"verbose" description:"debug logging"`
	dashclient.ClientOptions

	Login    LoginCommand  `command:"login" description:"request an OTP, or log in with --otp"`
	Logout   struct{}      `command:"logout" description:"discard the stored session"`
	WhoAmI   struct{}      `command:"whoami" description:"show the signed-in user"`
	Users    UsersCommand  `command:"users" description:"manage users"`
	Students struct{}      `command:"students" description:"list students"`
	Invite   InviteCommand `command:"invite" description:"invite a new user"`
}

type LoginCommand struct {
	Email    string `short:"e" long:"email" description:"account email" required:"true"`
	Password string `short:"p" long:"password" description:"account password" env:"DASHCTL_PASSWORD"`
	OTP      string `short:"o" long:"otp" description:"one-time password from the email"`
	Remember bool   `short:"r" long:"remember" description:"keep the session in the credential store (a file under the user config directory unless --store is set)"`
}

type UsersCommand struct {
	List   UsersListCommand   `command:"list" description:"list users"`
	Delete UsersDeleteCommand `command:"delete" description:"delete users by id"`
}

type UsersListCommand struct {
	Page     int    `long:"page" description:"page number" default:"1"`
	PageSize int    `long:"page-size" description:"page size" default:"10"`
	Role     string `long:"role" description:"list every user in the role's group instead of one page" choice:"admin" choice:"university_admin" choice:"agent" choice:"student"`
}

type UsersDeleteCommand struct {
	Args struct {
		IDs []string `positional-arg-name:"id" required:"1"`
	} `positional-args:"yes" required:"yes"`
}

type InviteCommand struct {
	Email string `short:"e" long:"email" description:"invitee email" required:"true"`
	Role  string `short:"r" long:"role" description:"invitee role" required:"true" choice:"admin" choice:"university_admin" choice:"agent" choice:"student"`
}
