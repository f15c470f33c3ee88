package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/edupath/dashclient"
	"github.com/edupath/dashclient/client/auth/transport"
	"github.com/jessevdk/go-flags"
)

var (
	// ErrLoginRequired is returned when the command needs a fresh login.
	ErrLoginRequired = errors.New("session expired, run `dashctl login`")
	// ErrPermissionDenied is returned when the signed-in role may not run the command.
	ErrPermissionDenied = errors.New("permission denied")
)

// Run parses args and executes the selected command.
func Run(args []string) error {
	return New(os.Stdout, os.Stderr).Run(context.Background(), args)
}

// Runner executes dashctl commands.
type Runner struct {
	stdout io.Writer
	stderr io.Writer
	// newClient is replaced in tests.
	newClient func(ctx context.Context, options *dashclient.ClientOptions) (*dashclient.Client, error)
	// storeURL locates the session file used when no store is configured.
	storeURL func() (string, error)
}

func New(stdout, stderr io.Writer) *Runner {
	return &Runner{stdout: stdout, stderr: stderr, newClient: dashclient.NewClient, storeURL: defaultStoreURL}
}

// defaultStoreURL returns <user config dir>/dashctl/session.json.
func defaultStoreURL() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "dashctl", "session.json"), nil
}

func (r *Runner) Run(ctx context.Context, args []string) error {
	options, command, err := r.parse(ctx, args)
	if err != nil {
		return err
	}
	level := slog.LevelWarn
	if options.Verbose {
		level = slog.LevelDebug
	}
	options.Logger = slog.New(slog.NewTextHandler(r.stderr, &slog.HandlerOptions{Level: level}))
	r.defaultStore(&options.Store, options.Logger)

	client, err := r.newClient(ctx, &options.ClientOptions)
	if err != nil {
		return err
	}
	defer client.Close()
	service := &Service{client: client, out: r.stdout}
	if err = service.Execute(ctx, command, options); err != nil {
		if transport.NeedsLogin(err) {
			return fmt.Errorf("%w: %v", ErrLoginRequired, err)
		}
		return err
	}
	return nil
}

// defaultStore selects the file store under the user config directory unless a store is configured.
func (r *Runner) defaultStore(store *dashclient.StoreOptions, logger *slog.Logger) {
	if store.Kind != "" && (store.Kind != dashclient.StoreFile || store.URL != "") {
		return
	}
	location, err := r.storeURL()
	if err != nil {
		logger.Warn("session will not be remembered", "error", err)
		return
	}
	store.Kind = dashclient.StoreFile
	store.URL = location
}

// parse reads flags; when --config is set, the file is loaded first and flags override it.
func (r *Runner) parse(ctx context.Context, args []string) (*Options, string, error) {
	options := &Options{}
	command, err := parseArgs(options, args)
	if err != nil || options.ConfigURL == "" {
		return options, command, err
	}
	loaded, err := dashclient.LoadOptions(ctx, options.ConfigURL)
	if err != nil {
		return nil, "", err
	}
	options = &Options{ClientOptions: *loaded}
	command, err = parseArgs(options, args)
	return options, command, err
}

// parseArgs returns the active command path, e.g. "users list".
func parseArgs(options *Options, args []string) (string, error) {
	parser := flags.NewParser(options, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "dashctl"
	if _, err := parser.ParseArgs(args); err != nil {
		return "", err
	}
	command := ""
	for active := parser.Active; active != nil; active = active.Active {
		if command != "" {
			command += " "
		}
		command += active.Name
	}
	return command, nil
}
