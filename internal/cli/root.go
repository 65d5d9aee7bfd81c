// Package cli is the flashdeck terminal front-end.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/vytor/flashdeck/internal/client"
	"github.com/vytor/flashdeck/internal/logger"
)

// Options lets callers replace how the API client is built.
type Options struct {
	NewAPI func(cfg Config, stderr io.Writer) (client.API, error)
}

type app struct {
	opts   Options
	cfg    Config
	api    client.API
	notify client.Notifier
	in     *bufio.Reader
}

func defaultAPI(cfg Config, stderr io.Writer) (client.API, error) {
	log := logger.New(
		logger.WithOutput(stderr),
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(false),
	).WithPrefix("client")

	return client.New(cfg.Server,
		client.WithTimeout(cfg.Timeout),
		client.WithTokenStore(client.NewFileTokenStore(cfg.TokenFile)),
		client.WithLogger(log),
		client.WithOnUnauthorized(func() {
			fmt.Fprintln(stderr, "Сессия истекла. Выполните flashdeck login")
		}),
	), nil
}

func NewRootCommand(opts Options) *cobra.Command {
	if opts.NewAPI == nil {
		opts.NewAPI = defaultAPI
	}
	a := &app{opts: opts}

	root := &cobra.Command{
		Use:           "flashdeck",
		Short:         "Flashcard decks in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := LoadConfig(path, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.notify = client.NewWriterNotifier(cmd.ErrOrStderr())
			a.api, err = opts.NewAPI(cfg, cmd.ErrOrStderr())
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", filepath.Join(DefaultConfigDir(), "config.yaml"), "config file")
	pf.String("server", "", "API base URL")
	pf.String("token-file", "", "where the session token is kept")
	pf.Duration("timeout", 0, "request timeout")
	pf.String("log-level", "", "client log level (DEBUG, INFO, WARN, ERROR)")

	root.AddCommand(
		a.registerCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.meCmd(),
		a.passwordCmd(),
		a.decksCmd(),
		a.cardsCmd(),
		a.shareCmd(),
		a.sharedCmd(),
		a.importCmd(),
		a.studyCmd(),
	)
	return root
}

// Execute runs the command line and returns the process exit code. Failures
// are printed as user-facing messages.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, opts Options) int {
	root := NewRootCommand(opts)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, errorText(err))
		return 1
	}
	return 0
}

// Unauthorized stays empty: the server text tells a bad password apart from
// an expired session.
var cliCopy = client.Copy{
	Forbidden: client.DefaultCopy.Forbidden,
	Network:   client.MsgNoConnection,
	Default:   client.MsgDefault,
}

func errorText(err error) string {
	var verr *client.ValidationError
	if errors.As(err, &verr) {
		return firstField(verr.Errors)
	}
	if apiErr := client.HandleAPIError(err); len(apiErr.Errors) > 0 {
		return firstField(apiErr.Errors)
	}
	return client.UserMessage(err, cliCopy)
}

func firstField(errs map[string]string) string {
	keys := lo.Keys(errs)
	sort.Strings(keys)
	return keys[0] + ": " + errs[keys[0]]
}
