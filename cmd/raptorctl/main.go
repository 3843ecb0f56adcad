package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/accabog/rhr-sub000/internal/client"
	"github.com/accabog/rhr-sub000/internal/client/engine"
	"github.com/accabog/rhr-sub000/internal/config"
	"github.com/accabog/rhr-sub000/internal/pkg/querycache"
	"github.com/spf13/cobra"
)

const appVersion = "0.3.0"

// errSilent marks failures that were already reported to the user.
var errSilent = errors.New("silent")

// app is shared by every subcommand once the root command has run.
type app struct {
	client   *client.Client
	cache    *querycache.Cache
	queries  *engine.Queries
	workflow *engine.WorkflowEngine
	out      io.Writer
	errOut   io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var (
		apiURL   string
		token    string
		tenantID string
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:           "raptorctl",
		Short:         "Command line client for Raptor HR",
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

			cfg, err := config.LoadClient()
			if err != nil {
				return err
			}
			if apiURL != "" {
				cfg.APIURL = apiURL
			}
			if token != "" {
				cfg.Token = token
			}
			if tenantID != "" {
				cfg.TenantID = tenantID
			}
			a.init(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (default $RAPTOR_API_URL)")
	cmd.PersistentFlags().StringVar(&token, "token", "", "Access token (default $RAPTOR_TOKEN)")
	cmd.PersistentFlags().StringVar(&tenantID, "tenant", "", "Tenant ID (default $RAPTOR_TENANT_ID)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")

	cmd.AddCommand(
		newLoginCmd(a),
		newLeaveCmd(a),
		newTimesheetCmd(a),
		newClockCmd(a),
		newContractCmd(a),
		newProfileCmd(a),
	)
	return cmd
}

func (a *app) init(cfg *config.ClientConfig, out, errOut io.Writer) {
	a.out = out
	a.errOut = errOut
	a.client = client.New(cfg.APIURL,
		client.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		client.WithSession(client.Session{Token: cfg.Token, TenantID: cfg.TenantID}),
	)
	a.cache = querycache.New()
	a.queries = engine.NewQueries(a.client, a.cache)
	a.workflow = engine.NewWorkflowEngine(a.client, a.cache, engine.NotifierFunc(a.notify))
}

func (a *app) notify(n engine.Notification) {
	if n.Level == engine.LevelError {
		fmt.Fprintln(a.errOut, "error:", n.Message)
		return
	}
	fmt.Fprintln(a.out, n.Message)
}

// requireSession fails early when no token is configured and loads the
// caller's identity for role and ownership checks.
func (a *app) requireSession(ctx context.Context) (client.Session, error) {
	if !a.client.Session().Authenticated() {
		return client.Session{}, fmt.Errorf("not logged in: run raptorctl login or set RAPTOR_TOKEN")
	}
	return a.client.Refresh(ctx)
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// fail reports err unless the engine already notified it.
func (a *app) fail(err error) error {
	if _, ok := client.AsError(err); ok {
		return errSilent
	}
	return err
}
