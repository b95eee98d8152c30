// Package cli parses seolens command lines and runs the selected command.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/raysh454/seolens/internal/app"
	"github.com/raysh454/seolens/internal/artifact"
	"github.com/raysh454/seolens/internal/logging"
	"github.com/raysh454/seolens/internal/model"
	"github.com/raysh454/seolens/internal/server"
)

// Commands understood by ParseArgs.
const (
	CmdServe   = "serve"
	CmdAudit   = "audit"
	CmdMigrate = "migrate"
)

// ErrUsage is returned for unknown commands and missing arguments.
var ErrUsage = errors.New("usage")

// Args are the parsed command-line arguments.
type Args struct {
	Command string

	// ConfigPath points at an optional TOML file.
	ConfigPath string

	// LogLevel overrides log.level when set.
	LogLevel string

	// Audit only.
	Owner   string
	Project string
	PDF     string

	// RawArgs is the original args slice.
	RawArgs []string
}

// ParseArgs parses args (without the program name). It never reads os.Args.
func ParseArgs(args []string) (*Args, error) {
	if len(args) == 0 {
		return &Args{Command: CmdServe, RawArgs: args}, nil
	}

	cmd := args[0]
	rest := args[1:]
	if strings.HasPrefix(cmd, "-") {
		cmd, rest = CmdServe, args
	}

	fs := flag.NewFlagSet("seolens "+cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	out := &Args{Command: cmd, RawArgs: args}
	fs.StringVar(&out.ConfigPath, "config", "", "Path to a TOML config file")
	fs.StringVar(&out.LogLevel, "log-level", "", "Log level: debug|info|warn|error")

	switch cmd {
	case CmdServe, CmdMigrate:
	case CmdAudit:
		fs.StringVar(&out.Owner, "owner", "", "Owner id (required)")
		fs.StringVar(&out.Project, "project", "", "Project id (required)")
		fs.StringVar(&out.PDF, "pdf", "", "Also write the report as a PDF to this path")
	default:
		return nil, fmt.Errorf("%w: unknown command %q (want serve|audit|migrate)", ErrUsage, cmd)
	}

	if err := fs.Parse(rest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %v", ErrUsage, fs.Args())
	}
	if cmd == CmdAudit && (strings.TrimSpace(out.Owner) == "" || strings.TrimSpace(out.Project) == "") {
		return nil, fmt.Errorf("%w: audit requires -owner and -project", ErrUsage)
	}
	return out, nil
}

// Config loads configuration for args, applying the -log-level override.
func (a *Args) Config() (*app.Config, error) {
	cfg, err := app.LoadConfig(a.ConfigPath)
	if err != nil {
		return nil, err
	}
	if a.LogLevel != "" {
		cfg.Log.Level = a.LogLevel
	}
	return cfg, nil
}

// Run executes the parsed command. out receives command output such as the
// audit report JSON.
func Run(ctx context.Context, a *Args, cfg *app.Config, logger logging.Logger, out io.Writer) error {
	switch a.Command {
	case CmdMigrate:
		return migrate(ctx, cfg, logger)
	case CmdAudit:
		return audit(ctx, a, cfg, logger, out)
	case CmdServe:
		return serve(ctx, cfg, logger)
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, a.Command)
	}
}

func migrate(ctx context.Context, cfg *app.Config, logger logging.Logger) error {
	st, err := app.OpenStore(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	logger.Info("migrations applied", logging.F("driver", cfg.Storage.Driver))
	return st.Close()
}

func audit(ctx context.Context, a *Args, cfg *app.Config, logger logging.Logger, out io.Writer) (err error) {
	application, err := app.NewApplication(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if serr := application.Shutdown(context.WithoutCancel(ctx)); serr != nil && err == nil {
			err = serr
		}
	}()

	report, err := application.Orchestrator.RunAudit(ctx, a.Owner, a.Project, model.AuditManual)
	if err != nil {
		return err
	}

	if a.PDF != "" {
		doc, _, err := application.Orchestrator.RenderLatestReport(ctx, a.Owner, a.Project)
		if err != nil {
			return err
		}
		if err := artifact.AtomicWriteFile(a.PDF, doc.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", a.PDF, err)
		}
		logger.Info("wrote report", logging.F("path", a.PDF), logging.F("bytes", len(doc.Data)))
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func serve(ctx context.Context, cfg *app.Config, logger logging.Logger) error {
	application, err := app.NewApplication(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if err := application.Start(ctx); err != nil {
		return err
	}

	srv := server.New(server.Config{
		Addr:          cfg.HTTP.Addr,
		ReadTimeout:   cfg.HTTP.ReadTimeout,
		AllowedOrigin: cfg.HTTP.AllowedOrigin,
	}, application.Orchestrator, application.Artifacts.Handler(), logger.With(logging.F("component", "server")))
	httpServer := srv.HTTPServer()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", logging.F("addr", cfg.HTTP.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	timeout := cfg.HTTP.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", logging.Err(err))
	}
	if err := application.Shutdown(shutdownCtx); err != nil {
		return errors.Join(serveErr, err)
	}
	return serveErr
}
