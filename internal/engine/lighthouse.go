package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os/exec"
	"strings"

	"github.com/raysh454/seolens/internal/logging"
)

// CommandRunner executes name with args and returns its captured output.
type CommandRunner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// ExecRunner runs commands through os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// LighthouseEngine drives the lighthouse CLI against an existing browser.
type LighthouseEngine struct {
	bin        string
	categories []string
	run        CommandRunner
	logger     logging.Logger
}

// NewLighthouseEngine returns an engine that shells out to cfg.LighthouseBin.
func NewLighthouseEngine(cfg Config, logger logging.Logger) *LighthouseEngine {
	bin := cfg.LighthouseBin
	if bin == "" {
		bin = "lighthouse"
	}
	return &LighthouseEngine{
		bin:        bin,
		categories: cfg.Categories,
		run:        ExecRunner,
		logger:     logger,
	}
}

// WithRunner replaces the command runner. Used by tests.
func (e *LighthouseEngine) WithRunner(r CommandRunner) *LighthouseEngine {
	e.run = r
	return e
}

// Args returns the CLI arguments used to audit url through endpoint.
func (e *LighthouseEngine) Args(url, endpoint string) ([]string, error) {
	host, port, err := net.SplitHostPort(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse control endpoint %q: %w", endpoint, err)
	}
	args := []string{
		url,
		"--port=" + port,
		"--output=json",
		"--quiet",
	}
	if host != "" && host != "127.0.0.1" && host != "localhost" {
		args = append(args, "--hostname="+host)
	}
	if len(e.categories) > 0 {
		args = append(args, "--only-categories="+strings.Join(e.categories, ","))
	}
	return args, nil
}

func (e *LighthouseEngine) Run(ctx context.Context, url, endpoint string) (*RawReport, error) {
	args, err := e.Args(url, endpoint)
	if err != nil {
		return nil, err
	}

	if e.logger != nil {
		e.logger.Debug("running lighthouse", logging.F("url", url), logging.F("endpoint", endpoint))
	}

	stdout, stderr, err := e.run(ctx, e.bin, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("lighthouse exited with %d: %s", exitErr.ExitCode(), lastLine(stderr))
		}
		return nil, fmt.Errorf("run lighthouse: %w", err)
	}

	if len(bytes.TrimSpace(stdout)) == 0 {
		return nil, errors.New("lighthouse produced no output")
	}

	report, err := DecodeRawReport(stdout)
	if err != nil {
		return nil, err
	}
	if report.RuntimeError != "" {
		return nil, fmt.Errorf("lighthouse runtime error: %s", report.RuntimeError)
	}
	return report, nil
}

func lastLine(b []byte) string {
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
