package pdfsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, logger *slog.Logger, args ...string) (stdout, stderr []byte, err error)
}

// stderrCap bounds how much poppler chatter ends up in logs and errors.
const stderrCap = 8 << 10

// waitDelay bounds how long Wait blocks on inherited pipes after the context kills the tool.
const waitDelay = 2 * time.Second

// ToolError is a non-zero exit of a poppler tool.
type ToolError struct {
	Tool     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s exited with %d (%s)", e.Tool, e.ExitCode, exitReason(e.ExitCode))
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ToolError) Unwrap() error { return e.Err }

// exitReason names the poppler exit codes shared by pdftotext and pdftohtml.
func exitReason(code int) string {
	switch code {
	case 1:
		return "cannot open document"
	case 2:
		return "cannot open output"
	case 3:
		return "permission denied"
	case 99:
		return "other error"
	default:
		return "unknown"
	}
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, logger *slog.Logger, args ...string) ([]byte, []byte, error) {
	start := time.Now()
	logger.Debug("exec.start", "cmd", name, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	elapsed := time.Since(start).Milliseconds()
	if err == nil {
		logger.Debug("exec.ok", "cmd", name, "duration_ms", elapsed, "stdout_bytes", out.Len())
		return out.Bytes(), errb.Bytes(), nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		err = &ToolError{
			Tool:     name,
			ExitCode: exitErr.ExitCode(),
			Stderr:   truncate(strings.TrimSpace(errb.String()), stderrCap),
			Err:      err,
		}
	}
	logger.Error("exec.failed", "cmd", name, "duration_ms", elapsed, "error", err)
	return out.Bytes(), errb.Bytes(), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
