package engines

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/antrian/loket/internal/tts"
)

// SampleRate is the PCM rate every engine produces.
const SampleRate = 22050

// maxOutput bounds what a synthesiser may write to stdout.
const maxOutput = 20 << 20

// runFunc runs a program with stdin and returns its stdout.
type runFunc func(ctx context.Context, timeout time.Duration, name string, args []string, stdin []byte) ([]byte, error)

// runCommand runs name with a deadline. When ctx is done the process is
// interrupted, then killed if it hasn't exited after 100ms.
func runCommand(ctx context.Context, timeout time.Duration, name string, args []string, stdin []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = 100 * time.Millisecond
	cmd.Stdin = bytes.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var execErr *exec.Error
		switch {
		case errors.As(err, &execErr):
			return nil, tts.NewError(tts.ErrorCodeEngineUnavailable, "unable to start "+name, err)
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return nil, tts.NewError(tts.ErrorCodeEngineTimeout, fmt.Sprintf("%s timed out after %v", name, timeout), ctx.Err())
		case ctx.Err() != nil:
			return nil, tts.NewError(tts.ErrorCodeCanceled, name+" canceled", ctx.Err())
		default:
			return nil, tts.NewError(tts.ErrorCodeEngineFailure,
				fmt.Sprintf("%s failed: %s", name, strings.TrimSpace(stderr.String())), err)
		}
	}

	out := stdout.Bytes()
	if len(out) == 0 {
		return nil, tts.NewError(tts.ErrorCodeEngineFailure,
			fmt.Sprintf("%s produced no output: %s", name, strings.TrimSpace(stderr.String())), tts.ErrSynthesisFailed)
	}
	if len(out) > maxOutput {
		return nil, tts.NewError(tts.ErrorCodeEngineFailure, fmt.Sprintf("%s output too large: %d bytes", name, len(out)), nil)
	}
	return out, nil
}

func checkText(text string) error {
	if strings.TrimSpace(text) == "" {
		return tts.NewError(tts.ErrorCodeInvalidInput, "text cannot be empty", nil)
	}
	return nil
}

// evenLength drops a trailing odd byte so the clip holds whole samples.
func evenLength(pcm []byte) []byte {
	return pcm[:len(pcm)&^1]
}
