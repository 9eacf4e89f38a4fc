package engines

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/antrian/loket/internal/tts"
)

// TestHelperProcess is not a real test. It is re-executed by the tests
// below as a stand-in synthesiser.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("LOKET_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	switch os.Getenv("LOKET_HELPER_MODE") {
	case "echo":
		b, _ := io.ReadAll(os.Stdin)
		fmt.Print(string(b))
	case "fail":
		fmt.Fprint(os.Stderr, "voice not found")
		os.Exit(3)
	case "silent":
	case "hang":
		time.Sleep(time.Minute)
	}
}

func helper(t *testing.T, mode string) (string, []string) {
	t.Helper()
	t.Setenv("LOKET_HELPER_PROCESS", "1")
	t.Setenv("LOKET_HELPER_MODE", mode)
	return os.Args[0], []string{"-test.run=TestHelperProcess"}
}

func TestRunCommand_Echo(t *testing.T) {
	name, args := helper(t, "echo")
	out, err := runCommand(context.Background(), 10*time.Second, name, args, []byte("halo"))
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	if string(out) != "halo" {
		t.Errorf("Expected %q, got %q", "halo", out)
	}
}

func TestRunCommand_Failure(t *testing.T) {
	name, args := helper(t, "fail")
	_, err := runCommand(context.Background(), 10*time.Second, name, args, nil)
	if tts.CodeOf(err) != tts.ErrorCodeEngineFailure {
		t.Fatalf("Expected ENGINE_FAILURE, got %v", err)
	}
}

func TestRunCommand_NoOutput(t *testing.T) {
	name, args := helper(t, "silent")
	_, err := runCommand(context.Background(), 10*time.Second, name, args, nil)
	if !errors.Is(err, tts.ErrSynthesisFailed) {
		t.Errorf("Expected ErrSynthesisFailed, got %v", err)
	}
}

func TestRunCommand_Timeout(t *testing.T) {
	name, args := helper(t, "hang")
	start := time.Now()
	_, err := runCommand(context.Background(), 200*time.Millisecond, name, args, nil)
	if tts.CodeOf(err) != tts.ErrorCodeEngineTimeout {
		t.Errorf("Expected ENGINE_TIMEOUT, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Errorf("Expected the process to be stopped promptly, took %v", time.Since(start))
	}
}

func TestRunCommand_Canceled(t *testing.T) {
	name, args := helper(t, "hang")
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)
	_, err := runCommand(ctx, 10*time.Second, name, args, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRunCommand_MissingBinary(t *testing.T) {
	_, err := runCommand(context.Background(), time.Second, "definitely-not-a-real-binary", nil, nil)
	if tts.CodeOf(err) != tts.ErrorCodeEngineUnavailable {
		t.Errorf("Expected ENGINE_UNAVAILABLE, got %v", err)
	}
}
