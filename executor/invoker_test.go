package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/modulrcloud/sputnik-rpc/structures"
)

const fakeExecutorEnv = "SPUTNIK_FAKE_EXECUTOR"

// TestHelperProcess is not a real test: the invoker tests re-execute the test binary with
// it selected, and it then behaves like the executor CLI.
func TestHelperProcess(t *testing.T) {
	if os.Getenv(fakeExecutorEnv) != "1" {
		return
	}

	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]
			break
		}
	}

	var dbPath, data, output string
	write := false
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--db-path":
			i++
			dbPath = args[i]
		case "--data":
			i++
			data = args[i]
		case "--output-file":
			i++
			output = args[i]
		case "--write":
			write = true
		}
	}

	var request struct {
		Action string `json:"action"`
	}
	_ = json.Unmarshal([]byte(data), &request)

	result := []byte{0xde, 0xad, 0xbe, 0xef}

	switch request.Action {
	case "fail":
		fmt.Fprintln(os.Stdout, "executing")
		fmt.Fprintln(os.Stderr, "revert: boom")
		os.Exit(3)
	case "sleep":
		time.Sleep(10 * time.Second)
	case "echo":
		result = []byte(data)
	case "cwd":
		wd, _ := os.Getwd()
		result = []byte(wd)
	case "env":
		result = []byte(os.Getenv("RUST_BACKTRACE"))
	case "no-output":
		os.Exit(0)
	case "exclusive":
		lock := filepath.Join(filepath.Dir(dbPath), "writer.lock")
		f, err := os.OpenFile(lock, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err != nil {
			fmt.Fprintln(os.Stderr, "concurrent writer detected")
			os.Exit(4)
		}
		time.Sleep(50 * time.Millisecond)
		f.Close()
		os.Remove(lock)
	}

	if write {
		f, err := os.OpenFile(dbPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			os.Exit(5)
		}
		fmt.Fprintln(f, data)
		f.Close()
	}

	if output != "" {
		if err := os.WriteFile(output, result, 0o600); err != nil {
			os.Exit(6)
		}
	}

	os.Exit(0)
}

func fakeConfig(t *testing.T, workDir string) structures.GatewayConfig {
	t.Helper()
	t.Setenv(fakeExecutorEnv, "1")

	// The child runs in workDir, so a relative os.Args[0] would not resolve.
	self, err := os.Executable()
	if err != nil {
		t.Fatalf("locate test binary: %v", err)
	}

	cfg := structures.DefaultGatewayConfig()
	cfg.ExecutorPath = workDir
	cfg.ExecutorCommand = []string{self, "-test.run=^TestHelperProcess$", "--"}
	cfg.DbPath = "chain.sqlite"
	cfg.ExecutorTimeoutMs = 5_000
	return cfg
}

func readInvocation(workDir, output, argument string) structures.EngineInvocation {
	return structures.EngineInvocation{
		Method:     "eth_call",
		Argument:   []byte(argument),
		OutputPath: output,
		WorkingDir: workDir,
		Mode:       structures.ModeRead,
	}
}

func TestCommandInvokerReadModeWritesOutputFile(t *testing.T) {
	workDir := t.TempDir()
	invoker := NewCommandInvoker(fakeConfig(t, workDir))
	channel := NewTempChannel(t.TempDir())

	output := channel.Allocate()
	defer channel.Release(output)

	if err := invoker.Invoke(context.Background(), readInvocation(workDir, output, `{"to":"0x01"}`)); err != nil {
		t.Fatalf("invoke: %v", err)
	}

	data, err := channel.Read(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "\xde\xad\xbe\xef" {
		t.Fatalf("unexpected output %x", data)
	}
}

func TestCommandInvokerPassesArgumentAsSingleToken(t *testing.T) {
	workDir := t.TempDir()
	invoker := NewCommandInvoker(fakeConfig(t, workDir))
	channel := NewTempChannel(t.TempDir())

	output := channel.Allocate()
	defer channel.Release(output)

	argument := `{"action":"echo","data":"it's \"quoted\" $(whoami) ; rm -rf / #"}`
	if err := invoker.Invoke(context.Background(), readInvocation(workDir, output, argument)); err != nil {
		t.Fatalf("invoke: %v", err)
	}

	data, err := channel.Read(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != argument {
		t.Fatalf("executor saw %q, want %q", data, argument)
	}
}

func TestCommandInvokerRunsInWorkingDir(t *testing.T) {
	workDir := t.TempDir()
	invoker := NewCommandInvoker(fakeConfig(t, workDir))
	channel := NewTempChannel(t.TempDir())

	output := channel.Allocate()
	defer channel.Release(output)

	if err := invoker.Invoke(context.Background(), readInvocation(workDir, output, `{"action":"cwd"}`)); err != nil {
		t.Fatalf("invoke: %v", err)
	}

	data, err := channel.Read(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want, _ := filepath.EvalSymlinks(workDir)
	got, _ := filepath.EvalSymlinks(string(data))
	if got != want {
		t.Fatalf("executor ran in %q, want %q", got, want)
	}
}

func TestCommandInvokerDevModeEnablesBacktraces(t *testing.T) {
	workDir := t.TempDir()
	cfg := fakeConfig(t, workDir)
	cfg.DevMode = true
	invoker := NewCommandInvoker(cfg)
	channel := NewTempChannel(t.TempDir())

	output := channel.Allocate()
	defer channel.Release(output)

	if err := invoker.Invoke(context.Background(), readInvocation(workDir, output, `{"action":"env"}`)); err != nil {
		t.Fatalf("invoke: %v", err)
	}

	data, _ := channel.Read(output)
	if string(data) != "1" {
		t.Fatalf("RUST_BACKTRACE=%q, want 1", data)
	}
}

func TestCommandInvokerNonZeroExit(t *testing.T) {
	workDir := t.TempDir()
	invoker := NewCommandInvoker(fakeConfig(t, workDir))

	err := invoker.Invoke(context.Background(), readInvocation(workDir, filepath.Join(t.TempDir(), "out"), `{"action":"fail"}`))

	var procErr *ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("expected *ProcessError, got %v", err)
	}
	if procErr.ExitCode != 3 {
		t.Fatalf("exit code %d, want 3", procErr.ExitCode)
	}
	if procErr.TimedOut {
		t.Fatalf("a plain failure must not be reported as a timeout")
	}
	if !strings.Contains(procErr.Stderr, "revert: boom") {
		t.Fatalf("stderr not captured: %q", procErr.Stderr)
	}
	if !strings.Contains(procErr.Stdout, "executing") {
		t.Fatalf("stdout not captured: %q", procErr.Stdout)
	}
}

func TestCommandInvokerTimeoutKillsProcess(t *testing.T) {
	workDir := t.TempDir()
	cfg := fakeConfig(t, workDir)
	cfg.ExecutorTimeoutMs = 200
	invoker := NewCommandInvoker(cfg)

	started := time.Now()
	err := invoker.Invoke(context.Background(), readInvocation(workDir, filepath.Join(t.TempDir(), "out"), `{"action":"sleep"}`))

	var procErr *ProcessError
	if !errors.As(err, &procErr) || !procErr.TimedOut {
		t.Fatalf("expected a timed out *ProcessError, got %v", err)
	}
	if elapsed := time.Since(started); elapsed > 5*time.Second {
		t.Fatalf("timeout took %s", elapsed)
	}
}

func TestCommandInvokerMissingBinary(t *testing.T) {
	workDir := t.TempDir()
	cfg := fakeConfig(t, workDir)
	cfg.ExecutorCommand = []string{filepath.Join(workDir, "does-not-exist")}
	invoker := NewCommandInvoker(cfg)

	err := invoker.Invoke(context.Background(), readInvocation(workDir, "", `{}`))

	var procErr *ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("expected *ProcessError for a missing binary, got %v", err)
	}
}

func TestCommandInvokerWriteModeAppendsToDatabase(t *testing.T) {
	workDir := t.TempDir()
	invoker := NewCommandInvoker(fakeConfig(t, workDir))

	inv := structures.EngineInvocation{
		Method:     "eth_sendTransaction",
		Argument:   []byte(`[{"from":"0x01"}]`),
		WorkingDir: workDir,
		Mode:       structures.ModeWrite,
	}
	if err := invoker.Invoke(context.Background(), inv); err != nil {
		t.Fatalf("invoke: %v", err)
	}

	db, err := os.ReadFile(filepath.Join(workDir, "chain.sqlite"))
	if err != nil {
		t.Fatalf("read db: %v", err)
	}
	if strings.TrimSpace(string(db)) != `[{"from":"0x01"}]` {
		t.Fatalf("unexpected db contents %q", db)
	}
}

func TestCommandInvokerSerializesWriters(t *testing.T) {
	workDir := t.TempDir()
	invoker := NewCommandInvoker(fakeConfig(t, workDir))

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- invoker.Invoke(context.Background(), structures.EngineInvocation{
				Method:     "eth_sendTransaction",
				Argument:   []byte(`{"action":"exclusive"}`),
				WorkingDir: workDir,
				Mode:       structures.ModeWrite,
			})
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("writer overlapped another writer: %v", err)
		}
	}
}
