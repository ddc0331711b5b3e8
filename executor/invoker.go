package executor

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/modulrcloud/sputnik-rpc/constants"
	"github.com/modulrcloud/sputnik-rpc/structures"
	"github.com/modulrcloud/sputnik-rpc/utils"
)

// Invoker runs the executor once and blocks until it has exited.
type Invoker interface {
	Invoke(ctx context.Context, inv structures.EngineInvocation) error
}

type InvokerFunc func(ctx context.Context, inv structures.EngineInvocation) error

func (f InvokerFunc) Invoke(ctx context.Context, inv structures.EngineInvocation) error {
	return f(ctx, inv)
}

const pipeDrainDelay = 2 * time.Second

// CommandInvoker launches the configured executor as a child process.
//
// Write-mode runs hold the exclusive side of stateLock and read-mode runs the shared side,
// so a single writer ever touches the database file and readers never see it mid-write.
type CommandInvoker struct {
	command []string
	dbPath  string
	timeout time.Duration
	devMode bool

	stateLock sync.RWMutex
}

func NewCommandInvoker(cfg structures.GatewayConfig) *CommandInvoker {
	return &CommandInvoker{
		command: append([]string(nil), cfg.ExecutorCommand...),
		dbPath:  cfg.DbPath,
		timeout: time.Duration(cfg.ExecutorTimeoutMs) * time.Millisecond,
		devMode: cfg.DevMode,
	}
}

func (ci *CommandInvoker) Invoke(ctx context.Context, inv structures.EngineInvocation) error {

	if inv.IsWrite() {
		ci.stateLock.Lock()
		defer ci.stateLock.Unlock()
	} else {
		ci.stateLock.RLock()
		defer ci.stateLock.RUnlock()
	}

	runCtx, cancel := context.WithTimeout(ctx, ci.timeout)
	defer cancel()

	name, args := BuildArgs(ci.command, ci.dbPath, inv)

	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Dir = inv.WorkingDir
	cmd.Env = os.Environ()
	cmd.WaitDelay = pipeDrainDelay

	stdout := &tailBuffer{limit: constants.MaxCapturedOutput}
	stderr := &tailBuffer{limit: constants.MaxCapturedOutput}

	if ci.devMode {
		cmd.Env = append(cmd.Env, "RUST_BACKTRACE=1")
		cmd.Stdout = io.MultiWriter(stdout, utils.NewConsolePrefixWriter(utils.DEEP_GRAY+"[executor] "+utils.RESET_COLOR))
		cmd.Stderr = io.MultiWriter(stderr, utils.NewConsolePrefixWriter(utils.DEEP_YELLOW+"[executor] "+utils.RESET_COLOR))
	} else {
		cmd.Stdout = stdout
		cmd.Stderr = stderr
	}

	err := cmd.Run()
	if err == nil {
		return nil
	}

	procErr := &ProcessError{
		Method:   inv.Method,
		ExitCode: -1,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Err:      err,
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		procErr.ExitCode = exitErr.ExitCode()
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		procErr.TimedOut = true
		procErr.Err = context.DeadlineExceeded
	}

	return procErr

}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	limit int
	buf   []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	if len(b.buf) > b.limit {
		b.buf = append(b.buf[:0:0], b.buf[len(b.buf)-b.limit:]...)
	}
	return len(p), nil
}

func (b *tailBuffer) String() string { return string(b.buf) }
