package executor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mini-maxit/judge/internal/docker"
	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/internal/metrics"
	"github.com/mini-maxit/judge/internal/sandbox"
	"github.com/mini-maxit/judge/internal/stages/demux"
	customErr "github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/solution"
)

const (
	PhaseCompile = "compile"
	PhaseRun     = "run"
)

type Executor interface {
	// Run executes cmd inside the sandbox. When stdin is not nil it is written
	// and the input side is closed. A run that does not finish within the
	// deadline fails with ErrTimeLimitExceeded; the exec is left running and
	// is reclaimed when the sandbox is torn down.
	Run(ctx context.Context, sb *sandbox.Sandbox, phase string, cmd []string, stdin *string) (*solution.RawRunResult, error)
}

type executor struct {
	docker         docker.DockerClient
	timeout        time.Duration
	maxOutputBytes int
	logger         *zap.SugaredLogger
}

type runOutcome struct {
	result *solution.RawRunResult
	err    error
}

func NewExecutor(dCli docker.DockerClient, timeout time.Duration, maxOutputBytes int) Executor {
	return &executor{
		docker:         dCli,
		timeout:        timeout,
		maxOutputBytes: maxOutputBytes,
		logger:         logger.NewNamedLogger("executor"),
	}
}

func (e *executor) Run(
	ctx context.Context,
	sb *sandbox.Sandbox,
	phase string,
	cmd []string,
	stdin *string,
) (*solution.RawRunResult, error) {
	start := time.Now()
	defer func() {
		metrics.ExecDuration.WithLabelValues(sb.Language.ID, phase).Observe(float64(time.Since(start).Milliseconds()))
	}()

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	done := make(chan runOutcome, 1)
	go func() {
		execID, att, err := e.docker.ExecAttach(ctx, sb.ContainerID, docker.ExecConfig{
			Cmd:         cmd,
			WorkingDir:  sb.WorkDir,
			Env:         sb.Language.Env,
			User:        sb.User,
			AttachStdin: stdin != nil,
		})
		if err != nil {
			done <- runOutcome{err: fmt.Errorf("exec attach: %w", err)}
			return
		}
		defer att.Close()
		done <- e.collect(ctx, sb, execID, att, stdin)
	}()

	select {
	case out := <-done:
		return out.result, out.err
	case <-timer.C:
		e.logger.Infof("Exec of %v exceeded %s [SandboxID: %s]", cmd, e.timeout, sb.ID)
		return nil, customErr.ErrTimeLimitExceeded
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *executor) collect(
	ctx context.Context,
	sb *sandbox.Sandbox,
	execID string,
	att docker.Attachment,
	stdin *string,
) runOutcome {
	written := make(chan struct{})
	go func() {
		defer close(written)
		if stdin == nil {
			return
		}
		// Stdin is fed while the output is drained below.
		if _, err := att.Write([]byte(*stdin)); err != nil {
			// The program may exit without reading its input.
			e.logger.Warnf("Failed to write stdin to exec %s: %s [SandboxID: %s]", execID, err, sb.ID)
		}
		if err := att.CloseWrite(); err != nil {
			e.logger.Warnf("Failed to close stdin of exec %s: %s [SandboxID: %s]", execID, err, sb.ID)
		}
	}()

	out, err := demux.Demultiplex(att, e.maxOutputBytes)
	// Unblocks the writer when the program exited without reading its input.
	att.Close()
	<-written
	if err != nil {
		return runOutcome{err: fmt.Errorf("read exec output: %w", err)}
	}
	if out.Halted {
		e.logger.Warnf("Unknown stream tag in output of exec %s [SandboxID: %s]", execID, sb.ID)
	}
	if out.Truncated {
		e.logger.Warnf("Output of exec %s truncated to %d bytes [SandboxID: %s]", execID, e.maxOutputBytes, sb.ID)
	}

	exitCode, err := e.docker.ExecExitCode(ctx, execID)
	if err != nil {
		return runOutcome{err: fmt.Errorf("inspect exec: %w", err)}
	}

	return runOutcome{result: &solution.RawRunResult{
		Stdout:   out.Stdout,
		Stderr:   out.Stderr,
		ExitCode: exitCode,
	}}
}
