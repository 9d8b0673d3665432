package compiler

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/internal/sandbox"
	"github.com/mini-maxit/judge/internal/stages/executor"
	"github.com/mini-maxit/judge/pkg/constants"
	customErr "github.com/mini-maxit/judge/pkg/errors"
)

// timeoutExitCode marks a build that was cut off by the deadline.
const timeoutExitCode = -1

type compiler struct {
	executor executor.Executor
	logger   *zap.SugaredLogger
}

// NewCompiler returns a build step that runs the language's compile command
// in the sandbox under the same deadline as every other exec.
func NewCompiler(exec executor.Executor) sandbox.Builder {
	return &compiler{
		executor: exec,
		logger:   logger.NewNamedLogger("compiler"),
	}
}

func (c *compiler) Compile(ctx context.Context, sb *sandbox.Sandbox) (sandbox.BuildResult, error) {
	if !sb.Language.IsCompiled() {
		return sandbox.BuildResult{ExitCode: constants.ExitCodeSuccess}, nil
	}

	c.logger.Infof("Compiling %s [SandboxID: %s]", sb.Language.SourceFile, sb.ID)
	res, err := c.executor.Run(ctx, sb, executor.PhaseCompile, sb.Language.CompileCommand, nil)
	if err != nil {
		if errors.Is(err, customErr.ErrTimeLimitExceeded) {
			c.logger.Infof("Compilation timed out [SandboxID: %s]", sb.ID)
			return sandbox.BuildResult{ExitCode: timeoutExitCode, Stderr: constants.CompilationMessageTimeout}, nil
		}
		return sandbox.BuildResult{}, fmt.Errorf("run compiler: %w", err)
	}

	if res.ExitCode != constants.ExitCodeSuccess {
		stderr := res.Stderr
		// Some toolchains report diagnostics on stdout only.
		if stderr == "" {
			stderr = res.Stdout
		}
		return sandbox.BuildResult{ExitCode: res.ExitCode, Stderr: stderr}, nil
	}

	c.logger.Infof("Compilation successful [SandboxID: %s]", sb.ID)
	return sandbox.BuildResult{ExitCode: constants.ExitCodeSuccess}, nil
}
