package compiler_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/mini-maxit/judge/internal/sandbox"
	. "github.com/mini-maxit/judge/internal/stages/compiler"
	"github.com/mini-maxit/judge/internal/stages/executor"
	"github.com/mini-maxit/judge/pkg/constants"
	pkgErr "github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/languages"
	"github.com/mini-maxit/judge/pkg/solution"
	mocks "github.com/mini-maxit/judge/tests/mocks"
)

func cppSandbox(t *testing.T) *sandbox.Sandbox {
	t.Helper()
	lang, err := languages.NewRegistry().Get("cpp")
	if err != nil {
		t.Fatalf("cpp not registered: %v", err)
	}
	return &sandbox.Sandbox{ID: "sb-1", ContainerID: "cid", Language: lang, WorkDir: "/sandbox"}
}

func TestCompile_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockExecutor := mocks.NewMockExecutor(ctrl)
	sb := cppSandbox(t)

	mockExecutor.EXPECT().
		Run(gomock.Any(), sb, executor.PhaseCompile, sb.Language.CompileCommand, gomock.Nil()).
		Return(&solution.RawRunResult{ExitCode: 0}, nil)

	res, err := NewCompiler(mockExecutor).Compile(context.Background(), sb)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.ExitCode != constants.ExitCodeSuccess {
		t.Fatalf("expected exit code 0, got %d", res.ExitCode)
	}
}

func TestCompile_FailureKeepsStderrVerbatim(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockExecutor := mocks.NewMockExecutor(ctrl)
	sb := cppSandbox(t)
	stderr := "solution.cpp:3:5: error: expected ';' before '}' token\n"

	mockExecutor.EXPECT().
		Run(gomock.Any(), sb, executor.PhaseCompile, gomock.Any(), gomock.Nil()).
		Return(&solution.RawRunResult{ExitCode: 1, Stderr: stderr}, nil)

	res, err := NewCompiler(mockExecutor).Compile(context.Background(), sb)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.ExitCode != 1 {
		t.Fatalf("expected exit code 1, got %d", res.ExitCode)
	}
	if res.Stderr != stderr {
		t.Fatalf("expected stderr %q, got %q", stderr, res.Stderr)
	}
}

func TestCompile_FailureFallsBackToStdout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockExecutor := mocks.NewMockExecutor(ctrl)
	sb := cppSandbox(t)

	mockExecutor.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&solution.RawRunResult{ExitCode: 2, Stdout: "diagnostics"}, nil)

	res, _ := NewCompiler(mockExecutor).Compile(context.Background(), sb)
	if res.Stderr != "diagnostics" {
		t.Fatalf("expected stdout diagnostics to be surfaced, got %q", res.Stderr)
	}
}

func TestCompile_TimeoutIsCompilationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockExecutor := mocks.NewMockExecutor(ctrl)
	sb := cppSandbox(t)

	mockExecutor.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, pkgErr.ErrTimeLimitExceeded)

	res, err := NewCompiler(mockExecutor).Compile(context.Background(), sb)
	if err != nil {
		t.Fatalf("expected timeout to be reported as a failed build, got %v", err)
	}
	if res.ExitCode == constants.ExitCodeSuccess {
		t.Fatalf("expected non-zero exit code")
	}
	if res.Stderr != constants.CompilationMessageTimeout {
		t.Fatalf("expected %q, got %q", constants.CompilationMessageTimeout, res.Stderr)
	}
}

func TestCompile_ExecutorErrorIsReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockExecutor := mocks.NewMockExecutor(ctrl)
	sb := cppSandbox(t)
	boom := errors.New("daemon unavailable")

	mockExecutor.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, boom)

	_, err := NewCompiler(mockExecutor).Compile(context.Background(), sb)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped executor error, got %v", err)
	}
}

func TestCompile_InterpretedLanguageIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockExecutor := mocks.NewMockExecutor(ctrl)
	lang, _ := languages.NewRegistry().Get("python")
	sb := &sandbox.Sandbox{ID: "sb-2", Language: lang}

	res, err := NewCompiler(mockExecutor).Compile(context.Background(), sb)
	if err != nil || res.ExitCode != constants.ExitCodeSuccess {
		t.Fatalf("expected no-op build, got %+v, %v", res, err)
	}
}
