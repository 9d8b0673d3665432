package engine

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/internal/metrics"
	"github.com/mini-maxit/judge/internal/sandbox"
	"github.com/mini-maxit/judge/internal/stages/executor"
	"github.com/mini-maxit/judge/internal/stages/verifier"
	customErr "github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/languages"
	"github.com/mini-maxit/judge/pkg/messages"
	"github.com/mini-maxit/judge/pkg/solution"
)

const (
	ModeSingle   = "single"
	ModeFailFast = "failfast"
	ModeBatch    = "batch"
)

type Engine interface {
	// RunSingle runs code once against input without comparing output.
	RunSingle(ctx context.Context, language, code, input string) solution.RunResult
	// RunFailFast judges test cases in order and stops at the first failure.
	RunFailFast(ctx context.Context, language, code string, testCases []messages.TestCase) solution.Result
	// RunFullBatch judges every test case and reports each one.
	RunFullBatch(ctx context.Context, language, code string, testCases []messages.TestCase) solution.BatchReport
}

type engine struct {
	registry    *languages.Registry
	provisioner sandbox.Provisioner
	executor    executor.Executor
	logger      *zap.SugaredLogger
}

func NewEngine(registry *languages.Registry, provisioner sandbox.Provisioner, exec executor.Executor) Engine {
	return &engine{
		registry:    registry,
		provisioner: provisioner,
		executor:    exec,
		logger:      logger.NewNamedLogger("engine"),
	}
}

// caseOutcome is the judgment of one exec against one test case.
type caseOutcome struct {
	verdict  solution.Verdict
	stdout   string
	stderr   string
	exitCode int
	err      error
}

// prepare resolves the language and provisions a sandbox. On failure it returns
// the terminal verdict together with the compiler output or the cause.
func (e *engine) prepare(
	ctx context.Context,
	language, code string,
) (*sandbox.Sandbox, languages.Language, solution.Verdict, *customErr.CompilationError, error) {
	lang, err := e.registry.Get(language)
	if err != nil {
		e.logger.Errorf("Unknown language %q: %s", language, err)
		return nil, lang, solution.SystemError, nil, err
	}

	sb, err := e.provisioner.Provision(ctx, lang, code)
	if err != nil {
		var compErr *customErr.CompilationError
		if errors.As(err, &compErr) {
			return nil, lang, solution.CompilationError, compErr, nil
		}
		e.logger.Errorf("Failed to provision sandbox for %s: %s", lang.ID, err)
		return nil, lang, solution.SystemError, nil, err
	}
	return sb, lang, "", nil, nil
}

func (e *engine) runCase(ctx context.Context, sb *sandbox.Sandbox, input string) caseOutcome {
	res, err := e.executor.Run(ctx, sb, executor.PhaseRun, sb.Language.RunCommand, &input)
	if err != nil {
		if errors.Is(err, customErr.ErrTimeLimitExceeded) {
			return caseOutcome{verdict: solution.TimeLimitExceeded}
		}
		e.logger.Errorf("Exec failed: %s [SandboxID: %s]", err, sb.ID)
		return caseOutcome{verdict: solution.SystemError, err: err}
	}

	out := caseOutcome{
		stdout:   verifier.Normalize(res.Stdout),
		stderr:   verifier.Normalize(res.Stderr),
		exitCode: res.ExitCode,
	}
	if v, ok := verifier.VerdictForExitCode(res.ExitCode); !ok {
		out.verdict = v
	}
	return out
}

func (e *engine) RunSingle(ctx context.Context, language, code, input string) solution.RunResult {
	sb, lang, verdict, compErr, err := e.prepare(ctx, language, code)
	if sb == nil {
		res := solution.RunResult{Verdict: verdict, Message: verifier.MessageFor(verdict)}
		if compErr != nil {
			res.Stderr = compErr.Stderr
			res.ExitCode = compErr.ExitCode
		}
		if err != nil {
			e.logger.Errorf("Run failed with system error: %s", err)
		}
		e.record(lang.ID, ModeSingle, res.Verdict)
		return res
	}
	defer e.provisioner.Teardown(sb)

	out := e.runCase(ctx, sb, input)
	if out.verdict == "" {
		out.verdict = solution.Success
	}

	res := solution.RunResult{
		Verdict:  out.verdict,
		Stdout:   out.stdout,
		Stderr:   out.stderr,
		ExitCode: out.exitCode,
		Message:  verifier.MessageFor(out.verdict),
	}
	e.record(lang.ID, ModeSingle, res.Verdict)
	return res
}

func (e *engine) RunFailFast(
	ctx context.Context,
	language, code string,
	testCases []messages.TestCase,
) solution.Result {
	sb, lang, verdict, compErr, err := e.prepare(ctx, language, code)
	if sb == nil {
		res := solution.Result{Verdict: verdict, Message: verifier.MessageFor(verdict)}
		if compErr != nil {
			res.CompileOutput = compErr.Stderr
		}
		if err != nil {
			res.Cause = err.Error()
		}
		e.record(lang.ID, ModeFailFast, res.Verdict)
		return res
	}
	defer e.provisioner.Teardown(sb)

	res := e.failFast(ctx, sb, testCases)
	e.record(lang.ID, ModeFailFast, res.Verdict)
	return res
}

func (e *engine) failFast(ctx context.Context, sb *sandbox.Sandbox, testCases []messages.TestCase) solution.Result {
	for i, tc := range testCases {
		caseIndex := i + 1
		out := e.runCase(ctx, sb, tc.Input)

		if out.verdict != "" {
			res := solution.Result{
				Verdict:         out.verdict,
				Message:         verifier.MessageFor(out.verdict),
				FailedCaseIndex: caseIndex,
			}
			if out.err != nil {
				res.Cause = out.err.Error()
			}
			return res
		}

		expected := verifier.Normalize(tc.ExpectedOutput)
		if out.stdout != expected {
			e.logger.Infof("Wrong answer on case %d [SandboxID: %s]", caseIndex, sb.ID)
			return solution.Result{
				Verdict:         solution.WrongAnswer,
				Message:         verifier.MessageFor(solution.WrongAnswer),
				FailedCaseIndex: caseIndex,
				FailedTestCase: &solution.FailedTestCase{
					CaseIndex:      caseIndex,
					Input:          tc.Input,
					ExpectedOutput: expected,
					ActualOutput:   out.stdout,
				},
			}
		}
	}

	return solution.Result{
		Verdict: solution.Accepted,
		Message: verifier.MessageFor(solution.Accepted),
	}
}

func (e *engine) RunFullBatch(
	ctx context.Context,
	language, code string,
	testCases []messages.TestCase,
) solution.BatchReport {
	sb, lang, verdict, compErr, err := e.prepare(ctx, language, code)
	if sb == nil {
		report := solution.BatchReport{
			Verdict: verdict,
			Message: verifier.MessageFor(verdict),
			Cases:   []solution.CaseReport{},
		}
		if compErr != nil {
			report.CompileOutput = compErr.Stderr
		}
		if err != nil {
			e.logger.Errorf("Batch failed with system error: %s", err)
		}
		e.record(lang.ID, ModeBatch, report.Verdict)
		return report
	}
	defer e.provisioner.Teardown(sb)

	cases := make([]solution.CaseReport, 0, len(testCases))
	overall := solution.Accepted
	for i, tc := range testCases {
		out := e.runCase(ctx, sb, tc.Input)
		expected := verifier.Normalize(tc.ExpectedOutput)

		v := out.verdict
		if v == "" {
			v = solution.Passed
			if out.stdout != expected {
				v = solution.WrongAnswer
			}
		}
		if v != solution.Passed && overall == solution.Accepted {
			overall = v
		}

		cases = append(cases, solution.CaseReport{
			CaseIndex:      i + 1,
			Input:          tc.Input,
			ExpectedOutput: expected,
			ActualOutput:   out.stdout,
			Verdict:        v,
			Stderr:         out.stderr,
		})
	}

	e.record(lang.ID, ModeBatch, overall)
	return solution.BatchReport{
		Verdict: overall,
		Message: verifier.MessageFor(overall),
		Cases:   cases,
	}
}

func (e *engine) record(language, mode string, v solution.Verdict) {
	if language == "" {
		language = "unknown"
	}
	metrics.VerdictsTotal.WithLabelValues(language, mode, v.String()).Inc()
}
