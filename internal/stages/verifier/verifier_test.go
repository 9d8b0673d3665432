package verifier_test

import (
	"testing"

	. "github.com/mini-maxit/judge/internal/stages/verifier"
	"github.com/mini-maxit/judge/pkg/constants"
	"github.com/mini-maxit/judge/pkg/solution"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"4\n", "4"},
		{"  4  ", "4"},
		{"1\r\n2\r\n", "1\n2"},
		{"\n\n", ""},
		{"a \nb", "a \nb"},
		{"", ""},
	}

	for _, c := range cases {
		if got := Normalize(c.in); got != c.out {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.out)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Equal("4\r\n", "4\n") {
		t.Fatalf("expected CRLF and LF outputs to be equal")
	}
	if !Equal("1 2 3\n\n\n", "1 2 3") {
		t.Fatalf("expected trailing whitespace to be ignored")
	}
	if Equal("4\n", "5\n") {
		t.Fatalf("expected different outputs to differ")
	}
	if Equal("1\n2", "1 2") {
		t.Fatalf("expected inner whitespace to matter")
	}
}

func TestVerdictForExitCode(t *testing.T) {
	if _, ok := VerdictForExitCode(constants.ExitCodeSuccess); !ok {
		t.Fatalf("expected exit code 0 to be ok")
	}

	v, ok := VerdictForExitCode(constants.ExitCodeMemoryLimitExceeded)
	if ok || v != solution.MemoryLimitExceeded {
		t.Fatalf("expected %s for exit code 137, got %s", solution.MemoryLimitExceeded, v)
	}

	for _, code := range []int{1, 2, 127, 134, 139, 255, -1} {
		v, ok := VerdictForExitCode(code)
		if ok || v != solution.RuntimeError {
			t.Fatalf("expected %s for exit code %d, got %s", solution.RuntimeError, code, v)
		}
	}
}

func TestMessageFor(t *testing.T) {
	if MessageFor(solution.SystemError) != constants.SolutionMessageInternalError {
		t.Fatalf("expected generic message for system errors")
	}
	if MessageFor(solution.Accepted) != constants.SolutionMessageAccepted {
		t.Fatalf("unexpected message for accepted")
	}
}
