package tests

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/docker/docker/pkg/stdcopy"
)

func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	return p
}

// Framed returns stdout and stderr encoded the way the daemon multiplexes exec output.
func Framed(t *testing.T, stdout, stderr string) []byte {
	t.Helper()
	var buf bytes.Buffer
	if stdout != "" {
		if _, err := stdcopy.NewStdWriter(&buf, stdcopy.Stdout).Write([]byte(stdout)); err != nil {
			t.Fatalf("frame stdout failed: %v", err)
		}
	}
	if stderr != "" {
		if _, err := stdcopy.NewStdWriter(&buf, stdcopy.Stderr).Write([]byte(stderr)); err != nil {
			t.Fatalf("frame stderr failed: %v", err)
		}
	}
	return buf.Bytes()
}

// FakeAttachment stands in for a hijacked exec connection. It serves a fixed
// framed stream and records what the caller wrote to stdin.
type FakeAttachment struct {
	mu          sync.Mutex
	reader      *bytes.Reader
	stdin       bytes.Buffer
	block       chan struct{}
	stdinClosed bool
	closed      bool
}

func NewFakeAttachment(stream []byte) *FakeAttachment {
	return &FakeAttachment{reader: bytes.NewReader(stream)}
}

// NewHangingAttachment never produces output until Close is called,
// like a program stuck in an infinite loop.
func NewHangingAttachment(t *testing.T) *FakeAttachment {
	a := &FakeAttachment{reader: bytes.NewReader(nil), block: make(chan struct{})}
	t.Cleanup(a.Close)
	return a
}

func (a *FakeAttachment) Read(p []byte) (int, error) {
	if a.block != nil {
		<-a.block
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reader.Read(p)
}

func (a *FakeAttachment) Write(p []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stdin.Write(p)
}

func (a *FakeAttachment) CloseWrite() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stdinClosed = true
	return nil
}

func (a *FakeAttachment) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	if a.block != nil {
		close(a.block)
	}
}

func (a *FakeAttachment) Stdin() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stdin.String()
}

func (a *FakeAttachment) StdinClosed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stdinClosed
}

// EchoAttachment plays a program that copies stdin to stdout line by line.
// Both directions are unbuffered pipes, so the program only reads its next
// line once the previous one was consumed from the output side.
type EchoAttachment struct {
	stdinR  *io.PipeReader
	stdinW  *io.PipeWriter
	outR    *io.PipeReader
	outW    *io.PipeWriter
	closeOnce sync.Once
}

func NewEchoAttachment(t *testing.T) *EchoAttachment {
	a := &EchoAttachment{}
	a.stdinR, a.stdinW = io.Pipe()
	a.outR, a.outW = io.Pipe()
	go a.echo()
	t.Cleanup(a.Close)
	return a
}

func (a *EchoAttachment) echo() {
	out := stdcopy.NewStdWriter(a.outW, stdcopy.Stdout)
	scanner := bufio.NewScanner(a.stdinR)
	for scanner.Scan() {
		if _, err := out.Write(append(scanner.Bytes(), '\n')); err != nil {
			a.outW.CloseWithError(err)
			return
		}
	}
	a.outW.CloseWithError(scanner.Err())
}

func (a *EchoAttachment) Read(p []byte) (int, error) {
	return a.outR.Read(p)
}

func (a *EchoAttachment) Write(p []byte) (int, error) {
	return a.stdinW.Write(p)
}

func (a *EchoAttachment) CloseWrite() error {
	return a.stdinW.Close()
}

func (a *EchoAttachment) Close() {
	a.closeOnce.Do(func() {
		a.stdinR.CloseWithError(io.ErrClosedPipe)
		a.outR.CloseWithError(io.ErrClosedPipe)
	})
}
