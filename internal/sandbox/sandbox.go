package sandbox

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mini-maxit/judge/internal/docker"
	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/internal/metrics"
	"github.com/mini-maxit/judge/pkg/constants"
	customErr "github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/languages"
)

var containerNameRegex = regexp.MustCompile("[^a-zA-Z0-9_.-]")

// Sandbox is one live, isolated environment owned by a single submission or run.
type Sandbox struct {
	ID          string
	ContainerID string
	Language    languages.Language
	// HostDir is the working directory as seen by this process.
	HostDir string
	// WorkDir is the same directory as seen inside the container.
	WorkDir string
	User    string
}

type BuildResult struct {
	ExitCode int
	Stderr   string
}

// Builder compiles the source already present in a sandbox.
type Builder interface {
	Compile(ctx context.Context, sb *Sandbox) (BuildResult, error)
}

type Config struct {
	WorkspaceRoot string
	// DataVolume is the named volume shared with the worker container. Empty
	// means the worker runs on the host and bind mounts are used instead.
	DataVolume      string
	MemoryBytes     int64
	NanoCPUs        int64
	PidsLimit       int64
	User            string
	NetworkDisabled bool
}

type Provisioner interface {
	// Provision returns a live sandbox, or a *errors.CompilationError when the
	// build step fails. In that case the sandbox is already torn down.
	Provision(ctx context.Context, lang languages.Language, source string) (*Sandbox, error)
	// Teardown never fails; problems are logged.
	Teardown(sb *Sandbox)
}

type provisioner struct {
	docker  docker.DockerClient
	builder Builder
	cfg     Config
	logger  *zap.SugaredLogger
}

func NewProvisioner(dCli docker.DockerClient, builder Builder, cfg Config) Provisioner {
	return &provisioner{
		docker:  dCli,
		builder: builder,
		cfg:     cfg,
		logger:  logger.NewNamedLogger("provisioner"),
	}
}

func (p *provisioner) Provision(ctx context.Context, lang languages.Language, source string) (*Sandbox, error) {
	start := time.Now()
	id := uuid.NewString()
	sb := &Sandbox{
		ID:       id,
		Language: lang,
		HostDir:  filepath.Join(p.cfg.WorkspaceRoot, id),
		User:     p.cfg.User,
	}
	if p.cfg.DataVolume != "" {
		sb.WorkDir = sb.HostDir
	} else {
		sb.WorkDir = constants.SandboxBindMountTarget
	}

	// The source has to exist before the first exec, so it is written before the container starts.
	if err := p.prepareWorkspace(sb, source); err != nil {
		p.Teardown(sb)
		return nil, err
	}

	if err := p.docker.EnsureImage(ctx, lang.Image); err != nil {
		p.logger.Errorf("Failed to ensure image %s: %s [SandboxID: %s]", lang.Image, err, id)
		p.Teardown(sb)
		return nil, fmt.Errorf("ensure image %s: %w", lang.Image, err)
	}

	containerID, err := p.docker.CreateAndStartContainer(
		ctx,
		p.containerConfig(sb),
		p.hostConfig(sb),
		SanitizeContainerName(id),
	)
	if err != nil {
		p.logger.Errorf("Failed to start sandbox container: %s [SandboxID: %s]", err, id)
		p.Teardown(sb)
		return nil, fmt.Errorf("start sandbox: %w", err)
	}
	sb.ContainerID = containerID
	p.logger.Infof("Sandbox started in container %s [SandboxID: %s]", containerID, id)

	if lang.IsCompiled() {
		res, err := p.builder.Compile(ctx, sb)
		if err != nil {
			p.Teardown(sb)
			return nil, err
		}
		if res.ExitCode != constants.ExitCodeSuccess {
			p.logger.Infof("Compilation failed with exit code %d [SandboxID: %s]", res.ExitCode, id)
			p.Teardown(sb)
			return nil, &customErr.CompilationError{ExitCode: res.ExitCode, Stderr: res.Stderr}
		}
	}

	metrics.SandboxProvisionDuration.WithLabelValues(lang.ID).Observe(float64(time.Since(start).Milliseconds()))
	return sb, nil
}

func (p *provisioner) prepareWorkspace(sb *Sandbox, source string) error {
	if err := os.MkdirAll(sb.HostDir, 0o777); err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	// MkdirAll is subject to the umask and the sandbox user must be able to write build output.
	if err := os.Chmod(sb.HostDir, 0o777); err != nil {
		return fmt.Errorf("chmod workspace: %w", err)
	}
	path := filepath.Join(sb.HostDir, sb.Language.SourceFile)
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		return fmt.Errorf("write source: %w", err)
	}
	return nil
}

func (p *provisioner) containerConfig(sb *Sandbox) *container.Config {
	return &container.Config{
		Image:           sb.Language.Image,
		Cmd:             []string{constants.SandboxKeepAliveCommand, constants.SandboxKeepAliveArgument},
		WorkingDir:      sb.WorkDir,
		Env:             sb.Language.Env,
		User:            p.cfg.User,
		NetworkDisabled: p.cfg.NetworkDisabled,
		Labels:          map[string]string{"judge.sandbox": sb.ID},
	}
}

func (p *provisioner) hostConfig(sb *Sandbox) *container.HostConfig {
	pidsLimit := p.cfg.PidsLimit

	hostCfg := &container.HostConfig{
		Resources: container.Resources{
			Memory:     p.cfg.MemoryBytes,
			MemorySwap: p.cfg.MemoryBytes,
			NanoCPUs:   p.cfg.NanoCPUs,
			PidsLimit:  &pidsLimit,
		},
		SecurityOpt: []string{"no-new-privileges"},
		CapDrop:     []string{"ALL"},
		IpcMode:     container.IPCModePrivate,
	}
	if p.cfg.NetworkDisabled {
		hostCfg.NetworkMode = container.NetworkMode("none")
	}

	if p.cfg.DataVolume != "" {
		hostCfg.Mounts = []mount.Mount{{
			Type:   mount.TypeVolume,
			Source: p.cfg.DataVolume,
			Target: p.cfg.WorkspaceRoot,
		}}
	} else {
		hostCfg.Mounts = []mount.Mount{{
			Type:   mount.TypeBind,
			Source: sb.HostDir,
			Target: constants.SandboxBindMountTarget,
		}}
	}
	return hostCfg
}

func (p *provisioner) Teardown(sb *Sandbox) {
	if sb == nil {
		return
	}

	if sb.ContainerID != "" {
		ctx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(constants.ContainerCleanupTimeout)*time.Second,
		)
		defer cancel()
		if err := p.docker.RemoveContainer(ctx, sb.ContainerID); err != nil {
			metrics.SandboxCleanupFailures.Inc()
			p.logger.Errorf("Failed to remove container %s: %s [SandboxID: %s]", sb.ContainerID, err, sb.ID)
		}
	}

	if !p.ownsDir(sb.HostDir) {
		p.logger.Errorf("Refusing to remove %q outside of workspace root [SandboxID: %s]", sb.HostDir, sb.ID)
		return
	}
	if err := os.RemoveAll(sb.HostDir); err != nil {
		metrics.SandboxCleanupFailures.Inc()
		p.logger.Errorf("Failed to remove workspace %s: %s [SandboxID: %s]", sb.HostDir, err, sb.ID)
	}
}

// ownsDir reports whether dir is a direct child of the workspace root.
func (p *provisioner) ownsDir(dir string) bool {
	if dir == "" {
		return false
	}
	root := filepath.Clean(p.cfg.WorkspaceRoot)
	clean := filepath.Clean(dir)
	return filepath.Dir(clean) == root && !strings.HasPrefix(filepath.Base(clean), ".")
}

func SanitizeContainerName(raw string) string {
	cleaned := containerNameRegex.ReplaceAllString(raw, "-")
	if cleaned == "" {
		cleaned = "untitled"
	}
	return constants.SandboxContainerPrefix + cleaned
}
