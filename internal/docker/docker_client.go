package docker

import (
	"context"
	"io"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	image "github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"

	"github.com/mini-maxit/judge/pkg/constants"
	"github.com/mini-maxit/judge/pkg/errors"
)

// ExecConfig describes one command run inside an already running container.
type ExecConfig struct {
	Cmd         []string
	WorkingDir  string
	Env         []string
	User        string
	AttachStdin bool
}

// Attachment is the hijacked, multiplexed stream of one exec.
type Attachment interface {
	io.Reader
	io.Writer
	CloseWrite() error
	Close()
}

type DockerClient interface {
	DataVolumeName() string
	CheckDataVolume(volumeName, mountPoint string) error
	EnsureImage(ctx context.Context, imageName string) error
	CreateAndStartContainer(
		ctx context.Context,
		containerCfg *container.Config,
		hostCfg *container.HostConfig,
		name string,
	) (string, error)
	ExecAttach(ctx context.Context, containerID string, cfg ExecConfig) (string, Attachment, error)
	ExecExitCode(ctx context.Context, execID string) (int, error)
	RemoveContainer(ctx context.Context, containerID string) error
}

type dockerClient struct {
	cli        *client.Client
	volumeName string
}

// NewDockerClient connects to the daemon from the environment. When a volume
// name is given the worker must have it mounted at mountPoint.
func NewDockerClient(volumeName, mountPoint string) (DockerClient, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}

	dc := &dockerClient{cli: cli, volumeName: volumeName}
	if volumeName != "" {
		if err := dc.CheckDataVolume(volumeName, mountPoint); err != nil {
			return nil, err
		}
	}

	return dc, nil
}

func (d *dockerClient) DataVolumeName() string { return d.volumeName }

func (d *dockerClient) CheckDataVolume(volumeName, mountPoint string) error {
	ctx := context.Background()
	containers, err := d.cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return err
	}

	for _, c := range containers {
		for _, m := range c.Mounts {
			if m.Name == volumeName && m.Destination == mountPoint {
				return nil
			}
		}
	}

	return errors.ErrVolumeNotMounted
}

func (d *dockerClient) EnsureImage(ctx context.Context, imageName string) error {
	_, err := d.cli.ImageInspect(ctx, imageName)
	if err == nil {
		return nil
	}
	if !client.IsErrNotFound(err) {
		return err
	}

	reader, err := d.cli.ImagePull(ctx, imageName, image.PullOptions{})
	if err != nil {
		return err
	}
	defer reader.Close()
	_, err = io.Copy(io.Discard, reader)
	return err
}

func (d *dockerClient) CreateAndStartContainer(
	ctx context.Context,
	containerCfg *container.Config,
	hostCfg *container.HostConfig,
	name string,
) (string, error) {
	resp, err := d.cli.ContainerCreate(ctx, containerCfg, hostCfg, nil, nil, name)
	if err != nil {
		return "", err
	}
	if err := d.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		_ = d.RemoveContainer(context.Background(), resp.ID)
		return "", err
	}
	return resp.ID, nil
}

func (d *dockerClient) ExecAttach(ctx context.Context, containerID string, cfg ExecConfig) (string, Attachment, error) {
	created, err := d.cli.ContainerExecCreate(ctx, containerID, container.ExecOptions{
		Cmd:          cfg.Cmd,
		WorkingDir:   cfg.WorkingDir,
		Env:          cfg.Env,
		User:         cfg.User,
		AttachStdin:  cfg.AttachStdin,
		AttachStdout: true,
		AttachStderr: true,
	})
	if err != nil {
		return "", nil, err
	}

	resp, err := d.cli.ContainerExecAttach(ctx, created.ID, container.ExecStartOptions{})
	if err != nil {
		return "", nil, err
	}
	return created.ID, &hijackedAttachment{resp: resp}, nil
}

// ExecExitCode inspects an exec until the daemon reports it stopped. The
// attached stream can reach EOF slightly before the exit code is recorded.
func (d *dockerClient) ExecExitCode(ctx context.Context, execID string) (int, error) {
	interval := time.Duration(constants.ExecInspectPollInterval) * time.Millisecond
	for {
		inspect, err := d.cli.ContainerExecInspect(ctx, execID)
		if err != nil {
			return -1, err
		}
		if !inspect.Running {
			return inspect.ExitCode, nil
		}
		select {
		case <-ctx.Done():
			return -1, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// RemoveContainer kills and removes the container with its anonymous volumes.
func (d *dockerClient) RemoveContainer(ctx context.Context, containerID string) error {
	return d.cli.ContainerRemove(ctx, containerID, container.RemoveOptions{
		Force:         true,
		RemoveVolumes: true,
	})
}

type hijackedAttachment struct {
	resp types.HijackedResponse
}

func (h *hijackedAttachment) Read(p []byte) (int, error) {
	return h.resp.Reader.Read(p)
}

func (h *hijackedAttachment) Write(p []byte) (int, error) {
	return h.resp.Conn.Write(p)
}

func (h *hijackedAttachment) CloseWrite() error {
	return h.resp.CloseWrite()
}

func (h *hijackedAttachment) Close() {
	h.resp.Close()
}
