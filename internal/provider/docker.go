package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/google/uuid"
	"github.com/moby/go-archive"
	"github.com/rs/zerolog"
	"github.com/shiftgate/shiftgate/internal/utils"
)

// DockerProvider materializes candidate environments as labeled containers
// on the local docker daemon. An artifact ref is either an image tag or a
// local directory containing a Dockerfile, in which case the image is built
// from it first.
type DockerProvider struct {
	cli *client.Client
	log zerolog.Logger
}

func NewDockerProvider(log zerolog.Logger) (*DockerProvider, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	return &DockerProvider{cli: cli, log: log}, nil
}

// CreateEnvironment starts one candidate container for target running the
// given artifact and returns its container ID.
func (p *DockerProvider) CreateEnvironment(ctx context.Context, target, artifact string) (string, error) {
	image := artifact
	if isBuildContext(artifact) {
		built, err := p.buildImage(ctx, artifact, target)
		if err != nil {
			return "", err
		}
		image = built
	}

	suffix := strings.Split(uuid.NewString(), "-")[0]
	name := fmt.Sprintf("%s-candidate-%s", utils.SanitizeName(target), suffix)
	resp, err := p.cli.ContainerCreate(ctx,
		&container.Config{
			Image: image,
			Labels: map[string]string{
				"shiftgate.enabled": "true",
				"shiftgate.target":  target,
				"shiftgate.role":    "candidate",
			},
		},
		&container.HostConfig{
			RestartPolicy: container.RestartPolicy{
				Name: container.RestartPolicyUnlessStopped,
			},
		}, nil, nil, name)
	if err != nil {
		return "", fmt.Errorf("create container: %w", err)
	}

	if err := p.cli.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	p.log.Info().Str("target", target).Str("container", resp.ID).Msg("candidate container started")
	return resp.ID, nil
}

// DestroyEnvironment stops and removes the container behind envID.
func (p *DockerProvider) DestroyEnvironment(ctx context.Context, envID string) error {
	if err := p.cli.ContainerStop(ctx, envID, container.StopOptions{}); err != nil {
		return fmt.Errorf("stop container: %w", err)
	}
	if err := p.cli.ContainerRemove(ctx, envID, container.RemoveOptions{}); err != nil {
		return fmt.Errorf("remove container: %w", err)
	}
	p.log.Info().Str("container", envID).Msg("environment removed")
	return nil
}

func (p *DockerProvider) Close() error {
	return p.cli.Close()
}

func isBuildContext(artifact string) bool {
	info, err := os.Stat(artifact)
	if err != nil || !info.IsDir() {
		return false
	}
	_, err = os.Stat(filepath.Join(artifact, "Dockerfile"))
	return err == nil
}

func (p *DockerProvider) buildImage(ctx context.Context, dir, target string) (string, error) {
	buildContext, err := archive.TarWithOptions(dir, &archive.TarOptions{})
	if err != nil {
		return "", fmt.Errorf("create tar archive: %w", err)
	}
	tag := utils.SanitizeName(target)
	resp, err := p.cli.ImageBuild(ctx, buildContext, build.ImageBuildOptions{
		Tags: []string{fmt.Sprintf("%s:latest", tag)},
		Labels: map[string]string{
			"shiftgate.enabled": "true",
			"shiftgate.target":  target,
		},
		Dockerfile: "Dockerfile",
		Remove:     true,
	})
	if err != nil {
		return "", fmt.Errorf("build image: %w", err)
	}
	defer resp.Body.Close()

	imageID := ""
	dec := json.NewDecoder(resp.Body)
	for {
		var jm jsonmessage.JSONMessage
		if err := dec.Decode(&jm); err != nil {
			if err == io.EOF {
				break
			}
			return "", fmt.Errorf("decode build output: %w", err)
		}
		if stream := strings.TrimSpace(jm.Stream); stream != "" {
			p.log.Debug().Msg(stream)
		}
		if jm.Aux != nil {
			var result build.Result
			if err := json.Unmarshal(*jm.Aux, &result); err != nil {
				return "", fmt.Errorf("unmarshal build result: %w", err)
			}
			imageID = result.ID
		}
	}
	if imageID == "" {
		return "", fmt.Errorf("image build produced no image ID")
	}

	p.log.Info().Str("image", imageID).Str("target", target).Msg("built candidate image")
	return imageID, nil
}
