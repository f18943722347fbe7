// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"os/exec"
	"slices"
	"strings"
)

// PodmanEngine implements the Engine interface using the Podman CLI.
// It embeds BaseCLIEngine for common CLI operations.
type PodmanEngine struct {
	*BaseCLIEngine
}

// NewPodmanEngine creates a new Podman engine.
// Rootless Podman needs --userns=keep-id so bind-mounted module files keep
// the invoking user's ownership inside the container.
func NewPodmanEngine(opts ...BaseCLIEngineOption) *PodmanEngine {
	path, _ := exec.LookPath("podman")

	allOpts := append([]BaseCLIEngineOption{
		WithName(string(EngineTypePodman)),
		WithRunArgsTransformer(injectKeepID),
	}, opts...)

	return &PodmanEngine{
		BaseCLIEngine: NewBaseCLIEngine(path, allOpts...),
	}
}

// injectKeepID inserts --userns=keep-id right after the "run" verb.
func injectKeepID(args []string) []string {
	if len(args) == 0 || args[0] != "run" {
		return args
	}
	return slices.Insert(slices.Clone(args), 1, "--userns=keep-id")
}

// Name returns the engine name.
func (e *PodmanEngine) Name() string {
	return string(EngineTypePodman)
}

// Available checks if Podman is available.
func (e *PodmanEngine) Available() bool {
	if e.BinaryPath() == "" {
		return false
	}
	cmd := e.CreateCommand(context.Background(), "version", "--format", "{{.Version}}")
	return cmd.Run() == nil
}

// Version returns the Podman version.
func (e *PodmanEngine) Version(ctx context.Context) (string, error) {
	out, err := e.RunCommandWithOutput(ctx, "version", "--format", "{{.Version}}")
	if err != nil {
		return "", fmt.Errorf("failed to get podman version: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// ImageExists checks if an image exists locally.
func (e *PodmanEngine) ImageExists(ctx context.Context, image ImageTag) (bool, error) {
	if err := image.Validate(); err != nil {
		return false, err
	}
	err := e.RunCommandStatus(ctx, "image", "exists", string(image))
	return err == nil, nil
}
