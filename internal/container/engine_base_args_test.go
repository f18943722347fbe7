// SPDX-License-Identifier: MPL-2.0

package container

import (
	"slices"
	"testing"
)

func TestBuildArgs(t *testing.T) {
	t.Parallel()

	e := NewBaseCLIEngine("/usr/bin/docker", WithName("docker"))

	tests := []struct {
		name string
		opts BuildOptions
		want []string
	}{
		{
			name: "context only",
			opts: BuildOptions{ContextDir: "/mod"},
			want: []string{"build", "/mod"},
		},
		{
			name: "dockerfile resolved against context",
			opts: BuildOptions{ContextDir: "/mod", Dockerfile: "container/latest/Dockerfile"},
			want: []string{"build", "-f", "/mod/container/latest/Dockerfile", "/mod"},
		},
		{
			name: "tag and no-cache",
			opts: BuildOptions{ContextDir: "/mod", Tag: "alice/figlet:latest", NoCache: true},
			want: []string{"build", "-t", "alice/figlet:latest", "--no-cache", "/mod"},
		},
		{
			name: "absolute dockerfile kept as-is",
			opts: BuildOptions{ContextDir: "/mod", Dockerfile: "/abs/Dockerfile"},
			want: []string{"build", "-f", "/abs/Dockerfile", "/mod"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := e.BuildArgs(tt.opts)
			if !slices.Equal(got, tt.want) {
				t.Errorf("BuildArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildArgsBuildArgsFlag(t *testing.T) {
	t.Parallel()

	e := NewBaseCLIEngine("docker")
	got := e.BuildArgs(BuildOptions{
		ContextDir: "/mod",
		BuildArgs:  map[string]string{"VERSION": "1.2"},
	})

	if !slices.Contains(got, "--build-arg") || !slices.Contains(got, "VERSION=1.2") {
		t.Errorf("BuildArgs() = %v, missing --build-arg VERSION=1.2", got)
	}
}

func TestRunArgs(t *testing.T) {
	t.Parallel()

	e := NewBaseCLIEngine("docker")
	got := e.RunArgs(RunOptions{
		Image:   "alice/figlet:latest",
		Command: []string{"sh", "/mnt/examples/example.sh"},
		Remove:  true,
		WorkDir: "/work",
		Volumes: []VolumeMount{
			{HostPath: "/mod/examples", ContainerPath: "/mnt/examples", ReadOnly: true},
		},
	})

	want := []string{
		"run", "--rm", "-w", "/work",
		"-v", "/mod/examples:/mnt/examples:ro",
		"alice/figlet:latest",
		"sh", "/mnt/examples/example.sh",
	}
	if !slices.Equal(got, want) {
		t.Errorf("RunArgs() = %v, want %v", got, want)
	}
}

func TestRunArgsEnvAndName(t *testing.T) {
	t.Parallel()

	e := NewBaseCLIEngine("docker")
	got := e.RunArgs(RunOptions{
		Image: "alice/figlet:latest",
		Name:  "wrapkit-smoke",
		Env:   map[string]string{"LANG": "C"},
	})

	if !slices.Contains(got, "--name") || !slices.Contains(got, "wrapkit-smoke") {
		t.Errorf("RunArgs() = %v, missing container name", got)
	}
	if !slices.Contains(got, "-e") || !slices.Contains(got, "LANG=C") {
		t.Errorf("RunArgs() = %v, missing env", got)
	}
	// Image must come before the command and after all options
	if got[len(got)-1] != "alice/figlet:latest" {
		t.Errorf("RunArgs() = %v, image not last for command-less run", got)
	}
}

func TestRunArgsEntrypoint(t *testing.T) {
	t.Parallel()

	e := NewBaseCLIEngine("docker")
	got := e.RunArgs(RunOptions{
		Image:      "alice/figlet:latest",
		Entrypoint: "/bin/sh",
		Command:    []string{"/mnt/examples/example.sh"},
		Remove:     true,
	})

	want := []string{
		"run", "--rm", "--entrypoint", "/bin/sh",
		"alice/figlet:latest",
		"/mnt/examples/example.sh",
	}
	if !slices.Equal(got, want) {
		t.Errorf("RunArgs() = %v, want %v", got, want)
	}
}

func TestPushArgs(t *testing.T) {
	t.Parallel()

	e := NewBaseCLIEngine("docker")
	got := e.PushArgs(PushOptions{Image: "alice/figlet:latest"})
	want := []string{"push", "alice/figlet:latest"}
	if !slices.Equal(got, want) {
		t.Errorf("PushArgs() = %v, want %v", got, want)
	}
}

func TestRemoveImageArgs(t *testing.T) {
	t.Parallel()

	e := NewBaseCLIEngine("docker")

	if got := e.RemoveImageArgs("alice/figlet:latest", false); !slices.Equal(got, []string{"rmi", "alice/figlet:latest"}) {
		t.Errorf("RemoveImageArgs(force=false) = %v", got)
	}
	if got := e.RemoveImageArgs("alice/figlet:latest", true); !slices.Equal(got, []string{"rmi", "-f", "alice/figlet:latest"}) {
		t.Errorf("RemoveImageArgs(force=true) = %v", got)
	}
}

func TestInjectKeepID(t *testing.T) {
	t.Parallel()

	got := injectKeepID([]string{"run", "--rm", "img"})
	want := []string{"run", "--userns=keep-id", "--rm", "img"}
	if !slices.Equal(got, want) {
		t.Errorf("injectKeepID(run) = %v, want %v", got, want)
	}

	// Non-run verbs are untouched
	push := []string{"push", "img"}
	if got := injectKeepID(push); !slices.Equal(got, push) {
		t.Errorf("injectKeepID(push) = %v, want unchanged", got)
	}
}

func TestFormatVolumeMount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		mount VolumeMount
		want  string
	}{
		{
			name:  "read-write",
			mount: VolumeMount{HostPath: "/a", ContainerPath: "/b"},
			want:  "/a:/b",
		},
		{
			name:  "read-only",
			mount: VolumeMount{HostPath: "/a", ContainerPath: "/b", ReadOnly: true},
			want:  "/a:/b:ro",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatVolumeMount(tt.mount); got != tt.want {
				t.Errorf("FormatVolumeMount() = %q, want %q", got, tt.want)
			}
		})
	}
}
