// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Id identifies a known issue in the catalog.
type Id int

const (
	ContainerEngineNotFoundId Id = iota + 1
	PackageBuilderNotFoundId
	ModuleNotFoundId
	GitNotFoundId
)

type (
	// MarkdownMsg is help text in markdown, rendered with glamour.
	MarkdownMsg string

	// HttpLink is a documentation or external reference URL.
	HttpLink string

	// Issue is a known, documented failure mode with long-form guidance.
	Issue struct {
		id       Id          // ID used to look up the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		extLinks []HttpLink  // external links that might be useful for the user
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue's guidance as styled terminal output.
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.extLinks {
			extraMd += "- " + string(link) + "\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	containerEngineNotFoundIssue = &Issue{
		id: ContainerEngineNotFoundId,
		mdMsg: `
# No container engine found!

wrapkit needs Docker or Podman to build, test, and push module images,
but neither is available on this system.

## Things you can try:
- Install Docker or Podman and make sure the daemon/service is running
- Verify the binary is on your PATH:
~~~
$ docker version
$ podman version
~~~
- Point wrapkit at a specific engine in your config file:
~~~cue
container_engine: "podman"
~~~`,
		extLinks: []HttpLink{
			"https://docs.docker.com/get-docker/",
			"https://podman.io/docs/installation",
		},
	}

	packageBuilderNotFoundIssue = &Issue{
		id: PackageBuilderNotFoundId,
		mdMsg: `
# Package builder not found!

The configured package-builder tool could not be located, so the module
archive cannot be produced.

## Things you can try:
- Install the builder toolchain (default: the R toolchain providing ` + "`R CMD build`" + `)
- Or configure a different builder:
~~~cue
build: {
	program: "mybuilder"
	args: ["package", "."]
}
~~~`,
	}

	moduleNotFoundIssue = &Issue{
		id: ModuleNotFoundId,
		mdMsg: `
# Not a wrapper module!

The given path does not look like a wrapkit module directory.

## Expected layout:
~~~
wrap.<program>.wrapmod/
  wrapmod.cue
  src/<program>.R
  container/latest/Dockerfile
  examples/example.sh
~~~

## Things you can try:
- Create a fresh skeleton:
~~~
$ wrapkit create <program> --docker-user you --repo-user you
~~~
- Inspect what is missing:
~~~
$ wrapkit check --path <path>
~~~`,
	}

	gitNotFoundIssue = &Issue{
		id: GitNotFoundId,
		mdMsg: `
# git not found!

Publishing module sources requires the git CLI, which is not on your PATH.

## Things you can try:
- Install git and retry:
~~~
$ wrapkit upload --path <path> --code
~~~`,
		extLinks: []HttpLink{
			"https://git-scm.com/downloads",
		},
	}

	catalog = map[Id]*Issue{
		ContainerEngineNotFoundId: containerEngineNotFoundIssue,
		PackageBuilderNotFoundId:  packageBuilderNotFoundIssue,
		ModuleNotFoundId:          moduleNotFoundIssue,
		GitNotFoundId:             gitNotFoundIssue,
	}
)

// Lookup returns the catalog issue for the given id, or nil if unknown.
func Lookup(id Id) *Issue {
	return catalog[id]
}

// Ids returns all known issue ids in ascending order.
func Ids() []Id {
	ids := maps.Keys(catalog)
	slices.Sort(ids)
	return ids
}
