// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os/exec"

	"wrapkit-cli/internal/container"
	"wrapkit-cli/internal/issue"
	"wrapkit-cli/pkg/wrapmod"

	"github.com/charmbracelet/log"
)

// classifyLifecycleError maps a failed invocation to an issue catalog id so
// the CLI layer can render long-form guidance after the error itself. A zero
// id means no catalog entry applies.
func classifyLifecycleError(err error) issue.Id {
	var engineErr *container.ErrEngineNotAvailable

	switch {
	case errors.As(err, &engineErr):
		return issue.ContainerEngineNotFoundId
	case errors.Is(err, wrapmod.ErrMalformedModule):
		return issue.ModuleNotFoundId
	case errors.Is(err, exec.ErrNotFound):
		// The only bare binary wrapkit spawns without a prior availability
		// check is the package builder; git and the engines are guarded.
		return issue.PackageBuilderNotFoundId
	default:
		var ae *issue.ActionableError
		if errors.As(err, &ae) && ae.Operation == "publish module source" {
			return issue.GitNotFoundId
		}
	}

	return 0
}

// renderIssueGuidance prints the catalog entry for the given id, if any.
// Rendering problems are logged and swallowed: guidance is best-effort and
// must never mask the original failure.
func renderIssueGuidance(stderr io.Writer, id issue.Id) {
	if id == 0 {
		return
	}

	entry := issue.Lookup(id)
	if entry == nil {
		return
	}

	rendered, err := entry.Render("dark")
	if err != nil {
		log.Warn("failed to render issue guidance", "id", id, "error", err)
		return
	}
	fmt.Fprint(stderr, rendered)
}
