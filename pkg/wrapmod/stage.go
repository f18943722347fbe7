// SPDX-License-Identifier: MPL-2.0

package wrapmod

import (
	"fmt"

	"wrapkit-cli/pkg/types"
)

// Stage is the lifecycle stage of a module, derived from which artifacts
// exist on disk and in the local registry; it is computed on demand, never
// persisted. Checked, Tested, and Uploaded leave no local artifact and so
// are not derivable stages.
type Stage int

const (
	// StageNone means the path holds no recognizable module.
	StageNone Stage = iota
	// StageSkeleton means the required layout exists but nothing was built.
	StageSkeleton
	// StageBuilt means a package archive exists under dist/.
	StageBuilt
	// StageInstalled means a registry receipt exists for the module.
	StageInstalled
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageNone:
		return "none"
	case StageSkeleton:
		return "skeleton"
	case StageBuilt:
		return "built"
	case StageInstalled:
		return "installed"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// DeriveStage computes the module's lifecycle stage by scanning its artifacts
// and the registry. A nil registry skips the installed check.
func DeriveStage(modulePath types.FilesystemPath, registry *Registry) (Stage, error) {
	result, err := Validate(modulePath)
	if err != nil {
		return StageNone, err
	}
	if len(result.Missing) > 0 || result.PackageName == "" {
		return StageNone, nil
	}

	if registry != nil && registry.IsInstalled(result.PackageName) {
		return StageInstalled, nil
	}

	if _, err := builtArchive(result.ModulePath, result.PackageName); err == nil {
		return StageBuilt, nil
	}

	return StageSkeleton, nil
}
