// SPDX-License-Identifier: MPL-2.0

package wrapmod

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"wrapkit-cli/pkg/types"

	"github.com/pelletier/go-toml/v2"
)

// ReceiptsDirName is the subdirectory of the application config directory
// that holds one install receipt per module.
const ReceiptsDirName = "modules"

type (
	// Receipt records a locally installed module. One TOML file per package
	// under the registry directory; the file's presence is the registration.
	Receipt struct {
		// Package is the installed wrapper package name
		Package string `toml:"package"`
		// Program is the wrapped program's name
		Program string `toml:"program"`
		// Path is the module directory the receipt was installed from
		Path string `toml:"path"`
		// Archive is the built package archive that was present at install time
		Archive string `toml:"archive"`
		// InstalledAt is the registration timestamp
		InstalledAt time.Time `toml:"installed_at"`
	}

	// Registry manages install receipts in a directory. All operations are
	// stateless: each re-reads the directory at invocation time.
	Registry struct {
		dir string
	}
)

// NewRegistry creates a registry rooted at the given directory. The directory
// is created lazily on first install.
func NewRegistry(dir string) *Registry {
	return &Registry{dir: dir}
}

// Dir returns the registry's receipt directory.
func (r *Registry) Dir() string { return r.dir }

func (r *Registry) receiptPath(pkg types.PackageName) string {
	return filepath.Join(r.dir, pkg.String()+".toml")
}

// Install registers a module in the local registry after verifying a built
// archive exists. Re-installing an already-installed package overwrites its
// receipt.
func (r *Registry) Install(modulePath types.FilesystemPath) (*Receipt, error) {
	desc, err := Identities(modulePath)
	if err != nil {
		return nil, err
	}

	archive, err := builtArchive(desc.Path, desc.Package)
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{
		Package:     desc.Package.String(),
		Program:     desc.Program.String(),
		Path:        string(desc.Path),
		Archive:     archive,
		InstalledAt: time.Now().UTC(),
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, &WriteError{Path: r.dir, Cause: err}
	}

	data, err := toml.Marshal(receipt)
	if err != nil {
		return nil, fmt.Errorf("failed to encode receipt: %w", err)
	}

	path := r.receiptPath(desc.Package)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, &WriteError{Path: path, Cause: err}
	}

	return receipt, nil
}

// Uninstall removes the registration matching the given identity: a package
// name, a program name, or a module directory path. Idempotent: succeeds
// silently when nothing matching is installed. Module files on disk are
// never touched; only the registration is removed.
func (r *Registry) Uninstall(identityOrPath string) error {
	pkg, err := resolvePackageIdentity(identityOrPath)
	if err != nil {
		return err
	}

	if err := os.Remove(r.receiptPath(pkg)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove receipt for %s: %w", pkg, err)
	}
	return nil
}

// IsInstalled reports whether a receipt exists for the package.
func (r *Registry) IsInstalled(pkg types.PackageName) bool {
	_, err := os.Stat(r.receiptPath(pkg))
	return err == nil
}

// Installed returns all receipts, sorted by package name. A missing registry
// directory means nothing is installed.
func (r *Registry) Installed() ([]Receipt, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read registry directory: %w", err)
	}

	var receipts []Receipt
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(r.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read receipt %s: %w", entry.Name(), err)
		}

		var receipt Receipt
		if err := toml.Unmarshal(data, &receipt); err != nil {
			return nil, fmt.Errorf("failed to parse receipt %s: %w", entry.Name(), err)
		}
		receipts = append(receipts, receipt)
	}

	sort.Slice(receipts, func(i, j int) bool { return receipts[i].Package < receipts[j].Package })
	return receipts, nil
}

// resolvePackageIdentity maps any accepted identity form to a package name:
// a module directory path, a "<package>.wrapmod" folder name, a package name,
// or a bare program name.
func resolvePackageIdentity(identityOrPath string) (types.PackageName, error) {
	s := strings.TrimSpace(identityOrPath)
	if s == "" {
		return "", fmt.Errorf("identity must be non-empty")
	}

	base := filepath.Base(filepath.Clean(s))
	if strings.HasSuffix(base, ModuleSuffix) {
		return ParsePackageName(base)
	}

	if strings.HasPrefix(s, types.PackagePrefix) {
		pkg := types.PackageName(s)
		if err := pkg.Validate(); err != nil {
			return "", err
		}
		return pkg, nil
	}

	program := types.ProgramName(s)
	if err := program.Validate(); err != nil {
		return "", fmt.Errorf("cannot interpret %q as a package, program, or module path: %w", identityOrPath, err)
	}
	return types.PackageNameFor(program), nil
}

// builtArchive returns the newest built archive under dist/, or an error
// when the module has never been built.
func builtArchive(modulePath types.FilesystemPath, pkg types.PackageName) (string, error) {
	pattern := filepath.Join(string(modulePath), DistDir, pkg.String()+"_*.tar.gz")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("failed to locate built archive: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no built archive under %s/ (run build first)", DistDir)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}
