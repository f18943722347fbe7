// SPDX-License-Identifier: MPL-2.0

package wrapmod

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"wrapkit-cli/pkg/types"

	"mvdan.cc/sh/v3/syntax"
)

// Check performs the full module inspection: structural validation plus
// content checks on everything a build or test would rely on. Like Validate,
// problems are reported in the result, never raised; an error return means
// the directory could not be inspected.
//
// Beyond the structural walk, Check verifies that:
//   - wrapmod.cue parses against the schema and its identity fields are non-empty
//   - every container build spec has a FROM instruction
//   - the example script parses as POSIX shell
func Check(modulePath types.FilesystemPath) (*ValidationResult, error) {
	result, err := Validate(modulePath)
	if err != nil {
		return nil, err
	}

	absPath := string(result.ModulePath)

	// Metadata content checks
	if result.MetadataPath != "" {
		meta, parseErr := ParseMetadata(result.MetadataPath)
		if parseErr != nil {
			result.AddIssue(IssueTypeMetadata, fmt.Sprintf("failed to parse %s: %v", MetadataFileName, parseErr), MetadataFileName)
		} else {
			checkMetadata(result, meta)
		}
	}

	// Container build spec checks
	for _, tag := range result.ImageTags {
		relPath := filepath.Join(ContainerDir, tag, DockerfileName)
		if err := checkDockerfile(filepath.Join(absPath, relPath)); err != nil {
			result.AddIssue(IssueTypeContainer, err.Error(), relPath)
		}
	}

	// Example script must at least be valid POSIX shell
	scriptRel := filepath.Join(ExamplesDir, ExampleScriptName)
	scriptPath := filepath.Join(absPath, scriptRel)
	if fileExists(scriptPath) {
		if err := checkShellScript(scriptPath); err != nil {
			result.AddIssue(IssueTypeScript, err.Error(), scriptRel)
		}
	}

	return result, nil
}

// checkMetadata validates parsed metadata content beyond what the CUE schema
// enforces: identity fields non-empty and consistent with the folder name.
func checkMetadata(result *ValidationResult, meta *Metadata) {
	if strings.TrimSpace(meta.Program) == "" {
		result.AddIssue(IssueTypeMetadata, "program field must be non-empty", MetadataFileName)
	}
	if strings.TrimSpace(meta.Cmd) == "" {
		result.AddIssue(IssueTypeMetadata, "cmd field must be non-empty", MetadataFileName)
	}
	if result.PackageName != "" && meta.Package != result.PackageName.String() {
		result.AddIssue(IssueTypeNaming, fmt.Sprintf(
			"package field %q in %s must match folder name %q",
			meta.Package, MetadataFileName, result.PackageName), MetadataFileName)
	}
	if meta.Program != "" && meta.Package != types.PackagePrefix+meta.Program {
		result.AddIssue(IssueTypeMetadata, fmt.Sprintf(
			"package field %q must be %q + program field %q",
			meta.Package, types.PackagePrefix, meta.Program), MetadataFileName)
	}
}

// checkDockerfile verifies the build spec has at least one FROM instruction.
func checkDockerfile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read build spec: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// ARG may legally precede FROM
		fields := strings.Fields(line)
		if len(fields) > 0 {
			switch strings.ToUpper(fields[0]) {
			case "FROM":
				return nil
			case "ARG":
				continue
			default:
				return fmt.Errorf("build spec must start with a FROM instruction, found %q", fields[0])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("cannot read build spec: %v", err)
	}
	return fmt.Errorf("build spec has no FROM instruction")
}

// checkShellScript parses the example script as POSIX shell.
func checkShellScript(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read example script: %v", err)
	}
	defer f.Close()

	parser := syntax.NewParser(syntax.Variant(syntax.LangPOSIX))
	if _, err := parser.Parse(f, filepath.Base(path)); err != nil {
		return fmt.Errorf("example script is not valid POSIX shell: %v", err)
	}
	return nil
}
