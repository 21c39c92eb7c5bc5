// Package depcheck verifies that a library's declared dependency ranges are
// backed by exact versions in the workspace root package.json.
package depcheck

import (
	"fmt"
	"log/slog"
	"path"

	"github.com/blackbaud/skyux-sdk-actions/errors"
	"github.com/blackbaud/skyux-sdk-actions/fs"
	"github.com/blackbaud/skyux-sdk-actions/manifest"
	"github.com/blackbaud/skyux-sdk-actions/versions"
)

// Sections are checked in this order.
var Sections = []string{"peerDependencies", "dependencies"}

// Policy selects how a pinned root version is compared to a library range.
type Policy string

const (
	// PolicyMinimum requires the root version to equal the minimum version
	// of the library range, so the library is built against the oldest
	// version it claims to support.
	PolicyMinimum Policy = "minimum"

	// PolicySatisfies only requires the root version to be within the range.
	PolicySatisfies Policy = "satisfies"
)

// Valid reports whether p is a known policy.
func (p Policy) Valid() bool {
	return p == PolicyMinimum || p == PolicySatisfies
}

// Validator reads package.json files from a workspace.
type Validator struct {
	store  *manifest.Store
	policy Policy
	logger *slog.Logger
}

// Option configures a Validator.
type Option func(*Validator)

// WithPolicy overrides the default PolicySatisfies.
func WithPolicy(p Policy) Option {
	return func(v *Validator) {
		if p != "" {
			v.policy = p
		}
	}
}

// WithLogger sets a custom logger for the Validator.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// New returns a Validator over the workspace filesystem.
func New(fsys fs.Filesystem, opts ...Option) *Validator {
	v := &Validator{store: manifest.NewStore(fsys), policy: PolicySatisfies}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = slog.New(slog.DiscardHandler)
	}
	return v
}

// Validate checks projects/<project>/package.json against the root
// package.json. Every problem is logged before a single error is returned.
func (v *Validator) Validate(project string) error {
	v.logger.Info("Validating dependencies...")

	problems, err := v.Problems(project)
	if err != nil {
		return errors.WrapWithContext(err, errors.CodeDependencyValidation,
			"Failed to validate library dependencies.", map[string]any{"project": project})
	}
	if len(problems) > 0 {
		for _, p := range problems {
			v.logger.Error(p)
		}
		return &errors.PlatformError{
			Code:    errors.CodeDependencyValidation,
			Message: "Errors found with library dependencies.",
			Context: map[string]any{"project": project, "problems": len(problems)},
		}
	}

	v.logger.Info("Done validating dependencies. OK.")
	return nil
}

// Problems returns one diagnostic per violation. The error reports
// unreadable manifests only.
func (v *Validator) Problems(project string) ([]string, error) {
	root, err := v.store.ReadJSON(manifest.PackageJSON)
	if err != nil {
		return nil, err
	}
	lib, err := v.store.ReadJSON(ProjectManifest(project))
	if err != nil {
		return nil, err
	}
	return Diagnose(project, lib, root, v.policy)
}

// ProjectManifest is the package.json path of an Angular CLI library project.
func ProjectManifest(project string) string {
	return path.Join("projects", project, manifest.PackageJSON)
}

// Diagnose compares the library manifest with the root manifest.
func Diagnose(project string, lib, root *manifest.Document, policy Policy) ([]string, error) {
	installed, err := root.StringMap("dependencies")
	if err != nil {
		return nil, err
	}

	var problems []string
	for _, section := range Sections {
		declared, err := lib.StringMap(section)
		if err != nil {
			return nil, err
		}
		for _, name := range lib.Keys(section) {
			if p := check(project, section, name, declared[name], installed[name], policy); p != "" {
				problems = append(problems, p)
			}
		}
	}
	return problems, nil
}

func check(project, section, name, target, installed string, policy Policy) string {
	where := fmt.Sprintf("projects/%s/package.json", project)

	minTarget, err := versions.MinSatisfying(target)
	if err != nil {
		return fmt.Sprintf("The range (%s) for \"%s\" in the `%s` section of '%s' is not a valid semver range.",
			target, name, section, where)
	}

	if installed == "" {
		return fmt.Sprintf("The package \"%s\" listed in the `%s` section of '%s' was not found in the root "+
			"'package.json' `dependencies` section. Install the package at the root level and try again.",
			name, section, where)
	}

	if !versions.IsExact(installed) {
		return fmt.Sprintf("The version listed in 'package.json' for \"%s@%s\" must be set to a specific version "+
			"(without a semver range character), and set to the minimum version satisfied by the range defined in "+
			"the `%s` section of '%s' (wanted \"%s@%s\"). To address this problem, set \"%s\" to (%s) in the root "+
			"'package.json'.",
			name, installed, section, where, name, target, name, minTarget)
	}

	ok := installed == minTarget
	if policy == PolicySatisfies {
		ok = versions.Satisfies(installed, target)
	}
	if ok {
		return ""
	}

	return fmt.Sprintf("The version (%s) of the package \"%s\" in the `dependencies` section of 'package.json' "+
		"does not meet the minimum version requirements of the range defined in the `%s` section of '%s' "+
		"(wanted \"%s@%s\"). Either increase the minimum supported version in '%s' to (^%s), or downgrade the "+
		"version installed in the root 'package.json' to (%s).",
		installed, name, section, where, name, target, where, installed, minTarget)
}
