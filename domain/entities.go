package domain

// PackageMetadata describes a library that was just published to npm.
type PackageMetadata struct {
	// Name is the scoped package name, e.g. "@skyux/core".
	Name string `json:"name"`

	// Version is the published semantic version.
	Version string `json:"version"`

	// ChangelogURL links to the release notes for Version.
	ChangelogURL string `json:"changelogUrl"`
}

// UmbrellaManifest is the subset of the umbrella package.json the coordinator reads.
type UmbrellaManifest struct {
	// Version is the umbrella package version.
	Version string

	// PackageGroup maps library names to the range the umbrella endorses.
	// It is read from "ng-update.packageGroup".
	PackageGroup map[string]string
}

// Range returns the endorsed range for name, or "" when the library is not listed.
func (m UmbrellaManifest) Range(name string) string {
	if m.PackageGroup == nil {
		return ""
	}
	return m.PackageGroup[name]
}

// ReleaseDecision records whether a library release may be tagged and on which branch.
type ReleaseDecision struct {
	Eligible     bool
	TargetBranch string
	Reason       string
}

// ReleaseOutcome is returned by a coordination run that did not abort.
type ReleaseOutcome struct {
	// Status is TAGGED or DRY_RUN.
	Status ReleaseStatus

	// Branch is the umbrella branch the release was computed on.
	Branch string

	// PreviousVersion is the umbrella version before the bump.
	PreviousVersion string

	// Version is the new umbrella version and the tag name.
	Version string
}
