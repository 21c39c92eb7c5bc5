package domain

// BumpKind names a semantic version increment.
type BumpKind string

const (
	// BumpPatch increments the patch component and resets nothing above it.
	BumpPatch BumpKind = "patch"

	// BumpMinor increments the minor component and resets the patch component.
	BumpMinor BumpKind = "minor"

	// BumpPrerelease increments the numeric prerelease counter.
	BumpPrerelease BumpKind = "prerelease"
)

// String returns the string representation of the BumpKind.
func (k BumpKind) String() string {
	return string(k)
}

// Valid reports whether k is one of the known increments.
func (k BumpKind) Valid() bool {
	switch k {
	case BumpPatch, BumpMinor, BumpPrerelease:
		return true
	default:
		return false
	}
}

// ReleaseStatus represents how a coordination run ended.
type ReleaseStatus string

const (
	// ReleaseStatusTagged indicates the umbrella repository was committed, tagged and pushed.
	ReleaseStatusTagged ReleaseStatus = "TAGGED"

	// ReleaseStatusDryRun indicates the new version was computed but nothing was pushed.
	ReleaseStatusDryRun ReleaseStatus = "DRY_RUN"
)

// String returns the string representation of the ReleaseStatus.
func (s ReleaseStatus) String() string {
	return string(s)
}

// DistTag is the npm distribution tag a package is published under.
type DistTag string

const (
	// DistTagLatest is used for stable releases.
	DistTagLatest DistTag = "latest"

	// DistTagNext is used for prereleases.
	DistTagNext DistTag = "next"
)
