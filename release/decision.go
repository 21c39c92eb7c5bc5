package release

import (
	"fmt"

	"github.com/blackbaud/skyux-sdk-actions/domain"
	"github.com/blackbaud/skyux-sdk-actions/versions"
)

// UmbrellaPackage is the npm name of the umbrella package.
const UmbrellaPackage = "@skyux/packages"

// Decide classifies lib against the umbrella manifest read from branch.
//
// An eligible decision whose TargetBranch differs from branch means the
// release belongs to an older major version and must be tagged on that
// branch. An ineligible decision carries the operator-facing reason. The
// error is reserved for versions that cannot be parsed.
func Decide(repo string, lib domain.PackageMetadata, umbrella domain.UmbrellaManifest, branch string) (domain.ReleaseDecision, error) {
	rng := umbrella.Range(lib.Name)
	if rng == "" {
		return domain.ReleaseDecision{Reason: notListedMessage(repo, lib.Name)}, nil
	}

	if Endorses(lib.Version, rng) {
		return domain.ReleaseDecision{Eligible: true, TargetBranch: branch}, nil
	}

	libMajor, err := versions.Major(lib.Version)
	if err != nil {
		return domain.ReleaseDecision{}, fmt.Errorf("library version: %w", err)
	}
	umbrellaMajor, err := versions.Major(umbrella.Version)
	if err != nil {
		return domain.ReleaseDecision{}, fmt.Errorf("umbrella version: %w", err)
	}

	if libMajor < umbrellaMajor {
		return domain.ReleaseDecision{
			Eligible:     true,
			TargetBranch: MajorBranch(libMajor),
			Reason:       fmt.Sprintf("'%s@%s' precedes major version %d of '%s'", lib.Name, lib.Version, umbrellaMajor, UmbrellaPackage),
		}, nil
	}

	return domain.ReleaseDecision{Reason: rangeMessage(lib, rng)}, nil
}

// Endorses reports whether version is accepted by rng. Range satisfaction
// follows npm. In addition, a prerelease version must share its prerelease
// group with the range's minimum version when that minimum is itself a
// prerelease, so 5.0.0-beta.15 is not endorsed by ^5.0.0-alpha.0.
func Endorses(version, rng string) bool {
	if !versions.Satisfies(version, rng) {
		return false
	}
	if !versions.IsPrerelease(version) {
		return true
	}
	minimum, err := versions.MinSatisfying(rng)
	if err != nil {
		return false
	}
	want := versions.PrereleaseGroup(minimum)
	return want == "" || want == versions.PrereleaseGroup(version)
}

// MajorBranch names the maintenance branch for a major version.
func MajorBranch(major uint64) string {
	return fmt.Sprintf("%d.x.x", major)
}

// NextKind picks the increment for the current umbrella version. Any
// hyphen selects a prerelease bump; otherwise stable is used.
func NextKind(current string, stable domain.BumpKind) domain.BumpKind {
	if versions.IsPrerelease(current) {
		return domain.BumpPrerelease
	}
	if stable == "" {
		return domain.BumpPatch
	}
	return stable
}

// CommitMessage is the message of the umbrella release commit.
func CommitMessage(version string) string {
	return fmt.Sprintf("Updated changelog/package.json for %s release", version)
}

func notListedMessage(repo, name string) string {
	return fmt.Sprintf(
		"Tagging '%s' was aborted because the library '%s' is not listed in the `packageGroup` section of '%s' package.json file.",
		repo, name, repo)
}

func rangeMessage(lib domain.PackageMetadata, rng string) string {
	return fmt.Sprintf(
		"Releasing '%s' was aborted because the version tagged '%s@%s' does not satisfy the range listed in `packageGroup` for '%s'. Wanted (%s).",
		UmbrellaPackage, lib.Name, lib.Version, lib.Name, rng)
}

func branchMissingMessage(repo, branch string) string {
	return fmt.Sprintf("Failed to tag the repository '%s'. A branch named '%s' was not found.", repo, branch)
}

func dryRunMessage(repo, version string) string {
	return fmt.Sprintf(
		"Tagging was aborted because the 'npm-dry-run' flag is set. The '%s' repository would have been tagged with (%s).",
		repo, version)
}
