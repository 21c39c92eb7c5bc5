// Package versions implements the npm flavour of semantic versioning the
// release tooling relies on, on top of Masterminds/semver.
//
// Range satisfaction follows npm: a prerelease version only satisfies a
// range when some comparator in the range carries a prerelease on the same
// major.minor.patch tuple. Masterminds alone is looser than that.
package versions

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/blackbaud/skyux-sdk-actions/domain"
)

// DiffKind names the most significant component that differs between two versions.
type DiffKind string

const (
	DiffNone       DiffKind = ""
	DiffMajor      DiffKind = "major"
	DiffMinor      DiffKind = "minor"
	DiffPatch      DiffKind = "patch"
	DiffPrerelease DiffKind = "prerelease"
)

// Parse parses a complete major.minor.patch version. A leading "v" is
// accepted; partial versions such as "5" or "5.1" are not.
func Parse(version string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(strings.TrimPrefix(strings.TrimSpace(version), "v"))
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", version, err)
	}
	return v, nil
}

// Valid reports whether version parses as a semantic version.
func Valid(version string) bool {
	_, err := Parse(version)
	return err == nil
}

// Major returns the major component of version.
func Major(version string) (uint64, error) {
	v, err := Parse(version)
	if err != nil {
		return 0, err
	}
	return v.Major(), nil
}

// Compare returns -1, 0 or 1 following semver precedence.
func Compare(a, b string) (int, error) {
	va, err := Parse(a)
	if err != nil {
		return 0, err
	}
	vb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}

// IsPrerelease reports whether version carries a prerelease component,
// which is signalled by a hyphen in the version string.
func IsPrerelease(version string) bool {
	return strings.Contains(version, "-")
}

// PrereleaseGroup returns the leading prerelease identifier ("beta" for
// "5.0.0-beta.3"), or "" when version has no prerelease.
func PrereleaseGroup(version string) string {
	v, err := Parse(version)
	if err != nil {
		return ""
	}
	pre := v.Prerelease()
	if pre == "" {
		return ""
	}
	group, _, _ := strings.Cut(pre, ".")
	return group
}

// Satisfies reports whether version is within rng using npm rules.
// Invalid input never satisfies.
func Satisfies(version, rng string) bool {
	v, err := Parse(version)
	if err != nil {
		return false
	}
	c, err := semver.NewConstraint(normalizeRange(rng))
	if err != nil {
		return false
	}
	if !c.Check(v) {
		return false
	}
	if v.Prerelease() == "" {
		return true
	}

	for _, cmp := range comparators(rng) {
		if cmp.Prerelease() != "" &&
			cmp.Major() == v.Major() && cmp.Minor() == v.Minor() && cmp.Patch() == v.Patch() {
			return true
		}
	}
	return false
}

// MinSatisfying returns the lowest version that satisfies rng. Caret,
// tilde, comparison, x-range and OR-combined ranges are supported.
func MinSatisfying(rng string) (string, error) {
	var best *semver.Version

	for _, set := range strings.Split(rng, "||") {
		candidate := semver.New(0, 0, 0, "", "")
		for _, tok := range tokens(set) {
			lower, ok := lowerBound(tok)
			if ok && lower.GreaterThan(candidate) {
				candidate = lower
			}
		}

		if !Satisfies(candidate.String(), set) {
			continue
		}
		if best == nil || candidate.LessThan(best) {
			best = candidate
		}
	}

	if best == nil {
		return "", fmt.Errorf("no version satisfies range %q", rng)
	}
	return best.String(), nil
}

// IsExact reports whether spec is a plain version with no range operator.
func IsExact(spec string) bool {
	spec = strings.TrimSpace(spec)
	if spec == "" || strings.ContainsAny(spec, "^~<>=*| ") {
		return false
	}
	v, err := Parse(spec)
	if err != nil {
		return false
	}
	return v.String() == strings.TrimPrefix(spec, "v")
}

// Bump increments version by kind using npm rules:
//
//	patch      5.2.0 -> 5.2.1, 5.3.0-beta.1 -> 5.3.0
//	minor      5.9.2 -> 5.10.0, 5.1.0-beta.1 -> 5.1.0
//	prerelease 5.0.0-alpha.0 -> 5.0.0-alpha.1, 5.0.0 -> 5.0.1-0
func Bump(version string, kind domain.BumpKind) (string, error) {
	v, err := Parse(version)
	if err != nil {
		return "", err
	}

	major, minor, patch, pre := v.Major(), v.Minor(), v.Patch(), v.Prerelease()

	switch kind {
	case domain.BumpPatch:
		if pre == "" {
			patch++
		}
		pre = ""
	case domain.BumpMinor:
		if pre == "" || patch != 0 {
			minor++
		}
		patch, pre = 0, ""
	case domain.BumpPrerelease:
		if pre == "" {
			patch++
			pre = "0"
		} else {
			pre = incrementPrerelease(pre)
		}
	default:
		return "", fmt.Errorf("unsupported bump kind %q", kind)
	}

	return semver.New(major, minor, patch, pre, "").String(), nil
}

// Diff returns the most significant difference between a and b, or
// DiffNone when they are equal. Build metadata is ignored.
func Diff(a, b string) (DiffKind, error) {
	va, err := Parse(a)
	if err != nil {
		return DiffNone, err
	}
	vb, err := Parse(b)
	if err != nil {
		return DiffNone, err
	}

	switch {
	case va.Major() != vb.Major():
		return DiffMajor, nil
	case va.Minor() != vb.Minor():
		return DiffMinor, nil
	case va.Patch() != vb.Patch():
		return DiffPatch, nil
	case va.Prerelease() != vb.Prerelease():
		return DiffPrerelease, nil
	default:
		return DiffNone, nil
	}
}

func incrementPrerelease(pre string) string {
	ids := strings.Split(pre, ".")
	for i := len(ids) - 1; i >= 0; i-- {
		n, err := strconv.ParseUint(ids[i], 10, 64)
		if err == nil {
			ids[i] = strconv.FormatUint(n+1, 10)
			return strings.Join(ids, ".")
		}
	}
	return pre + ".0"
}

// normalizeRange maps npm syntax Masterminds does not accept.
func normalizeRange(rng string) string {
	rng = strings.TrimSpace(rng)
	if rng == "" || rng == "latest" {
		return "*"
	}
	return rng
}

// tokens splits one OR-set into comparator tokens, gluing a detached
// operator ("> = 5") back onto its version.
func tokens(set string) []string {
	fields := strings.FieldsFunc(set, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' })
	var out []string
	pending := ""
	for _, f := range fields {
		if f == "-" {
			// upper end of a hyphen range
			pending = "<="
			continue
		}
		if strings.Trim(f, "<>=~^!") == "" {
			pending += f
			continue
		}
		out = append(out, pending+f)
		pending = ""
	}
	return out
}

// comparators returns the concrete versions named anywhere in rng.
func comparators(rng string) []*semver.Version {
	var out []*semver.Version
	for _, set := range strings.Split(rng, "||") {
		for _, tok := range tokens(set) {
			v, err := semver.NewVersion(strings.TrimLeft(tok, "<>=~^!v"))
			if err == nil {
				out = append(out, v)
			}
		}
	}
	return out
}

// lowerBound returns the smallest version a single comparator admits.
// Upper-bound comparators admit 0.0.0 and report false.
func lowerBound(tok string) (*semver.Version, bool) {
	op := tok[:len(tok)-len(strings.TrimLeft(tok, "<>=~^!"))]
	raw := strings.TrimPrefix(strings.TrimLeft(tok, "<>=~^!"), "v")

	if strings.HasPrefix(op, "<") || op == "!=" {
		return nil, false
	}

	parts := strings.SplitN(raw, "-", 2)
	nums := strings.Split(parts[0], ".")
	var xyz [3]uint64
	wildcard := -1
	for i := 0; i < 3; i++ {
		if i >= len(nums) || nums[i] == "x" || nums[i] == "X" || nums[i] == "*" || nums[i] == "" {
			wildcard = i
			break
		}
		n, err := strconv.ParseUint(nums[i], 10, 64)
		if err != nil {
			return nil, false
		}
		xyz[i] = n
	}

	pre := ""
	if len(parts) == 2 && wildcard < 0 {
		pre = strings.SplitN(parts[1], "+", 2)[0]
	}

	if op != ">" {
		return semver.New(xyz[0], xyz[1], xyz[2], pre, ""), true
	}

	switch {
	case wildcard == 0:
		return nil, false
	case wildcard == 1:
		return semver.New(xyz[0]+1, 0, 0, "", ""), true
	case wildcard == 2:
		return semver.New(xyz[0], xyz[1]+1, 0, "", ""), true
	case pre != "":
		return semver.New(xyz[0], xyz[1], xyz[2], pre+".0", ""), true
	default:
		return semver.New(xyz[0], xyz[1], xyz[2]+1, "", ""), true
	}
}
