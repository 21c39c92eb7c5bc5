// Package changelog formats umbrella release entries and prepends them to
// an existing CHANGELOG.md.
package changelog

import (
	"fmt"
	"time"

	"github.com/blackbaud/skyux-sdk-actions/domain"
)

// DateLayout renders the release date with zero-padded month and day.
const DateLayout = "2006-01-02"

// Entry returns the changelog section announcing version for lib.
//
//	# 5.2.1 (2021-03-04)
//
//	- `@skyux/core@5.0.1` [Release notes](https://...)
func Entry(version string, lib domain.PackageMetadata, date time.Time) string {
	return fmt.Sprintf("# %s (%s)\n\n- `%s@%s` [Release notes](%s)\n\n",
		version, date.Format(DateLayout), lib.Name, lib.Version, lib.ChangelogURL)
}

// Prepend places the entry for version in front of existing.
func Prepend(existing, version string, lib domain.PackageMetadata, date time.Time) string {
	return Entry(version, lib, date) + existing
}
