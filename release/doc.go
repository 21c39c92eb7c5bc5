// Package release tags the umbrella package repository after a library is
// published.
//
// A Coordinator clones the umbrella repository, decides whether the library
// version is endorsed by the umbrella's ng-update.packageGroup, falls back to
// the "<major>.x.x" branch for releases of an older major version, bumps the
// umbrella version, prepends the changelog and then commits, tags and pushes.
//
// Aborts that operators are expected to act on (a library missing from the
// package group, a version outside its range, a missing major-version branch)
// are returned as *errors.PlatformError values for which IsRecoverable
// reports true. Every other error is fatal.
package release
