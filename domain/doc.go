// Package domain provides canonical type definitions for SKY UX release entities.
//
// The types in this package are plain data. They carry no behavior beyond
// simple accessors so they can be passed between the publisher, the release
// coordinator and the pipeline without import cycles.
//
// # Lifecycle
//
// A successful npm publish produces a PackageMetadata value. The release
// coordinator reads an UmbrellaManifest from a disposable clone of the
// umbrella repository, derives a ReleaseDecision from it and reports the
// result as a ReleaseOutcome.
package domain
