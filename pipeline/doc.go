// Package pipeline runs the SKY UX library CI job.
//
// A run installs packages, builds the library and then branches on the
// triggering event. Tag builds publish the library to npm and tag the
// umbrella @skyux/packages repository. Every other event runs the unit
// tests with code coverage followed by the visual tests of the showcase
// project, committing new baseline screenshots on push and failure
// screenshots on pull requests.
//
// Collaborators are consumed through small interfaces so the job can be
// exercised without a network, npm or a browser.
package pipeline
