// Package actions is the boundary between the CI binary and the GitHub
// Actions runner.
//
// Inputs reads action inputs from INPUT_* environment variables, Context
// describes the triggering event, Commands emits workflow commands and
// Handler renders slog records as workflow commands so ordinary log calls
// surface as annotations in the job log.
package actions
