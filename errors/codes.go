// Package errors provides the coded error type shared by the SKY UX CI packages.
// It extends Go's standard error handling with string error codes and
// key/value context so callers can classify failures with HasCode.
package errors

// ErrorCode represents a specific error condition.
// Error codes are string-based for debuggability and log output.
type ErrorCode string

const (
	// Resource errors.

	// CodeNotFound indicates a requested resource does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAlreadyExists indicates a resource already exists and cannot be created again.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// CodeConflict indicates a resource state conflict that prevents the operation.
	CodeConflict ErrorCode = "CONFLICT"

	// CodeBranchNotFound indicates a git branch required by the operation is missing.
	CodeBranchNotFound ErrorCode = "BRANCH_NOT_FOUND"

	// Permission errors.

	// CodeUnauthorized indicates the request lacks valid authentication credentials.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// Validation errors.

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a configuration error prevents the operation.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// CodeReleaseIneligible indicates a library release may not be tagged in the umbrella repository.
	CodeReleaseIneligible ErrorCode = "RELEASE_INELIGIBLE"

	// CodeDependencyValidation indicates one or more dependency version checks failed.
	CodeDependencyValidation ErrorCode = "DEPENDENCY_VALIDATION_FAILED"

	// CodeVersionMismatch indicates a package version does not match the git tag.
	CodeVersionMismatch ErrorCode = "VERSION_MISMATCH"

	// Infrastructure errors.

	// CodeNetwork indicates a network operation failed.
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// Execution errors.

	// CodeExecutionFailed indicates a general execution failure.
	CodeExecutionFailed ErrorCode = "EXECUTION_FAILED"

	// CodeBuildFailed indicates a build operation failed.
	CodeBuildFailed ErrorCode = "BUILD_FAILED"

	// CodeTestFailed indicates a test suite failed.
	CodeTestFailed ErrorCode = "TEST_FAILED"

	// CodePublishFailed indicates a publish operation failed.
	CodePublishFailed ErrorCode = "PUBLISH_FAILED"

	// System errors.

	// CodeInternal indicates an internal system error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// Generic errors.

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)
