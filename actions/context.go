package actions

import (
	"strings"

	"github.com/blackbaud/skyux-sdk-actions/env"
)

// Event names the runner reports in GITHUB_EVENT_NAME.
const (
	EventPush        = "push"
	EventPullRequest = "pull_request"
)

const tagRefPrefix = "refs/tags/"

// Context is the subset of the runner environment the pipeline needs.
type Context struct {
	EventName  string
	Ref        string
	Repository string
	RunID      string
	SHA        string
	Workspace  string
}

// ContextFromEnv reads the GITHUB_* variables.
func ContextFromEnv(r env.Reader) Context {
	return Context{
		EventName:  r.Getenv("GITHUB_EVENT_NAME"),
		Ref:        r.Getenv("GITHUB_REF"),
		Repository: r.Getenv("GITHUB_REPOSITORY"),
		RunID:      r.Getenv("GITHUB_RUN_ID"),
		SHA:        r.Getenv("GITHUB_SHA"),
		Workspace:  r.Getenv("GITHUB_WORKSPACE"),
	}
}

// IsPush reports whether the run was triggered by a push.
func (c Context) IsPush() bool {
	return c.EventName == EventPush
}

// IsPullRequest reports whether the run was triggered by a pull request.
func (c Context) IsPullRequest() bool {
	return c.EventName == EventPullRequest
}

// IsTag reports whether the ref is a tag.
func (c Context) IsTag() bool {
	return strings.HasPrefix(c.Ref, tagRefPrefix)
}

// Tag returns the tag name, or "" when the ref is not a tag.
func (c Context) Tag() string {
	if !c.IsTag() {
		return ""
	}
	return strings.TrimPrefix(c.Ref, tagRefPrefix)
}

// RepositoryName returns the name part of owner/name.
func (c Context) RepositoryName() string {
	_, name, ok := strings.Cut(c.Repository, "/")
	if !ok {
		return ""
	}
	return name
}
