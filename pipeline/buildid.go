package pipeline

import (
	"fmt"
	"strings"
	"time"
)

// BuildID names a run for BrowserStack and screenshot branches:
// <repo-name>-<event>-<run-id>-<unix-millis>. Without a repository the
// name part is "github-".
func BuildID(repository, eventName, runID string, now time.Time) string {
	name := "github-"
	if repository != "" {
		_, after, ok := strings.Cut(repository, "/")
		if ok {
			name = after
		} else {
			name = repository
		}
	}
	return fmt.Sprintf("%s-%s-%s-%d", name, eventName, runID, now.UnixMilli())
}
