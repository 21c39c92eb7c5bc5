package actions

import (
	"strings"

	"github.com/blackbaud/skyux-sdk-actions/env"
)

// Inputs reads action inputs.
type Inputs struct {
	env env.Reader
}

// NewInputs returns Inputs backed by r.
func NewInputs(r env.Reader) *Inputs {
	return &Inputs{env: r}
}

// InputVar returns the environment variable the runner sets for an input:
// spaces become underscores and the name is upper-cased.
func InputVar(name string) string {
	return "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
}

// Get returns the trimmed value of the input, or "" when unset.
func (i *Inputs) Get(name string) string {
	return strings.TrimSpace(i.env.Getenv(InputVar(name)))
}

// GetOr returns the input or fallback when it is empty.
func (i *Inputs) GetOr(name, fallback string) string {
	if v := i.Get(name); v != "" {
		return v
	}
	return fallback
}

// Bool reports whether the input is exactly "true", matching how the
// workflow passes boolean flags through.
func (i *Inputs) Bool(name string) bool {
	return i.Get(name) == "true"
}
