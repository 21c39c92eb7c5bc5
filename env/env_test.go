package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOSReader_Getenv(t *testing.T) {
	t.Setenv("SKYUX_TEST_ENV_VARIABLE", "test_value_123")

	reader := &OSReader{}

	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "existing environment variable", key: "SKYUX_TEST_ENV_VARIABLE", want: "test_value_123"},
		{name: "non-existing environment variable", key: "SKYUX_NONEXISTENT_ENV_VAR_12345", want: ""},
		{name: "empty key", key: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reader.Getenv(tt.key))
		})
	}
}

func TestMapReader_Getenv(t *testing.T) {
	reader := MapReader{"INPUT_PROJECT": "my-lib"}

	assert.Equal(t, "my-lib", reader.Getenv("INPUT_PROJECT"))
	assert.Empty(t, reader.Getenv("INPUT_MISSING"))
}
