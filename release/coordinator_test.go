package release

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackbaud/skyux-sdk-actions/domain"
	"github.com/blackbaud/skyux-sdk-actions/errors"
	"github.com/blackbaud/skyux-sdk-actions/manifest"
)

const originalChangelog = "ORIGINAL_CHANGELOG_CONTENT\n"

var releaseDay = time.Date(2021, time.March, 4, 15, 30, 0, 0, time.UTC)

func umbrellaJSON(version string, group map[string]string) string {
	data, err := json.Marshal(map[string]any{
		"version":   version,
		"ng-update": map[string]any{"packageGroup": group},
	})
	if err != nil {
		panic(err)
	}
	return string(data)
}

func branch(version string, group map[string]string) map[string]string {
	return map[string]string{
		manifest.PackageJSON: umbrellaJSON(version, group),
		manifest.Changelog:   originalChangelog,
	}
}

func foobar(version string) domain.PackageMetadata {
	return domain.PackageMetadata{
		Name:         "@skyux/foobar",
		Version:      version,
		ChangelogURL: "https://changelog.com",
	}
}

func newTestCoordinator(t *testing.T, cfg Config, cloner *fakeCloner, logs *bytes.Buffer) *Coordinator {
	t.Helper()
	opts := []Option{WithClock(func() time.Time { return releaseDay })}
	if logs != nil {
		opts = append(opts, WithLogger(slog.New(slog.NewTextHandler(logs, nil))))
	}
	c, err := NewCoordinator(cfg, cloner, opts...)
	require.NoError(t, err)
	return c
}

func TestCoordinateTags(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		branches map[string]map[string]string
		lib      domain.PackageMetadata
		validate func(t *testing.T, out *domain.ReleaseOutcome, c *fakeCloner)
	}{
		{
			name: "patch release on master",
			branches: map[string]map[string]string{
				"master": branch("5.2.0", map[string]string{"@skyux/foobar": "^5.0.0"}),
			},
			lib: foobar("5.0.1"),
			validate: func(t *testing.T, out *domain.ReleaseOutcome, c *fakeCloner) {
				assert.Equal(t, domain.ReleaseOutcome{
					Status:          domain.ReleaseStatusTagged,
					Branch:          "master",
					PreviousVersion: "5.2.0",
					Version:         "5.2.1",
				}, *out)
				assert.Equal(t, []string{
					"clone master",
					"commit Updated changelog/package.json for 5.2.1 release",
					"push master",
					"tag 5.2.1",
					"push-tag 5.2.1",
					"close",
				}, c.calls)
				assert.Equal(t, "{\n"+
					"  \"ng-update\": {\n"+
					"    \"packageGroup\": {\n"+
					"      \"@skyux/foobar\": \"^5.0.0\"\n"+
					"    }\n"+
					"  },\n"+
					"  \"version\": \"5.2.1\"\n"+
					"}\n", c.ws.file("master", manifest.PackageJSON))
				assert.Equal(t, "# 5.2.1 (2021-03-04)\n\n"+
					"- `@skyux/foobar@5.0.1` [Release notes](https://changelog.com)\n\n"+
					originalChangelog, c.ws.file("master", manifest.Changelog))
			},
		},
		{
			name: "older major falls back to its branch",
			cfg:  Config{Bump: domain.BumpMinor},
			branches: map[string]map[string]string{
				"master": branch("6.23.0", map[string]string{"@skyux/foobar": "^6.0.0"}),
				"5.x.x":  branch("5.9.2", map[string]string{"@skyux/foobar": "^5.0.0"}),
			},
			lib: foobar("5.1.1"),
			validate: func(t *testing.T, out *domain.ReleaseOutcome, c *fakeCloner) {
				assert.Equal(t, "5.x.x", out.Branch)
				assert.Equal(t, "5.9.2", out.PreviousVersion)
				assert.Equal(t, "5.10.0", out.Version)
				assert.Equal(t, []string{
					"clone master",
					"checkout 5.x.x",
					"commit Updated changelog/package.json for 5.10.0 release",
					"push 5.x.x",
					"tag 5.10.0",
					"push-tag 5.10.0",
					"close",
				}, c.calls)
				assert.Contains(t, c.ws.file("master", manifest.PackageJSON), `"6.23.0"`, "master is untouched")
				assert.Equal(t, originalChangelog, c.ws.file("master", manifest.Changelog))
				assert.Contains(t, c.ws.file("5.x.x", manifest.PackageJSON), `"version": "5.10.0"`)
			},
		},
		{
			name: "prerelease umbrella gets a prerelease bump",
			branches: map[string]map[string]string{
				"master": branch("5.0.0-alpha.0", map[string]string{"@skyux/foobar": "^5.0.0-alpha.0"}),
			},
			lib: foobar("5.0.0-alpha.5"),
			validate: func(t *testing.T, out *domain.ReleaseOutcome, c *fakeCloner) {
				assert.Equal(t, "5.0.0-alpha.1", out.Version)
				assert.Contains(t, c.calls, "tag 5.0.0-alpha.1")
			},
		},
		{
			name: "prerelease library within a stable umbrella",
			cfg:  Config{Bump: domain.BumpMinor},
			branches: map[string]map[string]string{
				"master": branch("5.92.0", map[string]string{"@skyux/foobar": "^5.0.0-beta.0"}),
			},
			lib: foobar("5.0.0-beta.2"),
			validate: func(t *testing.T, out *domain.ReleaseOutcome, c *fakeCloner) {
				assert.Equal(t, "5.93.0", out.Version)
				assert.Contains(t, c.calls, "push-tag 5.93.0")
			},
		},
		{
			name: "version equal to the range bound",
			branches: map[string]map[string]string{
				"master": branch("5.0.0", map[string]string{"@skyux/foobar": "^5.0.0"}),
			},
			lib: foobar("5.0.0"),
			validate: func(t *testing.T, out *domain.ReleaseOutcome, _ *fakeCloner) {
				assert.Equal(t, "5.0.1", out.Version)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cloner := newFakeCloner(tt.branches)
			c := newTestCoordinator(t, tt.cfg, cloner, nil)

			out, err := c.Coordinate(context.Background(), tt.lib)
			require.NoError(t, err)
			require.NotNil(t, out)
			assert.True(t, cloner.ws.closed)
			tt.validate(t, out, cloner)
		})
	}
}

func TestCoordinateAborts(t *testing.T) {
	tests := []struct {
		name     string
		branches map[string]map[string]string
		lib      domain.PackageMetadata
		code     errors.ErrorCode
		message  string
		calls    []string
	}{
		{
			name: "missing major version branch",
			branches: map[string]map[string]string{
				"master": branch("5.3.0", map[string]string{"@skyux/foobar": "^5.0.0"}),
			},
			lib:     foobar("4.1.1"),
			code:    errors.CodeBranchNotFound,
			message: "Failed to tag the repository 'blackbaud/skyux-packages'. A branch named '4.x.x' was not found.",
			calls:   []string{"clone master", "checkout 4.x.x", "close"},
		},
		{
			name: "prerelease group differs from the range",
			branches: map[string]map[string]string{
				"master": branch("5.0.0-alpha.0", map[string]string{"@skyux/foobar": "^5.0.0-alpha.0"}),
			},
			lib:  foobar("5.0.0-beta.15"),
			code: errors.CodeReleaseIneligible,
			message: "Releasing '@skyux/packages' was aborted because the version tagged '@skyux/foobar@5.0.0-beta.15' " +
				"does not satisfy the range listed in `packageGroup` for '@skyux/foobar'. Wanted (^5.0.0-alpha.0).",
			calls: []string{"clone master", "close"},
		},
		{
			name: "prerelease below the range",
			branches: map[string]map[string]string{
				"master": branch("5.0.0-alpha.3", map[string]string{"@skyux/foobar": "^5.0.0-beta.0"}),
			},
			lib:  foobar("5.0.0-alpha.3"),
			code: errors.CodeReleaseIneligible,
			message: "Releasing '@skyux/packages' was aborted because the version tagged '@skyux/foobar@5.0.0-alpha.3' " +
				"does not satisfy the range listed in `packageGroup` for '@skyux/foobar'. Wanted (^5.0.0-beta.0).",
			calls: []string{"clone master", "close"},
		},
		{
			name: "library major greater than umbrella",
			branches: map[string]map[string]string{
				"master": branch("5.1.0", map[string]string{"@skyux/foobar": "^5.0.0"}),
			},
			lib:  foobar("6.0.0"),
			code: errors.CodeReleaseIneligible,
			message: "Releasing '@skyux/packages' was aborted because the version tagged '@skyux/foobar@6.0.0' " +
				"does not satisfy the range listed in `packageGroup` for '@skyux/foobar'. Wanted (^5.0.0).",
			calls: []string{"clone master", "close"},
		},
		{
			name: "library not in package group",
			branches: map[string]map[string]string{
				"master": branch("5.1.0", map[string]string{"@skyux/foobar": "^5.0.0"}),
			},
			lib:  domain.PackageMetadata{Name: "@skyux/invalid", Version: "5.0.0", ChangelogURL: "https://changelog.com"},
			code: errors.CodeReleaseIneligible,
			message: "Tagging 'blackbaud/skyux-packages' was aborted because the library '@skyux/invalid' " +
				"is not listed in the `packageGroup` section of 'blackbaud/skyux-packages' package.json file.",
			calls: []string{"clone master", "close"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cloner := newFakeCloner(tt.branches)
			c := newTestCoordinator(t, Config{}, cloner, nil)
			before := cloner.branches["master"][manifest.PackageJSON]

			out, err := c.Coordinate(context.Background(), tt.lib)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.True(t, IsRecoverable(err))
			assert.True(t, errors.HasCode(err, tt.code))
			assert.Equal(t, tt.message, err.Error())
			assert.Equal(t, tt.calls, cloner.calls)

			assert.Equal(t, before, cloner.ws.file("master", manifest.PackageJSON), "manifest is not mutated")
			assert.Equal(t, originalChangelog, cloner.ws.file("master", manifest.Changelog))
		})
	}
}

func TestCoordinateDryRun(t *testing.T) {
	cloner := newFakeCloner(map[string]map[string]string{
		"master": branch("5.0.0", map[string]string{"@skyux/foobar": "^5.0.0"}),
	})
	var logs bytes.Buffer
	c := newTestCoordinator(t, Config{DryRun: true, Bump: domain.BumpMinor}, cloner, &logs)

	out, err := c.Coordinate(context.Background(), foobar("5.0.0"))
	require.NoError(t, err)

	assert.Equal(t, domain.ReleaseStatusDryRun, out.Status)
	assert.Equal(t, "5.1.0", out.Version)
	assert.Equal(t, []string{"clone master", "close"}, cloner.calls)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(),
		"Tagging was aborted because the 'npm-dry-run' flag is set. "+
			"The 'blackbaud/skyux-packages' repository would have been tagged with (5.1.0).")

	var warnings []string
	for _, line := range strings.Split(logs.String(), "\n") {
		if strings.Contains(line, "level=WARN") {
			warnings = append(warnings, line)
		}
	}
	require.Len(t, warnings, 1)
	assert.True(t, strings.HasSuffix(warnings[0], `(5.1.0)."`), "warning carries no attributes: %s", warnings[0])
	assert.NotContains(t, warnings[0], "library=")
}

func TestCoordinateMigrationCollection(t *testing.T) {
	files := branch("5.2.0", map[string]string{"@skyux/foobar": "^5.0.0"})
	files[manifest.MigrationCollection] = `{
  "$schema": "../../../node_modules/@angular-devkit/schematics/collection-schema.json",
  "schematics": {
    "noop": {"version": "ORIGINAL_VERSION", "factory": "./noop"},
    "update-peer-dependencies": {"version": "ORIGINAL_VERSION"},
    "setup-coverage-for-testing-module": {"version": "ORIGINAL_VERSION"}
  }
}`
	cloner := newFakeCloner(map[string]map[string]string{"master": files})
	c := newTestCoordinator(t, Config{}, cloner, nil)

	_, err := c.Coordinate(context.Background(), foobar("5.0.1"))
	require.NoError(t, err)

	doc, err := manifest.ParseDocument([]byte(cloner.ws.file("master", manifest.MigrationCollection)))
	require.NoError(t, err)
	assert.Equal(t, "5.2.1", doc.String("schematics", "noop", "version"))
	assert.Equal(t, "./noop", doc.String("schematics", "noop", "factory"))
	assert.Equal(t, "5.2.1", doc.String("schematics", "update-peer-dependencies", "version"))
	assert.Equal(t, "ORIGINAL_VERSION", doc.String("schematics", "setup-coverage-for-testing-module", "version"))
	assert.Equal(t, []string{"$schema", "schematics"}, doc.Keys())
	assert.Equal(t,
		[]string{"noop", "update-peer-dependencies", "setup-coverage-for-testing-module"},
		doc.Keys("schematics"))
}

func TestCoordinateFatal(t *testing.T) {
	t.Run("clone failure", func(t *testing.T) {
		cloner := newFakeCloner(nil)
		cloner.cloneErr = fmt.Errorf("connection refused")
		c := newTestCoordinator(t, Config{}, cloner, nil)

		_, err := c.Coordinate(context.Background(), foobar("5.0.1"))
		require.Error(t, err)
		assert.False(t, IsRecoverable(err))
		assert.Equal(t, errors.CodeExecutionFailed, errors.GetCode(err))
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("push failure keeps the tag local", func(t *testing.T) {
		cloner := newFakeCloner(map[string]map[string]string{
			"master": branch("5.2.0", map[string]string{"@skyux/foobar": "^5.0.0"}),
		})
		cloner.pushErr = fmt.Errorf("rejected")
		c := newTestCoordinator(t, Config{}, cloner, nil)

		_, err := c.Coordinate(context.Background(), foobar("5.0.1"))
		require.Error(t, err)
		assert.False(t, IsRecoverable(err))
		assert.Equal(t, errors.CodeNetwork, errors.GetCode(err))
		assert.NotContains(t, cloner.calls, "tag 5.2.1")
		assert.Equal(t, "close", cloner.calls[len(cloner.calls)-1])
	})

	t.Run("umbrella without a version", func(t *testing.T) {
		cloner := newFakeCloner(map[string]map[string]string{
			"master": {manifest.PackageJSON: `{"ng-update":{"packageGroup":{}}}`},
		})
		c := newTestCoordinator(t, Config{}, cloner, nil)

		_, err := c.Coordinate(context.Background(), foobar("5.0.1"))
		require.Error(t, err)
		assert.False(t, IsRecoverable(err))
		assert.True(t, cloner.ws.closed)
	})

	t.Run("invalid library version", func(t *testing.T) {
		cloner := newFakeCloner(nil)
		c := newTestCoordinator(t, Config{}, cloner, nil)

		for _, version := range []string{"not-a-version", "5", "5.1"} {
			_, err := c.Coordinate(context.Background(), foobar(version))
			require.Error(t, err, version)
			assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
		}
		assert.Empty(t, cloner.calls)
	})
}

func TestNewCoordinator(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		cloner  Cloner
		wantErr bool
		want    Config
	}{
		{
			name:   "defaults",
			cloner: newFakeCloner(nil),
			want: Config{
				Repository: "blackbaud/skyux-packages",
				URL:        "https://github.com/blackbaud/skyux-packages.git",
				Branch:     "master",
				Bump:       domain.BumpPatch,
			},
		},
		{
			name:   "custom repository",
			cfg:    Config{Repository: "acme/umbrella", Branch: "main", Bump: domain.BumpMinor},
			cloner: newFakeCloner(nil),
			want: Config{
				Repository: "acme/umbrella",
				URL:        "https://github.com/acme/umbrella.git",
				Branch:     "main",
				Bump:       domain.BumpMinor,
			},
		},
		{name: "prerelease bump rejected", cfg: Config{Bump: domain.BumpPrerelease}, cloner: newFakeCloner(nil), wantErr: true},
		{name: "nil cloner", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCoordinator(tt.cfg, tt.cloner)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Config())
		})
	}
}
