package pipeline

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/blackbaud/skyux-sdk-actions/errors"
	"github.com/blackbaud/skyux-sdk-actions/executor"
	"github.com/blackbaud/skyux-sdk-actions/hooks"
	"github.com/blackbaud/skyux-sdk-actions/manifest"
)

const (
	karmaRunner      = "./node_modules/@skyux-sdk/pipeline-settings/test-runners/karma.js"
	protractorRunner = "./node_modules/@skyux-sdk/pipeline-settings/test-runners/protractor.js"
	webdriverManager = "node_modules/.bin/webdriver-manager"

	documentationSchematics = "@skyux-sdk/documentation-schematics"
)

func (p *Pipeline) run(ctx context.Context, program string, args ...string) error {
	_, err := p.Runner.Run(ctx, program, args, executor.WithWorkingDir(p.Dir), executor.CaptureAll())
	return err
}

// ng runs an Angular CLI command through npx.
func (p *Pipeline) ng(ctx context.Context, command string, args ...string) error {
	return p.run(ctx, "npx", append([]string{"-p", "@angular/cli", "ng", command}, args...)...)
}

func (p *Pipeline) buildLibrary(ctx context.Context, project string) error {
	if err := p.build(ctx, project); err != nil {
		return errors.Wrap(err, errors.CodeBuildFailed, "Library build failed.")
	}
	return nil
}

func (p *Pipeline) build(ctx context.Context, project string) error {
	if err := p.ng(ctx, "build", project, "--configuration=production"); err != nil {
		return err
	}

	pkg, err := manifest.NewStore(p.FS).ReadJSON(manifest.PackageJSON)
	if err != nil {
		return err
	}
	if pkg.Has("devDependencies", documentationSchematics) {
		if err := p.ng(ctx, "generate", documentationSchematics+":documentation"); err != nil {
			return err
		}
	} else {
		p.logger.Warn(fmt.Sprintf(
			"Skip generating \"documentation.json\" because the npm package %q is not installed.", documentationSchematics))
	}

	return p.Hooks.Run(ctx, hooks.AfterBuildPublicLibrarySuccess, p.Config.Hooks.AfterBuildPublicLibrarySuccess)
}

func (p *Pipeline) browserStackArgs(buildID string) []string {
	return []string{
		"--browserstack-username=" + p.Config.BrowserStack.Username,
		"--browserstack-access-key=" + p.Config.BrowserStack.AccessKey,
		"--browserstack-build-id=" + buildID,
		"--browserstack-project=" + p.browserStackProject(),
	}
}

func (p *Pipeline) coverage(ctx context.Context, buildID, project string) error {
	specs, err := p.specFiles(project)
	if err != nil {
		return errors.Wrap(err, errors.CodeTestFailed, "Code coverage failed.")
	}
	if len(specs) == 0 {
		p.logger.Warn("Skipping code coverage because spec files were not found.")
		return nil
	}

	p.logger.Info("> Running Angular CLI command: 'test'")

	cov := p.Config.Coverage
	args := []string{karmaRunner, "--platform=gh-actions", "--project-name=" + project}
	args = append(args, p.browserStackArgs(buildID+"-coverage")...)
	args = append(args,
		"--code-coverage-browser-set="+cov.BrowserSet,
		"--code-coverage-threshold-branches="+cov.ThresholdBranches,
		"--code-coverage-threshold-functions="+cov.ThresholdFunctions,
		"--code-coverage-threshold-lines="+cov.ThresholdLines,
		"--code-coverage-threshold-statements="+cov.ThresholdStatements,
	)

	if err := p.run(ctx, "node", args...); err != nil {
		return errors.Wrap(err, errors.CodeTestFailed, "Code coverage failed.")
	}
	if err := p.Hooks.Run(ctx, hooks.AfterCodeCoverageSuccess, p.Config.Hooks.AfterCodeCoverageSuccess); err != nil {
		return errors.Wrap(err, errors.CodeTestFailed, "Code coverage failed.")
	}
	return nil
}

// specFiles lists projects/<project>/**/*.spec.ts.
func (p *Pipeline) specFiles(project string) ([]string, error) {
	root := path.Join("projects", project)
	exists, err := p.FS.Exists(root)
	if err != nil || !exists {
		return nil, err
	}

	pattern := root + "/**/*.spec.ts"
	var specs []string
	err = p.FS.Walk(root, func(name string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		name = strings.TrimPrefix(name, "/")
		if ok, _ := doublestar.Match(pattern, name); ok {
			specs = append(specs, name)
		}
		return nil
	})
	return specs, err
}

func (p *Pipeline) visual(ctx context.Context, buildID, project string, ws *manifest.Document) error {
	if !ws.Has("projects", project) {
		p.logger.Warn(fmt.Sprintf(
			"Skipping visual tests because a project named %q was not found in the workspace configuration.", project))
		return nil
	}

	root := ws.String("projects", project, "root")
	e2e := path.Join(root, "e2e")
	exists, err := p.FS.Exists(e2e)
	if err != nil {
		return errors.Wrap(err, errors.CodeTestFailed, "End-to-end tests failed.")
	}
	if !exists {
		p.logger.Warn(fmt.Sprintf("Skipping visual tests because %q was not found.", path.Join(p.Config.WorkingDirectory, e2e)))
		return nil
	}

	p.logger.Info("> Running Angular CLI command: 'e2e'")

	if err := p.e2e(ctx, buildID, project, root); err != nil {
		if p.Context.IsPullRequest() {
			if ferr := p.Screenshots.CheckFailures(ctx, buildID); ferr != nil {
				p.logger.Error("[SKY UX ERROR]:", "error", err)
				return ferr
			}
		}
		return errors.Wrap(err, errors.CodeTestFailed, "End-to-end tests failed.")
	}
	return nil
}

func (p *Pipeline) e2e(ctx context.Context, buildID, project, root string) error {
	if err := p.updateWebDriver(ctx); err != nil {
		return err
	}

	args := []string{
		protractorRunner,
		"--platform=gh-actions",
		"--project-name=" + project,
		"--project-root=" + root,
	}
	args = append(args, p.browserStackArgs(buildID+"-visual")...)
	if err := p.run(ctx, "node", args...); err != nil {
		return err
	}

	if p.Context.IsPush() {
		return p.Screenshots.CheckBaseline(ctx, p.Context.Repository, buildID)
	}
	return nil
}

// updateWebDriver installs the chromedriver matching the installed Chrome,
// or the latest one when Chrome's version cannot be read.
func (p *Pipeline) updateWebDriver(ctx context.Context) error {
	version := "latest"
	res, err := p.Runner.Run(ctx, "google-chrome", []string{"--product-version"}, executor.SilentMode())
	if err == nil {
		if v := strings.TrimSpace(res.Output()); v != "" {
			version = v
		}
	}

	p.logger.Info("Updating webdriver to version " + version)
	err = p.run(ctx, webdriverManager,
		"update", "--standalone=false", "--gecko=false", "--versions.chrome", version)
	if err != nil {
		p.logger.Error("Failed to update webdriver.")
		return err
	}
	p.logger.Info("Webdriver successfully updated.")
	return nil
}
