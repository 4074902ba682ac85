package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dagger/compass/internal/dagger"
)

const modulePath = "github.com/deencompass/compass"

// Build and return directory of go binaries
func (c *Compass) Build(
	ctx context.Context,

	// Linker flags for go build
	// +optional
	// +default="-s -w"
	ldflags string,
) *dagger.Directory {
	// define build matrix
	gooses := []string{"linux", "darwin"}
	goarches := []string{"amd64", "arm64"}

	// create empty directory to put build artifacts
	outputs := dag.Directory()

	golang := dag.Container().
		From("golang:1.25-alpine").
		WithEnvVariable("CGO_ENABLED", "0").
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithDirectory("/src", c.Source).
		WithWorkdir("/src")

	for _, goos := range gooses {
		for _, goarch := range goarches {
			path := fmt.Sprintf("%s/%s/", goos, goarch)

			build := golang.
				WithEnvVariable("GOOS", goos).
				WithEnvVariable("GOARCH", goarch).
				WithExec([]string{"go", "build", "-ldflags", ldflags, "-o", path, "./cli/compass"})

			outputs = outputs.WithDirectory(path, build.Directory(path))
		}
	}

	return outputs
}

// BuildRelease compiles versioned release binaries with embedded version info
func (c *Compass) BuildRelease(
	ctx context.Context,

	// Version string of build
	version string,

	// Git commit SHA of build
	commit string,
) *dagger.Directory {
	return c.Build(ctx, releaseLdflags(version, commit))
}

// Container returns a minimal linux/amd64 image running "compass serve".
// Provider credentials are expected from the runtime environment.
func (c *Compass) Container(
	ctx context.Context,

	// Version string of build
	// +optional
	// +default="dev"
	version string,

	// Git commit SHA of build
	// +optional
	// +default="HEAD"
	commit string,
) *dagger.Container {
	bin := c.Build(ctx, releaseLdflags(version, commit)).File("linux/amd64/compass")

	return dag.Container().
		From("gcr.io/distroless/static-debian12:nonroot").
		WithFile("/usr/local/bin/compass", bin).
		WithEnvVariable("COMPASS_SERVER_LISTEN", ":8000").
		WithExposedPort(8000).
		WithEntrypoint([]string{"/usr/local/bin/compass"}).
		WithDefaultArgs([]string{"serve"})
}

func releaseLdflags(version, commit string) string {
	buildtime := time.Now()

	return strings.Join([]string{
		"-s",
		"-w",
		fmt.Sprintf("-X '%s/pkg/utils.Version=%s'", modulePath, version),
		fmt.Sprintf("-X '%s/pkg/utils.Sha=%s'", modulePath, commit),
		fmt.Sprintf("-X '%s/pkg/utils.Buildtime=%s'", modulePath, buildtime),
	}, " ")
}
