// Compass CI/CD
//
// Package main provides reproducible builds and tests locally and in GitHub actions.
// It is the main harness for handling nearly all dev operations.
package main

import (
	"context"

	"dagger/compass/internal/dagger"
)

// Compass is the main module for the Compass CI/CD pipeline
type Compass struct {
	// Project source directory
	//
	// +private
	Source *dagger.Directory
}

// New creates a new Compass CI/CD module instance
func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", ".direnv", ".devenv", ".compass", ".env", "build", "tmp"]
	source *dagger.Directory,
) *Compass {
	return &Compass{
		Source: source,
	}
}

// goContainer returns a Go container with the project source mounted and
// module and build caches attached. compass is pure Go, so CGO is off.
//
// It is the shared foundation for tests and builds.
func (c *Compass) goContainer() *dagger.Container {
	return dag.Container().
		From("golang:1.25-bookworm").
		WithEnvVariable("CGO_ENABLED", "0").
		WithEnvVariable("PATH", "/go/bin:$PATH", dagger.ContainerWithEnvVariableOpts{Expand: true}).
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", c.Source)
}

// Test runs the compass unit tests via "go test"
func (c *Compass) Test(ctx context.Context) (string, error) {
	return c.goContainer().
		WithExec([]string{"go", "test", "-v", "./..."}).
		Stdout(ctx)
}

// Vet runs "go vet" over every package
//
// +check
func (c *Compass) Vet(ctx context.Context) (string, error) {
	return c.goContainer().
		WithExec([]string{"go", "vet", "./..."}).
		Stdout(ctx)
}
