// Package web embeds the browser client served at "/".
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var static embed.FS

// FS returns the client assets rooted at the static directory.
func FS() http.FileSystem {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		// static is compiled in; Sub only fails on an invalid path.
		panic(err)
	}
	return http.FS(sub)
}
