// Package api provides the HTTP façade in front of the active provider adapter.
package api

import "github.com/deencompass/compass/pkg/llm"

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8000")
	ListenAddr string

	// CORSOrigins is a comma separated list of allowed origins, "*" for any.
	CORSOrigins string

	// Policy is prepended to every conversation as the system instruction.
	Policy string

	// Generation is the startup generation config passed to the adapter on
	// every request.
	Generation llm.GenerationConfig

	// ServeWeb mounts the embedded browser client at "/".
	ServeWeb bool
}
