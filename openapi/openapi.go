// Package openapi embeds the OpenAPI document for the tenere HTTP API.
// The server publishes it at /openapi.yaml.
package openapi

import (
	_ "embed"
	"net/http"
)

// Document contains the raw bytes of openapi.yaml, embedded at compile time.
//
//go:embed openapi.yaml
var Document []byte

// Serve writes the document as application/yaml.
func Serve(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(Document)
}
