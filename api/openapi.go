// Package api embeds the OpenAPI description of the JSON API.
package api

import _ "embed"

// OpenAPI is the OpenAPI 3.0 document served at /openapi.yaml.
//
//go:embed openapi.yaml
var OpenAPI []byte
