// Package api embeds the OpenAPI description of the service. The ShopifyOrder schema
// component also drives structural validation of ingested payloads.
package api

import _ "embed"

//go:embed openapi.yaml
var Spec []byte
