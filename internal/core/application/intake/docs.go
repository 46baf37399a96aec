// Package intake turns raw order webhook payloads into OrderAggregate values.
//
// Normalization runs in two steps: the payload is validated against the ShopifyOrder
// schema of the embedded OpenAPI document, then mapped field by field into typed
// values. Mistyped fields are rejected, never coerced. Every rejection is a
// *PayloadError naming the offending field path and wrapping ErrPayloadIsInvalid.
package intake
