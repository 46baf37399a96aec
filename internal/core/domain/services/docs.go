// Package services provides domain logic that does not belong to a single aggregate.
//
// The package includes:
//   - TransformDeliveryDateTime: computes the delivery moment from the "Delivery Date"
//     and "Delivery Session" order attributes
//   - DeliveryScheduler: the same computation for ingestion, logging failures instead of
//     returning them
package services
