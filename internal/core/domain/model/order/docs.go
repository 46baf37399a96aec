// Package order provides the order aggregate of the intake domain and the two status
// machines operated on it by fulfillment.
//
// The package includes:
//   - Order: the aggregate root with its line items and shipping lines
//   - LineItem and Property: purchased products and their customizations
//   - Status and LineItemStatus: the order and line item state sets
//   - TransitionPolicy: PermissivePolicy (any valid target) and StrictPolicy (lifecycle table)
//   - OrderStatusAudit and LineItemStatusAudit: append-only status history entries
//
// Key business rules:
//   - Orders start in PENDING, line items in UNASSIGNED
//   - Every status change names its actor and moment and is paired with one audit entry
//   - Audit entries are never updated or removed
package order
