// Package order implements the Order aggregate: a priced, single-stall purchase and
// the multi-party state machine that carries it from checkout to receipt.
//
// The package includes:
//   - Order: the aggregate root owning its items, totals and status
//   - Item: an immutable price snapshot of one checked-out cart line
//   - Status: the closed set of lifecycle states and the transition table
//   - FulfillmentMethod: Pickup or Delivery
//   - Event: facts recorded on creation and on every status change
//
// Key business rules:
//   - Pending → ToPrepare → ToDeliver → ToReceive → Accomplished, with Rejected reachable only from Pending
//   - Vendors drive the order up to ToDeliver; the handover is done by the vendor for pickup
//     orders and by the assigned partner for delivery orders
//   - Accomplished is entered only through confirmation of receipt
//   - Totals are derived from item snapshots and are never re-priced
package order
