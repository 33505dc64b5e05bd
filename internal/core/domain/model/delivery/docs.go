// Package delivery models the delivery request sub-lifecycle that runs alongside a
// Delivery order: a request is opened when the vendor accepts the order, taken by a
// delivery partner, and completed when the partner hands the order to the buyer.
//
// Rules:
//   - At most one active (Pending or Assigned) request per order
//   - Assign only from Pending; Complete only from Assigned; Cancel from either
//   - Completed and Cancelled are terminal
package delivery
