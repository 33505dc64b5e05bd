// Package kernel provides the shared domain primitives of the order lifecycle:
// identifiers, money and the acting party of a command.
//
// The package includes:
//   - UUID: a validated identifier value object wrapping github.com/google/uuid
//   - Money: a non-negative, two-decimal amount backed by github.com/shopspring/decimal
//   - Actor: who is performing an operation (buyer, vendor, delivery partner or system)
//
// These primitives are immutable and safe for concurrent use. Their zero values are
// invalid and fail Validate, so a forgotten constructor is caught at the aggregate edge.
package kernel
