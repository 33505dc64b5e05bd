// Package services provides domain services for the order lifecycle: operations that
// span more than one aggregate or need policy that no single aggregate owns.
//
// The package includes:
//   - PricingEngine: markup, premium, commission and delivery fee arithmetic
//   - CartAggregator: turns a buyer's selected cart lines into a priced Pending order
//   - OrderLifecycle: runs status transitions together with their delivery request and
//     confirmation side effects
//
// Services are pure: they receive loaded aggregates and the current time, and leave
// persistence to the command handlers.
package services
