// Package kernel holds the value objects shared by the order, route and invoice
// aggregates:
//   - UUID: identifiers for aggregates and for the users they reference
//   - Money: two-place decimal amounts used for prices, totals and payments
//
// Both are immutable and safe for concurrent use.
package kernel
