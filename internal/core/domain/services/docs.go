// Package services holds the domain services that change orders as a side effect
// of another aggregate's lifecycle.
//
//   - RouteAssigner: a planned route assigns its orders to the route's driver
//   - Settlement: issuing an invoice marks its orders Invoiced, settling it completes them
//
// Both expect the caller to load every referenced order inside the same unit of
// work and to persist all changed aggregates together.
package services
