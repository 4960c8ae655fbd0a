// Package route implements the Route aggregate: a driver's set of orders for one
// day and area. Routes are plain assignment containers; no sequencing or
// optimisation happens here.
package route
