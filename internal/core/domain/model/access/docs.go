// Package access models the identity the application layer authorizes against.
//
// The transport layer resolves a token into an Actor ({user id, role}); command and
// query handlers then call Actor.Require with the roles an operation accepts and use
// Actor.Owns for per-record checks such as a client reading its own order.
package access
