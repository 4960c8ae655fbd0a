// Package invoice implements the Invoice aggregate: numbering, line items,
// payments and the settlement rule.
//
// Amounts are kernel.Money values rounded to two places, so settlement
// (sum of payments >= total) compares rounded figures. The overdue sweep is
// executed in bulk by the repository; Invoice.MarkOverdue states the same rule
// for a single invoice.
package invoice
