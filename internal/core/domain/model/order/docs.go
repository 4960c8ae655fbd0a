// Package order implements the laundry order aggregate and its lifecycle.
//
// An order moves through thirteen statuses from Pending to Completed. Two kinds of
// operations change the status:
//   - dedicated transitions (ConfirmPickup, ReceiveAtFacility, ConfirmDelivery) that
//     check the current status and fail with errs.PreconditionFailedError
//   - the permissive SetStatus and the side effects driven by routes and invoices
//     (AssignToDriver, MarkInvoiced, Complete) that accept any current status
//
// Every status change, of either kind, appends one HistoryEntry and raises a
// StatusChanged event.
package order
