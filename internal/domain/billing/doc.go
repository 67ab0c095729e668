// Package billing provides domain models for customer invoicing.
//
// A SalesInvoice carries its lines and an embedded tax profile (TVA, FODEC,
// timbre fiscal, retenue a la source) and recomputes its totals and status on
// every mutation. Payments are clamped to the remaining net due; overdue
// detection compares the due date against the clock for SENT invoices.
package billing
