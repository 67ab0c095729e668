package procurement

import (
	"sort"

	"github.com/shopspring/decimal"
)

// MatchVerdict is the overall outcome of a three-way match
type MatchVerdict string

const (
	VerdictMissingPO      MatchVerdict = "MISSING_PO"
	VerdictMissingReceipt MatchVerdict = "MISSING_RECEIPT"
	VerdictOK             MatchVerdict = "OK"
	VerdictMismatch       MatchVerdict = "MISMATCH"
)

// String returns the string representation of MatchVerdict
func (v MatchVerdict) String() string {
	return string(v)
}

// MatchLineStatus is the per-item outcome
type MatchLineStatus string

const (
	MatchLineOK       MatchLineStatus = "OK"
	MatchLineMismatch MatchLineStatus = "MISMATCH"
)

// MatchLine compares ordered, received and invoiced quantities for one item
type MatchLine struct {
	Item        string          `json:"item"`
	OrderedQty  decimal.Decimal `json:"ordered_qty"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	InvoicedQty decimal.Decimal `json:"invoiced_qty"`
	Status      MatchLineStatus `json:"status"`
}

// MatchResult is the outcome of a three-way match. It is advisory input to
// invoice approval and never blocks a transition.
type MatchResult struct {
	Verdict MatchVerdict `json:"verdict"`
	Lines   []MatchLine  `json:"lines"`
}

// Match reconciles a supplier invoice against its purchase order and validated
// goods receipts, per item key. A line is OK iff the invoiced quantity does not
// exceed the ordered quantity (when a PO is present) and does not exceed the
// received quantity (when receipts are present). The caller passes only
// validated receipts. Lines are ordered by item key for a stable result.
func Match(po *PurchaseOrder, receipts []GoodsReceipt, inv *SupplierInvoice) MatchResult {
	ordered := map[string]decimal.Decimal{}
	if po != nil {
		ordered = po.OrderedByItem()
	}
	received := CumulativeReceived(receipts)
	invoiced := map[string]decimal.Decimal{}
	if inv != nil {
		invoiced = inv.InvoicedByItem()
	}

	keys := make(map[string]struct{})
	for item := range ordered {
		keys[item] = struct{}{}
	}
	for item := range received {
		keys[item] = struct{}{}
	}
	for item := range invoiced {
		keys[item] = struct{}{}
	}

	items := make([]string, 0, len(keys))
	for item := range keys {
		items = append(items, item)
	}
	sort.Strings(items)

	lines := make([]MatchLine, 0, len(items))
	allOK := true
	for _, item := range items {
		line := MatchLine{
			Item:        item,
			OrderedQty:  ordered[item],
			ReceivedQty: received[item],
			InvoicedQty: invoiced[item],
			Status:      MatchLineOK,
		}
		if po != nil && line.InvoicedQty.GreaterThan(line.OrderedQty) {
			line.Status = MatchLineMismatch
		}
		if len(receipts) > 0 && line.InvoicedQty.GreaterThan(line.ReceivedQty) {
			line.Status = MatchLineMismatch
		}
		if line.Status == MatchLineMismatch {
			allOK = false
		}
		lines = append(lines, line)
	}

	verdict := VerdictOK
	switch {
	case po == nil:
		verdict = VerdictMissingPO
	case len(receipts) == 0:
		verdict = VerdictMissingReceipt
	case !allOK:
		verdict = VerdictMismatch
	}

	return MatchResult{Verdict: verdict, Lines: lines}
}
