// Package order defines purchase records extracted by the email-parsing
// subsystem. The engine reads item-level category hints and writes the
// reconciliation link on confirm; everything else is owned upstream.
package order

import (
	"time"

	"github.com/google/uuid"
)

// Order is an extracted purchase record.
type Order struct {
	ID                   uuid.UUID  `json:"id"`
	UserID               uuid.UUID  `json:"user_id"`
	Merchant             string     `json:"merchant"`
	OrderDate            time.Time  `json:"order_date"`
	TotalMinor           int64      `json:"total_minor"`
	Currency             string     `json:"currency"`
	IsReconciled         bool       `json:"is_reconciled"`
	MatchedTransactionID *uuid.UUID `json:"matched_transaction_id,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

// Item is a single line of an order, carrying the category and
// deductibility hints the engine reads at reconciliation time.
type Item struct {
	ID            uuid.UUID `json:"id"`
	OrderID       uuid.UUID `json:"order_id"`
	Name          string    `json:"name"`
	Quantity      int       `json:"quantity"`
	PriceMinor    int64     `json:"price_minor"`
	CategoryHint  string    `json:"category_hint"`
	TaxDeductible bool      `json:"tax_deductible"`
}

// TaxHints aggregates the item-level hints of one order into the tax fields
// a reconciled transaction inherits on confirm.
type TaxHints struct {
	Category   string
	Deductible bool
}

// Empty reports whether the items carried no usable hint at all.
func (h TaxHints) Empty() bool {
	return h.Category == "" && !h.Deductible
}

// DeriveTaxHints folds item hints by line value. The category is the hint
// accounting for the largest share of the order (ties broken alphabetically
// so the result is stable), and the order counts as deductible when
// deductible items make up the strict majority of its value.
func DeriveTaxHints(items []*Item) TaxHints {
	var total, deductible int64
	byCategory := make(map[string]int64, len(items))

	for _, item := range items {
		qty := int64(item.Quantity)
		if qty < 1 {
			qty = 1
		}
		value := item.PriceMinor * qty

		total += value
		if item.TaxDeductible {
			deductible += value
		}
		if item.CategoryHint != "" {
			byCategory[item.CategoryHint] += value
		}
	}

	hints := TaxHints{}
	if total > 0 && deductible*2 > total {
		hints.Deductible = true
	}

	var best int64
	for category, value := range byCategory {
		if value > best || (value == best && (hints.Category == "" || category < hints.Category)) {
			best = value
			hints.Category = category
		}
	}

	return hints
}
