package order

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InsufficientPaymentError indicates the tendered amount does not cover the
// grand total.
type InsufficientPaymentError struct {
	Total    decimal.Decimal
	Tendered decimal.Decimal
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("tendered %s does not cover total %s",
		e.Tendered.StringFixed(2), e.Total.StringFixed(2))
}

// Payment is the derived settlement of an order: the grand total, the amount
// tendered, and the exact change owed. It is computed on demand and never
// stored with the order.
type Payment struct {
	Total    decimal.Decimal
	Tendered decimal.Decimal
	Change   decimal.Decimal
}

// Pay settles the order with the tendered amount. The tendered amount must
// cover the grand total; change is exact decimal arithmetic, never negative.
func Pay(o *Order, tendered decimal.Decimal) (*Payment, error) {
	total := o.GrandTotal()
	if tendered.LessThan(total) {
		return nil, &InsufficientPaymentError{Total: total, Tendered: tendered}
	}
	return &Payment{
		Total:    total,
		Tendered: tendered,
		Change:   tendered.Sub(total),
	}, nil
}
