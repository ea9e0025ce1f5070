package order

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Quantity bounds for a single line item.
const (
	MinQuantity = 1
	MaxQuantity = 9
)

// InvalidQuantityError indicates a line item quantity outside the allowed range.
type InvalidQuantityError struct {
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be between %d and %d, got %d", MinQuantity, MaxQuantity, e.Quantity)
}

// LineItem is one ordered quantity of a single menu item at a fixed unit
// price. It is immutable once created.
type LineItem struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// NewLineItem validates the quantity and builds a LineItem.
func NewLineItem(name string, quantity int, unitPrice decimal.Decimal) (LineItem, error) {
	if quantity < MinQuantity || quantity > MaxQuantity {
		return LineItem{}, &InvalidQuantityError{Quantity: quantity}
	}
	return LineItem{
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}, nil
}

// Subtotal returns quantity × unit price at full precision.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Order is the append-only sequence of line items for one kiosk session.
type Order struct {
	items []LineItem
}

// New creates an empty Order.
func New() *Order {
	return &Order{}
}

// Append adds a completed line item to the order.
func (o *Order) Append(li LineItem) {
	o.items = append(o.items, li)
}

// Items returns the line items in the order they were added.
func (o *Order) Items() []LineItem {
	return o.items
}

// Empty reports whether no line items have been added.
func (o *Order) Empty() bool {
	return len(o.items) == 0
}

// GrandTotal returns the sum of all line-item subtotals at full precision.
func (o *Order) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for _, li := range o.items {
		total = total.Add(li.Subtotal())
	}
	return total
}
