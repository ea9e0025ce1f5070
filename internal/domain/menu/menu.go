package menu

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors for catalog construction.
var (
	ErrNoOptions     = errors.New("item must have at least one option")
	ErrNegativePrice = errors.New("option price must not be negative")
	ErrInvalidItemID = errors.New("item id must be a positive integer")
	ErrDuplicateItem = errors.New("duplicate item id")
)

// UnknownItemError indicates a requested item id is not on the menu.
type UnknownItemError struct {
	ID int
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("item %d is not on the menu", e.ID)
}

// Option is one variant of a menu item with its own label and unit price.
type Option struct {
	Label string
	Price decimal.Decimal
}

// Item represents a single entry on the menu. Restricted items require an
// age-eligibility check before they can be ordered.
type Item struct {
	ID         int
	Name       string
	Options    []Option
	Restricted bool
}

// DefaultOption returns the option used for pricing and the menu listing.
// The kiosk flow does not offer option selection; every line is priced at
// the first option.
func (i Item) DefaultOption() Option {
	return i.Options[0]
}

// Catalog is the fixed menu for one kiosk session. It is immutable after
// construction; lookups and listings never mutate it.
type Catalog struct {
	items []Item
	byID  map[int]Item
}

// NewCatalog validates the given items and builds a Catalog preserving their
// order. Every item must have a positive unique id, at least one option, and
// non-negative option prices.
func NewCatalog(items ...Item) (*Catalog, error) {
	byID := make(map[int]Item, len(items))
	for _, item := range items {
		if item.ID < 1 {
			return nil, errors.Wrapf(ErrInvalidItemID, "item %q", item.Name)
		}
		if _, ok := byID[item.ID]; ok {
			return nil, errors.Wrapf(ErrDuplicateItem, "item %d", item.ID)
		}
		if len(item.Options) == 0 {
			return nil, errors.Wrapf(ErrNoOptions, "item %q", item.Name)
		}
		for _, opt := range item.Options {
			if opt.Price.IsNegative() {
				return nil, errors.Wrapf(ErrNegativePrice, "item %q option %q", item.Name, opt.Label)
			}
		}
		byID[item.ID] = item
	}

	return &Catalog{
		items: items,
		byID:  byID,
	}, nil
}

// Items returns all menu items in listing order.
func (c *Catalog) Items() []Item {
	return c.items
}

// Get looks up an item by id.
func (c *Catalog) Get(id int) (Item, error) {
	item, ok := c.byID[id]
	if !ok {
		return Item{}, &UnknownItemError{ID: id}
	}
	return item, nil
}

// Default returns the Beach Side Restaurant menu.
func Default() *Catalog {
	c, err := NewCatalog(
		item(1, "Soda", false,
			opt("Cola", "2.50"), opt("Lemon-Lime", "2.50"), opt("Root Beer", "2.50")),
		item(2, "Burger", false,
			opt("Classic", "8.50"), opt("Cheese", "9.00"), opt("Bacon", "9.50")),
		item(3, "Fries", false,
			opt("Regular", "3.00"), opt("Curly", "3.50"), opt("Sweet Potato", "4.00")),
		item(4, "Salad", false,
			opt("Caesar", "5.50"), opt("Greek", "6.00"), opt("Cobb", "6.50")),
		item(5, "Pizza", false,
			opt("Margherita", "10.00"), opt("Pepperoni", "11.00"), opt("Vegetarian", "12.00")),
		item(6, "Wine", true,
			opt("Red", "12.00"), opt("White", "10.00"), opt("Rose", "11.00")),
		item(7, "Beer", true,
			opt("IPA", "5.00"), opt("Lager", "4.50"), opt("Stout", "5.50")),
		item(8, "Cocktail", true,
			opt("Mojito", "8.00"), opt("Martini", "9.00"), opt("Margarita", "8.50")),
		item(9, "Pasta", false,
			opt("Spaghetti Bolognese", "9.50"), opt("Alfredo", "10.00"), opt("Pesto", "10.50")),
		item(10, "Ice Cream", false,
			opt("Vanilla", "4.00"), opt("Chocolate", "4.00"), opt("Strawberry", "4.00")),
	)
	if err != nil {
		panic(err)
	}
	return c
}

func item(id int, name string, restricted bool, options ...Option) Item {
	return Item{
		ID:         id,
		Name:       name,
		Options:    options,
		Restricted: restricted,
	}
}

func opt(label, price string) Option {
	return Option{
		Label: label,
		Price: decimal.RequireFromString(price),
	}
}
