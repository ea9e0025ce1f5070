// Package session drives one interactive point-of-sale session: welcome,
// menu, order taking with age-gating, summary, payment, and receipt.
package session

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/beachside-kiosk/internal/domain/agegate"
	"github.com/xenking/beachside-kiosk/internal/domain/menu"
	"github.com/xenking/beachside-kiosk/internal/domain/order"
	"github.com/xenking/beachside-kiosk/internal/identity"
	"github.com/xenking/beachside-kiosk/pkg/term"
)

// finishSentinel is the item selector that ends the ordering loop.
const finishSentinel = 0

// errNotANumber classifies unparseable numeric input. It is always
// recoverable: the session re-prompts and never terminates on it.
var errNotANumber = errors.New("not a number")

// Config holds non-dependency session settings.
type Config struct {
	// Restaurant is the name shown in the welcome banner.
	Restaurant string
}

// Session owns the in-progress order and walks the customer through one
// complete purchase. It is single-use: create a new Session per customer.
type Session struct {
	restaurant string
	catalog    *menu.Catalog
	term       *term.Terminal
	gate       *agegate.Gate
	verifier   identity.Verifier
	lg         *zap.Logger

	order *order.Order

	newReceiptNumber func() string
	now              func() time.Time
}

// New creates a Session. The verifier may be nil, in which case restricted
// items are gated by the local birthdate check alone.
func New(
	cfg Config,
	catalog *menu.Catalog,
	t *term.Terminal,
	gate *agegate.Gate,
	verifier identity.Verifier,
	lg *zap.Logger,
) *Session {
	return &Session{
		restaurant:       cfg.Restaurant,
		catalog:          catalog,
		term:             t,
		gate:             gate,
		verifier:         verifier,
		lg:               lg,
		order:            order.New(),
		newReceiptNumber: uuid.NewString,
		now:              time.Now,
	}
}

// Result is the outcome of one completed session. Payment is nil when the
// order was empty or the customer walked away before paying; a receipt is
// printed only when Payment is set.
type Result struct {
	Order         *order.Order
	Payment       *order.Payment
	ReceiptNumber string
}

// Run executes the full session flow and blocks until it completes. Input
// errors at any prompt are recoverable; the only error returned is context
// cancellation.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	s.term.Printf("Welcome to the %s!\n\n", s.restaurant)
	s.displayMenu()

	if err := s.takeOrder(ctx); err != nil {
		return nil, err
	}
	s.displayOrderSummary()

	if s.order.Empty() {
		return &Result{Order: s.order}, nil
	}

	payment, err := s.handlePayment(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// Input ended mid-payment: the purchase is abandoned, no receipt.
		s.lg.Warn("Payment abandoned", zap.Error(err),
			zap.String("total", s.order.GrandTotal().StringFixed(2)))
		return &Result{Order: s.order}, nil
	}

	number := s.generateReceipt(payment)
	return &Result{
		Order:         s.order,
		Payment:       payment,
		ReceiptNumber: number,
	}, nil
}

// displayMenu lists every catalog item at its default option's price.
func (s *Session) displayMenu() {
	s.term.Printf("Menu:\n")
	for _, item := range s.catalog.Items() {
		s.term.Printf("%d. %s - $%s\n", item.ID, item.Name, item.DefaultOption().Price.StringFixed(2))
	}
}

// takeOrder loops reading item selections until the finish sentinel, the end
// of input, or context cancellation. Every validation failure re-prompts
// without touching the order.
func (s *Session) takeOrder(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := s.term.Prompt("\nEnter the ID of the item you'd like to order (or 0 to finish): ")
		if err != nil {
			s.lg.Debug("Input ended while ordering", zap.Error(err))
			return nil
		}

		itemID, err := parseNumber(line)
		if err != nil {
			s.term.Printf("Invalid input. Please enter a valid number.\n")
			continue
		}
		if itemID == finishSentinel {
			return nil
		}

		item, err := s.catalog.Get(itemID)
		if err != nil {
			s.term.Printf("Invalid item ID. Please try again.\n")
			continue
		}

		if item.Restricted && !s.confirmEligibility(ctx) {
			s.term.Printf("Customer is not allowed to order alcohol.\n")
			continue
		}

		line, err = s.term.Prompt("How many " + item.Name + " would you like? (1-9): ")
		if err != nil {
			s.lg.Debug("Input ended while ordering", zap.Error(err))
			return nil
		}
		quantity, err := parseNumber(line)
		if err != nil {
			s.term.Printf("Invalid input. Please enter a valid number.\n")
			continue
		}

		li, err := order.NewLineItem(item.Name, quantity, item.DefaultOption().Price)
		if err != nil {
			s.term.Printf("Invalid quantity. Please enter a number between %d and %d.\n",
				order.MinQuantity, order.MaxQuantity)
			continue
		}
		s.order.Append(li)
	}
}

// confirmEligibility runs the local birthdate gate and, when a remote
// verifier is configured, the ID verification step as well. It reports
// whether the restricted purchase may proceed.
func (s *Session) confirmEligibility(ctx context.Context) bool {
	line, err := s.term.Prompt("Please enter the customer's birthday (YYYY-MM-DD): ")
	if err != nil {
		return false
	}

	if err := s.gate.Check(line); err != nil {
		var uaErr *agegate.UnderageError
		switch {
		case errors.Is(err, agegate.ErrInvalidBirthdate):
			s.term.Printf("Invalid date format. Please enter the date in YYYY-MM-DD format.\n")
		case errors.As(err, &uaErr):
			s.term.Printf("Customer is not of legal drinking age (%d years or older).\n", uaErr.MinimumAge)
		}
		return false
	}

	if s.verifier == nil {
		return true
	}
	return s.verifyIdentity(ctx)
}

// verifyIdentity asks for an ID document number and requires an explicit
// "verified" answer from the remote service. Any service or transport
// failure denies this purchase attempt without ending the session.
func (s *Session) verifyIdentity(ctx context.Context) bool {
	line, err := s.term.Prompt("Please enter the customer's ID number: ")
	if err != nil {
		return false
	}

	verified, err := s.verifier.Verify(ctx, strings.TrimSpace(line))
	if err != nil {
		s.lg.Warn("ID verification unavailable", zap.Error(err))
		s.term.Printf("ID verification is unavailable right now.\n")
		return false
	}
	if !verified {
		s.term.Printf("The customer's ID could not be verified.\n")
		return false
	}
	return true
}

// displayOrderSummary lists each line item with its subtotal and the grand
// total, or states explicitly that nothing was ordered.
func (s *Session) displayOrderSummary() {
	if s.order.Empty() {
		s.term.Printf("\nNo items ordered.\n")
		return
	}

	s.term.Printf("\nOrder Summary:\n")
	s.printOrderLines()
	s.term.Printf("\nGrand Total: $%s\n", s.order.GrandTotal().StringFixed(2))
}

// handlePayment loops reading tendered amounts until one covers the grand
// total, then reports the change.
func (s *Session) handlePayment(ctx context.Context) (*order.Payment, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line, err := s.term.Prompt("\nEnter the amount paid: $")
		if err != nil {
			return nil, errors.Wrap(err, "read tendered amount")
		}

		tendered, err := parseAmount(line)
		if err != nil {
			s.term.Printf("Invalid input. Please enter a valid number.\n")
			continue
		}

		payment, err := order.Pay(s.order, tendered)
		if err != nil {
			var ipErr *order.InsufficientPaymentError
			if errors.As(err, &ipErr) {
				s.term.Printf("Insufficient payment. Please enter a valid amount.\n")
				continue
			}
			return nil, err
		}

		s.term.Printf("\nChange: $%s\n", payment.Change.StringFixed(2))
		return payment, nil
	}
}

// generateReceipt prints the receipt and returns its number. Pure output;
// the order is not mutated.
func (s *Session) generateReceipt(payment *order.Payment) string {
	number := s.newReceiptNumber()

	s.term.Printf("\nReceipt:\n")
	s.term.Printf("#%s  %s\n", number, s.now().Format("2006-01-02 15:04"))
	s.printOrderLines()
	s.term.Printf("\nGrand Total: $%s\n", payment.Total.StringFixed(2))
	s.term.Printf("Thank you for dining with us!\n")

	return number
}

func (s *Session) printOrderLines() {
	for _, li := range s.order.Items() {
		s.term.Printf("%s x%d: $%s\n", li.Name, li.Quantity, li.Subtotal().StringFixed(2))
	}
}

// parseNumber parses a whole-number selector or quantity.
func parseNumber(line string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, errNotANumber
	}
	return n, nil
}

// parseAmount parses a tendered currency amount.
func parseAmount(line string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(line))
	if err != nil {
		return decimal.Decimal{}, errNotANumber
	}
	return d, nil
}
