package session

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xenking/beachside-kiosk/internal/domain/agegate"
	"github.com/xenking/beachside-kiosk/internal/domain/menu"
	"github.com/xenking/beachside-kiosk/internal/identity"
	"github.com/xenking/beachside-kiosk/pkg/term"
)

type fakeVerifier struct {
	verified bool
	err      error
	gotID    string
	calls    int
}

func (f *fakeVerifier) Verify(_ context.Context, idNumber string) (bool, error) {
	f.calls++
	f.gotID = idNumber
	return f.verified, f.err
}

// runSession drives a full session over scripted input and returns the
// result together with the terminal transcript.
func runSession(t *testing.T, input string, verifier identity.Verifier) (*Result, string) {
	t.Helper()

	var out bytes.Buffer
	s := New(
		Config{Restaurant: "Beach Side Restaurant"},
		menu.Default(),
		term.New(strings.NewReader(input), &out),
		agegate.New(21),
		verifier,
		zap.NewNop(),
	)

	result, err := s.Run(context.Background())
	require.NoError(t, err)
	return result, out.String()
}

// birthdateAged returns a birthdate string for a customer who turns the
// given age today.
func birthdateAged(years int) string {
	return time.Now().AddDate(-years, 0, 0).Format(agegate.BirthdateLayout)
}

func TestRun_EmptyOrderSkipsPayment(t *testing.T) {
	result, transcript := runSession(t, "0\n", nil)

	assert.True(t, result.Order.Empty())
	assert.Nil(t, result.Payment)
	assert.Empty(t, result.ReceiptNumber)

	assert.Contains(t, transcript, "Welcome to the Beach Side Restaurant!")
	assert.Contains(t, transcript, "Menu:")
	assert.Contains(t, transcript, "1. Soda - $2.50")
	assert.Contains(t, transcript, "10. Ice Cream - $4.00")
	assert.Contains(t, transcript, "No items ordered.")
	assert.NotContains(t, transcript, "Enter the amount paid")
	assert.NotContains(t, transcript, "Receipt:")
}

func TestRun_OrderAndPayment(t *testing.T) {
	// Burger x3 = 25.50, paid 30.00, change 4.50.
	result, transcript := runSession(t, "2\n3\n0\n30.00\n", nil)

	require.Len(t, result.Order.Items(), 1)
	require.NotNil(t, result.Payment)
	assert.True(t, decimal.RequireFromString("25.50").Equal(result.Payment.Total))
	assert.True(t, decimal.RequireFromString("4.50").Equal(result.Payment.Change))

	_, err := uuid.Parse(result.ReceiptNumber)
	assert.NoError(t, err, "receipt number is a uuid")

	assert.Contains(t, transcript, "Order Summary:")
	assert.Contains(t, transcript, "Burger x3: $25.50")
	assert.Contains(t, transcript, "Grand Total: $25.50")
	assert.Contains(t, transcript, "Change: $4.50")
	assert.Contains(t, transcript, "Receipt:")
	assert.Contains(t, transcript, "Thank you for dining with us!")
}

func TestRun_UnknownItemAndBadInputReprompt(t *testing.T) {
	result, transcript := runSession(t, "42\nabc\n1\n2\n0\n5.00\n", nil)

	assert.Contains(t, transcript, "Invalid item ID. Please try again.")
	assert.Contains(t, transcript, "Invalid input. Please enter a valid number.")

	require.Len(t, result.Order.Items(), 1)
	li := result.Order.Items()[0]
	assert.Equal(t, "Soda", li.Name)
	assert.Equal(t, 2, li.Quantity)
}

func TestRun_QuantityOutOfRangeRejected(t *testing.T) {
	result, transcript := runSession(t, "1\n0\n1\n12\n1\n9\n0\n22.50\n", nil)

	assert.Contains(t, transcript, "Invalid quantity. Please enter a number between 1 and 9.")

	require.Len(t, result.Order.Items(), 1)
	assert.Equal(t, 9, result.Order.Items()[0].Quantity)
	require.NotNil(t, result.Payment)
	assert.True(t, decimal.RequireFromString("22.50").Equal(result.Payment.Total))
}

func TestRun_UnderageCannotOrderAlcohol(t *testing.T) {
	result, transcript := runSession(t, "6\n"+birthdateAged(18)+"\n0\n", nil)

	assert.Contains(t, transcript, "Customer is not of legal drinking age (21 years or older).")
	assert.Contains(t, transcript, "Customer is not allowed to order alcohol.")
	assert.True(t, result.Order.Empty())
	assert.Nil(t, result.Payment)
}

func TestRun_InvalidBirthdateFailsClosed(t *testing.T) {
	result, transcript := runSession(t, "7\nnot-a-date\n0\n", nil)

	assert.Contains(t, transcript, "Invalid date format. Please enter the date in YYYY-MM-DD format.")
	assert.Contains(t, transcript, "Customer is not allowed to order alcohol.")
	assert.True(t, result.Order.Empty())
}

func TestRun_EligibleCustomerOrdersAlcohol(t *testing.T) {
	// Beer (IPA 5.00) x2; first payment attempt is short, second is exact.
	input := "7\n" + birthdateAged(30) + "\n2\n0\nfive\n5\n10.00\n"
	result, transcript := runSession(t, input, nil)

	require.Len(t, result.Order.Items(), 1)
	assert.Equal(t, "Beer", result.Order.Items()[0].Name)

	assert.Contains(t, transcript, "Invalid input. Please enter a valid number.")
	assert.Contains(t, transcript, "Insufficient payment. Please enter a valid amount.")
	assert.Contains(t, transcript, "Change: $0.00")
	require.NotNil(t, result.Payment)
	assert.True(t, decimal.RequireFromString("10.00").Equal(result.Payment.Total))
}

func TestRun_RemoteVerificationConfirms(t *testing.T) {
	v := &fakeVerifier{verified: true}
	input := "8\n" + birthdateAged(25) + "\n AB-9921 \n1\n0\n8.00\n"
	result, _ := runSession(t, input, v)

	assert.Equal(t, 1, v.calls)
	assert.Equal(t, "AB-9921", v.gotID, "id number is trimmed before verification")
	require.Len(t, result.Order.Items(), 1)
	assert.Equal(t, "Cocktail", result.Order.Items()[0].Name)
}

func TestRun_RemoteVerificationDenies(t *testing.T) {
	v := &fakeVerifier{verified: false}
	input := "8\n" + birthdateAged(25) + "\nAB-9921\n0\n"
	result, transcript := runSession(t, input, v)

	assert.Contains(t, transcript, "The customer's ID could not be verified.")
	assert.Contains(t, transcript, "Customer is not allowed to order alcohol.")
	assert.True(t, result.Order.Empty())
}

func TestRun_RemoteVerificationFailureDeniesAttempt(t *testing.T) {
	v := &fakeVerifier{err: &identity.ServiceError{StatusCode: 503}}
	input := "8\n" + birthdateAged(25) + "\nAB-9921\n1\n3\n0\n12.00\n"
	result, transcript := runSession(t, input, v)

	assert.Contains(t, transcript, "ID verification is unavailable right now.")
	assert.Contains(t, transcript, "Customer is not allowed to order alcohol.")

	// The session continues: the same customer orders Soda x3 instead.
	require.Len(t, result.Order.Items(), 1)
	assert.Equal(t, "Soda", result.Order.Items()[0].Name)
	require.NotNil(t, result.Payment)
}

func TestRun_UnderageSkipsRemoteVerification(t *testing.T) {
	v := &fakeVerifier{verified: true}
	input := "6\n" + birthdateAged(20) + "\n0\n"
	result, _ := runSession(t, input, v)

	assert.Zero(t, v.calls, "remote verification only runs after the local gate passes")
	assert.True(t, result.Order.Empty())
}

func TestRun_InputEndsMidPaymentAbandonsPurchase(t *testing.T) {
	result, transcript := runSession(t, "3\n2\n0\n", nil)

	require.Len(t, result.Order.Items(), 1)
	assert.Nil(t, result.Payment)
	assert.Empty(t, result.ReceiptNumber)
	assert.NotContains(t, transcript, "Receipt:")
}

func TestRun_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	s := New(
		Config{Restaurant: "Beach Side Restaurant"},
		menu.Default(),
		term.New(strings.NewReader("1\n2\n0\n"), &out),
		agegate.New(21),
		nil,
		zap.NewNop(),
	)

	_, err := s.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestReceiptRepeatsOrderLines(t *testing.T) {
	_, transcript := runSession(t, "2\n1\n3\n2\n0\n20.00\n", nil)

	// Both the summary and the receipt list every line item.
	assert.Equal(t, 2, strings.Count(transcript, "Burger x1: $8.50"))
	assert.Equal(t, 2, strings.Count(transcript, "Fries x2: $6.00"))
	assert.Equal(t, 2, strings.Count(transcript, "Grand Total: $14.50"))
	assert.Contains(t, transcript, "Change: $5.50")
}
