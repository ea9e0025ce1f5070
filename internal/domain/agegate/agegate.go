package agegate

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

// BirthdateLayout is the only accepted birthdate input format (YYYY-MM-DD).
const BirthdateLayout = "2006-01-02"

// ErrInvalidBirthdate is returned when a birthdate string does not parse.
// The gate fails closed on it.
var ErrInvalidBirthdate = errors.New("invalid birthdate")

// UnderageError indicates the customer's computed age is below the minimum.
type UnderageError struct {
	Age        int
	MinimumAge int
}

func (e *UnderageError) Error() string {
	return fmt.Sprintf("customer age %d is below the minimum of %d", e.Age, e.MinimumAge)
}

// ParseBirthdate parses a birthdate in BirthdateLayout.
func ParseBirthdate(s string) (time.Time, error) {
	t, err := time.Parse(BirthdateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, errors.Wrap(ErrInvalidBirthdate, s)
	}
	return t, nil
}

// Age returns the whole years between birth and now, subtracting one year
// when the birthday has not yet occurred in now's year.
func Age(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// Gate checks that a supplied birthdate meets a minimum age.
type Gate struct {
	minimumAge int
	now        func() time.Time
}

// New creates a Gate enforcing the given minimum age against the current date.
func New(minimumAge int) *Gate {
	return &Gate{minimumAge: minimumAge, now: time.Now}
}

// MinimumAge returns the age the gate enforces.
func (g *Gate) MinimumAge() int {
	return g.minimumAge
}

// Check parses the birthdate and verifies the computed age meets the minimum.
// It returns ErrInvalidBirthdate for unparseable input and *UnderageError when
// the customer is too young; nil means eligible.
func (g *Gate) Check(birthdate string) error {
	birth, err := ParseBirthdate(birthdate)
	if err != nil {
		return err
	}
	if age := Age(birth, g.now()); age < g.minimumAge {
		return &UnderageError{Age: age, MinimumAge: g.minimumAge}
	}
	return nil
}
