package order

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"

	"laundry/internal/pkg/errs"
)

var numberPattern = regexp.MustCompile(`^ORD-\d{6}-\d{4}$`)

// Number is the human readable order identifier, ORD-YYMMDD-NNNN.
// The suffix is random so two orders on the same day may collide; the
// store enforces uniqueness and creation retries with a new number.
type Number string

// GenerateNumber builds a number for the day of now with a random suffix in [1000, 9999].
func GenerateNumber(now time.Time) Number {
	return Number(fmt.Sprintf("ORD-%s-%d", now.Format("060102"), 1000+rand.IntN(9000)))
}

// ParseNumber validates the ORD-YYMMDD-NNNN layout.
func ParseNumber(s string) (Number, error) {
	if !numberPattern.MatchString(s) {
		return "", errs.NewValueIsInvalidErrorWithCause("order_number", fmt.Errorf("%q does not match ORD-YYMMDD-NNNN", s))
	}
	return Number(s), nil
}

func (n Number) String() string {
	return string(n)
}
