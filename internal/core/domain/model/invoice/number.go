package invoice

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"

	"laundry/internal/pkg/errs"
)

var numberPattern = regexp.MustCompile(`^INV-\d{4}-\d{4}$`)

// Number is the invoice identifier printed for clients, INV-YYMM-NNNN.
type Number string

// GenerateNumber builds a number for the month of now with a random suffix in [1000, 9999].
func GenerateNumber(now time.Time) Number {
	return Number(fmt.Sprintf("INV-%s-%d", now.Format("0601"), 1000+rand.IntN(9000)))
}

// ParseNumber validates the INV-YYMM-NNNN layout.
func ParseNumber(s string) (Number, error) {
	if !numberPattern.MatchString(s) {
		return "", errs.NewValueIsInvalidErrorWithCause("invoice_number", fmt.Errorf("%q does not match INV-YYMM-NNNN", s))
	}
	return Number(s), nil
}

func (n Number) String() string {
	return string(n)
}
