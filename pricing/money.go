package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Cents is a fixed-point currency amount in the currency's minimum unit.
// Menu prices, fees and order totals are all Cents — never floats — so
// historical totals cannot drift.
type Cents int64

var ErrBadAmount = errors.New("malformed currency amount")

// ParseCents parses a decimal amount like "12.99" or "5" into Cents.
// At most two fractional digits are accepted.
func ParseCents(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrBadAmount
	}
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, ErrBadAmount
	}
	for len(frac) < 2 {
		frac += "0"
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrBadAmount
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, ErrBadAmount
	}
	c := Cents(w*100 + f)
	if neg {
		c = -c
	}
	return c, nil
}

func (c Cents) String() string {
	v := int64(c)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Mul scales an amount by a quantity.
func (c Cents) Mul(qty int) Cents {
	return c * Cents(qty)
}

// MarshalJSON encodes the amount as a decimal string ("12.99"), matching the
// wire format the clients already speak.
func (c Cents) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts both "12.99" and a bare number 12.99.
func (c *Cents) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		return nil
	}
	parsed, err := ParseCents(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Tax computes the tax on a subtotal at a rate given in basis points
// (800 = 8%), rounding half to even on the smallest currency unit.
func Tax(subtotal Cents, rateBasisPoints int64) Cents {
	n := int64(subtotal) * rateBasisPoints
	q, r := n/10000, n%10000
	if r < 0 {
		q, r = q-1, r+10000
	}
	switch {
	case r > 5000:
		q++
	case r == 5000 && q%2 != 0:
		q++
	}
	return Cents(q)
}
