package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var errInvalidPrice = errors.New("price must be a decimal number with at most two fractional digits")

// Price is a monetary amount stored as integer cents.
type Price int64

// ParsePrice parses a decimal literal such as "59.9" or "100" into cents.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return 0, errInvalidPrice
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if !isDigits(whole) || (hasFrac && !isDigits(frac)) || len(frac) > 2 {
		return 0, errInvalidPrice
	}
	for len(frac) < 2 {
		frac += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, errInvalidPrice
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, errInvalidPrice
	}
	if units > (math.MaxInt64-cents)/100 {
		return 0, errInvalidPrice
	}

	p := Price(units*100 + cents)
	if neg {
		p = -p
	}
	return p, nil
}

func (p Price) String() string {
	sign := ""
	v := int64(p)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes the price as a JSON number, e.g. 59.90.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	parsed, err := ParsePrice(string(data))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
