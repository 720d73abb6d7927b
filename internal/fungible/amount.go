package fungible

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// AmountDecimals is the number of fractional digits an Amount carries.
const AmountDecimals = 9

// amountUnit is the number of base units in one whole token.
const amountUnit uint64 = 1_000_000_000

// ErrAmountOverflow occurs when an arithmetic result would exceed the
// representable range. Truncating instead would break supply conservation,
// so callers must treat this as fatal to the containing operation.
var ErrAmountOverflow = errors.New("amount overflow")

// ErrMalformedAmount occurs when a decimal string cannot be parsed as an
// Amount.
var ErrMalformedAmount = errors.New("malformed amount")

// Amount is a non-negative fixed-point token quantity counted in base units
// of 10^-9 tokens. The zero value is the zero amount.
type Amount uint64

// NewAmount returns the amount for a whole number of tokens.
func NewAmount(tokens uint64) (Amount, error) {
	if tokens > ^uint64(0)/amountUnit {
		return 0, ErrAmountOverflow
	}
	return Amount(tokens * amountUnit), nil
}

// MustAmount is NewAmount for constants in tests and genesis fixtures;
// panics on overflow.
func MustAmount(tokens uint64) Amount {
	a, err := NewAmount(tokens)
	if err != nil {
		panic(err)
	}
	return a
}

// ParseAmount reads a decimal token string such as "100", "100." or
// "0.5", with at most AmountDecimals fractional digits.
func ParseAmount(s string) (Amount, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrMalformedAmount)
	}
	whole := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	if len(frac) > AmountDecimals {
		return 0, fmt.Errorf("%w: %q has more than %d fractional digits", ErrMalformedAmount, s, AmountDecimals)
	}
	if whole == "" {
		whole = "0"
	}
	tokens, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	base, err := NewAmount(tokens)
	if err != nil {
		return 0, err
	}
	if frac == "" {
		return base, nil
	}
	fracUnits, err := strconv.ParseUint(frac+strings.Repeat("0", AmountDecimals-len(frac)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	return base.Add(Amount(fracUnits))
}

// Add returns a+b, failing with ErrAmountOverflow instead of wrapping.
func (a Amount) Add(b Amount) (Amount, error) {
	sum := a + b
	if sum < a {
		return 0, ErrAmountOverflow
	}
	return sum, nil
}

// Sub returns a-b. The caller is expected to have checked a >= b; the
// error is still returned rather than wrapping on underflow.
func (a Amount) Sub(b Amount) (Amount, error) {
	if b > a {
		return 0, ErrInsufficientBalance
	}
	return a - b, nil
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool { return a == 0 }

// String renders the amount as a decimal token string with trailing zeros
// trimmed, e.g. "100" or "0.5".
func (a Amount) String() string {
	whole := uint64(a) / amountUnit
	frac := uint64(a) % amountUnit
	if frac == 0 {
		return strconv.FormatUint(whole, 10)
	}
	digits := strings.TrimRight(fmt.Sprintf("%0*d", AmountDecimals, frac), "0")
	return strconv.FormatUint(whole, 10) + "." + digits
}

// MarshalText implements encoding.TextMarshaler so amounts serialize as
// decimal strings.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := ParseAmount(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
