package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// StatusTrading is the exchange status of an instrument open for trading.
const StatusTrading = "TRADING"

// Ticker is one 24h ticker row with its quote volume already parsed.
type Ticker struct {
	Symbol      string
	QuoteVolume float64
}

// TradableSet holds the symbols currently in TRADING status.
type TradableSet map[string]struct{}

// NewTradableSet builds a set from a list of symbols.
func NewTradableSet(symbols ...string) TradableSet {
	s := make(TradableSet, len(symbols))
	for _, sym := range symbols {
		s[sym] = struct{}{}
	}
	return s
}

// Contains reports whether symbol is tradable.
func (s TradableSet) Contains(symbol string) bool {
	_, ok := s[symbol]
	return ok
}

// Len is the number of tradable symbols.
func (s TradableSet) Len() int { return len(s) }

// decimalPattern is plain decimal text: no spaces, hex, underscores, NaN or Inf.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// IsDecimal reports whether raw is plain decimal text.
func IsDecimal(raw string) bool {
	return decimalPattern.MatchString(raw)
}

// ParseQuoteVolume converts the decimal text sent by the exchange.
func ParseQuoteVolume(raw string) (float64, error) {
	if !IsDecimal(raw) {
		return 0, fmt.Errorf("%w: quoteVolume %q is not a decimal", ErrDecode, raw)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: quoteVolume %q is not a decimal", ErrDecode, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: quoteVolume %q is not finite", ErrDecode, raw)
	}
	return v, nil
}
