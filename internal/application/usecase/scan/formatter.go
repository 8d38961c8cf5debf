package scan

import (
	"strings"

	"volrank/internal/domain"
)

const (
	// PerpetualSuffix marks a symbol as a perpetual contract for charting tools.
	PerpetualSuffix = ".P"
	Separator       = ", "
)

// Formatter turns ranked tickers into display symbols.
type Formatter struct{}

func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format maps each ticker to its display symbol, keeping order.
func (f *Formatter) Format(tickers []domain.Ticker) []string {
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		out = append(out, t.Symbol+PerpetualSuffix)
	}
	return out
}

// Join builds the output line from formatted symbols.
func (f *Formatter) Join(symbols []string) string {
	return strings.Join(symbols, Separator)
}
