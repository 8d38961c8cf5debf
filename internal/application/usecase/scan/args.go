package scan

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"volrank/internal/domain"
)

// ParseMinQuoteVolume validates the raw threshold given on the command line.
func ParseMinQuoteVolume(raw string) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, fmt.Errorf("%w: min quote volume is required", domain.ErrArgument)
	}
	if !domain.IsDecimal(raw) {
		return 0, fmt.Errorf("%w: invalid number for min quote volume: %q", domain.ErrArgument, raw)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid number for min quote volume: %q", domain.ErrArgument, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: min quote volume must be finite, got %q", domain.ErrArgument, raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: min quote volume must not be negative, got %q", domain.ErrArgument, raw)
	}
	return v, nil
}
