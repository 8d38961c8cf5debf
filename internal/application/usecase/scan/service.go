package scan

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"volrank/internal/application/port"
	"volrank/internal/domain"
	dsvc "volrank/internal/domain/service"
)

// ServiceDeps are the collaborators of a scan; Repo and Now are optional.
type ServiceDeps struct {
	Market port.MarketData
	Sink   port.Sink
	Repo   port.ScanRepository
	// Concurrent fetches exchange info and tickers in parallel.
	Concurrent bool
	Now        func() time.Time
}

// Service runs one fetch, filter, rank and print pass.
type Service struct {
	deps ServiceDeps
	fmt  *Formatter
}

// NewService fills in a no-op repo and time.Now when unset.
func NewService(deps ServiceDeps) *Service {
	if deps.Repo == nil {
		deps.Repo = NewNoopRepo()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Service{
		deps: deps,
		fmt:  NewFormatter(),
	}
}

// Run fetches, filters, ranks and prints once. Nothing is written to the sink
// unless every step before it succeeded.
func (s *Service) Run(ctx context.Context, minQuoteVolume float64) (*domain.ScanResult, error) {
	if s.deps.Market == nil || s.deps.Sink == nil {
		return nil, errors.New("scan service: market and sink are required")
	}

	started := s.deps.Now()
	tradable, tickers, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	filtered := dsvc.FilterTickers(tickers, tradable, minQuoteVolume)
	ranked := dsvc.RankByQuoteVolume(filtered)
	symbols := s.fmt.Format(ranked)
	line := s.fmt.Join(symbols)

	log.Debug().
		Int("tradable", tradable.Len()).
		Int("tickers", len(tickers)).
		Int("kept", len(ranked)).
		Float64("min_quote_volume", minQuoteVolume).
		Dur("elapsed", s.deps.Now().Sub(started)).
		Msg("scan complete")

	if err := s.deps.Sink.WriteLine(line); err != nil {
		return nil, err
	}

	result := &domain.ScanResult{
		TakenAt:        started,
		MinQuoteVolume: minQuoteVolume,
		Tickers:        ranked,
		Symbols:        symbols,
		Line:           line,
	}

	// the line is already out; a store failure does not fail the run
	if err := s.deps.Repo.SaveScan(ctx, result); err != nil {
		log.Warn().Err(err).Msg("save scan failed")
	}
	return result, nil
}

func (s *Service) fetch(ctx context.Context) (domain.TradableSet, []domain.Ticker, error) {
	if !s.deps.Concurrent {
		tradable, err := s.deps.Market.TradingSymbols(ctx)
		if err != nil {
			return nil, nil, err
		}
		tickers, err := s.deps.Market.Tickers24h(ctx)
		if err != nil {
			return nil, nil, err
		}
		return tradable, tickers, nil
	}

	var (
		tradable domain.TradableSet
		tickers  []domain.Ticker
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tradable, err = s.deps.Market.TradingSymbols(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tickers, err = s.deps.Market.Tickers24h(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return tradable, tickers, nil
}
