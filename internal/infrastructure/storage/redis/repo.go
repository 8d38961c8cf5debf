package redis

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"volrank/internal/application/port"
	"volrank/internal/domain"
)

// Repo publishes the latest scan to Redis.
type Repo struct {
	rdb        *redis.Client
	prefix     string
	ttl        time.Duration
	keyLatest  string // prefix + ":latest"
	scanStream string
	scanChan   string
}

// LatestScan is the JSON document kept under the latest key.
type LatestScan struct {
	Ts             int64         `json:"ts_ms"`
	MinQuoteVolume float64       `json:"min_quote_volume"`
	Symbols        []string      `json:"symbols"`
	Line           string        `json:"line"`
	Entries        []LatestEntry `json:"entries"`
}

type LatestEntry struct {
	Symbol      string  `json:"symbol"`
	QuoteVolume float64 `json:"quote_volume"`
}

// New builds a repo; empty stream/channel names fall back to prefix-based defaults.
func New(rdb *redis.Client, prefix string, ttl time.Duration, scanStream, scanChan string) *Repo {
	if strings.TrimSpace(scanStream) == "" {
		scanStream = prefix + ":scans"
	}
	if strings.TrimSpace(scanChan) == "" {
		scanChan = prefix + ":scans:pub"
	}
	return &Repo{
		rdb:        rdb,
		prefix:     prefix,
		ttl:        ttl,
		keyLatest:  prefix + ":latest",
		scanStream: scanStream,
		scanChan:   scanChan,
	}
}

// SaveScan overwrites the latest key, appends to the stream and publishes the line.
func (r *Repo) SaveScan(ctx context.Context, scan *domain.ScanResult) error {
	doc := newLatestScan(scan)
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	if err := r.rdb.Set(ctx, r.keyLatest, string(b), r.ttl).Err(); err != nil {
		return err
	}

	_, err = r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.scanStream,
		// ordered pairs keep the XADD field order stable
		Values: []any{
			"ts_ms", doc.Ts,
			"min_quote_volume", doc.MinQuoteVolume,
			"count", len(doc.Symbols),
			"line", doc.Line,
		},
	}).Result()
	if err != nil {
		return err
	}

	return r.rdb.Publish(ctx, r.scanChan, doc.Line).Err()
}

func (r *Repo) Close() error { return nil }

func newLatestScan(scan *domain.ScanResult) LatestScan {
	doc := LatestScan{
		Ts:             scan.TakenAt.UnixMilli(),
		MinQuoteVolume: scan.MinQuoteVolume,
		Symbols:        scan.Symbols,
		Line:           scan.Line,
		Entries:        make([]LatestEntry, 0, len(scan.Tickers)),
	}
	if doc.Symbols == nil {
		doc.Symbols = []string{}
	}
	for _, t := range scan.Tickers {
		doc.Entries = append(doc.Entries, LatestEntry{Symbol: t.Symbol, QuoteVolume: t.QuoteVolume})
	}
	return doc
}

var _ port.ScanRepository = (*Repo)(nil)
