package composite

import (
	"context"
	"errors"

	"volrank/internal/application/port"
	"volrank/internal/domain"
)

// Repo fans a scan out to several stores.
type Repo struct {
	repos []port.ScanRepository
}

// New skips nil repos.
func New(repos ...port.ScanRepository) *Repo {
	// nil repos are allowed; filter in constructor for safety
	out := make([]port.ScanRepository, 0, len(repos))
	for _, r := range repos {
		if r != nil {
			out = append(out, r)
		}
	}
	return &Repo{repos: out}
}

func (r *Repo) Len() int { return len(r.repos) }

// SaveScan writes to every store; one failing store does not skip the others.
func (r *Repo) SaveScan(ctx context.Context, scan *domain.ScanResult) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := repo.SaveScan(ctx, scan); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close closes every store. The container closes stores through its own
// closer chain, so only callers assembling a Repo by hand use this.
func (r *Repo) Close() error {
	var errs []error
	for _, repo := range r.repos {
		if err := repo.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ port.ScanRepository = (*Repo)(nil)
