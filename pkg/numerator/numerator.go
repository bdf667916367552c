// Package numerator provides document auto-numbering.
package numerator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
)

// Strategy defines the number generation strategy.
type Strategy int

const (
	// StrategyStrict fetches every number from the database with
	// UPSERT + RETURNING. Sequential, gap-free. Use for accounting documents.
	StrategyStrict Strategy = iota

	// StrategyCached allocates ranges in memory. Faster, but restarts leave
	// gaps. Use for internal documents.
	StrategyCached
)

// Options configures number generation.
type Options struct {
	Strategy Strategy

	// RangeSize is how many numbers to reserve at once in Cached mode.
	// Default 50.
	RangeSize int64
}

// Querier is the database surface the numerator needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Config holds numbering configuration.
type Config struct {
	// Prefix is added to all numbers (e.g. "IS")
	Prefix string

	// IncludeYear adds the year to the formatted number
	IncludeYear bool

	// PadWidth is the minimum digit width (default 5)
	PadWidth int
}

// DefaultConfig returns the standard PREFIX-YEAR-XXXXX configuration.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
	}
}

type cachedRange struct {
	current int64
	max     int64
}

// Service generates document numbers against the sys_sequences table.
type Service struct {
	querier Querier

	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

// New creates a numerator service.
func New(querier Querier) *Service {
	return &Service{
		querier: querier,
		ranges:  make(map[string]*cachedRange),
	}
}

// GetNextNumber generates the next document number for the given period.
// Pattern: PREFIX-YEAR-XXXXX (e.g. IS-2026-00001).
func (s *Service) GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}
	if opts == nil {
		opts = &Options{Strategy: StrategyStrict}
	}

	key := s.buildKey(cfg, period)

	var num int64
	var err error
	switch opts.Strategy {
	case StrategyCached:
		num, err = s.getNextCached(ctx, key, opts.RangeSize)
	default:
		num, err = s.getNextStrict(ctx, key)
	}
	if err != nil {
		return "", err
	}

	return s.formatNumber(cfg, period, num), nil
}

// getNextStrict bumps the sequence row and returns the new value.
func (s *Service) getNextStrict(ctx context.Context, key string) (int64, error) {
	var num int64
	err := s.querier.QueryRow(ctx, `
        INSERT INTO sys_sequences (key, current_val)
        VALUES ($1, 1)
        ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
        RETURNING current_val
	`, key).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("strict next: %w", err)
	}
	return num, nil
}

// getNextCached serves from an in-memory range, refilling from the database
// when exhausted. current_val in sys_sequences tracks the last value handed
// out, so a refill of size N reserves (old_val, old_val+N].
func (s *Service) getNextCached(ctx context.Context, key string, size int64) (int64, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	rng, exists := s.ranges[key]
	if !exists {
		rng = &cachedRange{}
		s.ranges[key] = rng
	}

	if rng.current >= rng.max {
		if size <= 0 {
			size = 50
		}
		var newMax int64
		err := s.querier.QueryRow(ctx, `
            INSERT INTO sys_sequences (key, current_val)
            VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + $2
            RETURNING current_val
		`, key, size).Scan(&newMax)
		if err != nil {
			return 0, fmt.Errorf("allocate range: %w", err)
		}
		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

func (s *Service) buildKey(cfg Config, period time.Time) string {
	if cfg.IncludeYear {
		return fmt.Sprintf("%s_%d", cfg.Prefix, period.Year())
	}
	return cfg.Prefix
}

func (s *Service) formatNumber(cfg Config, period time.Time, num int64) string {
	width := cfg.PadWidth
	if width <= 0 {
		width = 5
	}
	if cfg.IncludeYear {
		return fmt.Sprintf("%s-%d-%0*d", cfg.Prefix, period.Year(), width, num)
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, width, num)
}
