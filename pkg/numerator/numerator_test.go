package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates the sys_sequences UPSERT: args[1], when an int64, is
// the increment (cached range allocation), otherwise the bump is 1.
type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	var increment int64 = 1
	if len(args) == 2 {
		if val, ok := args[1].(int64); ok {
			increment = val
		}
	}
	m.currentValue += increment
	return &mockRow{val: m.currentValue}
}

func TestGetNextNumber_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("TEST")
	period := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	num, err := svc.GetNextNumber(ctx, cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "TEST-2026-00001" {
		t.Errorf("expected TEST-2026-00001, got %s", num)
	}

	num, err = svc.GetNextNumber(ctx, cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "TEST-2026-00002" {
		t.Errorf("expected TEST-2026-00002, got %s", num)
	}
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("IS")
	period := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	opts := &Options{Strategy: StrategyCached, RangeSize: 10}

	// First call allocates 1..10 and hands out 1; the next nine calls must
	// not touch the database.
	for i := 1; i <= 10; i++ {
		num, err := svc.GetNextNumber(ctx, cfg, opts, period)
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		want := "IS-2026-0000" + string(rune('0'+i))
		if i == 10 {
			want = "IS-2026-00010"
		}
		if num != want {
			t.Errorf("call %d: expected %s, got %s", i, want, num)
		}
	}
	if q.currentValue != 10 {
		t.Errorf("expected a single range allocation of 10, db at %d", q.currentValue)
	}

	// Eleventh call triggers a refill.
	num, err := svc.GetNextNumber(ctx, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "IS-2026-00011" {
		t.Errorf("expected IS-2026-00011, got %s", num)
	}
	if q.currentValue != 20 {
		t.Errorf("expected refill to 20, db at %d", q.currentValue)
	}
}

func TestFormatNumber_NoYear(t *testing.T) {
	svc := New(&mockQuerier{})
	cfg := Config{Prefix: "EV", IncludeYear: false, PadWidth: 3}
	got := svc.formatNumber(cfg, time.Now(), 7)
	if got != "EV-007" {
		t.Errorf("expected EV-007, got %s", got)
	}
}
