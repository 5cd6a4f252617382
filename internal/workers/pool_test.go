package workers_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gehtsoft-usa/go_exteriorballistics/internal/workers"
)

func TestMapPreservesOrder(t *testing.T) {
	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}

	for _, n := range []int{0, 1, 4, 200} {
		out, err := workers.Map(context.Background(), workers.NewPool(n), items, func(_ context.Context, x int) (int, error) {
			if x%7 == 0 {
				time.Sleep(time.Millisecond)
			}
			return x * x, nil
		})
		if err != nil {
			t.Fatalf("workers=%d: unexpected error %v", n, err)
		}
		for i, v := range out {
			if v != i*i {
				t.Fatalf("workers=%d: result %d is %d, want %d", n, i, v, i*i)
			}
		}
	}
}

func TestMapEmpty(t *testing.T) {
	out, err := workers.Map(context.Background(), workers.NewPool(3), nil, func(_ context.Context, x int) (int, error) {
		return x, nil
	})
	if err != nil || len(out) != 0 {
		t.Errorf("got %v, %v", out, err)
	}
}

func TestMapFirstError(t *testing.T) {
	errBoom := errors.New("boom")
	var calls int32
	items := make([]int, 50)
	for i := range items {
		items[i] = i
	}

	_, err := workers.Map(context.Background(), workers.NewPool(4), items, func(ctx context.Context, x int) (int, error) {
		atomic.AddInt32(&calls, 1)
		if x == 3 {
			return 0, errBoom
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return x, nil
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
}

func TestMapCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := workers.Map(ctx, workers.NewPool(2), []int{1, 2, 3}, func(_ context.Context, x int) (int, error) {
		return x, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNewPoolBounds(t *testing.T) {
	if w := workers.NewPool(-3).Workers(); w != 1 {
		t.Errorf("expected 1 worker, got %d", w)
	}
	if w := workers.NewPool(8).Workers(); w != 8 {
		t.Errorf("expected 8 workers, got %d", w)
	}
}
