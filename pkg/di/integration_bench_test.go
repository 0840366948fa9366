package di

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-jobboard/cache"
	"github.com/goliatone/go-jobboard/pkg/testsupport"
	"github.com/goliatone/go-jobboard/resource"
	"github.com/goliatone/go-jobboard/store"
	"go.uber.org/zap"
)

func newBenchContainer(tb testing.TB, users int) (*Container, []string) {
	tb.Helper()

	db := testsupport.OpenDB(tb)
	ctx := context.Background()
	if err := store.Migrate(ctx, db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}

	container, err := NewContainer(db, cache.DefaultConfig(), zap.NewNop())
	if err != nil {
		tb.Fatalf("NewContainer() failed: %v", err)
	}
	tb.Cleanup(func() { container.Close() })

	repo := store.NewUserRepository(db)
	ids := make([]string, users)
	for i := range ids {
		u, err := repo.Create(ctx, store.UserAttrs{
			Name:  strPtr(fmt.Sprintf("User %d", i)),
			Email: strPtr(fmt.Sprintf("user%d@example.com", i)),
			Phone: strPtr("0812"),
		})
		if err != nil {
			tb.Fatalf("seed user: %v", err)
		}
		ids[i] = u.ID.String()
	}
	return container, ids
}

func TestConcurrentReads(t *testing.T) {
	container, ids := newBenchContainer(t, 20)
	ctx := context.Background()

	const workers = 16
	const perWorker = 25

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				if _, err := container.Users().Show(ctx, ids[(worker+j)%len(ids)]); err != nil {
					errs <- fmt.Errorf("worker %d show: %w", worker, err)
				}
				if j%5 == 0 {
					page := fmt.Sprint(j%2 + 1)
					if _, err := container.Users().Index(ctx, resource.IndexRequest{Page: page}); err != nil {
						errs <- fmt.Errorf("worker %d index: %w", worker, err)
					}
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}

	stats := container.CacheStats()
	total := stats.Hits + stats.Misses
	if stats.Hits == 0 || stats.Hits >= total {
		t.Errorf("unexpected hit ratio: %+v", stats)
	}
	t.Logf("%d reads, %d hits (%.1f%%)", total, stats.Hits, float64(stats.Hits)/float64(total)*100)
}

func TestConcurrentReadWrite(t *testing.T) {
	container, ids := newBenchContainer(t, 5)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 25; i++ {
			if _, err := container.Users().Index(ctx, resource.IndexRequest{}); err != nil {
				errs <- err
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 25; i++ {
			phone := fmt.Sprintf("08%02d", i)
			if _, err := container.Users().Update(ctx, ids[i%len(ids)], store.UserAttrs{Phone: &phone}); err != nil {
				errs <- err
			}
		}
	}()
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}

	// Nothing read the user's show entry, so it must reflect the last update.
	raw, err := container.Users().Show(ctx, ids[24%len(ids)])
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if want := `"phone":"0824"`; !strings.Contains(string(raw), want) {
		t.Errorf("show = %s, want %s", raw, want)
	}
}

func BenchmarkShow(b *testing.B) {
	container, ids := newBenchContainer(b, 100)
	ctx := context.Background()

	b.Run("cached", func(b *testing.B) {
		for _, id := range ids {
			_, _ = container.Users().Show(ctx, id)
		}
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = container.Users().Show(ctx, ids[i%len(ids)])
		}
	})

	b.Run("after_invalidation", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			id := ids[i%len(ids)]
			container.Invalidator().InvalidateShow(ctx, container.Users().Namespace(), id)
			_, _ = container.Users().Show(ctx, id)
		}
	})
}

func BenchmarkIndex(b *testing.B) {
	container, _ := newBenchContainer(b, 250)
	ctx := context.Background()

	b.Run("cached", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = container.Users().Index(ctx, resource.IndexRequest{Page: fmt.Sprint(i%5 + 1), PageSize: "50"})
		}
	})

	b.Run("uncached", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			container.Invalidator().InvalidateIndex(ctx, container.Users().Namespace())
			_, _ = container.Users().Index(ctx, resource.IndexRequest{Page: fmt.Sprint(i%5 + 1), PageSize: "50"})
		}
	})
}

func BenchmarkConcurrentShow(b *testing.B) {
	container, ids := newBenchContainer(b, 100)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _ = container.Users().Show(ctx, ids[i%len(ids)])
			i++
		}
	})
}
