// cmd/conctest drives an in-process rosterdb server through pgx from many
// concurrent connections and checks that every client sees a consistent
// store.
//
// Usage: go run ./cmd/conctest
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"rosterdb/config"
	"rosterdb/executor"
	"rosterdb/server"
	"rosterdb/storage"
)

var lastNames = []string{"Smith", "Smyth", "Jones", "Garcia", "Nguyen", "Okafor", "Schmidt", "Silva"}

func main() {
	fmt.Println("rosterdb concurrency test")
	fmt.Println("=========================")

	port, shutdown := startServer()
	defer shutdown()

	fmt.Printf("Server listening on port %d\n\n", port)

	passed, failed := 0, 0
	for _, sc := range []struct {
		name string
		fn   func(int) bool
	}{
		{"Setup", scenarioSetup},
		{"Concurrent finds", scenarioConcurrentFinds},
		{"Reads during writes", scenarioReadsDuringWrites},
		{"Concurrent writes", scenarioConcurrentWrites},
		{"Concurrent deletes", scenarioConcurrentDeletes},
	} {
		if sc.fn(port) {
			passed++
		} else {
			failed++
		}
	}

	fmt.Printf("\n%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func startServer() (port int, shutdown func()) {
	cfg := &config.Config{User: "admin", Password: "test"}
	srv := server.New(cfg, executor.New(storage.New()), nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		fatalf("listen: %v", err)
	}
	go func() {
		if err := srv.Serve(ln); err != nil {
			fatalf("server: %v", err)
		}
	}()

	shutdown = func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
	return ln.Addr().(*net.TCPAddr).Port, shutdown
}

// connect opens a simple-protocol connection. Every comparison notice the
// server sends is counted in notices, if non-nil.
func connect(ctx context.Context, port int, notices *atomic.Int64) (*pgx.Conn, error) {
	connStr := fmt.Sprintf("host=127.0.0.1 port=%d user=admin password=test sslmode=disable", port)
	cfg, err := pgx.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	cfg.OnNotice = func(_ *pgconn.PgConn, n *pgconn.Notice) {
		if notices != nil && strings.HasSuffix(n.Message, " comparisons") {
			notices.Add(1)
		}
	}
	return pgx.ConnectConfig(ctx, cfg)
}

// count returns the number of records with lo <= id <= hi.
func count(ctx context.Context, conn *pgx.Conn, lo, hi int) (int64, error) {
	tag, err := conn.Exec(ctx, fmt.Sprintf("RANGE %d %d", lo, hi))
	if err != nil {
		return 0, err
	}
	// Tag is "RANGE n".
	var n int64
	if _, err := fmt.Sscanf(tag.String(), "RANGE %d", &n); err != nil {
		return 0, fmt.Errorf("bad tag %q: %w", tag, err)
	}
	return n, nil
}

func insert(ctx context.Context, conn *pgx.Conn, id int) error {
	last := lastNames[id%len(lastNames)]
	_, err := conn.Exec(ctx, fmt.Sprintf("INSERT %d %s Student%d CS %.2f", id, last, id, 2.0+float64(id%20)/10))
	return err
}

func scenarioSetup(port int) bool {
	start := time.Now()
	ctx := context.Background()
	conn, err := connect(ctx, port, nil)
	if err != nil {
		return fail("Setup", "connect: %v", err)
	}
	defer conn.Close(ctx)

	// Shuffle the ids so the id index does not degrade into a chain.
	for _, i := range shuffled(1, 100) {
		if err := insert(ctx, conn, i); err != nil {
			return fail("Setup", "INSERT %d: %v", i, err)
		}
	}

	n, err := count(ctx, conn, 1, 100)
	if err != nil {
		return fail("Setup", "RANGE: %v", err)
	}
	if n != 100 {
		return fail("Setup", "expected 100 records, got %d", n)
	}
	return pass("Setup", "inserted 100 records", time.Since(start))
}

func scenarioConcurrentFinds(port int) bool {
	start := time.Now()
	const goroutines = 10
	const queriesPerGoroutine = 50

	var notices atomic.Int64
	g, ctx := errgroup.WithContext(context.Background())
	for w := range goroutines {
		g.Go(func() error {
			conn, err := connect(ctx, port, &notices)
			if err != nil {
				return err
			}
			defer conn.Close(context.Background())

			for q := range queriesPerGoroutine {
				id := 1 + (w*queriesPerGoroutine+q)%100
				var got int64
				var last, first, major string
				var gpa float64
				if err := conn.QueryRow(ctx, fmt.Sprintf("FIND %d", id)).Scan(&got, &last, &first, &major, &gpa); err != nil {
					return fmt.Errorf("FIND %d: %w", id, err)
				}
				if got != int64(id) {
					return fmt.Errorf("FIND %d returned id %d", id, got)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fail("Concurrent finds", "%v", err)
	}

	total := goroutines * queriesPerGoroutine
	if n := notices.Load(); n != int64(total) {
		return fail("Concurrent finds", "got %d comparison notices for %d queries", n, total)
	}
	return pass("Concurrent finds",
		fmt.Sprintf("%d goroutines × %d queries = %d total, 0 errors", goroutines, queriesPerGoroutine, total),
		time.Since(start))
}

func scenarioReadsDuringWrites(port int) bool {
	start := time.Now()
	const readers = 10

	var lo, hi atomic.Int64
	lo.Store(1 << 62)

	// The writer is throttled so readers observe the store mid-growth.
	limiter := rate.NewLimiter(rate.Limit(2000), 10)
	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		conn, err := connect(ctx, port, nil)
		if err != nil {
			return err
		}
		defer conn.Close(context.Background())
		for _, i := range shuffled(101, 200) {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			if err := insert(ctx, conn, i); err != nil {
				return fmt.Errorf("INSERT %d: %w", i, err)
			}
		}
		return nil
	})

	for range readers {
		g.Go(func() error {
			conn, err := connect(ctx, port, nil)
			if err != nil {
				return err
			}
			defer conn.Close(context.Background())
			for range 50 {
				n, err := count(ctx, conn, 1, 200)
				if err != nil {
					return err
				}
				for {
					cur := lo.Load()
					if n >= cur || lo.CompareAndSwap(cur, n) {
						break
					}
				}
				for {
					cur := hi.Load()
					if n <= cur || hi.CompareAndSwap(cur, n) {
						break
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fail("Reads during writes", "%v", err)
	}

	if lo.Load() < 100 || hi.Load() > 200 {
		return fail("Reads during writes", "counts out of range: [%d..%d]", lo.Load(), hi.Load())
	}

	conn, err := connect(context.Background(), port, nil)
	if err != nil {
		return fail("Reads during writes", "connect: %v", err)
	}
	defer conn.Close(context.Background())
	final, err := count(context.Background(), conn, 1, 200)
	if err != nil || final != 200 {
		return fail("Reads during writes", "final count %d (%v), expected 200", final, err)
	}

	return pass("Reads during writes",
		fmt.Sprintf("100 records inserted while reading, counts in [%d..%d], 0 errors", lo.Load(), hi.Load()),
		time.Since(start))
}

func scenarioConcurrentWrites(port int) bool {
	start := time.Now()
	const goroutines = 10
	const perGoroutine = 10

	var dupes atomic.Int64
	g, ctx := errgroup.WithContext(context.Background())
	for w := range goroutines {
		g.Go(func() error {
			conn, err := connect(ctx, port, nil)
			if err != nil {
				return err
			}
			defer conn.Close(context.Background())

			base := 201 + w*perGoroutine
			for i := range perGoroutine {
				if err := insert(ctx, conn, base+i); err != nil {
					return fmt.Errorf("INSERT %d: %w", base+i, err)
				}
			}
			// Every worker also races on one shared id; exactly one wins.
			err = insert(ctx, conn, 999)
			var pgErr *pgconn.PgError
			switch {
			case err == nil:
			case errors.As(err, &pgErr) && pgErr.Code == executor.CodeUniqueViolated:
				dupes.Add(1)
			default:
				return fmt.Errorf("INSERT 999: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fail("Concurrent writes", "%v", err)
	}
	if d := dupes.Load(); d != goroutines-1 {
		return fail("Concurrent writes", "%d duplicate-id errors, expected %d", d, goroutines-1)
	}

	conn, err := connect(context.Background(), port, nil)
	if err != nil {
		return fail("Concurrent writes", "connect: %v", err)
	}
	defer conn.Close(context.Background())
	n, err := count(context.Background(), conn, 1, 1000)
	if err != nil || n != 301 {
		return fail("Concurrent writes", "final count %d (%v), expected 301", n, err)
	}

	return pass("Concurrent writes",
		fmt.Sprintf("%d goroutines × %d inserts, %d duplicate rejections, final count %d",
			goroutines, perGoroutine, dupes.Load(), n),
		time.Since(start))
}

func scenarioConcurrentDeletes(port int) bool {
	start := time.Now()
	const goroutines = 4

	// All workers delete the same ids; each id is removed exactly once.
	var removed atomic.Int64
	g, ctx := errgroup.WithContext(context.Background())
	for range goroutines {
		g.Go(func() error {
			conn, err := connect(ctx, port, nil)
			if err != nil {
				return err
			}
			defer conn.Close(context.Background())
			for id := 201; id <= 300; id++ {
				tag, err := conn.Exec(ctx, fmt.Sprintf("DELETE %d", id))
				if err != nil {
					return fmt.Errorf("DELETE %d: %w", id, err)
				}
				removed.Add(tag.RowsAffected())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fail("Concurrent deletes", "%v", err)
	}
	if r := removed.Load(); r != 100 {
		return fail("Concurrent deletes", "%d deletes succeeded, expected 100", r)
	}

	conn, err := connect(context.Background(), port, nil)
	if err != nil {
		return fail("Concurrent deletes", "connect: %v", err)
	}
	defer conn.Close(context.Background())
	n, err := count(context.Background(), conn, 1, 1000)
	if err != nil || n != 201 {
		return fail("Concurrent deletes", "final count %d (%v), expected 201", n, err)
	}
	return pass("Concurrent deletes",
		fmt.Sprintf("%d goroutines raced over 100 ids, each deleted once", goroutines),
		time.Since(start))
}

// shuffled returns lo..hi in a fixed scrambled order.
func shuffled(lo, hi int) []int {
	n := hi - lo + 1
	out := make([]int, 0, n)
	// 37 is coprime with every range length used here.
	for i := range n {
		out = append(out, lo+(i*37)%n)
	}
	return out
}

func pass(name, detail string, d time.Duration) bool {
	fmt.Printf("[PASS] %s: %s (%dms)\n", name, detail, d.Milliseconds())
	return true
}

func fail(name, format string, args ...any) bool {
	fmt.Printf("[FAIL] %s: %s\n", name, fmt.Sprintf(format, args...))
	return false
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal: "+format+"\n", args...)
	os.Exit(2)
}
