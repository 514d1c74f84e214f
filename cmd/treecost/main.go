// cmd/treecost loads the record engine with the same ids in different
// insertion orders and prints the comparisons each query costs. Sorted
// insertion degrades the unbalanced id index into a chain.
//
// Usage: go run ./cmd/treecost [-n 1000,10000] [-seed 1]
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"rosterdb/executor"
	"rosterdb/storage"
)

var lastNames = []string{
	"Adams", "Baker", "Brown", "Garcia", "Jones", "Lee", "Miller", "Nguyen",
	"Okafor", "Schmidt", "Silva", "Smith", "Smyth", "Taylor", "Walker", "Young",
}

type order struct {
	name string
	ids  func(n int, rng *rand.Rand) []int64
}

var orders = []order{
	{"sorted", func(n int, _ *rand.Rand) []int64 {
		ids := make([]int64, n)
		for i := range ids {
			ids[i] = int64(i + 1)
		}
		return ids
	}},
	{"reversed", func(n int, _ *rand.Rand) []int64 {
		ids := make([]int64, n)
		for i := range ids {
			ids[i] = int64(n - i)
		}
		return ids
	}},
	{"shuffled", func(n int, rng *rand.Rand) []int64 {
		ids := make([]int64, n)
		for i, p := range rng.Perm(n) {
			ids[i] = int64(p + 1)
		}
		return ids
	}},
}

// costs holds the comparisons reported by one query of each kind.
type costs struct {
	height     int
	findFirst  int
	findLast   int
	findAbsent int
	rangeTen   int
	prefix     int
}

func measure(ids []int64) costs {
	eng := storage.New()
	for _, id := range ids {
		_, err := eng.InsertRecord(storage.Record{
			ID:    id,
			Last:  lastNames[int(id)%len(lastNames)],
			First: "Student" + strconv.FormatInt(id, 10),
			Major: "CS",
			GPA:   3.0,
		})
		if err != nil {
			fatalf("insert %d: %v", id, err)
		}
	}

	n := int64(len(ids))
	var c costs
	c.height = eng.Stats().IDHeight
	_, c.findFirst = eng.FindByID(ids[0])
	_, c.findLast = eng.FindByID(ids[len(ids)-1])
	_, c.findAbsent = eng.FindByID(n + 1)
	_, c.rangeTen = eng.RangeByID(n/2, n/2+9)
	_, c.prefix = eng.PrefixByLast("Sm")
	return c
}

func parseSizes(s string) ([]int, error) {
	var out []int
	for _, f := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("bad size %q: %w", f, err)
		}
		if n < 1 {
			return nil, fmt.Errorf("size must be positive, got %d", n)
		}
		out = append(out, n)
	}
	return out, nil
}

func main() {
	sizesFlag := flag.String("n", "1000,10000", "comma-separated record counts")
	seed := flag.Uint64("seed", 1, "shuffle seed")
	flag.Parse()

	sizes, err := parseSizes(*sizesFlag)
	if err != nil {
		fatalf("%v", err)
	}

	fmt.Println("rosterdb comparison costs by insertion order")
	fmt.Println()
	fmt.Printf("%-9s %8s %8s %10s %10s %10s %10s %10s\n",
		"order", "records", "height", "find first", "find last", "find miss", "range 10", "prefix Sm")
	fmt.Println(strings.Repeat("-", 83))

	for _, n := range sizes {
		for _, o := range orders {
			rng := rand.New(rand.NewPCG(*seed, uint64(n)))
			c := measure(o.ids(n, rng))
			fmt.Printf("%-9s %8d %8d %10d %10d %10d %10d %10d\n",
				o.name, n, c.height, c.findFirst, c.findLast, c.findAbsent, c.rangeTen, c.prefix)
		}
		fmt.Println()
	}

	st := storage.New()
	for _, id := range orders[0].ids(sizes[0], nil) {
		st.InsertRecord(storage.Record{ID: id, Last: lastNames[int(id)%len(lastNames)]})
	}
	res, err := executor.New(st).Execute("STATS")
	if err != nil {
		fatalf("stats: %v", err)
	}
	fmt.Printf("Memory after %d sorted inserts:\n", sizes[0])
	for _, row := range res.Rows {
		fmt.Printf("  %-12s %10s\n", row[0], row[4])
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal: "+format+"\n", args...)
	os.Exit(2)
}
