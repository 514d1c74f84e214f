// cmd/rosterctl is an interactive shell over an in-process roster store.
// Nothing is persisted; the store lives as long as the shell.
//
// Usage: go run ./cmd/rosterctl [-trace] [-f script]
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"rosterdb/executor"
	"rosterdb/parser"
	"rosterdb/storage"
	"rosterdb/version"
)

const help = `Commands:
  INSERT <id> <last> [first] [major] [gpa]
  FIND <id>
  DELETE <id>
  RANGE <lo> <hi>
  PREFIX <prefix>
  STATS
  TRACE <command>
Quote names containing spaces: INSERT 7 "van der Berg" Anna
Type 'help' for this text or 'exit' to quit.`

func main() {
	trace := flag.Bool("trace", false, "print timings after every command")
	script := flag.String("f", "", "run commands from file, then exit")
	flag.Parse()

	sh := &shell{exec: executor.New(storage.New()), out: os.Stdout, trace: *trace}

	if *script != "" {
		f, err := os.Open(*script)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rosterctl: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := sh.run(f, false); err != nil {
			fmt.Fprintf(os.Stderr, "rosterctl: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("rosterctl (%s)\n", version.String())
	fmt.Println("Type commands. 'help' for information or 'exit' to quit.")
	if err := sh.run(os.Stdin, true); err != nil {
		fmt.Fprintln(os.Stderr, "input error:", err)
		os.Exit(1)
	}
}

type shell struct {
	exec  *executor.Executor
	out   io.Writer
	trace bool
}

// run reads one command per line until EOF or "exit".
func (sh *shell) run(in io.Reader, interactive bool) error {
	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(sh.out, "> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case line == "exit" || line == "quit":
			return nil
		case line == "help":
			fmt.Fprintln(sh.out, help)
			continue
		}
		sh.execute(line)
	}
}

func (sh *shell) execute(line string) {
	var (
		res *executor.Result
		tr  *executor.Trace
		err error
	)
	if sh.trace {
		res, tr, err = sh.exec.ExecuteTraced(line)
	} else {
		res, err = sh.exec.Execute(line)
	}
	if err != nil {
		if errors.Is(err, parser.ErrEmpty) {
			return
		}
		var qe *executor.QueryError
		if errors.As(err, &qe) {
			fmt.Fprintf(sh.out, "ERROR %s: %s\n", qe.Code, qe.Message)
		} else {
			fmt.Fprintf(sh.out, "ERROR: %v\n", err)
		}
		return
	}

	render(sh.out, res)
	if tr != nil {
		fmt.Fprintf(sh.out, "(parse %s, exec %s, total %s)\n", tr.Parse, tr.Exec, tr.Total)
	}
}

// render prints a result as an aligned table followed by its tag and,
// for index queries, the comparison count.
func render(w io.Writer, r *executor.Result) {
	if len(r.Columns) > 0 {
		widths := make([]int, len(r.Columns))
		for i, c := range r.Columns {
			widths[i] = len(c.Name)
		}
		for _, row := range r.Rows {
			for i, v := range row {
				widths[i] = max(widths[i], len(v))
			}
		}

		cells := make([]string, len(r.Columns))
		for i, c := range r.Columns {
			cells[i] = fmt.Sprintf("%-*s", widths[i], c.Name)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, " | "), " "))
		for i := range cells {
			cells[i] = strings.Repeat("-", widths[i])
		}
		fmt.Fprintln(w, strings.Join(cells, "-+-"))
		for _, row := range r.Rows {
			for i, v := range row {
				cells[i] = fmt.Sprintf("%-*s", widths[i], v)
			}
			fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, " | "), " "))
		}
	}

	if r.Counted {
		fmt.Fprintf(w, "%s (found in %d comparisons)\n", r.Tag, r.Comparisons)
	} else {
		fmt.Fprintln(w, r.Tag)
	}
}
