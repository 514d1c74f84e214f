// Package executor runs roster commands against the record engine and
// shapes the outcome for the wire protocol.
package executor

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"rosterdb/parser"
	"rosterdb/storage"
)

// Executor parses commands and executes them against the storage engine,
// returning a Result suitable for the wire protocol.
//
// The engine is not safe for concurrent use, so every engine call runs
// under mu. Connections may share one Executor.
type Executor struct {
	mu     sync.Mutex
	engine *storage.Engine
}

// New creates an Executor backed by the given engine.
func New(engine *storage.Engine) *Executor {
	return &Executor{engine: engine}
}

// Execute runs a single command (no tracing overhead). A TRACE command
// returns its trace as the result.
func (e *Executor) Execute(cmd string) (*Result, error) {
	return e.execute(cmd, nil)
}

// ExecuteTraced runs a single command with timing instrumentation.
func (e *Executor) ExecuteTraced(cmd string) (*Result, *Trace, error) {
	tr := &Trace{}
	start := time.Now()
	result, err := e.execute(cmd, tr)
	tr.Total = time.Since(start)
	return result, tr, err
}

func (e *Executor) execute(cmd string, tr *Trace) (*Result, error) {
	start := time.Now()
	stmt, err := parser.Parse(cmd)
	parsed := time.Since(start)
	if err != nil {
		return nil, parseError(err)
	}

	if ts, ok := stmt.(*parser.TraceStmt); ok {
		if tr != nil {
			// Already tracing: run the inner command as is.
			stmt = ts.Stmt
		} else {
			inner := &Trace{Parse: parsed}
			if _, err := e.dispatch(ts.Stmt, inner); err != nil {
				return nil, err
			}
			inner.Total = time.Since(start)
			return TraceToResult(inner), nil
		}
	}

	if tr != nil {
		tr.Parse = parsed
	}
	return e.dispatch(stmt, tr)
}

// dispatch executes a parsed statement under the engine lock.
func (e *Executor) dispatch(stmt parser.Statement, tr *Trace) (*Result, error) {
	if tr != nil {
		tr.StmtType = parser.Keyword(stmt)
		execStart := time.Now()
		defer func() { tr.Exec = time.Since(execStart) }()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var (
		result *Result
		err    error
	)
	switch s := stmt.(type) {
	case *parser.InsertStmt:
		result, err = e.execInsert(s)
	case *parser.FindStmt:
		rec, cmps := e.engine.FindByID(s.ID)
		var recs []*storage.Record
		if rec != nil {
			recs = append(recs, rec)
		}
		result = recordsResult("FIND", recs, cmps)
		traceIndex(tr, "id")
	case *parser.DeleteStmt:
		n := 0
		if e.engine.DeleteByID(s.ID) {
			n = 1
		}
		result = &Result{Tag: fmt.Sprintf("DELETE %d", n)}
	case *parser.RangeStmt:
		recs, cmps := e.engine.RangeByID(s.Lo, s.Hi)
		result = recordsResult("RANGE", recs, cmps)
		traceIndex(tr, "id")
	case *parser.PrefixStmt:
		recs, cmps := e.engine.PrefixByLast(s.Prefix)
		result = recordsResult("PREFIX", recs, cmps)
		traceIndex(tr, "last,id")
	case *parser.StatsStmt:
		result = statsResult(e.engine.Stats())
	default:
		return nil, &QueryError{Code: CodeUnsupported, Message: fmt.Sprintf("unsupported statement type %T", stmt)}
	}
	if err != nil {
		return nil, err
	}

	if tr != nil {
		tr.RowsReturned = int64(len(result.Rows))
		tr.Comparisons = result.Comparisons
	}
	return result, nil
}

func (e *Executor) execInsert(s *parser.InsertStmt) (*Result, error) {
	rid, err := e.engine.InsertRecord(storage.Record{
		ID:    s.ID,
		Last:  s.Last,
		First: s.First,
		Major: s.Major,
		GPA:   s.GPA,
	})
	if err != nil {
		return nil, engineError(err)
	}
	return &Result{
		Columns: []Column{{Name: "rid", TypeOID: OIDInt8, TypeSize: 8}},
		Rows:    [][][]byte{{[]byte(strconv.Itoa(rid))}},
		Tag:     "INSERT 0 1",
	}, nil
}

// recordsResult renders records as rows and tags the result with the
// command keyword and row count.
func recordsResult(kw string, recs []*storage.Record, cmps int) *Result {
	rows := make([][][]byte, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, [][]byte{
			[]byte(strconv.FormatInt(r.ID, 10)),
			[]byte(r.Last),
			[]byte(r.First),
			[]byte(r.Major),
			[]byte(strconv.FormatFloat(r.GPA, 'f', -1, 64)),
		})
	}
	return &Result{
		Columns:     recordColumns,
		Rows:        rows,
		Tag:         fmt.Sprintf("%s %d", kw, len(rows)),
		Comparisons: cmps,
		Counted:     true,
	}
}

func traceIndex(tr *Trace, idx string) {
	if tr != nil {
		tr.Index = idx
	}
}
