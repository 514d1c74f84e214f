package executor

import (
	"strconv"
	"time"
)

// Trace captures timing and cost for a single command execution.
// Only populated for TRACE commands and ExecuteTraced.
type Trace struct {
	Total        time.Duration
	Parse        time.Duration
	Exec         time.Duration // engine call, including lock wait
	StmtType     string        // "FIND", "RANGE", etc.
	Index        string        // indexes walked, e.g. "id" or "last,id"
	RowsReturned int64
	Comparisons  int
}

// TraceToResult formats a Trace as a result set with columns "step" and "value".
func TraceToResult(tr *Trace) *Result {
	if tr == nil {
		return &Result{
			Columns: []Column{
				{Name: "message", TypeOID: OIDText, TypeSize: -1},
			},
			Rows: [][][]byte{
				{[]byte("no trace available")},
			},
			Tag: "TRACE 1",
		}
	}

	cols := []Column{
		{Name: "step", TypeOID: OIDText, TypeSize: -1},
		{Name: "value", TypeOID: OIDText, TypeSize: -1},
	}

	rows := [][][]byte{
		{[]byte("Statement"), []byte(tr.StmtType)},
		{[]byte("Parse"), []byte(tr.Parse.String())},
		{[]byte("Execute"), []byte(tr.Exec.String())},
		{[]byte("Total"), []byte(tr.Total.String())},
	}
	if tr.Index != "" {
		rows = append(rows,
			[][]byte{[]byte("Index"), []byte(tr.Index)},
			[][]byte{[]byte("Comparisons"), []byte(strconv.Itoa(tr.Comparisons))},
		)
	}
	rows = append(rows, [][]byte{[]byte("Rows Returned"), []byte(strconv.FormatInt(tr.RowsReturned, 10))})

	return &Result{
		Columns:     cols,
		Rows:        rows,
		Tag:         "TRACE " + strconv.Itoa(len(rows)),
		Comparisons: tr.Comparisons,
		Counted:     tr.Index != "",
	}
}
