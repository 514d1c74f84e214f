package executor

import (
	"fmt"
	"strconv"

	"rosterdb/storage"
)

func statsResult(st storage.Stats) *Result {
	columns := []Column{
		{Name: "structure", TypeOID: OIDText, TypeSize: -1},
		{Name: "entries", TypeOID: OIDInt8, TypeSize: 8},
		{Name: "height", TypeOID: OIDInt8, TypeSize: 8},
		{Name: "size_bytes", TypeOID: OIDInt8, TypeSize: 8},
		{Name: "size_human", TypeOID: OIDText, TypeSize: -1},
	}

	row := func(name string, entries int, height []byte, size int64) [][]byte {
		return [][]byte{
			[]byte(name),
			[]byte(strconv.Itoa(entries)),
			height,
			[]byte(strconv.FormatInt(size, 10)),
			[]byte(humanBytes(size)),
		}
	}
	itoa := func(n int) []byte { return []byte(strconv.Itoa(n)) }

	total := st.HeapBytes + st.TombstoneBytes + st.IDIndexBytes + st.LastIndexBytes
	rows := [][][]byte{
		row("heap", st.HeapRecords, nil, st.HeapBytes),
		row("tombstones", st.Deleted, nil, st.TombstoneBytes),
		row("id_index", st.IDKeys, itoa(st.IDHeight), st.IDIndexBytes),
		row("last_index", st.LastKeys, itoa(st.LastHeight), st.LastIndexBytes),
		row("live", st.Live, nil, 0),
		{
			[]byte("total"),
			nil,
			nil,
			[]byte(strconv.FormatInt(total, 10)),
			[]byte(humanBytes(total)),
		},
	}

	return &Result{
		Columns: columns,
		Rows:    rows,
		Tag:     fmt.Sprintf("STATS %d", len(rows)),
	}
}

func humanBytes(b int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case b >= gb:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(gb))
	case b >= mb:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(mb))
	case b >= kb:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(kb))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
