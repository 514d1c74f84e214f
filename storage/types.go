package storage

import "fmt"

// Record is a single student record. The engine relies only on ID (the
// primary key), Last (the secondary key) and Deleted, which it manages
// itself; the remaining fields are carried through untouched.
type Record struct {
	ID      int64
	Last    string
	First   string
	Major   string
	GPA     float64
	Deleted bool
}

// Stats summarises the engine's heap and indexes.
type Stats struct {
	HeapRecords int // every record ever inserted, tombstones included
	Live        int
	Deleted     int

	IDKeys     int // keys in the id index
	IDHeight   int
	LastKeys   int // distinct folded last names in the last-name index
	LastHeight int

	HeapBytes      int64
	TombstoneBytes int64
	IDIndexBytes   int64
	LastIndexBytes int64
}

// -------------------------------------------------------------------------
// Typed errors
// -------------------------------------------------------------------------

// DuplicateIDError is returned when inserting a record whose id already
// belongs to a live record.
type DuplicateIDError struct {
	ID  int64
	RID int // heap slot of the existing record
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate id %d (already stored at rid %d)", e.ID, e.RID)
}
