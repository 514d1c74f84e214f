package storage

import (
	"slices"

	"rosterdb/storage/index"
)

// Engine is the record store. It owns an append-only heap and two
// indexes over it:
//
//	idIndex:   student id → RID (heap position)
//	lastIndex: folded last name → ids of live records with that name,
//	           in insertion order
//
// Every live record has exactly one idIndex entry and appears exactly once
// in the lastIndex collection for its folded last name. Deleted records
// stay in the heap but are absent from both indexes.
//
// Queries report the number of key comparisons their tree walks performed.
// Engine is not safe for concurrent use; callers serialize access.
type Engine struct {
	heap      *recordHeap
	idIndex   *index.Tree[int64, int]
	lastIndex *index.Tree[string, []int64]
}

// New returns an empty engine.
func New() *Engine {
	return &Engine{
		heap:      newRecordHeap(),
		idIndex:   index.New[int64, int](),
		lastIndex: index.New[string, []int64](),
	}
}

// InsertRecord appends a copy of r to the heap and registers it in both
// indexes. It returns the new record's RID. If a live record already has
// r.ID, nothing is changed and a *DuplicateIDError is returned.
func (e *Engine) InsertRecord(r Record) (int, error) {
	if rid, ok := e.idIndex.Find(r.ID); ok {
		return 0, &DuplicateIDError{ID: r.ID, RID: *rid}
	}

	rid := e.heap.append(r)
	e.idIndex.Insert(r.ID, rid)

	key := FoldName(r.Last)
	if ids, ok := e.lastIndex.Find(key); ok {
		*ids = append(*ids, r.ID)
	} else {
		e.lastIndex.Insert(key, []int64{r.ID})
	}
	return rid, nil
}

// DeleteByID tombstones the record with the given id and removes it from
// both indexes. It returns false if the id is unknown, its RID is out of
// range, or the record is already deleted; deleting twice is an error,
// not a no-op.
func (e *Engine) DeleteByID(id int64) bool {
	ridp, ok := e.idIndex.Find(id)
	if !ok {
		return false
	}
	rid := *ridp
	rec, ok := e.heap.get(rid)
	if !ok || rec.Deleted {
		return false
	}

	e.heap.markDeleted(rid)
	e.idIndex.Erase(id)

	key := FoldName(rec.Last)
	if ids, ok := e.lastIndex.Find(key); ok {
		*ids = slices.DeleteFunc(*ids, func(x int64) bool { return x == id })
		if len(*ids) == 0 {
			e.lastIndex.Erase(key)
		}
	}
	return true
}

// FindByID returns the live record with the given id, or nil. The second
// result is the number of id index comparisons the lookup took, reported
// whether or not the record was found.
func (e *Engine) FindByID(id int64) (*Record, int) {
	e.idIndex.ResetMetrics()
	ridp, ok := e.idIndex.Find(id)
	cmps := e.idIndex.Comparisons()
	if !ok {
		return nil, cmps
	}
	rec, ok := e.heap.live(*ridp)
	if !ok {
		return nil, cmps
	}
	return rec, cmps
}

// RangeByID returns every live record with lo <= id <= hi in ascending id
// order, and the comparisons the id index walk took.
func (e *Engine) RangeByID(lo, hi int64) ([]*Record, int) {
	e.idIndex.ResetMetrics()
	if lo > hi {
		return nil, 0
	}

	var out []*Record
	e.idIndex.AscendClosed(lo, hi, func(_ int64, rid *int) bool {
		if rec, ok := e.heap.live(*rid); ok {
			out = append(out, rec)
		}
		return true
	})
	return out, e.idIndex.Comparisons()
}

// PrefixByLast returns every live record whose folded last name starts
// with the folded prefix, ordered by last name and then by insertion
// order. The comparison count covers both the last-name index walk and the
// id index lookups that resolve each matching id to its record.
func (e *Engine) PrefixByLast(prefix string) ([]*Record, int) {
	e.lastIndex.ResetMetrics()
	e.idIndex.ResetMetrics()

	var ids []int64
	collect := func(_ string, v *[]int64) bool {
		ids = append(ids, *v...)
		return true
	}
	p := FoldName(prefix)
	if succ, ok := prefixSuccessor(p); ok {
		e.lastIndex.AscendRange(p, succ, collect)
	} else {
		e.lastIndex.AscendGreaterOrEqual(p, collect)
	}

	var out []*Record
	for _, id := range ids {
		rid, ok := e.idIndex.Find(id)
		if !ok {
			continue
		}
		if rec, ok := e.heap.live(*rid); ok {
			out = append(out, rec)
		}
	}
	return out, e.lastIndex.Comparisons() + e.idIndex.Comparisons()
}

// Stats reports record counts, index shapes and memory estimates.
func (e *Engine) Stats() Stats {
	deleted := e.heap.deletedCount()
	return Stats{
		HeapRecords: e.heap.len(),
		Live:        e.heap.len() - deleted,
		Deleted:     deleted,

		IDKeys:     e.idIndex.Len(),
		IDHeight:   e.idIndex.Height(),
		LastKeys:   e.lastIndex.Len(),
		LastHeight: e.lastIndex.Height(),

		HeapBytes:      e.heap.bytes(),
		TombstoneBytes: e.heap.tombstoneBytes(),
		IDIndexBytes:   e.idIndex.Size(),
		LastIndexBytes: e.lastIndex.Size(),
	}
}
