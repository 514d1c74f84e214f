package storage

import (
	"github.com/RoaringBitmap/roaring/v2"

	"rosterdb/deepsize"
)

// recordHeap is the append-only backing store. A record's position (its
// RID) is fixed at insert time and never reused. Deleted records stay in
// place; their RIDs are tracked in a tombstone bitmap alongside the
// per-record Deleted flag.
type recordHeap struct {
	records    []*Record
	tombstones *roaring.Bitmap
}

func newRecordHeap() *recordHeap {
	return &recordHeap{tombstones: roaring.New()}
}

// append stores a copy of r and returns its RID.
func (h *recordHeap) append(r Record) int {
	r.Deleted = false
	rid := len(h.records)
	h.records = append(h.records, &r)
	return rid
}

// get returns the record at rid, or false if rid is out of range.
func (h *recordHeap) get(rid int) (*Record, bool) {
	if rid < 0 || rid >= len(h.records) {
		return nil, false
	}
	return h.records[rid], true
}

// live returns the record at rid unless rid is out of range or tombstoned.
func (h *recordHeap) live(rid int) (*Record, bool) {
	rec, ok := h.get(rid)
	if !ok || rec.Deleted {
		return nil, false
	}
	return rec, true
}

// markDeleted tombstones the record at rid. The caller has checked rid.
func (h *recordHeap) markDeleted(rid int) {
	h.records[rid].Deleted = true
	h.tombstones.Add(uint32(rid))
}

func (h *recordHeap) len() int {
	return len(h.records)
}

func (h *recordHeap) deletedCount() int {
	return int(h.tombstones.GetCardinality())
}

func (h *recordHeap) bytes() int64 {
	return deepsize.Of(h.records)
}

func (h *recordHeap) tombstoneBytes() int64 {
	return int64(h.tombstones.GetSizeInBytes())
}
