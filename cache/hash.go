package cache

import (
	"encoding/binary"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/hgfantasy/tpf2-timetable-core/model"
)

// ContentHash hashes the sorted 4-tuple content of slots with xxhash,
// giving the slot-hash-set cache a single comparable value to detect
// "the slot array's content changed" without diffing element by element
// (spec §4.J, §9: "a structured hash with the same semantics" in place of
// the source's string-keyed slot-key hack).
func ContentHash(slots []model.Slot) uint64 {
	sorted := append([]model.Slot(nil), slots...)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.ArrMin != b.ArrMin {
			return a.ArrMin < b.ArrMin
		}
		if a.ArrSec != b.ArrSec {
			return a.ArrSec < b.ArrSec
		}
		if a.DepMin != b.DepMin {
			return a.DepMin < b.DepMin
		}
		return a.DepSec < b.DepSec
	})

	h := xxhash.New()
	buf := make([]byte, 16)
	for _, s := range sorted {
		binary.LittleEndian.PutUint32(buf[0:4], uint32(s.ArrMin))
		binary.LittleEndian.PutUint32(buf[4:8], uint32(s.ArrSec))
		binary.LittleEndian.PutUint32(buf[8:12], uint32(s.DepMin))
		binary.LittleEndian.PutUint32(buf[12:16], uint32(s.DepSec))
		h.Write(buf)
	}
	return h.Sum64()
}
