package render

import (
	"math"

	"github.com/spaolacci/murmur3"

	"github.com/geop/globe/report"
)

// MaxOffset bounds the angular nudge applied to arc endpoints, in degrees.
const MaxOffset = 2.5

const hashBuckets = 1000

// OffsetFunc picks the longitude nudge for a relation's arc. It must be pure:
// the same relation always yields the same offset, or arcs jitter between
// frames.
type OffsetFunc func(report.Relation) float64

// OffsetFor derives a small signed offset from the category label alone, so
// arcs of different categories between the same two states separate.
func OffsetFor(t report.EventType) float64 {
	h := 0
	for i := 0; i < len(t); i++ {
		h = (h*31 + int(t[i])) % hashBuckets
	}
	return bucketOffset(h)
}

// CategoryOffset is the OffsetFunc form of OffsetFor.
func CategoryOffset(r report.Relation) float64 {
	return OffsetFor(r.EventType)
}

// EdgeKeyOffset hashes the whole edge key (source, target and category), so
// every distinct edge gets its own offset rather than every category.
func EdgeKeyOffset(r report.Relation) float64 {
	h := murmur3.New32()
	h.Write([]byte(r.Source))
	h.Write([]byte{0})
	h.Write([]byte(r.Target))
	h.Write([]byte{0})
	h.Write([]byte(r.EventType))
	return bucketOffset(int(h.Sum32() % hashBuckets))
}

// bucketOffset maps h in [0, 1000) into [-2.5, 2.5), flipping the sign by
// sin(h) so neighbouring buckets do not all lean the same way.
func bucketOffset(h int) float64 {
	v := float64(h-hashBuckets/2) / (hashBuckets / (2 * MaxOffset))
	return v * sign(math.Sin(float64(h)))
}

func sign(f float64) float64 {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	}
	return 0
}
