package predictor

// denseIndexBits is the widest index for which a table is backed by a
// slice. Wider tables keep only the entries that have been written.
const denseIndexBits = 20

// indexMask returns a mask of the low bits bits of a uint32. Widths of 32
// and above select the whole word.
func indexMask(bits uint32) uint32 {
	if bits >= 32 {
		return ^uint32(0)
	}
	return uint32(1)<<bits - 1
}

// indexedTable maps an index of a fixed bit width to a value. Entries that
// were never written read as the table's initial value.
type indexedTable[T comparable] struct {
	bits    uint32
	mask    uint32
	initial T

	dense  []T
	sparse map[uint32]T
}

func newIndexedTable[T comparable](bits uint32, initial T) indexedTable[T] {
	t := indexedTable[T]{
		bits:    bits,
		mask:    indexMask(bits),
		initial: initial,
	}

	if bits <= denseIndexBits {
		t.dense = make([]T, 1<<bits)
		for i := range t.dense {
			t.dense[i] = initial
		}
	} else {
		t.sparse = make(map[uint32]T)
	}

	return t
}

// at returns the entry at index. The index must already be masked.
func (t *indexedTable[T]) at(index uint32) T {
	t.checkIndex(index)

	if t.dense != nil {
		return t.dense[index]
	}

	v, ok := t.sparse[index]
	if !ok {
		return t.initial
	}
	return v
}

// set stores v at index. The index must already be masked.
func (t *indexedTable[T]) set(index uint32, v T) {
	t.checkIndex(index)

	if t.dense != nil {
		t.dense[index] = v
		return
	}

	if v == t.initial {
		delete(t.sparse, index)
		return
	}
	t.sparse[index] = v
}

// checkIndex panics on an unmasked index. Callers derive indices by masking,
// so a failure here is a bug in the caller.
func (t *indexedTable[T]) checkIndex(index uint32) {
	if index&^t.mask != 0 {
		panic("predictor: table index out of range")
	}
}

// CounterTable is a table of 2-bit saturating counters indexed by a value of
// a fixed bit width. It backs the gshare table and both tournament tables.
type CounterTable struct {
	entries indexedTable[Counter]
}

// NewCounterTable creates a table of 2^bits counters, all in InitialCounter.
func NewCounterTable(bits uint32) *CounterTable {
	return &CounterTable{
		entries: newIndexedTable(bits, InitialCounter),
	}
}

// Bits returns the index width of the table.
func (t *CounterTable) Bits() uint32 {
	return t.entries.bits
}

// Mask returns the mask that reduces a raw value to a valid index.
func (t *CounterTable) Mask() uint32 {
	return t.entries.mask
}

// Counter returns the counter at index.
func (t *CounterTable) Counter(index uint32) Counter {
	return t.entries.at(index)
}

// Predict returns the direction predicted by the counter at index.
func (t *CounterTable) Predict(index uint32) Outcome {
	return t.entries.at(index).Prediction()
}

// Update advances the counter at index with outcome o.
func (t *CounterTable) Update(index uint32, o Outcome) {
	t.entries.set(index, t.entries.at(index).Next(o))
}
