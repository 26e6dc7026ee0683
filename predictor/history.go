package predictor

// History is a fixed-length global history register. Position 0 holds the
// newest outcome. A fresh register holds only NotTaken outcomes.
type History struct {
	slots []Outcome
	head  int // position of the newest outcome in slots
}

// NewHistory creates a history register of length outcomes.
func NewHistory(length uint32) *History {
	return &History{
		slots: make([]Outcome, length),
	}
}

// Len returns the number of outcomes the register holds.
func (h *History) Len() int {
	return len(h.slots)
}

// At returns the outcome i branches ago; At(0) is the newest.
func (h *History) At(i int) Outcome {
	n := len(h.slots)
	if i < 0 || i >= n {
		panic("predictor: history position out of range")
	}
	return h.slots[(h.head+i)%n]
}

// Push shifts o in as the newest outcome and drops the oldest one.
func (h *History) Push(o Outcome) {
	n := len(h.slots)
	if n == 0 {
		return
	}
	h.head = (h.head + n - 1) % n
	h.slots[h.head] = o
}

// Fold packs the newest min(Len, 32) outcomes into a word with the newest
// outcome in bit 0. Older outcomes beyond 32 do not contribute.
func (h *History) Fold() uint32 {
	n := h.Len()
	if n > 32 {
		n = 32
	}

	var v uint32
	for i := 0; i < n; i++ {
		v |= h.At(i).bit() << i
	}
	return v
}
