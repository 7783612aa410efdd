package inventory

// IDAllocator hands out ids for rows appended by Add.
type IDAllocator interface {
	// Reset primes the allocator from the rows loaded at startup.
	Reset(items []Item)
	// Next returns the id for a new row given the current rows.
	Next(items []Item) int
}

// SequenceIDs is a monotonic counter seeded from the largest loaded id.
// Ids freed by Delete are never handed out again.
type SequenceIDs struct {
	last int
}

func (s *SequenceIDs) Reset(items []Item) {
	s.last = 0
	for _, item := range items {
		if item.ID > s.last {
			s.last = item.ID
		}
	}
}

func (s *SequenceIDs) Next(items []Item) int {
	for _, item := range items {
		if item.ID > s.last {
			s.last = item.ID
		}
	}
	s.last++
	return s.last
}

// LengthIDs assigns len(items)+1. After a delete this can repeat an id that
// is still in the list; it exists for payloads written by older editors that
// expect this numbering.
type LengthIDs struct{}

func (LengthIDs) Reset([]Item) {}

func (LengthIDs) Next(items []Item) int {
	return len(items) + 1
}

// NewIDAllocator returns the allocator for policy ("sequence" or "length").
// Unknown policies fall back to sequence.
func NewIDAllocator(policy string) IDAllocator {
	if policy == IDPolicyLength {
		return LengthIDs{}
	}
	return &SequenceIDs{}
}

const (
	IDPolicySequence = "sequence"
	IDPolicyLength   = "length"
)
