package iterator

// Iterator is the minimal contract shared by every lazy sequence in the engine:
// the cells of a leaf node, and the decoded rows of a table scan.
//
// Iterators are finite and read-only. They never mutate the structure they walk,
// and Rewind restarts the sequence from the first element so the same iterator
// can be replayed; a freshly created iterator is independent of every other one.
type Iterator[T any] interface {
	// HasNext checks if there are more elements available without consuming them.
	HasNext() bool

	// Next returns the next element and advances the position.
	// It returns an error once the sequence is exhausted.
	Next() (T, error)

	// Rewind resets the position to the beginning of the sequence.
	// It fails if the underlying structure can no longer be read.
	Rewind() error
}
