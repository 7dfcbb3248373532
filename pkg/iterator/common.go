package iterator

// Iterate is a generic helper function that encapsulates the common iteration pattern.
// The processFunc receives each element and can control iteration flow:
// - Return (false, nil) to stop iteration early
// - Return (true, nil) to continue
// - Return (_, error) to stop with error
func Iterate[T any](iter Iterator[T], processFunc func(T) (continueLooping bool, err error)) error {
	for iter.HasNext() {
		item, err := iter.Next()
		if err != nil {
			return err
		}

		shouldContinue, err := processFunc(item)
		if err != nil {
			return err
		}
		if !shouldContinue {
			break
		}
	}

	return nil
}

// ForEach applies a processing function to each element in the iterator.
// The iteration stops early if processFunc returns an error.
func ForEach[T any](iter Iterator[T], processFunc func(T) error) error {
	return Iterate(iter, func(item T) (bool, error) {
		return true, processFunc(item)
	})
}

// Collect drains the iterator into a slice.
func Collect[T any](iter Iterator[T]) ([]T, error) {
	var items []T
	err := ForEach(iter, func(item T) error {
		items = append(items, item)
		return nil
	})
	return items, err
}
