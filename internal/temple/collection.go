package temple

// Append validates item and returns a new collection with item at the end.
// The input collection is never modified.
func Append[S ~[]E, E any](collection S, item E, validate func(E) error) (S, error) {
	if validate != nil {
		if err := validate(item); err != nil {
			return collection, err
		}
	}
	out := make(S, 0, len(collection)+1)
	out = append(out, collection...)
	return append(out, item), nil
}

// RemoveAt removes the element at index, shifting later elements down, and
// returns the removed element. Indices outside [0, len) are rejected.
func RemoveAt[S ~[]E, E any](collection S, index int) (S, E, error) {
	var zero E
	if index < 0 || index >= len(collection) {
		return collection, zero, &Error{Kind: KindInvalidInput, Field: "index", Message: "Invalid index", Err: ErrIndexOutOfRange}
	}
	removed := collection[index]
	out := make(S, 0, len(collection)-1)
	out = append(out, collection[:index]...)
	out = append(out, collection[index+1:]...)
	return out, removed, nil
}

// RemoveByValue removes the first element equal to value and reports where it was.
func RemoveByValue[S ~[]E, E comparable](collection S, value E) (S, int, error) {
	for i, v := range collection {
		if v == value {
			out, _, err := RemoveAt(collection, i)
			return out, i, err
		}
	}
	return collection, -1, notFound("Item not found")
}
