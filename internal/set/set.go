package set

// Set is a generic set data structure that stores unique values of type T
type Set[T comparable] struct {
	items map[T]struct{}
}

// NewSet creates a new empty set
func NewSet[T comparable]() *Set[T] {
	return &Set[T]{
		items: make(map[T]struct{}),
	}
}

// Add adds a value to the set
func (s *Set[T]) Add(value T) {
	s.items[value] = struct{}{}
}

// Remove removes a value from the set
func (s *Set[T]) Remove(value T) {
	delete(s.items, value)
}

// Contains checks if the set contains a value
func (s *Set[T]) Contains(value T) bool {
	_, exists := s.items[value]
	return exists
}

// Len returns the number of elements in the set
func (s *Set[T]) Len() int {
	return len(s.items)
}

// Clear removes all elements from the set
func (s *Set[T]) Clear() {
	s.items = make(map[T]struct{})
}
