package entity

// SelectorAll is the query value meaning "no restriction".
const SelectorAll = "All"

// Selector restricts a listing to one enumerated value. The zero value matches everything.
type Selector[T ~string] struct {
	value      T
	restricted bool
}

// Any returns a selector without restriction.
func Any[T ~string]() Selector[T] {
	return Selector[T]{}
}

// Only returns a selector matching exactly value.
func Only[T ~string](value T) Selector[T] {
	return Selector[T]{value: value, restricted: true}
}

// ParseSelector maps "All" to Any and a member of allowed to Only. Anything else is rejected.
func ParseSelector[T ~string](raw string, allowed []T) (Selector[T], bool) {
	if raw == SelectorAll {
		return Any[T](), true
	}
	value, ok := parseEnum(raw, allowed)
	if !ok {
		return Selector[T]{}, false
	}
	return Only(value), true
}

// Matches reports whether value passes the selector.
func (s Selector[T]) Matches(value T) bool {
	return !s.restricted || s.value == value
}

// Value returns the selected value and whether the selector restricts anything.
func (s Selector[T]) Value() (T, bool) {
	return s.value, s.restricted
}

func (s Selector[T]) String() string {
	if !s.restricted {
		return SelectorAll
	}
	return string(s.value)
}
