package flags

import (
	"fmt"
	"strings"
)

type StringEnum[T ~string] struct {
	Value   T
	Allowed []T
}

func NewStringEnum[T ~string](allowed ...T) *StringEnum[T] {
	return &StringEnum[T]{
		Value:   allowed[0],
		Allowed: allowed,
	}
}

// Set matches case-insensitively and stores the canonical spelling.
func (e *StringEnum[T]) Set(s string) error {
	for _, v := range e.Allowed {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			e.Value = v
			return nil
		}
	}
	return fmt.Errorf("invalid value %q (want one of %s)", s, e.choices())
}

func (e *StringEnum[T]) String() string {
	return fmt.Sprintf("%v", e.Value)
}

func (e *StringEnum[T]) Type() string {
	return "strenum"
}

func (e *StringEnum[T]) choices() string {
	names := make([]string, len(e.Allowed))
	for i, v := range e.Allowed {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}
