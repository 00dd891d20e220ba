// Package value defines the runtime values of the chip language and the
// semantics of every binary operator over them. The kind set is closed:
// adding a kind means revisiting every dispatch switch in ops.go.
package value

import (
	"fmt"
	"strings"
)

// Type identifies the kind of a runtime value.
type Type string

const (
	INT_TYPE  Type = "Int"
	BOOL_TYPE Type = "Bool"
	STR_TYPE  Type = "Str"
	LIST_TYPE Type = "List"
)

// Value is a chip runtime value. Values are read-only once constructed;
// mutation happens by replacing a State slot with a new value.
type Value interface {
	Type() Type
	Inspect() string
	Clone() Value
}

// Int
type Int struct {
	Value int64
}

func (i *Int) Type() Type      { return INT_TYPE }
func (i *Int) Inspect() string { return fmt.Sprintf("%d", i.Value) }
func (i *Int) Clone() Value    { return &Int{Value: i.Value} }

// Bool
type Bool struct {
	Value bool
}

func (b *Bool) Type() Type      { return BOOL_TYPE }
func (b *Bool) Inspect() string { return fmt.Sprintf("%t", b.Value) }
func (b *Bool) Clone() Value    { return &Bool{Value: b.Value} }

// Str
type Str struct {
	Value string
}

func (s *Str) Type() Type      { return STR_TYPE }
func (s *Str) Inspect() string { return fmt.Sprintf("%q", s.Value) }
func (s *Str) Clone() Value    { return &Str{Value: s.Value} }

// List
type List struct {
	Elements []Value
}

func (l *List) Type() Type { return LIST_TYPE }
func (l *List) Inspect() string {
	parts := make([]string, len(l.Elements))
	for i, el := range l.Elements {
		parts[i] = el.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (l *List) Clone() Value {
	elements := make([]Value, len(l.Elements))
	for i, el := range l.Elements {
		elements[i] = el.Clone()
	}
	return &List{Elements: elements}
}

var (
	TRUE  = &Bool{Value: true}
	FALSE = &Bool{Value: false}
)

// NativeBool returns the shared Bool for b.
func NativeBool(b bool) *Bool {
	if b {
		return TRUE
	}
	return FALSE
}
