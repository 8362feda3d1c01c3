// Package value implements the tagged value union the compiler emits into
// constant pools and the VM operates on at runtime.
package value

import (
	"fmt"
	"math"
)

// Value is implemented by every concrete runtime value: Number, Bool, Nil,
// Raw, String and *Function.
type Value interface {
	String() string
	Type() string
}

// Number is an IEEE-754 double.
type Number float64

func (n Number) String() string { return formatFloat(float64(n)) }
func (n Number) Type() string   { return "number" }

func formatFloat(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e15 {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// Bool is a boolean value.
type Bool bool

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (b Bool) Type() string { return "bool" }

// NilType is the singleton type of Nil. It is a distinct named type (rather
// than struct{}) so that Value.Type() can report "nil" without a type
// switch special case at every call site.
type NilType byte

// Nil is the single nil value.
const Nil = NilType(0)

func (NilType) String() string { return "nil" }
func (NilType) Type() string   { return "nil" }

// Raw is a sentinel used to fill debug-only slots (e.g. the unpatched jump
// placeholder word is never materialized as a Value, but Raw exists for
// stack slots that must hold a placeholder with no sensible literal).
type Raw struct{}

func (Raw) String() string { return "<raw>" }
func (Raw) Type() string   { return "raw" }

// String is an owned text value.
type String string

func (s String) String() string { return string(s) }
func (s String) Type() string   { return "string" }

// Function is a record describing a compiled function: its name (for
// diagnostics), the code offset of its first instruction, and its arity.
type Function struct {
	Name    string
	Address int
	Arity   int
}

func (f *Function) String() string { return fmt.Sprintf("<function %s>", f.Name) }
func (f *Function) Type() string   { return "function" }

// Equal reports whether a and b are structurally equal. Values of different
// concrete types are never equal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case NilType:
		_, ok := b.(NilType)
		return ok
	case Raw:
		_, ok := b.(Raw)
		return ok
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case *Function:
		bv, ok := b.(*Function)
		return ok && (av == bv || (av != nil && bv != nil && *av == *bv))
	default:
		return false
	}
}

// Compare orders a and b, returning -1, 0 or 1. It is only defined for
// Number/Number and String/String pairs; any other pairing returns an error.
func Compare(a, b Value) (int, error) {
	switch av := a.(type) {
	case Number:
		bv, ok := b.(Number)
		if !ok {
			return 0, fmt.Errorf("cannot compare %s and %s", a.Type(), b.Type())
		}
		switch {
		case av < bv:
			return -1, nil
		case av > bv:
			return 1, nil
		default:
			return 0, nil
		}
	case String:
		bv, ok := b.(String)
		if !ok {
			return 0, fmt.Errorf("cannot compare %s and %s", a.Type(), b.Type())
		}
		switch {
		case av < bv:
			return -1, nil
		case av > bv:
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, fmt.Errorf("cannot compare %s and %s", a.Type(), b.Type())
	}
}
