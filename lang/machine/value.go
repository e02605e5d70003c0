package machine

import (
	"fmt"
	"strings"

	"github.com/dolthub/swiss"
)

// Value is the runtime representation manipulated by the machine: every
// value on the operand stack, inside a struct's fields, or inside a vec/map
// is one of the concrete kinds below.
type Value interface {
	String() string
	Type() string
}

type IntValue int64

func (v IntValue) String() string { return fmt.Sprintf("%d", int64(v)) }
func (v IntValue) Type() string   { return "int" }

type BoolValue bool

func (v BoolValue) String() string {
	if v {
		return "true"
	}
	return "false"
}
func (v BoolValue) Type() string { return "bool" }

type StrValue string

func (v StrValue) String() string { return string(v) }
func (v StrValue) Type() string   { return "str" }

// StructValue is an instance of a declared struct: Name is its declared
// struct name (generic parameters are not retained), Fields its field values
// by name.
type StructValue struct {
	Name   string
	Fields map[string]Value
}

func (v *StructValue) String() string {
	var b strings.Builder
	b.WriteString(v.Name)
	b.WriteByte('{')
	first := true
	for name, val := range v.Fields {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%s: %s", name, val.String())
	}
	b.WriteByte('}')
	return b.String()
}
func (v *StructValue) Type() string { return v.Name }

// VecValue backs the builtin vec type: a dynamic array exposed
// to aaa programs through vec:push/vec:get/vec:len.
type VecValue struct {
	Elems []Value
}

func (v *VecValue) String() string {
	parts := make([]string, len(v.Elems))
	for i, e := range v.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (v *VecValue) Type() string { return "vec" }

// MapValue backs the builtin map type, using the same
// swiss-table hash map the teacher uses for its own Map value.
type MapValue struct {
	m *swiss.Map[Value, Value]
}

func NewMapValue(size int) *MapValue {
	return &MapValue{m: swiss.NewMap[Value, Value](uint32(size))}
}

func (v *MapValue) String() string { return fmt.Sprintf("map(%p)", v) }
func (v *MapValue) Type() string   { return "map" }

func (v *MapValue) Get(k Value) (Value, bool) { return v.m.Get(k) }
func (v *MapValue) Set(k, val Value)          { v.m.Put(k, val) }
func (v *MapValue) Len() int                  { return v.m.Count() }
