package objmodel

import (
	"fmt"
	"reflect"

	"github.com/spy-lang/spy/internal/fqn"
)

// Storage is the allocation strategy for instances of a W_Type (spec
// §3 "a storage category in {value, reference}").
type Storage int

const (
	StorageValue Storage = iota
	StorageReference
)

// Member describes one attribute slot of a W_Type: its name, its slot
// index into a WStruct's raw value buffer, and its declared type (spec
// §3 "a mapping of member name -> Member descriptor (name,
// offset/field-id, w_type)").
type Member struct {
	Name   string
	Offset int
	WType  *WType
}

// WType is the wrapped value describing a set of wrapped values (spec
// §3 "Type (W_Type)"). It is itself a W: dynamic_type(a_type) returns
// its Metaclass, not some separate meta-representation.
type WType struct {
	FQN       fqn.FQN
	Base      *WType
	Metaclass *WType
	// PyClass is the host implementation class this type is bound to
	// (spec §4.1 "binds it to the class"). For builtin types this is
	// the concrete Go type backing WType's sibling implementations
	// (e.g. reflect.TypeOf((*WInt)(nil))); for blue-specialized struct
	// types it is reflect.TypeOf((*WStruct)(nil)).
	PyClass reflect.Type
	Members map[string]*Member
	Storage Storage

	// Caps holds the generic dunder-style capability table (spec §3),
	// keyed by the tagged Capability enum per Design Note §9. Values
	// are W (almost always *spyfunc.WFunc) to avoid an import cycle
	// between objmodel and spyfunc.
	Caps map[Capability]W

	// MemberGetters/MemberSetters hold the per-attribute `__GET_x__` /
	// `__SET_x__` hooks, which are parameterized by member name and so
	// live in their own name-keyed maps rather than the Capability table.
	MemberGetters map[string]W
	MemberSetters map[string]W
}

func NewType(f fqn.FQN, base *WType, storage Storage) *WType {
	return &WType{
		FQN:           f,
		Base:          base,
		Storage:       storage,
		Members:       map[string]*Member{},
		Caps:          map[Capability]W{},
		MemberGetters: map[string]W{},
		MemberSetters: map[string]W{},
	}
}

// WType implements W: a type is itself a first-class wrapped value.
func (t *WType) WType() *WType { return t.Metaclass }

func (t *WType) String() string {
	return fmt.Sprintf("<spy type '%s'>", t.FQN.Symbol())
}

// Name is the bare (unqualified) type name, as used in error messages
// such as "type 'T' has no attribute 'nosuch'" (spec §8 seed scenario 6).
func (t *WType) Name() string { return t.FQN.Symbol() }

// Cap looks up a generic capability function, walking the base chain
// exactly like attribute/method resolution in a single-inheritance
// model (spec §4.1 "is_subclass(a, b) walks the base chain").
func (t *WType) Cap(c Capability) (W, bool) {
	for cur := t; cur != nil; cur = cur.Base {
		if w, ok := cur.Caps[c]; ok {
			return w, true
		}
	}
	return nil, false
}

func (t *WType) MemberGetter(attr string) (W, bool) {
	for cur := t; cur != nil; cur = cur.Base {
		if w, ok := cur.MemberGetters[attr]; ok {
			return w, true
		}
	}
	return nil, false
}

func (t *WType) MemberSetter(attr string) (W, bool) {
	for cur := t; cur != nil; cur = cur.Base {
		if w, ok := cur.MemberSetters[attr]; ok {
			return w, true
		}
	}
	return nil, false
}

// Member looks up a member descriptor, walking the base chain.
func (t *WType) Member(name string) (*Member, bool) {
	for cur := t; cur != nil; cur = cur.Base {
		if m, ok := cur.Members[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// IsSubclass walks a's base chain looking for b (spec §4.1).
func IsSubclass(a, b *WType) bool {
	for cur := a; cur != nil; cur = cur.Base {
		if cur == b {
			return true
		}
	}
	return false
}

// DynamicType returns v's dynamic type pointer (spec §4.1 "dynamic_type(v)").
func DynamicType(v W) *WType { return v.WType() }
