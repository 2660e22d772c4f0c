package objmodel

import (
	"reflect"

	"github.com/spy-lang/spy/internal/fqn"
)

// Universe is the bootstrap set of types every VM instance starts
// with (spec §4.1's object model decorator protocol applied once, at
// process/VM-load time, to the handful of types that can't be
// expressed in terms of themselves).
type Universe struct {
	Object  *WType
	Type    *WType
	None    *WType
	Dynamic *WType

	I32    *WType
	F64    *WType
	Bool   *WType
	Str    *WType
	List   *WType // unspecialized `list`, see meta_op_GETITEM

	WNone *WNone

	// goTypes maps a Go wrapper type (e.g. reflect.TypeOf((*WInt)(nil)))
	// back to the W_Type that owns it, the mechanism behind builtin
	// introspection (spec §4.3 "Builtin creation introspects the host
	// function's parameters").
	goTypes map[reflect.Type]*WType

	// hostObjSeq is NewHostObject's id counter, instance-scoped per
	// Design Note §9 (see NewHostObject in value.go).
	hostObjSeq uint64
}

// Register records that goType is the host implementation class bound
// to t (spec §4.1 "pyclass binding"), making it discoverable by
// LookupGoType for reflection-based builtin-function introspection.
func (u *Universe) Register(t *WType, goType reflect.Type) {
	t.PyClass = goType
	if u.goTypes == nil {
		u.goTypes = map[reflect.Type]*WType{}
	}
	u.goTypes[goType] = t
}

// LookupGoType is the reverse of Register.
func (u *Universe) LookupGoType(goType reflect.Type) (*WType, bool) {
	t, ok := u.goTypes[goType]
	return t, ok
}

// NewUniverse builds the bootstrap type graph.
//
// object is the root of every base chain: its Base is nil, which stands
// for "no base". NoneType is an ordinary type based on object, like the
// other bootstrap types; it does not terminate any base chain.
func NewUniverse() *Universe {
	object := NewType(fqn.Parse("builtins::object"), nil, StorageReference)
	typ := NewType(fqn.Parse("builtins::type"), object, StorageReference)
	noneType := NewType(fqn.Parse("builtins::NoneType"), object, StorageReference)
	dynamic := NewType(fqn.Parse("builtins::dynamic"), object, StorageValue)

	// The metaclass of <type> is <type> itself; the other bootstrap types
	// (including <object>) and the scalar builtins also use <type>, while
	// the list type gets a metaclass of its own below.
	typ.Metaclass = typ
	object.Metaclass = typ
	noneType.Metaclass = typ
	dynamic.Metaclass = typ

	i32 := NewType(fqn.Parse("builtins::i32"), object, StorageValue)
	f64 := NewType(fqn.Parse("builtins::f64"), object, StorageValue)
	boolT := NewType(fqn.Parse("builtins::bool"), object, StorageValue)
	str := NewType(fqn.Parse("builtins::str"), object, StorageReference)
	list := NewType(fqn.Parse("builtins::list"), object, StorageReference)
	for _, t := range []*WType{i32, f64, boolT, str} {
		t.Metaclass = typ
	}

	// list gets its own metaclass, distinct from <type>, so that a
	// meta_op_GETITEM capability (spec §4.6 rule 3, "metaclass-level
	// generics ... list[T]") can be attached to list specifically
	// without leaking `[...]` specialization syntax onto every other
	// type. Grounded on original_source/spy/vm/list.py's Meta_W_List, a
	// Python metaclass applied only to W_List.
	listMeta := NewType(fqn.Parse("builtins::list_meta"), typ, StorageReference)
	listMeta.Metaclass = typ
	list.Metaclass = listMeta

	u := &Universe{
		Object:  object,
		Type:    typ,
		None:    noneType,
		Dynamic: dynamic,
		I32:     i32,
		F64:     f64,
		Bool:    boolT,
		Str:     str,
		List:    list,
		WNone:   &WNone{typ: noneType},
	}
	u.Register(i32, reflect.TypeOf((*WInt)(nil)))
	u.Register(f64, reflect.TypeOf((*WFloat)(nil)))
	u.Register(boolT, reflect.TypeOf((*WBool)(nil)))
	u.Register(str, reflect.TypeOf((*WStr)(nil)))
	u.Register(list, reflect.TypeOf((*WList)(nil)))
	u.Register(object, reflect.TypeOf((*WHostObject)(nil)))
	u.Register(noneType, reflect.TypeOf((*WNone)(nil)))
	return u
}

// WrapInt/WrapFloat/WrapBool/WrapStr are convenience constructors used
// throughout the blue evaluator and builtin functions.
func (u *Universe) WrapInt(v int64) *WInt      { return &WInt{typ: u.I32, Value: v} }
func (u *Universe) WrapFloat(v float64) *WFloat { return &WFloat{typ: u.F64, Value: v} }
func (u *Universe) WrapBool(v bool) *WBool     { return &WBool{typ: u.Bool, Value: v} }
func (u *Universe) WrapStr(v string) *WStr     { return &WStr{typ: u.Str, Value: v} }
func (u *Universe) NewList(t *WType, items []W) *WList {
	return &WList{typ: t, Items: items}
}
