package objmodel

import "testing"

// Grounded on original_source/spy/tests/test_vm.py's
// TestVM.test_object_type_metaclass / test_w_base / test_issubclass.

func TestObjectTypeMetaclass(t *testing.T) {
	u := NewUniverse()
	if DynamicType(u.Object) != u.Type {
		t.Fatal("dynamic type of object must be type")
	}
	if DynamicType(u.Type) != u.Type {
		t.Fatal("dynamic type of type must be type itself")
	}
	if u.Type.Base != u.Object {
		t.Fatal("type must be a subclass of object")
	}
}

func TestWBase(t *testing.T) {
	u := NewUniverse()
	if u.Object.Base != nil {
		t.Fatal("object's base must terminate the chain")
	}
	if u.I32.Base != u.Object {
		t.Fatal("i32 must be based on object")
	}
}

func TestIsSubclass(t *testing.T) {
	u := NewUniverse()
	a := NewType(u.I32.FQN.Join("A"), u.Object, StorageReference)
	b := NewType(u.I32.FQN.Join("B"), a, StorageReference)

	if !IsSubclass(a, u.Object) {
		t.Fatal("a <: object")
	}
	if !IsSubclass(b, u.Object) {
		t.Fatal("b <: object")
	}
	if !IsSubclass(a, a) {
		t.Fatal("a <: a")
	}
	if !IsSubclass(b, a) {
		t.Fatal("b <: a")
	}
	if IsSubclass(a, b) {
		t.Fatal("a is not <: b")
	}
}

func TestWrapUnwrap(t *testing.T) {
	u := NewUniverse()
	w := u.WrapInt(42)
	if DynamicType(w) != u.I32 {
		t.Fatal("wrapped int has wrong dynamic type")
	}
	if w.String() != "42" {
		t.Fatalf("got %q", w.String())
	}
}

func TestWNone(t *testing.T) {
	u := NewUniverse()
	if DynamicType(u.WNone) != u.None {
		t.Fatal("None's dynamic type must be NoneType")
	}
	if u.WNone.String() != "<spy None>" {
		t.Fatalf("got %q", u.WNone.String())
	}
}

func TestStructSlots(t *testing.T) {
	u := NewUniverse()
	point := NewType(u.I32.FQN.Join("Point"), u.Object, StorageValue)
	point.Members["x"] = &Member{Name: "x", Offset: 0, WType: u.I32}
	point.Members["y"] = &Member{Name: "y", Offset: 1, WType: u.I32}

	inst := NewStruct(point)
	mx, _ := point.Member("x")
	my, _ := point.Member("y")
	inst.Set(mx, u.WrapInt(1))
	inst.Set(my, u.WrapInt(2))

	if inst.Get(mx).(*WInt).Value != 1 || inst.Get(my).(*WInt).Value != 2 {
		t.Fatal("struct slots not addressed correctly")
	}
}
