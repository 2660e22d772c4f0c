package objmodel

import (
	"fmt"
	"strconv"
)

// W is a wrapped value: the unit of exchange between the blue
// evaluator, the dispatcher and user-level code (spec §3 "Wrapped
// value (W)"). Every concrete implementation carries its own dynamic
// W_Type pointer.
type W interface {
	WType() *WType
	String() string
}

// WNone is the singleton instance of NoneType.
type WNone struct{ typ *WType }

func (w *WNone) WType() *WType { return w.typ }
func (w *WNone) String() string { return "<spy None>" }

// WInt is a wrapped integer (spec's i32/i64 etc. share this
// representation; the concrete W_Type distinguishes width).
type WInt struct {
	typ   *WType
	Value int64
}

func (w *WInt) WType() *WType  { return w.typ }
func (w *WInt) String() string { return strconv.FormatInt(w.Value, 10) }

// WFloat is a wrapped floating point value.
type WFloat struct {
	typ   *WType
	Value float64
}

func (w *WFloat) WType() *WType  { return w.typ }
func (w *WFloat) String() string { return strconv.FormatFloat(w.Value, 'g', -1, 64) }

// WBool is a wrapped boolean.
type WBool struct {
	typ   *WType
	Value bool
}

func (w *WBool) WType() *WType  { return w.typ }
func (w *WBool) String() string { return strconv.FormatBool(w.Value) }

// WStr is a wrapped string.
type WStr struct {
	typ   *WType
	Value string
}

func (w *WStr) WType() *WType  { return w.typ }
func (w *WStr) String() string { return strconv.Quote(w.Value) }

// WList is a wrapped, homogeneous, reference-storage list (spec §9's
// list specialization union: the base `list` type plus on-demand
// `list[T]` specializations, grounded on original_source's
// spy/vm/list.py).
type WList struct {
	typ   *WType
	Items []W
}

func (w *WList) WType() *WType { return w.typ }
func (w *WList) String() string {
	s := "["
	for i, it := range w.Items {
		if i > 0 {
			s += ", "
		}
		s += it.String()
	}
	return s + "]"
}

// WStruct is a raw-buffer-backed struct instance: Design Note §9
// resolves the drafts' disagreement in favor of this canonical form
// (the one exercised by the working `test_StructObject`). Fields are
// addressed positionally via each Member's Offset, not by name, so
// that the representation really is a flat buffer rather than a map.
type WStruct struct {
	typ   *WType
	Slots []W
}

func NewStruct(t *WType) *WStruct {
	return &WStruct{typ: t, Slots: make([]W, len(t.Members))}
}

func (w *WStruct) WType() *WType { return w.typ }

func (w *WStruct) String() string {
	return fmt.Sprintf("<spy instance: type=%s>", w.typ.Name())
}

func (w *WStruct) Get(m *Member) W    { return w.Slots[m.Offset] }
func (w *WStruct) Set(m *Member, v W) { w.Slots[m.Offset] = v }

// WHostObject wraps an arbitrary host-level object (the base
// `W_Object` instance with no declared members), used as the default
// representation for freshly-instantiated user types that don't (yet)
// specialize storage, and for the `object()` root type itself.
type WHostObject struct {
	typ *WType
	id  uint64
}

// NewHostObject allocates a WHostObject with an id scoped to u rather
// than a process-global counter (Design Note §9: specialization and
// identity state belongs to the owning instance, never a static
// global), so two Universes in one process never race on, or share,
// the same id sequence.
func (u *Universe) NewHostObject(t *WType) *WHostObject {
	u.hostObjSeq++
	return &WHostObject{typ: t, id: u.hostObjSeq}
}

func (w *WHostObject) WType() *WType { return w.typ }
func (w *WHostObject) String() string {
	return fmt.Sprintf("<spy instance: type=%s, id=%d>", w.typ.Name(), w.id)
}
