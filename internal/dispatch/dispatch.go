// Package dispatch implements the Operator Dispatcher (spec §4.6): a
// deterministic 5-rule cascade resolving, for each operator symbol
// appearing in a red expression, an OpImpl. The first rule to yield a
// non-NULL OpImpl wins.
//
// Grounded on original_source/spy/vm/modules/operator/multimethod.py
// (the register/register_partial/lookup cascade that becomes rule 4
// here) and original_source/spy/vm/modules/operator/attrop.py (the
// member-fastpath-then-capability cascade for attribute access,
// rule 2/3 here).
package dispatch

import (
	"github.com/spy-lang/spy/internal/objmodel"
	"github.com/spy-lang/spy/internal/oparg"
	"github.com/spy-lang/spy/internal/spyfunc"
)

// mmKey is the multimethod table key (spec §4.6 rule 4: "(op, L, R) |
// (op, L, ⊥) | (op, ⊥, R)"). An empty typeKey means the wildcard ⊥.
type mmKey struct {
	Op          string
	Left, Right typeKey
}

type typeKey string

const wildcard typeKey = ""

func keyOf(t *objmodel.WType) typeKey {
	if t == nil {
		return wildcard
	}
	return typeKey(t.FQN.Fullname())
}

// Dispatcher resolves operator use sites to concrete OpImpls. One
// Dispatcher is shared by every function in a VM instance (spec §5:
// "all internal containers used for iteration during dispatch [must]
// be order-preserving" — the multimethod table here is looked up by
// exact key, never iterated, so map order never leaks into results).
type Dispatcher struct {
	U *objmodel.Universe

	// multimethod is the plain Go map backing rule 4. Map *lookup* by
	// an exact key is order-independent regardless of Go's randomized
	// map iteration order, which is what determinism requires here
	// (SPEC_FULL.md §4.6).
	multimethod map[mmKey]objmodel.W

	// dynamicOps holds the generic "dynamic_⊕" builtins consulted by
	// rule 1 (spec §4.6 rule 1), keyed by capability name / op symbol.
	dynamicOps map[string]objmodel.W
}

func New(u *objmodel.Universe) *Dispatcher {
	return &Dispatcher{U: u, multimethod: map[mmKey]objmodel.W{}, dynamicOps: map[string]objmodel.W{}}
}

// RegisterDynamic installs the generic fallback used when either
// static type is the Dynamic type (rule 1). key is a capability name
// (Capability.String()) or a raw operator symbol, whichever
// ResolveBinOp/ResolveUnaryOp/... is about to look up.
func (d *Dispatcher) RegisterDynamic(key string, fn objmodel.W) {
	d.dynamicOps[key] = fn
}

// RegisterMultimethod installs a rule-4 fallback. left/right == nil
// means the wildcard ⊥ slot.
func (d *Dispatcher) RegisterMultimethod(op string, left, right *objmodel.WType, fn objmodel.W) {
	d.multimethod[mmKey{Op: op, Left: keyOf(left), Right: keyOf(right)}] = fn
}

// lookupMultimethod tries (L,R), then (L,⊥), then (⊥,R), in that order
// (spec §4.6 rule 4).
func (d *Dispatcher) lookupMultimethod(op string, left, right *objmodel.WType) (objmodel.W, bool) {
	if fn, ok := d.multimethod[mmKey{Op: op, Left: keyOf(left), Right: keyOf(right)}]; ok {
		return fn, true
	}
	if fn, ok := d.multimethod[mmKey{Op: op, Left: keyOf(left), Right: wildcard}]; ok {
		return fn, true
	}
	if fn, ok := d.multimethod[mmKey{Op: op, Left: wildcard, Right: keyOf(right)}]; ok {
		return fn, true
	}
	return nil, false
}

func isDynamic(u *objmodel.Universe, t *objmodel.WType) bool {
	return t == u.Dynamic
}

// dynamicKey picks the lookup key for the rule-1 dynamic fast path:
// the capability name when the operator has one, otherwise the raw
// operator symbol (so RegisterDynamic and ResolveBinOp/ResolveUnaryOp
// agree on a single naming scheme with ResolveGetAttr/GetItem/etc.).
func dynamicKey(hasCap bool, cap objmodel.Capability, op string) string {
	if hasCap {
		return cap.String()
	}
	return op
}

// callCapability invokes a per-type capability function (itself blue,
// spec invariant "op_* capability functions themselves are blue") with
// the supplied OpArgs and unwraps its OpImpl result.
func callCapability(ctx spyfunc.Context, fn objmodel.W, args ...oparg.OpArg) (oparg.OpImpl, error) {
	wfn, ok := fn.(*spyfunc.WFunc)
	if !ok {
		return oparg.NULL, nil
	}
	boxed := make([]objmodel.W, len(args))
	for i, a := range args {
		boxed[i] = &oparg.WOpArg{Arg: a}
	}
	result, err := ctx.Call(wfn, boxed)
	if err != nil {
		return oparg.NULL, err
	}
	wimpl, ok := result.(*oparg.WOpImpl)
	if !ok {
		return oparg.NULL, nil
	}
	return wimpl.Impl, nil
}

// ResolveBinOp resolves a binary operator node (spec §4.6 cascade for
// "⊕" over operands with static types L, R).
func (d *Dispatcher) ResolveBinOp(ctx spyfunc.Context, op string, l, r oparg.OpArg) (oparg.OpImpl, error) {
	cap, hasCap := objmodel.BinOpCapability(op)

	// Rule 1: either static type is dynamic.
	if isDynamic(d.U, l.StaticType) || isDynamic(d.U, r.StaticType) {
		if fn, ok := d.dynamicOps[dynamicKey(hasCap, cap, op)]; ok {
			return oparg.Simple(fn, false), nil
		}
	}

	// Rule 3: per-type capability on L.
	if ok := hasCap; ok {
		if fn, ok := l.StaticType.Cap(cap); ok {
			impl, err := callCapability(ctx, fn, l, r)
			if err != nil {
				return oparg.NULL, err
			}
			if !impl.IsNull() {
				impl.SingleDispatch = true
				return impl, nil
			}
		}
	}

	// Rule 4: multimethod table.
	if fn, ok := d.lookupMultimethod(op, l.StaticType, r.StaticType); ok {
		return oparg.Simple(fn, false), nil
	}

	return oparg.NULL, nil
}

// ResolveUnaryOp is ResolveBinOp's analogue for unary operators (spec
// §4.6 "the analogous cascade uses the corresponding capability names").
func (d *Dispatcher) ResolveUnaryOp(ctx spyfunc.Context, op string, operand oparg.OpArg) (oparg.OpImpl, error) {
	cap, hasCap := objmodel.UnaryOpCapability(op)
	if isDynamic(d.U, operand.StaticType) {
		if fn, ok := d.dynamicOps[dynamicKey(hasCap, cap, op)]; ok {
			return oparg.Simple(fn, false), nil
		}
	}
	if hasCap {
		if fn, ok := operand.StaticType.Cap(cap); ok {
			impl, err := callCapability(ctx, fn, operand)
			if err != nil {
				return oparg.NULL, err
			}
			if !impl.IsNull() {
				impl.SingleDispatch = true
				return impl, nil
			}
		}
	}
	if fn, ok := d.lookupMultimethod(op, operand.StaticType, nil); ok {
		return oparg.Simple(fn, false), nil
	}
	return oparg.NULL, nil
}

// ResolveGetAttr resolves `obj.attr` (spec §4.6 rule 2: member fast
// path; rule 3: __GET_attr__ then __GETATTR__).
func (d *Dispatcher) ResolveGetAttr(ctx spyfunc.Context, obj oparg.OpArg, attr string) (oparg.OpImpl, error) {
	if isDynamic(d.U, obj.StaticType) {
		if fn, ok := d.dynamicOps[objmodel.CapGetAttr.String()]; ok {
			return oparg.Simple(fn, false), nil
		}
	}

	// Rule 2: member fast path.
	if m, ok := obj.StaticType.Member(attr); ok {
		return memberGetImpl(m), nil
	}

	// Rule 3: __GET_attr__, then __GETATTR__.
	if fn, ok := obj.StaticType.MemberGetter(attr); ok {
		impl, err := callCapability(ctx, fn, obj)
		if err != nil {
			return oparg.NULL, err
		}
		if !impl.IsNull() {
			impl.SingleDispatch = true
			return impl, nil
		}
	}
	if fn, ok := obj.StaticType.Cap(objmodel.CapGetAttr); ok {
		impl, err := callCapability(ctx, fn, obj)
		if err != nil {
			return oparg.NULL, err
		}
		if !impl.IsNull() {
			impl.SingleDispatch = true
			return impl, nil
		}
	}

	if fn, ok := d.lookupMultimethod("GETATTR", obj.StaticType, nil); ok {
		return oparg.Simple(fn, false), nil
	}
	return oparg.NULL, nil
}

// ResolveSetAttr is ResolveGetAttr's write-side analogue.
func (d *Dispatcher) ResolveSetAttr(ctx spyfunc.Context, obj oparg.OpArg, attr string, value oparg.OpArg) (oparg.OpImpl, error) {
	if isDynamic(d.U, obj.StaticType) {
		if fn, ok := d.dynamicOps[objmodel.CapSetAttr.String()]; ok {
			return oparg.Simple(fn, false), nil
		}
	}
	if m, ok := obj.StaticType.Member(attr); ok {
		return memberSetImpl(m), nil
	}
	if fn, ok := obj.StaticType.MemberSetter(attr); ok {
		impl, err := callCapability(ctx, fn, obj, value)
		if err != nil {
			return oparg.NULL, err
		}
		if !impl.IsNull() {
			impl.SingleDispatch = true
			return impl, nil
		}
	}
	if fn, ok := obj.StaticType.Cap(objmodel.CapSetAttr); ok {
		impl, err := callCapability(ctx, fn, obj, value)
		if err != nil {
			return oparg.NULL, err
		}
		if !impl.IsNull() {
			impl.SingleDispatch = true
			return impl, nil
		}
	}
	if fn, ok := d.lookupMultimethod("SETATTR", obj.StaticType, nil); ok {
		return oparg.Simple(fn, false), nil
	}
	return oparg.NULL, nil
}

// ResolveGetItem resolves `obj[index]` via op_GETITEM on L (spec §4.6
// rule 3 "for item access, op_GETITEM on L").
func (d *Dispatcher) ResolveGetItem(ctx spyfunc.Context, obj, index oparg.OpArg) (oparg.OpImpl, error) {
	if isDynamic(d.U, obj.StaticType) {
		if fn, ok := d.dynamicOps[objmodel.CapGetItem.String()]; ok {
			return oparg.Simple(fn, false), nil
		}
	}
	if fn, ok := obj.StaticType.Cap(objmodel.CapGetItem); ok {
		impl, err := callCapability(ctx, fn, obj, index)
		if err != nil {
			return oparg.NULL, err
		}
		if !impl.IsNull() {
			impl.SingleDispatch = true
			return impl, nil
		}
	}
	if fn, ok := d.lookupMultimethod("GETITEM", obj.StaticType, nil); ok {
		return oparg.Simple(fn, false), nil
	}
	return oparg.NULL, nil
}

// ResolveSetItem is ResolveGetItem's write-side analogue.
func (d *Dispatcher) ResolveSetItem(ctx spyfunc.Context, obj, index, value oparg.OpArg) (oparg.OpImpl, error) {
	if isDynamic(d.U, obj.StaticType) {
		if fn, ok := d.dynamicOps[objmodel.CapSetItem.String()]; ok {
			return oparg.Simple(fn, false), nil
		}
	}
	if fn, ok := obj.StaticType.Cap(objmodel.CapSetItem); ok {
		impl, err := callCapability(ctx, fn, obj, index, value)
		if err != nil {
			return oparg.NULL, err
		}
		if !impl.IsNull() {
			impl.SingleDispatch = true
			return impl, nil
		}
	}
	if fn, ok := d.lookupMultimethod("SETITEM", obj.StaticType, nil); ok {
		return oparg.Simple(fn, false), nil
	}
	return oparg.NULL, nil
}

// ResolveCall resolves `callee(args...)` via op_CALL on the callee's
// static type (spec §4.6 rule 3 "for call, op_CALL on L").
func (d *Dispatcher) ResolveCall(ctx spyfunc.Context, callee oparg.OpArg, args []oparg.OpArg) (oparg.OpImpl, error) {
	if isDynamic(d.U, callee.StaticType) {
		if fn, ok := d.dynamicOps[objmodel.CapCall.String()]; ok {
			return oparg.Simple(fn, false), nil
		}
	}
	if fn, ok := callee.StaticType.Cap(objmodel.CapCall); ok {
		capArgs := append([]oparg.OpArg{callee}, args...)
		impl, err := callCapability(ctx, fn, capArgs...)
		if err != nil {
			return oparg.NULL, err
		}
		if !impl.IsNull() {
			impl.SingleDispatch = true
			return impl, nil
		}
	}
	if fn, ok := d.lookupMultimethod("CALL", callee.StaticType, nil); ok {
		return oparg.Simple(fn, false), nil
	}
	return oparg.NULL, nil
}

// ResolveConvert resolves an implicit conversion of a value of type
// `from` to `to` via op_CONVERT on `from` (used by the Type Checker,
// spec §4.7 "if a conversion is needed and available via the
// dispatcher's conversion cascade").
func (d *Dispatcher) ResolveConvert(ctx spyfunc.Context, from oparg.OpArg, to *objmodel.WType) (oparg.OpImpl, error) {
	if fn, ok := from.StaticType.Cap(objmodel.CapConvert); ok {
		impl, err := callCapability(ctx, fn, from, oparg.NewBlue(d.U.Type, to, from.Loc))
		if err != nil {
			return oparg.NULL, err
		}
		if !impl.IsNull() {
			impl.SingleDispatch = true
			return impl, nil
		}
	}
	if fn, ok := d.lookupMultimethod("CONVERT", from.StaticType, to); ok {
		return oparg.Simple(fn, false), nil
	}
	return oparg.NULL, nil
}

// ResolveMetaGetItem resolves generic specialization syntax such as
// `list[i32]` via meta_op_GETITEM on L (spec §4.6 rule 3
// "for metaclass-level generics ... meta_op_GETITEM on L").
func (d *Dispatcher) ResolveMetaGetItem(ctx spyfunc.Context, generic, index oparg.OpArg) (oparg.OpImpl, error) {
	if fn, ok := generic.StaticType.Cap(objmodel.CapMetaGetItem); ok {
		impl, err := callCapability(ctx, fn, generic, index)
		if err != nil {
			return oparg.NULL, err
		}
		if !impl.IsNull() {
			impl.SingleDispatch = true
			return impl, nil
		}
	}
	return oparg.NULL, nil
}

func memberGetImpl(m *objmodel.Member) oparg.OpImpl {
	return oparg.OpImpl{Func: &memberAccessor{member: m}, SingleDispatch: true}
}

func memberSetImpl(m *objmodel.Member) oparg.OpImpl {
	return oparg.OpImpl{Func: &memberAccessor{member: m, write: true}, SingleDispatch: true}
}

// memberAccessor is a synthetic, non-callable W standing in for "read
// (or write) the member in its known storage slot" (spec §4.6 rule 2:
// "synthesize an OpImpl that reads/writes the member in the known
// storage slot with its declared type"). The Blue Evaluator and
// Redshift recognize this concrete type directly rather than invoking
// it as an ordinary function.
type memberAccessor struct {
	member *objmodel.Member
	write  bool
}

func (m *memberAccessor) WType() *objmodel.WType { return nil }
func (m *memberAccessor) String() string         { return "<member accessor>" }

// Member reports the slot a memberAccessor OpImpl addresses, and
// whether it is a write accessor, for callers that need to execute it
// directly (internal/blueeval, internal/redshift).
func Member(impl oparg.OpImpl) (member *objmodel.Member, isWrite, ok bool) {
	ma, isMA := impl.Func.(*memberAccessor)
	if !isMA {
		return nil, false, false
	}
	return ma.member, ma.write, true
}
