package oparg

import (
	"github.com/spy-lang/spy/internal/fqn"
	"github.com/spy-lang/spy/internal/objmodel"
)

// capType is the dynamic type shared by every WOpArg/WOpImpl value.
// Capability functions (spec §3 "op_* capability functions themselves
// are blue: they consume OpArgs and return an OpImpl") are invoked
// through the same Context.Call protocol as any other blue function,
// so OpArg/OpImpl need to flow as ordinary W values; this internal
// type is never exposed to user-level dispatch and never appears in a
// Universe's public type lattice.
var capType = objmodel.NewType(fqn.Parse("spy.internal::opimpl_protocol"), nil, objmodel.StorageValue)

// WOpArg boxes an OpArg so it can be passed to a per-type capability
// function through the normal blue function-call mechanism.
type WOpArg struct{ Arg OpArg }

func (w *WOpArg) WType() *objmodel.WType { return capType }
func (w *WOpArg) String() string         { return "<OpArg>" }

// WOpImpl boxes an OpImpl so a capability function can return it
// through the normal blue function-call mechanism.
type WOpImpl struct{ Impl OpImpl }

func (w *WOpImpl) WType() *objmodel.WType { return capType }
func (w *WOpImpl) String() string         { return "<OpImpl>" }
