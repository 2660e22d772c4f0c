// Package config holds process-wide toggles and naming constants shared
// across the compiler. It deliberately stays a bag of exported
// vars/consts rather than a parsed config struct: the handful of knobs
// here (test-mode normalization, file extensions, capability names)
// don't warrant a loader of their own.
package config

// Version is the current spy version.
var Version = "0.1.0"

const SourceFileExt = ".spy"

// IsTestMode is a process-wide test-mode flag, set once at process
// startup. No package in this repository reads it: FQN and diagnostic
// formatting are the same whether it is set or not.
var IsTestMode = false

// Root type names. objmodel.NewUniverse spells these FQNs out
// literally, and the dispatcher's "either static type is dynamic" fast
// path (spec §4.6 rule 1) compares against Universe.Dynamic, so neither
// reads these constants.
const (
	ObjectTypeName  = "object"
	TypeTypeName    = "type"
	NoneTypeName    = "NoneType"
	DynamicTypeName = "dynamic"
)

// Capability function name templates, spelled out here once so the
// dispatcher, the object model and the blue evaluator agree on them
// (spec §3 "dunder-style capability functions").
const (
	CapGetAttrName     = "__GETATTR__"
	CapSetAttrName     = "__SETATTR__"
	CapMemberGetPrefix = "__GET_"
	CapMemberGetSuffix = "__"
	CapMemberSetPrefix = "__SET_"
	CapMemberSetSuffix = "__"
	CapGetItemName     = "op_GETITEM"
	CapSetItemName     = "op_SETITEM"
	CapCallName        = "op_CALL"
	CapConvertName     = "op_CONVERT"
	MetaCapGetItemName = "meta_op_GETITEM"
)
