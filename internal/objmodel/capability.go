package objmodel

import "github.com/spy-lang/spy/internal/config"

// Capability is a tagged enum of the dunder-style operator-capability
// slots a W_Type can fill in (spec §3, Design Note §9: "Dynamic
// dispatch on capability names should be implemented as a tagged enum
// of capability-kinds keyed off a per-type mapping, rather than
// reflective attribute lookup on host objects").
type Capability int

const (
	CapNone Capability = iota
	CapGetAttr
	CapSetAttr
	CapGetItem
	CapSetItem
	CapCall
	CapConvert
	CapMetaGetItem
	CapEq
	CapNe
	CapLt
	CapLe
	CapGt
	CapGe
	CapAdd
	CapSub
	CapMul
	CapDiv
	CapMod
	CapMatMul
	CapNeg
	CapPos
	CapInvert
	CapNot
)

var capNames = map[Capability]string{
	CapGetAttr:     config.CapGetAttrName,
	CapSetAttr:     config.CapSetAttrName,
	CapGetItem:     config.CapGetItemName,
	CapSetItem:     config.CapSetItemName,
	CapCall:        config.CapCallName,
	CapConvert:     config.CapConvertName,
	CapMetaGetItem: config.MetaCapGetItemName,
	CapEq:          "op_EQ",
	CapNe:          "op_NE",
	CapLt:          "op_LT",
	CapLe:          "op_LE",
	CapGt:          "op_GT",
	CapGe:          "op_GE",
	CapAdd:         "op_ADD",
	CapSub:         "op_SUB",
	CapMul:         "op_MUL",
	CapDiv:         "op_DIV",
	CapMod:         "op_MOD",
	CapMatMul:      "op_MATMUL",
	CapNeg:         "op_NEG",
	CapPos:         "op_POS",
	CapInvert:      "op_INVERT",
	CapNot:         "op_NOT",
}

// String returns the capability function name (spec §3 lists
// `__GETATTR__`, `op_CALL`, `meta_op_GETITEM`, `op_EQ`, ... as examples
// of this exact vocabulary). The dispatcher keys its dynamic-operator
// registrations (RegisterDynamic) by this name.
func (c Capability) String() string {
	if n, ok := capNames[c]; ok {
		return n
	}
	return "op_UNKNOWN"
}

// BinOpCapability maps a binary operator symbol (as it appears in the
// AST, e.g. "+") to the capability a left operand's type must fill in
// to handle it (dispatch cascade rule 3, spec §4.6).
func BinOpCapability(op string) (Capability, bool) {
	switch op {
	case "+":
		return CapAdd, true
	case "-":
		return CapSub, true
	case "*":
		return CapMul, true
	case "/":
		return CapDiv, true
	case "%":
		return CapMod, true
	case "@":
		return CapMatMul, true
	case "==":
		return CapEq, true
	case "!=":
		return CapNe, true
	case "<":
		return CapLt, true
	case "<=":
		return CapLe, true
	case ">":
		return CapGt, true
	case ">=":
		return CapGe, true
	default:
		return CapNone, false
	}
}

// UnaryOpCapability is BinOpCapability's analogue for unary operators.
func UnaryOpCapability(op string) (Capability, bool) {
	switch op {
	case "+":
		return CapPos, true
	case "-":
		return CapNeg, true
	case "~":
		return CapInvert, true
	case "not":
		return CapNot, true
	default:
		return CapNone, false
	}
}

// MemberGetterName is the per-attribute capability name `__GET_x__`
// consulted before the generic `__GETATTR__` fallback (spec §4.6 rule 3).
func MemberGetterName(attr string) string {
	return config.CapMemberGetPrefix + attr + config.CapMemberGetSuffix
}

// MemberSetterName is the per-attribute analogue of MemberGetterName.
func MemberSetterName(attr string) string {
	return config.CapMemberSetPrefix + attr + config.CapMemberSetSuffix
}
