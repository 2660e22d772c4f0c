// Package fqn implements the Fully-Qualified Name: the sole, stable
// identity of every global (type, function, module-level variable) in
// the object model (spec §3 "Fully-Qualified Names", §4.2).
//
// Grounded on github.com/hugovk/spy's spy/fqn.py and its test suite
// (original_source/spy/tests/test_fqn.py): an FQN is a dotted module
// path plus a sequence of "::"-separated parts, each of which may carry
// bracketed qualifiers that are themselves FQNs (for specialized
// generics such as `list[i32]` or `dict[str, unsafe::ptr[mymod::Point]]`).
package fqn

import (
	"fmt"
	"strings"
)

// Part is one "::"-separated segment of an FQN, optionally parameterized
// by a list of qualifier FQNs (e.g. `b[x, y]` -> Part{Symbol: "b", Quals: [x, y]}).
type Part struct {
	Symbol string
	Quals  []FQN
}

func (p Part) String() string {
	if len(p.Quals) == 0 {
		return p.Symbol
	}
	quals := make([]string, len(p.Quals))
	for i, q := range p.Quals {
		quals[i] = q.String()
	}
	return fmt.Sprintf("%s[%s]", p.Symbol, strings.Join(quals, ", "))
}

func (p Part) Equal(o Part) bool {
	if p.Symbol != o.Symbol || len(p.Quals) != len(o.Quals) {
		return false
	}
	for i := range p.Quals {
		if !p.Quals[i].Equal(o.Quals[i]) {
			return false
		}
	}
	return true
}

// FQN is an immutable, hashable, printable identifier.
//
// Invariant (spec §3): any two globals with the same FQN are the same
// object; the VM/registry machinery relies on this to memoize
// specializations (spec §8 "Specialization memoization").
type FQN struct {
	Parts  []Part
	Suffix string // anonymous disambiguator without the '#', e.g. "0" (printed "#0"); "" means none
}

// Parse parses a textual FQN such as "a.b.c::xxx" or "a::b[x, y]::c".
// The first part is the dotted module path; subsequent parts are
// "::"-separated and may carry bracketed qualifiers.
func Parse(s string) FQN {
	base, suffix := splitSuffix(s)
	rawParts := splitTopLevel(base, "::")
	parts := make([]Part, 0, len(rawParts))
	for _, raw := range rawParts {
		parts = append(parts, parsePart(raw))
	}
	return FQN{Parts: parts, Suffix: suffix}
}

func splitSuffix(s string) (string, string) {
	// The suffix, if present, is the trailing "#k" attached to the whole
	// name (added by Make), never inside a bracketed qualifier.
	depth := 0
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ']':
			depth++
		case '[':
			depth--
		case '#':
			if depth == 0 {
				return s[:i], s[i+1:]
			}
		}
	}
	return s, ""
}

func parsePart(raw string) Part {
	open := strings.IndexByte(raw, '[')
	if open < 0 || raw[len(raw)-1] != ']' {
		return Part{Symbol: raw}
	}
	symbol := raw[:open]
	inner := raw[open+1 : len(raw)-1]
	quals := []FQN{}
	for _, q := range splitTopLevel(inner, ",") {
		quals = append(quals, Parse(strings.TrimSpace(q)))
	}
	return Part{Symbol: symbol, Quals: quals}
}

// splitTopLevel splits s on sep, but only at bracket-depth 0, so that
// qualifiers containing their own "::" or "," are not split apart.
func splitTopLevel(s, sep string) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); {
		switch {
		case s[i] == '[':
			depth++
			i++
		case s[i] == ']':
			depth--
			i++
		case depth == 0 && strings.HasPrefix(s[i:], sep):
			out = append(out, s[start:i])
			i += len(sep)
			start = i
		default:
			i++
		}
	}
	out = append(out, s[start:])
	return out
}

// New is a convenience constructor equivalent to Parse.
func New(s string) FQN { return Parse(s) }

// Fullname is the canonical textual form, round-trippable through Parse.
func (f FQN) Fullname() string {
	segs := make([]string, len(f.Parts))
	for i, p := range f.Parts {
		segs[i] = p.String()
	}
	s := strings.Join(segs, "::")
	if f.Suffix != "" {
		s += "#" + f.Suffix
	}
	return s
}

func (f FQN) String() string { return f.Fullname() }

func (f FQN) GoString() string { return fmt.Sprintf("FQN(%q)", f.Fullname()) }

// Modname is the dotted module path: the symbol of the first part.
func (f FQN) Modname() string {
	if len(f.Parts) == 0 {
		return ""
	}
	return f.Parts[0].Symbol
}

// Symbol is the last part's bare symbol name (no qualifiers, no suffix).
func (f FQN) Symbol() string {
	if len(f.Parts) == 0 {
		return ""
	}
	return f.Parts[len(f.Parts)-1].Symbol
}

// Equal reports structural equality. Two FQNs parsed from the same
// textual form always compare Equal (round-trip property, spec §8).
func (f FQN) Equal(o FQN) bool {
	if f.Suffix != o.Suffix || len(f.Parts) != len(o.Parts) {
		return false
	}
	for i := range f.Parts {
		if !f.Parts[i].Equal(o.Parts[i]) {
			return false
		}
	}
	return true
}

// Hash is a stable hash of Fullname(), usable as a map key surrogate;
// FQN holds slices and so is not comparable, so callers that need FQN
// as a literal map key key on Fullname() or on this hash instead.
func (f FQN) Hash() uint64 {
	var h uint64 = 1469598103934665603 // FNV offset basis
	for _, b := range []byte(f.Fullname()) {
		h ^= uint64(b)
		h *= 1099511628211 // FNV prime
	}
	return h
}

// Join appends a child part to f, producing e.g. a.join("b", nil) ->
// "a::b", or a.join("c", [i32]) -> "a::c[i32]".
func (f FQN) Join(symbol string, quals ...FQN) FQN {
	parts := make([]Part, len(f.Parts), len(f.Parts)+1)
	copy(parts, f.Parts)
	parts = append(parts, Part{Symbol: symbol, Quals: quals})
	return FQN{Parts: parts}
}

// JoinStr is like Join but accepts qualifiers as raw textual FQNs, for
// callers that have a name rather than an already-parsed FQN (mirrors
// spy's `a.join("e", ["mod::y"])`).
func (f FQN) JoinStr(symbol string, quals ...string) FQN {
	parsed := make([]FQN, len(quals))
	for i, q := range quals {
		parsed[i] = Parse(q)
	}
	return f.Join(symbol, parsed...)
}

// Make builds an FQN from base with an explicit disambiguating suffix.
// An empty suffix means "no suffix" (the base FQN printed as-is).
func Make(base string, suffix string) FQN {
	f := Parse(base)
	f.Suffix = suffix
	return f
}

// CName mangles f into a legal C identifier per spec §6: dots -> '_',
// "::" -> '$', and each bracketed qualifier list -> "__...._" joined by
// '_', with an empty suffix omitting the trailing '$'.
func (f FQN) CName() string {
	var b strings.Builder
	b.WriteString("spy_")
	for i, p := range f.Parts {
		if i > 0 {
			b.WriteByte('$')
		}
		b.WriteString(strings.ReplaceAll(p.Symbol, ".", "_"))
		if len(p.Quals) > 0 {
			b.WriteString("__")
			for j, q := range p.Quals {
				if j > 0 {
					b.WriteByte('_')
				}
				b.WriteString(qualCName(q))
			}
		}
	}
	if f.Suffix != "" {
		b.WriteByte('$')
		b.WriteString(f.Suffix)
	}
	return b.String()
}

// qualCName mangles a qualifier FQN the way it appears nested inside a
// bracket list: same rules, recursively, joined with '_' instead of '$'
// at the top separator so that e.g. `Ptr[x, y]` mangles to "Ptr__x_y".
func qualCName(f FQN) string {
	var b strings.Builder
	for i, p := range f.Parts {
		if i > 0 {
			b.WriteByte('_')
		}
		b.WriteString(strings.ReplaceAll(p.Symbol, ".", "_"))
		if len(p.Quals) > 0 {
			b.WriteString("__")
			for j, q := range p.Quals {
				if j > 0 {
					b.WriteByte('_')
				}
				b.WriteString(qualCName(q))
			}
		}
	}
	if f.Suffix != "" {
		b.WriteByte('_')
		b.WriteString(f.Suffix)
	}
	return b.String()
}
