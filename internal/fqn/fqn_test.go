package fqn

import "testing"

func TestInitFullname(t *testing.T) {
	a := Parse("a.b.c::xxx")
	if a.Fullname() != "a.b.c::xxx" {
		t.Fatalf("got %q", a.Fullname())
	}
	if a.Modname() != "a.b.c" {
		t.Fatalf("modname = %q", a.Modname())
	}
	if len(a.Parts) != 2 || a.Parts[0].Symbol != "a.b.c" || a.Parts[1].Symbol != "xxx" {
		t.Fatalf("parts = %+v", a.Parts)
	}
}

func TestManyFQNs(t *testing.T) {
	if Parse("aaa").String() != "aaa" {
		t.Fatal("aaa round-trip")
	}
	if Parse("aaa::bbb::ccc").String() != "aaa::bbb::ccc" {
		t.Fatal("aaa::bbb::ccc round-trip")
	}
}

func TestHashEq(t *testing.T) {
	a := Parse("aaa::bbb")
	b := Parse("aaa::bbb")
	if !a.Equal(b) {
		t.Fatal("expected equal")
	}
	if a.Hash() != b.Hash() {
		t.Fatal("expected equal hash")
	}
}

func TestQualifiers(t *testing.T) {
	a := Parse("a::b[x, y]::c")
	if a.Fullname() != "a::b[x, y]::c" {
		t.Fatalf("got %q", a.Fullname())
	}
	if a.Modname() != "a" {
		t.Fatalf("modname = %q", a.Modname())
	}
	if len(a.Parts) != 3 || len(a.Parts[1].Quals) != 2 {
		t.Fatalf("parts = %+v", a.Parts)
	}
}

func TestNestedQualifiers(t *testing.T) {
	s := "mod::dict[str, unsafe::ptr[mymod::Point]]"
	a := Parse(s)
	if a.Fullname() != s {
		t.Fatalf("got %q", a.Fullname())
	}
}

func TestJoin(t *testing.T) {
	a := Parse("a")
	b := a.Join("b")
	if b.Fullname() != "a::b" {
		t.Fatalf("got %q", b.Fullname())
	}
	c := b.JoinStr("c", "i32")
	if c.Fullname() != "a::b::c[i32]" {
		t.Fatalf("got %q", c.Fullname())
	}
	d := a.Join("d", Parse("mod::x"))
	if d.Fullname() != "a::d[mod::x]" {
		t.Fatalf("got %q", d.Fullname())
	}
	e := a.JoinStr("e", "mod::y")
	if e.Fullname() != "a::e[mod::y]" {
		t.Fatalf("got %q", e.Fullname())
	}
}

func TestMake(t *testing.T) {
	a := Make("aaa::bbb", "0")
	if a.Fullname() != "aaa::bbb#0" {
		t.Fatalf("got %q", a.Fullname())
	}
}

func TestMakeCName(t *testing.T) {
	a := Make("aaa::bbb", "0")
	if a.String() != "aaa::bbb#0" {
		t.Fatalf("got %q", a.String())
	}
	if a.CName() != "spy_aaa$bbb$0" {
		t.Fatalf("got %q", a.CName())
	}
	b := Make("aaa::bbb", "")
	if b.String() != "aaa::bbb" {
		t.Fatalf("got %q", b.String())
	}
	if b.CName() != "spy_aaa$bbb" {
		t.Fatalf("got %q", b.CName())
	}
}

func TestMakeHashEq(t *testing.T) {
	a := Make("aaa::bbb", "0")
	b := Make("aaa::bbb", "0")
	if !a.Equal(b) || a.Hash() != b.Hash() {
		t.Fatal("expected equal")
	}
}

func TestCNameDotted(t *testing.T) {
	a := Make("a.b.c::xxx", "0")
	if a.CName() != "spy_a_b_c$xxx$0" {
		t.Fatalf("got %q", a.CName())
	}
}

func TestQualifiersCName(t *testing.T) {
	a := Make("a::b[x, y]::c", "0")
	if a.CName() != "spy_a$b__x_y$c$0" {
		t.Fatalf("got %q", a.CName())
	}
}

func TestNestedQualifiersCName(t *testing.T) {
	a := Make("a::list[Ptr[x, y]]::c", "0")
	if a.CName() != "spy_a$list__Ptr__x_y$c$0" {
		t.Fatalf("got %q", a.CName())
	}
}

// TestRoundTrip is the §8 "FQN round-trip" testable property: for all
// FQNs f, Parse(f.String()) == f, and CName matches the identifier
// grammar.
func TestRoundTrip(t *testing.T) {
	cases := []string{
		"aaa",
		"aaa::bbb::ccc",
		"a.b.c::xxx",
		"a::b[x, y]::c",
		"mod::dict[str, unsafe::ptr[mymod::Point]]",
	}
	for _, s := range cases {
		f := Parse(s)
		g := Parse(f.String())
		if !f.Equal(g) {
			t.Fatalf("round-trip failed for %q: %q != %q", s, f.String(), g.String())
		}
	}
}

func TestCNameMatchesIdentifierGrammar(t *testing.T) {
	names := []FQN{
		Make("a::b[x, y]::c", "0"),
		Make("aaa::bbb", ""),
		Parse("simple"),
	}
	for _, f := range names {
		c := f.CName()
		if len(c) == 0 {
			t.Fatal("empty c name")
		}
		for i, r := range c {
			ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r == '$' || (i > 0 && r >= '0' && r <= '9')
			if !ok {
				t.Fatalf("c name %q contains illegal char %q at %d", c, r, i)
			}
		}
	}
}
