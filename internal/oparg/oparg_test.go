package oparg

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spy-lang/spy/internal/ast"
	"github.com/spy-lang/spy/internal/objmodel"
)

func TestIsBlue(t *testing.T) {
	u := objmodel.NewUniverse()
	static := New(u.I32, ast.Pos{Line: 1, Col: 2})
	require.False(t, static.IsBlue())

	blue := NewBlue(u.I32, u.WrapInt(7), ast.Pos{Line: 1, Col: 2})
	require.True(t, blue.IsBlue())
}

func TestNullIsNull(t *testing.T) {
	require.True(t, NULL.IsNull())
}

func TestSimpleIsNotNull(t *testing.T) {
	u := objmodel.NewUniverse()
	impl := Simple(u.WNone, true)
	require.False(t, impl.IsNull())
	require.Nil(t, impl.Mapping)
}

func TestResolveArgsSimpleIsIdentity(t *testing.T) {
	u := objmodel.NewUniverse()
	impl := Simple(u.WNone, false)
	args := []objmodel.W{u.WrapInt(1), u.WrapInt(2)}
	require.Equal(t, args, ResolveArgs(impl, args))
}

func TestResolveArgsGeneralReordersAndCaptures(t *testing.T) {
	u := objmodel.NewUniverse()
	captured := u.WrapInt(99)
	impl := General(u.WNone, []ArgMapping{
		FromCallArg(1),
		FromCapturedValue(captured),
		FromCallArg(0),
	}, false)
	args := []objmodel.W{u.WrapInt(1), u.WrapInt(2)}
	got := ResolveArgs(impl, args)
	require.Equal(t, []objmodel.W{args[1], captured, args[0]}, got)
}

func TestEqualByIdentityOfFuncAndMapping(t *testing.T) {
	u := objmodel.NewUniverse()
	a := Simple(u.WNone, false)
	b := Simple(u.WNone, false)
	require.True(t, a.Equal(b))

	c := Simple(u.WrapInt(1), false)
	require.False(t, a.Equal(c))

	d := General(u.WNone, []ArgMapping{FromCallArg(0)}, false)
	e := General(u.WNone, []ArgMapping{FromCallArg(1)}, false)
	require.False(t, d.Equal(e))
}

func TestEqualNullOnlyEqualsNull(t *testing.T) {
	u := objmodel.NewUniverse()
	require.True(t, NULL.Equal(NULL))
	require.False(t, NULL.Equal(Simple(u.WNone, false)))
}
