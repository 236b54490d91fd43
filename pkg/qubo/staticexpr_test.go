package qubo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func num(n float64) *StaticExpr[Str, Int, float64] { return SNumber[Str, Int, float64](n) }
func ph(p Str) *StaticExpr[Str, Int, float64]       { return SPlaceholder[Str, Int, float64](UserPlaceholder[Str, Int](p)) }

func TestStaticExprSimplifyFoldsConstants(t *testing.T) {
	e := SAdd(num(1), num(2), num(3))
	got := e.Simplify()
	assert.Equal(t, staticNumber, got.kind)
	assert.Equal(t, 6.0, got.num)
}

func TestStaticExprSimplifyIsIdempotent(t *testing.T) {
	e := SAdd(ph("x"), SMul(num(2), num(3)), SAdd(num(1), ph("y")))
	once := e.Simplify()
	twice := once.Simplify()
	assert.Equal(t, once.kind, twice.kind)
	assert.Equal(t, once.num, twice.num)
	assert.Equal(t, len(once.children), len(twice.children))
}

func TestStaticExprSimplifyMulByZero(t *testing.T) {
	e := SMul(ph("x"), num(0), ph("y"))
	got := e.Simplify()
	assert.Equal(t, staticNumber, got.kind)
	assert.Equal(t, 0.0, got.num)
}

func TestStaticExprSimplifySingletonCollapses(t *testing.T) {
	e := SAdd(ph("x"))
	got := e.Simplify()
	assert.Equal(t, staticPlaceholder, got.kind)
}

func TestStaticExprIsPositive(t *testing.T) {
	assert.True(t, *num(5).IsPositive())
	assert.False(t, *num(-5).IsPositive())
	assert.True(t, *ph("x").IsPositive())

	mixed := SAdd(num(1), num(-1))
	assert.Nil(t, mixed.IsPositive())

	allNeg := SAdd(num(-1), num(-2))
	assert.False(t, *allNeg.IsPositive())

	mulIndeterminate := SMul(num(1), SAdd(num(1), num(-1)))
	assert.Nil(t, mulIndeterminate.IsPositive())
}

func TestStaticExprFeedDictAndCalculate(t *testing.T) {
	e := SAdd(ph("x"), SMul(num(2), ph("y")))
	fed := e.FeedDict(map[Placeholder[Str, Int]]float64{
		UserPlaceholder[Str, Int]("x"): 3,
		UserPlaceholder[Str, Int]("y"): 4,
	})
	v := fed.Calculate(func(Placeholder[Str, Int]) float64 {
		t.Helper()
		panic("should not be called: all placeholders resolved")
	})
	assert.Equal(t, 11.0, v)
}

func TestStaticExprGetPlaceholders(t *testing.T) {
	e := SAdd(ph("x"), SMul(ph("y"), num(2)))
	got := e.GetPlaceholders()
	assert.Len(t, got, 2)
	assert.Contains(t, got, UserPlaceholder[Str, Int]("x"))
	assert.Contains(t, got, UserPlaceholder[Str, Int]("y"))
}
