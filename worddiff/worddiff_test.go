package worddiff_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/fwojciec/diffpaint"
	"github.com/fwojciec/diffpaint/worddiff"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func op(kind diffpaint.EditKind, ms, me, ps, pe int) diffpaint.EditOp {
	return diffpaint.EditOp{Kind: kind, MinusStart: ms, MinusEnd: me, PlusStart: ps, PlusEnd: pe}
}

func TestCompute_ReplaceAfterEqual(t *testing.T) {
	t.Parallel()

	ops := worddiff.Compute([]string{"foo", "bar"}, []string{"foo", "baz"})

	want := []diffpaint.EditOp{
		op(diffpaint.Equal, 0, 1, 0, 1),
		op(diffpaint.Replace, 1, 2, 1, 2),
	}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Fatalf("ops mismatch (-want +got):\n%s", diff)
	}
}

func TestCompute_Identical(t *testing.T) {
	t.Parallel()

	ops := worddiff.Compute([]string{"a", "b", "c"}, []string{"a", "b", "c"})

	assert.Equal(t, []diffpaint.EditOp{op(diffpaint.Equal, 0, 3, 0, 3)}, ops)
}

func TestCompute_Empty(t *testing.T) {
	t.Parallel()

	t.Run("both empty", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, worddiff.Compute(nil, nil))
	})

	t.Run("minus empty", func(t *testing.T) {
		t.Parallel()
		ops := worddiff.Compute(nil, []string{"x", "y"})
		assert.Equal(t, []diffpaint.EditOp{op(diffpaint.Insert, 0, 0, 0, 2)}, ops)
	})

	t.Run("plus empty", func(t *testing.T) {
		t.Parallel()
		ops := worddiff.Compute([]string{"x", "y"}, nil)
		assert.Equal(t, []diffpaint.EditOp{op(diffpaint.Delete, 0, 2, 0, 0)}, ops)
	})
}

func TestCompute_PureInsertion(t *testing.T) {
	t.Parallel()

	d := worddiff.NewDiffer(worddiff.ModeWord, 2)
	script := d.Diff("function calculate(x, y) {", "function calculate(x, y, z) {")

	require.Len(t, script.Ops, 3)
	assert.Equal(t, diffpaint.Equal, script.Ops[0].Kind)
	assert.Equal(t, diffpaint.Insert, script.Ops[1].Kind)
	assert.Equal(t, diffpaint.Equal, script.Ops[2].Kind)

	start, end := worddiff.ByteRange(script.Plus, script.Ops[1].PlusStart, script.Ops[1].PlusEnd)
	assert.Equal(t, ", z", "function calculate(x, y, z) {"[start:end])
}

func TestCompute_PartitionProperty(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	alphabet := []string{"a", "b", "c", "d", " "}
	gen := func() []string {
		n := rng.Intn(12)
		out := make([]string, n)
		for i := range out {
			out[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return out
	}

	for i := 0; i < 500; i++ {
		minus, plus := gen(), gen()
		ops := worddiff.Compute(minus, plus)

		var gotMinus, gotPlus []string
		mi, pi := 0, 0
		changed := 0
		for j, o := range ops {
			require.Equal(t, mi, o.MinusStart, "minus gap before op %d", j)
			require.Equal(t, pi, o.PlusStart, "plus gap before op %d", j)
			gotMinus = append(gotMinus, minus[o.MinusStart:o.MinusEnd]...)
			gotPlus = append(gotPlus, plus[o.PlusStart:o.PlusEnd]...)
			mi, pi = o.MinusEnd, o.PlusEnd

			switch o.Kind {
			case diffpaint.Equal:
				require.Equal(t, minus[o.MinusStart:o.MinusEnd], plus[o.PlusStart:o.PlusEnd])
			case diffpaint.Insert:
				require.Zero(t, o.MinusLen())
			case diffpaint.Delete:
				require.Zero(t, o.PlusLen())
			case diffpaint.Replace:
				require.Positive(t, o.MinusLen())
				require.Positive(t, o.PlusLen())
			}
			if o.Kind != diffpaint.Equal {
				changed += o.MinusLen() + o.PlusLen()
			}
			if j > 0 {
				require.NotEqual(t, ops[j-1].Kind == diffpaint.Equal, o.Kind == diffpaint.Equal,
					"ops must alternate between equal and change runs")
			}
		}
		assert.Equal(t, len(minus), mi)
		assert.Equal(t, len(plus), pi)
		assert.Equal(t, strings.Join(minus, ""), strings.Join(gotMinus, ""))
		assert.Equal(t, strings.Join(plus, ""), strings.Join(gotPlus, ""))
		assert.Equal(t, len(minus)+len(plus)-2*lcs(minus, plus), changed, "script must be minimal")
	}
}

// lcs is the textbook dynamic program, used as an oracle for minimality.
func lcs(a, b []string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] > cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func TestCoalesce(t *testing.T) {
	t.Parallel()

	t.Run("absorbs short interior equal run", func(t *testing.T) {
		t.Parallel()

		ops := []diffpaint.EditOp{
			op(diffpaint.Replace, 0, 1, 0, 1),
			op(diffpaint.Equal, 1, 2, 1, 2),
			op(diffpaint.Replace, 2, 3, 2, 3),
		}

		got := worddiff.Coalesce(ops, 2)

		assert.Equal(t, []diffpaint.EditOp{op(diffpaint.Replace, 0, 3, 0, 3)}, got)
	})

	t.Run("keeps long equal runs", func(t *testing.T) {
		t.Parallel()

		ops := []diffpaint.EditOp{
			op(diffpaint.Delete, 0, 1, 0, 0),
			op(diffpaint.Equal, 1, 4, 0, 3),
			op(diffpaint.Insert, 4, 4, 3, 4),
		}

		assert.Equal(t, ops, worddiff.Coalesce(ops, 2))
	})

	t.Run("keeps equal runs at either end", func(t *testing.T) {
		t.Parallel()

		ops := []diffpaint.EditOp{
			op(diffpaint.Equal, 0, 1, 0, 1),
			op(diffpaint.Replace, 1, 2, 1, 2),
			op(diffpaint.Equal, 2, 3, 2, 3),
		}

		assert.Equal(t, ops, worddiff.Coalesce(ops, 5))
	})

	t.Run("one-sided neighbours become a replace", func(t *testing.T) {
		t.Parallel()

		ops := []diffpaint.EditOp{
			op(diffpaint.Delete, 0, 2, 0, 0),
			op(diffpaint.Equal, 2, 3, 0, 1),
			op(diffpaint.Delete, 3, 4, 1, 1),
		}

		assert.Equal(t, []diffpaint.EditOp{op(diffpaint.Replace, 0, 4, 0, 1)}, worddiff.Coalesce(ops, 2))
	})
}

func TestCoalesce_Idempotent(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	alphabet := []string{"x", "y", " ", "."}
	gen := func() []string {
		out := make([]string, rng.Intn(20))
		for i := range out {
			out[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return out
	}

	for i := 0; i < 500; i++ {
		ops := worddiff.Compute(gen(), gen())
		for _, minEqual := range []int{0, 1, 2, 3, 5} {
			once := worddiff.Coalesce(ops, minEqual)
			twice := worddiff.Coalesce(once, minEqual)
			if diff := cmp.Diff(once, twice); diff != "" {
				t.Fatalf("coalesce not idempotent for minEqual=%d (-once +twice):\n%s", minEqual, diff)
			}
		}
	}
}

func TestDiffer_Diff(t *testing.T) {
	t.Parallel()

	t.Run("single word change", func(t *testing.T) {
		t.Parallel()

		d := worddiff.NewDiffer(worddiff.ModeWord, 2)
		script := d.Diff("hello world", "hello universe")

		require.Len(t, script.Ops, 2)
		assert.Equal(t, diffpaint.Equal, script.Ops[0].Kind)
		assert.Equal(t, diffpaint.Replace, script.Ops[1].Kind)
		start, end := worddiff.ByteRange(script.Minus, script.Ops[1].MinusStart, script.Ops[1].MinusEnd)
		assert.Equal(t, "world", "hello world"[start:end])
		assert.InDelta(t, float64(len("world")+len("universe"))/float64(len("hello world")+len("hello universe")),
			script.Distance, 1e-9)
	})

	t.Run("separated word changes coalesce", func(t *testing.T) {
		t.Parallel()

		d := worddiff.NewDiffer(worddiff.ModeWord, 2)
		script := d.Diff("foo bar", "baz qux")

		assert.Equal(t, []diffpaint.EditOp{op(diffpaint.Replace, 0, 3, 0, 3)}, script.Ops)
		assert.InDelta(t, 12.0/14.0, script.Distance, 1e-9, "distance ignores coalescing")
	})

	t.Run("identical lines", func(t *testing.T) {
		t.Parallel()

		d := worddiff.NewDiffer(worddiff.ModeWord, 2)
		script := d.Diff("same line", "same line")

		require.Len(t, script.Ops, 1)
		assert.Equal(t, diffpaint.Equal, script.Ops[0].Kind)
		assert.Zero(t, script.Distance)
	})

	t.Run("nothing in common", func(t *testing.T) {
		t.Parallel()

		d := worddiff.NewDiffer(worddiff.ModeWord, 2)
		script := d.Diff("abc", "xyz")

		assert.Equal(t, []diffpaint.EditOp{op(diffpaint.Replace, 0, 1, 0, 1)}, script.Ops)
		assert.Equal(t, 1.0, script.Distance)
	})

	t.Run("character mode keeps clusters whole", func(t *testing.T) {
		t.Parallel()

		d := worddiff.NewDiffer(worddiff.ModeChar, 0)
		script := d.Diff("café!", "cafe!")

		var changed []string
		for _, o := range script.Ops {
			if o.Kind == diffpaint.Equal {
				continue
			}
			s, e := worddiff.ByteRange(script.Minus, o.MinusStart, o.MinusEnd)
			changed = append(changed, "café!"[s:e])
		}
		assert.Equal(t, []string{"é"}, changed)
	})
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	m, err := worddiff.ParseMode("char")
	require.NoError(t, err)
	assert.Equal(t, worddiff.ModeChar, m)

	m, err = worddiff.ParseMode("word")
	require.NoError(t, err)
	assert.Equal(t, worddiff.ModeWord, m)

	_, err = worddiff.ParseMode("line")
	assert.Error(t, err)
}
