package worddiff

import "github.com/fwojciec/diffpaint"

// Coalesce absorbs short Equal runs into the change runs around them.
//
// An Equal op covering fewer than minEqual tokens that sits between two
// change ops is merged together with both neighbours into one Replace op,
// so that an incidental shared character does not fragment a highlighted
// word. Equal runs at either end of the script are kept. The input must
// alternate Equal and change ops, as Compute returns them; under that
// condition Coalesce is idempotent.
func Coalesce(ops []diffpaint.EditOp, minEqual int) []diffpaint.EditOp {
	if minEqual <= 1 || len(ops) < 3 {
		return ops
	}

	out := make([]diffpaint.EditOp, 0, len(ops))
	for i := 0; i < len(ops); i++ {
		op := ops[i]
		if op.Kind == diffpaint.Equal && op.MinusLen() < minEqual &&
			len(out) > 0 && out[len(out)-1].Kind != diffpaint.Equal &&
			i+1 < len(ops) && ops[i+1].Kind != diffpaint.Equal {
			last := &out[len(out)-1]
			next := ops[i+1]
			last.MinusEnd = next.MinusEnd
			last.PlusEnd = next.PlusEnd
			last.Kind = diffpaint.Replace
			i++
			continue
		}
		out = append(out, op)
	}
	return out
}
