package worddiff

import "github.com/fwojciec/diffpaint"

// Compute returns the shortest edit script turning the minus tokens into the plus tokens.
//
// The script alternates Equal runs with change runs. A change run that both
// removes and adds tokens is a single Replace op; a one-sided change run is a
// Delete or an Insert. The ops partition both token sequences exactly.
func Compute(minus, plus []string) []diffpaint.EditOp {
	n, m := len(minus), len(plus)

	// Common prefix and suffix never need the O(N·D) search.
	prefix := 0
	for prefix < n && prefix < m && minus[prefix] == plus[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < n-prefix && suffix < m-prefix && minus[n-1-suffix] == plus[m-1-suffix] {
		suffix++
	}

	var ops []diffpaint.EditOp
	ops = appendOp(ops, diffpaint.EditOp{Kind: diffpaint.Equal, MinusEnd: prefix, PlusEnd: prefix})

	x, y := prefix, prefix
	for _, s := range shortestPath(minus[prefix:n-suffix], plus[prefix:m-suffix]) {
		op := diffpaint.EditOp{MinusStart: x, PlusStart: y}
		switch s {
		case stepEqual:
			op.Kind = diffpaint.Equal
			x++
			y++
		case stepDelete:
			op.Kind = diffpaint.Delete
			x++
		case stepInsert:
			op.Kind = diffpaint.Insert
			y++
		}
		op.MinusEnd, op.PlusEnd = x, y
		ops = appendOp(ops, op)
	}

	ops = appendOp(ops, diffpaint.EditOp{
		Kind:       diffpaint.Equal,
		MinusStart: n - suffix, MinusEnd: n,
		PlusStart: m - suffix, PlusEnd: m,
	})
	return ops
}

// appendOp appends op, merging it into the last op when both are Equal or both are changes.
// Ops must be contiguous with the last op.
func appendOp(ops []diffpaint.EditOp, op diffpaint.EditOp) []diffpaint.EditOp {
	if op.MinusLen() == 0 && op.PlusLen() == 0 {
		return ops
	}
	if n := len(ops); n > 0 {
		last := &ops[n-1]
		if (last.Kind == diffpaint.Equal) == (op.Kind == diffpaint.Equal) {
			last.MinusEnd = op.MinusEnd
			last.PlusEnd = op.PlusEnd
			if last.Kind != diffpaint.Equal {
				last.Kind = changeKind(last.MinusLen(), last.PlusLen())
			}
			return ops
		}
	}
	return append(ops, op)
}

func changeKind(minusLen, plusLen int) diffpaint.EditKind {
	switch {
	case minusLen > 0 && plusLen > 0:
		return diffpaint.Replace
	case minusLen > 0:
		return diffpaint.Delete
	default:
		return diffpaint.Insert
	}
}

type step uint8

const (
	stepEqual step = iota
	stepDelete
	stepInsert
)

// shortestPath runs the greedy Myers search and returns the edit path from (0,0) to (len(a),len(b)).
//
// The V array of each round is snapshotted into one flat slice so that the
// path can be recovered by walking the rounds backwards.
func shortestPath(a, b []string) []step {
	n, m := len(a), len(b)
	if n == 0 && m == 0 {
		return nil
	}

	max := n + m
	width := 2*max + 3
	off := max + 1
	v := make([]int, width)
	var trace []int

	final := -1
search:
	for d := 0; d <= max; d++ {
		trace = append(trace, v...)
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[off+k-1] < v[off+k+1]) {
				x = v[off+k+1]
			} else {
				x = v[off+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[off+k] = x
			if x >= n && y >= m {
				final = d
				break search
			}
		}
	}

	path := make([]step, 0, max)
	x, y := n, m
	for d := final; d >= 0; d-- {
		vd := trace[d*width : (d+1)*width]
		k := x - y
		var prevK int
		if k == -d || (k != d && vd[off+k-1] < vd[off+k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := vd[off+prevK]
		prevY := prevX - prevK
		for x > prevX && y > prevY {
			path = append(path, stepEqual)
			x--
			y--
		}
		if d > 0 {
			if x == prevX {
				path = append(path, stepInsert)
			} else {
				path = append(path, stepDelete)
			}
		}
		x, y = prevX, prevY
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
