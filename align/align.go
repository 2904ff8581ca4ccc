// Package align pairs the removed and added lines of a change block.
package align

import (
	"github.com/fwojciec/diffpaint"
	"github.com/fwojciec/diffpaint/worddiff"
)

// Options configures an alignment.
type Options struct {
	// Threshold is the dissimilarity G. Lines at distance G or more are never paired.
	Threshold float64
	// MaxLines is the alignment ceiling: blocks with more minus plus plus lines
	// are not aligned. Zero means no ceiling.
	MaxLines int
	// Opaque, if set, reports lines that are not text and are never paired by
	// Lines. minus selects the side i indexes.
	Opaque func(minus bool, i int) bool
}

// Result is the outcome of aligning one change block.
type Result struct {
	Pairs         []diffpaint.LinePair // Ordered by minus index, non-crossing
	UnpairedMinus []int
	UnpairedPlus  []int
	Overflow      bool // The block exceeded MaxLines and was left unpaired
}

type move uint8

const (
	moveMatch move = iota
	moveSkipMinus
	moveSkipPlus
)

// Align computes an order-preserving optimal pairing of m minus lines with n plus lines.
//
// It is a global alignment over the two sequences: pairing lines i and j costs
// distance(i, j), leaving a line unpaired costs G/2, so a pair is only worth
// taking when the lines are closer than G. Ties favour leaving lines unpaired.
func Align(m, n int, distance func(i, j int) float64, opts Options) Result {
	if opts.MaxLines > 0 && m+n > opts.MaxLines {
		return unpaired(m, n, true)
	}
	if m == 0 || n == 0 {
		return unpaired(m, n, false)
	}

	gap := opts.Threshold / 2
	stride := n + 1
	cost := make([]float64, (m+1)*stride)
	moves := make([]move, (m+1)*stride)
	dist := make([]float64, m*n)

	for j := 1; j <= n; j++ {
		cost[j] = float64(j) * gap
		moves[j] = moveSkipPlus
	}
	for i := 1; i <= m; i++ {
		cost[i*stride] = float64(i) * gap
		moves[i*stride] = moveSkipMinus
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			d := distance(i-1, j-1)
			dist[(i-1)*n+j-1] = d

			best, mv := cost[(i-1)*stride+j]+gap, moveSkipMinus
			if c := cost[i*stride+j-1] + gap; c < best {
				best, mv = c, moveSkipPlus
			}
			if c := cost[(i-1)*stride+j-1] + d; c < best {
				best, mv = c, moveMatch
			}
			cost[i*stride+j] = best
			moves[i*stride+j] = mv
		}
	}

	// Trace back from the bottom-right corner.
	var res Result
	i, j := m, n
	for i > 0 || j > 0 {
		switch moves[i*stride+j] {
		case moveMatch:
			d := dist[(i-1)*n+j-1]
			if d < opts.Threshold {
				res.Pairs = append(res.Pairs, diffpaint.LinePair{Minus: i - 1, Plus: j - 1, Distance: d})
			} else {
				res.UnpairedMinus = append(res.UnpairedMinus, i-1)
				res.UnpairedPlus = append(res.UnpairedPlus, j-1)
			}
			i--
			j--
		case moveSkipMinus:
			res.UnpairedMinus = append(res.UnpairedMinus, i-1)
			i--
		case moveSkipPlus:
			res.UnpairedPlus = append(res.UnpairedPlus, j-1)
			j--
		}
	}

	reversePairs(res.Pairs)
	reverseInts(res.UnpairedMinus)
	reverseInts(res.UnpairedPlus)
	return res
}

// Lines aligns minus and plus lines using the differ's token edit distance.
// Pairs whose length difference alone puts them at distance G or more skip
// the edit script. Opaque lines are at distance 1 from every line.
func Lines(minus, plus []string, differ *worddiff.Differ, opts Options) Result {
	return Align(len(minus), len(plus), func(i, j int) float64 {
		if opts.Opaque != nil && (opts.Opaque(true, i) || opts.Opaque(false, j)) {
			return 1
		}
		if lower := LengthBound(minus[i], plus[j]); lower >= opts.Threshold {
			return lower
		}
		return differ.Diff(minus[i], plus[j]).Distance
	}, opts)
}

// LengthBound returns a lower bound of the edit distance of two lines: equal
// tokens cover as many bytes on both sides, so at least the difference in
// length is changed.
func LengthBound(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 0
	}
	diff := len(a) - len(b)
	if diff < 0 {
		diff = -diff
	}
	return float64(diff) / float64(total)
}

func unpaired(m, n int, overflow bool) Result {
	res := Result{Overflow: overflow}
	for i := 0; i < m; i++ {
		res.UnpairedMinus = append(res.UnpairedMinus, i)
	}
	for j := 0; j < n; j++ {
		res.UnpairedPlus = append(res.UnpairedPlus, j)
	}
	return res
}

func reversePairs(s []diffpaint.LinePair) {
	for l, r := 0, len(s)-1; l < r; l, r = l+1, r-1 {
		s[l], s[r] = s[r], s[l]
	}
}

func reverseInts(s []int) {
	for l, r := 0, len(s)-1; l < r; l, r = l+1, r-1 {
		s[l], s[r] = s[r], s[l]
	}
}
