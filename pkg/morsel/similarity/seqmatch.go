package similarity

import "sort"

// Ratio is an order-sensitive alignment ratio over two rune sequences:
// 2*M/T where M is the total length of the matching blocks and T the
// combined length. Equal strings score 1, disjoint strings 0.
func Ratio(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)

	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}

	matched := 0
	for _, m := range matchingBlocks(ra, rb) {
		matched += m.size
	}
	return 2.0 * float64(matched) / float64(total)
}

type matchBlock struct {
	a, b, size int
}

// matchingBlocks finds non-overlapping matching blocks by recursively
// splitting around the longest match, earliest-first on ties.
func matchingBlocks(a, b []rune) []matchBlock {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	type span struct {
		alo, ahi, blo, bhi int
	}
	queue := []span{{0, len(a), 0, len(b)}}

	var blocks []matchBlock
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		m := longestMatch(a, b2j, s.alo, s.ahi, s.blo, s.bhi)
		if m.size == 0 {
			continue
		}
		blocks = append(blocks, m)
		if s.alo < m.a && s.blo < m.b {
			queue = append(queue, span{s.alo, m.a, s.blo, m.b})
		}
		if m.a+m.size < s.ahi && m.b+m.size < s.bhi {
			queue = append(queue, span{m.a + m.size, s.ahi, m.b + m.size, s.bhi})
		}
	}

	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].a != blocks[j].a {
			return blocks[i].a < blocks[j].a
		}
		return blocks[i].b < blocks[j].b
	})
	return blocks
}

// longestMatch finds the longest block where a[alo:ahi] and b[blo:bhi]
// agree, via per-row extension lengths keyed by end position in b.
func longestMatch(a []rune, b2j map[rune][]int, alo, ahi, blo, bhi int) matchBlock {
	besti, bestj, bestsize := alo, blo, 0
	j2len := make(map[int]int)

	for i := alo; i < ahi; i++ {
		next := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}

	return matchBlock{a: besti, b: bestj, size: bestsize}
}
