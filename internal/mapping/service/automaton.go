package service

// automaton is a byte-level Aho-Corasick automaton over a fixed pattern set.
// Built once, read-only afterwards; a scan is O(len(text) + matches).
type automaton struct {
	next []map[byte]int
	fail []int
	out  [][]int // pattern indices terminating at this node
}

type match struct {
	pattern int // index into the pattern set
	start   int // byte offset of the occurrence
}

func buildAutomaton(patterns []string) *automaton {
	a := &automaton{
		next: []map[byte]int{{}},
		fail: []int{0},
		out:  [][]int{nil},
	}

	for i, p := range patterns {
		node := 0
		for j := 0; j < len(p); j++ {
			c := p[j]
			nxt, ok := a.next[node][c]
			if !ok {
				nxt = len(a.next)
				a.next = append(a.next, map[byte]int{})
				a.fail = append(a.fail, 0)
				a.out = append(a.out, nil)
				a.next[node][c] = nxt
			}
			node = nxt
		}
		a.out[node] = append(a.out[node], i)
	}

	// fail links via BFS; outputs of the fail target are merged in,
	// so every node reports all patterns ending at its position
	queue := make([]int, 0, len(a.next))
	for _, n := range a.next[0] {
		queue = append(queue, n)
	}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for c, n := range a.next[node] {
			queue = append(queue, n)
			f := a.fail[node]
			for f != 0 {
				if _, ok := a.next[f][c]; ok {
					break
				}
				f = a.fail[f]
			}
			if t, ok := a.next[f][c]; ok && t != n {
				a.fail[n] = t
			}
			a.out[n] = append(a.out[n], a.out[a.fail[n]]...)
		}
	}
	return a
}

// scan reports every occurrence of every pattern in text.
// patLens[i] must be len(patterns[i]) from the build call.
func (a *automaton) scan(text string, patLens []int) []match {
	var found []match
	node := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		for node != 0 {
			if _, ok := a.next[node][c]; ok {
				break
			}
			node = a.fail[node]
		}
		if n, ok := a.next[node][c]; ok {
			node = n
		}
		for _, p := range a.out[node] {
			found = append(found, match{pattern: p, start: i + 1 - patLens[p]})
		}
	}
	return found
}
