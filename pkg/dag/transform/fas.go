package transform

import (
	"container/list"

	"github.com/matzehuels/layered/pkg/dag"
)

type fasEntry struct {
	v       string
	in, out int
	elem    *list.Element
	bucket  *list.List
}

type fasState struct {
	entries map[string]*fasEntry
	// weights sums the weights of all edges between an ordered node pair.
	weights map[[2]string]int
	preds   map[string][]string
	succs   map[string][]string
	buckets []*list.List
	zeroIdx int
}

// greedyFAS finds a feedback arc set with the Eades-Lin-Smyth heuristic.
// Nodes sit in buckets keyed by out-weight minus in-weight; sinks and sources
// are peeled off for free, and otherwise the node with the largest surplus
// is removed, sacrificing its remaining in-edges.
func greedyFAS(g *dag.Graph) []*dag.Edge {
	if g.NodeCount() <= 1 {
		return nil
	}
	st := buildFASState(g)

	var cut [][2]string
	sinks, sources := st.buckets[0], st.buckets[len(st.buckets)-1]
	for len(st.entries) > 0 {
		for e := dequeue(sinks); e != nil; e = dequeue(sinks) {
			st.remove(e, false)
		}
		for e := dequeue(sources); e != nil; e = dequeue(sources) {
			st.remove(e, false)
		}
		if len(st.entries) == 0 {
			break
		}
		for i := len(st.buckets) - 2; i > 0; i-- {
			if e := dequeue(st.buckets[i]); e != nil {
				cut = append(cut, st.remove(e, true)...)
				break
			}
		}
	}

	var fas []*dag.Edge
	for _, pair := range cut {
		fas = append(fas, g.OutEdgesTo(pair[0], pair[1])...)
	}
	return fas
}

func buildFASState(g *dag.Graph) *fasState {
	st := &fasState{
		entries: make(map[string]*fasEntry),
		weights: make(map[[2]string]int),
		preds:   make(map[string][]string),
		succs:   make(map[string][]string),
	}
	for _, v := range g.NodeIDs() {
		st.entries[v] = &fasEntry{v: v}
	}

	maxIn, maxOut := 0, 0
	for _, e := range g.Edges() {
		// Zero-weight edges would make every node look like a sink.
		w := max(e.Label.Weight, 1)
		key := [2]string{e.V, e.W}
		if _, seen := st.weights[key]; !seen {
			st.preds[e.W] = append(st.preds[e.W], e.V)
			st.succs[e.V] = append(st.succs[e.V], e.W)
		}
		st.weights[key] += w
		src, dst := st.entries[e.V], st.entries[e.W]
		src.out += w
		dst.in += w
		maxOut = max(maxOut, src.out)
		maxIn = max(maxIn, dst.in)
	}

	st.buckets = make([]*list.List, maxOut+maxIn+3)
	for i := range st.buckets {
		st.buckets[i] = list.New()
	}
	st.zeroIdx = maxIn + 1
	for _, v := range g.NodeIDs() {
		st.assign(st.entries[v])
	}
	return st
}

// remove drops entry from the state, updating the buckets of its remaining
// neighbours. With collect set it returns the in-edges it dropped.
func (st *fasState) remove(entry *fasEntry, collect bool) [][2]string {
	var cut [][2]string
	for _, u := range st.preds[entry.v] {
		uEntry, ok := st.entries[u]
		if !ok {
			continue
		}
		if collect {
			cut = append(cut, [2]string{u, entry.v})
		}
		uEntry.out -= st.weights[[2]string{u, entry.v}]
		st.assign(uEntry)
	}
	for _, w := range st.succs[entry.v] {
		wEntry, ok := st.entries[w]
		if !ok {
			continue
		}
		wEntry.in -= st.weights[[2]string{entry.v, w}]
		st.assign(wEntry)
	}
	delete(st.entries, entry.v)
	return cut
}

func (st *fasState) assign(e *fasEntry) {
	if e.bucket != nil {
		e.bucket.Remove(e.elem)
	}
	switch {
	case e.out == 0:
		e.bucket = st.buckets[0]
	case e.in == 0:
		e.bucket = st.buckets[len(st.buckets)-1]
	default:
		e.bucket = st.buckets[e.out-e.in+st.zeroIdx]
	}
	e.elem = e.bucket.PushFront(e)
}

func dequeue(l *list.List) *fasEntry {
	back := l.Back()
	if back == nil {
		return nil
	}
	e := l.Remove(back).(*fasEntry)
	e.bucket, e.elem = nil, nil
	return e
}
