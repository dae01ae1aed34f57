package order

// resolveConflicts reconciles the sort values of entries with the cluster
// constraints collected on earlier ranks. Whenever a constraint says u must
// stay left of v but u's value is not smaller than v's, the two are merged
// into one entry whose value is their weighted mean. The result lists the
// surviving entries.
//
// This is the constrained barycenter method of Forster, "A Fast and Simple
// Heuristic for Constrained Two-Level Crossing Reduction".
func resolveConflicts(entries []*entry, cg *constraintGraph) []*entry {
	byID := make(map[string]*entry, len(entries))
	for _, e := range entries {
		byID[e.vs[0]] = e
	}
	for _, c := range cg.edges {
		u, w := byID[c.left], byID[c.right]
		if u == nil || w == nil {
			continue
		}
		w.indegree++
		u.out = append(u.out, w)
	}

	var sources []*entry
	for _, e := range entries {
		if e.indegree == 0 {
			sources = append(sources, e)
		}
	}

	var result []*entry
	for len(sources) > 0 {
		e := sources[len(sources)-1]
		sources = sources[:len(sources)-1]
		result = append(result, e)

		for i := len(e.in) - 1; i >= 0; i-- {
			u := e.in[i]
			if u.merged {
				continue
			}
			if !u.valued || !e.valued || u.value >= e.value {
				mergeEntries(e, u)
			}
		}
		for _, w := range e.out {
			w.in = append(w.in, e)
			w.indegree--
			if w.indegree == 0 {
				sources = append(sources, w)
			}
		}
	}

	live := result[:0]
	for _, e := range result {
		if !e.merged {
			live = append(live, e)
		}
	}
	return live
}

func mergeEntries(target, source *entry) {
	sum, weight := 0.0, 0.0
	if target.weight > 0 {
		sum += target.value * target.weight
		weight += target.weight
	}
	if source.weight > 0 {
		sum += source.value * source.weight
		weight += source.weight
	}
	target.vs = append(append([]string(nil), source.vs...), target.vs...)
	if weight > 0 {
		target.value, target.weight, target.valued = sum/weight, weight, true
	} else {
		target.value, target.weight, target.valued = 0, 0, false
	}
	target.i = min(source.i, target.i)
	source.merged = true
}
