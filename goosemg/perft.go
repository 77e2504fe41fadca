package goosemg

// Perft counts leaf nodes (move sequences) from the position at the given
// depth, a per-depth buffer pool avoiding an allocation per node.
func Perft(p *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	bufs := make([]MoveList, depth+1)
	return perftRec(p, depth, bufs)
}

func perftRec(p *Position, depth int, bufs []MoveList) uint64 {
	if depth == 0 {
		return 1
	}
	list := &bufs[depth]
	list.Reset()
	p.Generate(list, ModeAll)

	var nodes uint64
	for i := 0; i < list.Len(); i++ {
		m := list.At(i).Move()
		if !p.Make(m) {
			continue
		}
		nodes += perftRec(p, depth-1, bufs)
		p.Unmake(m)
	}
	return nodes
}

// PerftDivide returns, for each legal root move, the leaf-node count reachable
// from it at depth-1 plies beyond, for cross-checking a perft mismatch.
func PerftDivide(p *Position, depth int) map[Move]uint64 {
	result := make(map[Move]uint64)
	if depth <= 0 {
		return result
	}
	var list MoveList
	p.Generate(&list, ModeAll)
	for i := 0; i < list.Len(); i++ {
		m := list.At(i).Move()
		if !p.Make(m) {
			continue
		}
		result[m] = Perft(p, depth-1)
		p.Unmake(m)
	}
	return result
}
