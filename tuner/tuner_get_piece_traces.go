package tuner

import (
	"math/bits"

	"github.com/kaiesamurai/mattock/engine"
	gm "github.com/kaiesamurai/mattock/goosemg"
)

// getTraces decomposes a position's evaluation into the sparse list of
// (parameter index, white-relative coefficient) pairs generalEvaluation
// would have summed, one TraceTerm per occurrence. runTuner
// folds these back against the current parameter vector to reproduce (and
// differentiate) the evaluation being tuned.
func getTraces(pos *gm.Position, idx *Indexes) []TraceTerm {
	trace := make([]TraceTerm, 0, 32)
	getPSQTTraces(&trace, pos, idx)
	getPieceValueTraces(&trace, pos, idx)
	getPassedPawnTraces(&trace, pos, idx)
	getBishopPairTrace(&trace, pos, idx)
	getPawnStructureTraces(&trace, pos, idx)
	getRookBehindPassedTrace(&trace, pos, idx)
	getMinorBlocksPassedTrace(&trace, pos, idx)
	getTempoTrace(&trace, pos, idx)
	return trace
}

func sideSign(c gm.Color) float64 {
	if c == gm.White {
		return 1
	}
	return -1
}

// getPSQTTraces covers knight..king, matching generalEvaluation's per-square
// loop exactly: pawns are not traced here, their square bonus lives inside
// the pawn-cache structural terms below.
func getPSQTTraces(trace *[]TraceTerm, pos *gm.Position, idx *Indexes) {
	for _, c := range [2]gm.Color{gm.White, gm.Black} {
		sign := sideSign(c)
		for pt := gm.Knight; pt <= gm.King; pt++ {
			bb := pos.PieceBB(gm.MakePiece(c, pt))
			for bb != 0 {
				s := gm.Square(bits.TrailingZeros64(bb))
				bb &= bb - 1
				slot := psqtSlot(*idx, pt, s.Relative(c))
				*trace = append(*trace, TraceTerm{Index: slot, MG: sign, EG: sign})
			}
		}
	}
}

func getPieceValueTraces(trace *[]TraceTerm, pos *gm.Position, idx *Indexes) {
	for pt := gm.Pawn; pt <= gm.Queen; pt++ {
		w := bits.OnesCount64(pos.PieceBB(gm.MakePiece(gm.White, pt)))
		b := bits.OnesCount64(pos.PieceBB(gm.MakePiece(gm.Black, pt)))
		if diff := w - b; diff != 0 {
			slot := idx.PieceValues + uint16(int(pt)-int(gm.Pawn))
			*trace = append(*trace, TraceTerm{Index: slot, MG: float64(diff), EG: float64(diff)})
		}
	}
}

func getPassedPawnTraces(trace *[]TraceTerm, pos *gm.Position, idx *Indexes) {
	f := engine.ProbePawnStructure(pos)
	for _, c := range [2]gm.Color{gm.White, gm.Black} {
		sign := sideSign(c)
		bb := f.Passed[c]
		for bb != 0 {
			s := gm.Square(bits.TrailingZeros64(bb))
			bb &= bb - 1
			slot := idx.PassedPawnPSQT + uint16(s.Relative(c))
			*trace = append(*trace, TraceTerm{Index: slot, MG: sign, EG: sign})
		}
	}
}

func getBishopPairTrace(trace *[]TraceTerm, pos *gm.Position, idx *Indexes) {
	w := bits.OnesCount64(pos.PieceBB(gm.MakePiece(gm.White, gm.Bishop)))
	b := bits.OnesCount64(pos.PieceBB(gm.MakePiece(gm.Black, gm.Bishop)))
	diff := 0.0
	if w >= 2 {
		diff++
	}
	if b >= 2 {
		diff--
	}
	if diff != 0 {
		*trace = append(*trace, TraceTerm{Index: idx.BishopPair, MG: diff, EG: diff})
	}
}

// getPawnStructureTraces covers isolated/doubled/backward: flat scalar
// penalties, so the trace coefficient is simply (black count - white count),
// since each is subtracted from its own side's score.
func getPawnStructureTraces(trace *[]TraceTerm, pos *gm.Position, idx *Indexes) {
	f := engine.ProbePawnStructure(pos)

	addCountDiff := func(slot uint16, bb [2]uint64) {
		diff := bits.OnesCount64(bb[gm.Black]) - bits.OnesCount64(bb[gm.White])
		if diff != 0 {
			*trace = append(*trace, TraceTerm{Index: slot, MG: float64(diff), EG: float64(diff)})
		}
	}
	addCountDiff(idx.IsolatedPawns, f.Isolated)
	addCountDiff(idx.DoubledPawns, f.Doubled)
	addCountDiff(idx.BackwardPawns, f.Backward)
}

// behindMask and stepForward duplicate the orientation rules generalEvaluation
// uses (§4.3's rook-behind-passed / minor-blocks-passed bonuses) so the trace
// can count qualifying occurrences without reaching into engine internals.
func behindMask(s gm.Square, c gm.Color) uint64 {
	var bb uint64
	file, rank := s.File(), s.Rank()
	if c == gm.White {
		for r := 0; r < rank; r++ {
			bb |= uint64(1) << uint(r*8+file)
		}
	} else {
		for r := rank + 1; r < 8; r++ {
			bb |= uint64(1) << uint(r*8+file)
		}
	}
	return bb
}

func stepForward(s gm.Square, c gm.Color) gm.Square {
	if c == gm.White {
		if s.Rank() == 7 {
			return gm.NoSquare
		}
		return s + 8
	}
	if s.Rank() == 0 {
		return gm.NoSquare
	}
	return s - 8
}

func getRookBehindPassedTrace(trace *[]TraceTerm, pos *gm.Position, idx *Indexes) {
	f := engine.ProbePawnStructure(pos)
	count := 0
	for _, c := range [2]gm.Color{gm.White, gm.Black} {
		rooks := pos.PieceBB(gm.MakePiece(c, gm.Rook))
		passed := f.Passed[c]
		for passed != 0 {
			s := gm.Square(bits.TrailingZeros64(passed))
			passed &= passed - 1
			if rooks&behindMask(s, c)&fileMask(s.File()) != 0 {
				if c == gm.White {
					count++
				} else {
					count--
				}
			}
		}
	}
	if count != 0 {
		*trace = append(*trace, TraceTerm{Index: idx.RookBehindPassed, MG: float64(count), EG: float64(count)})
	}
}

func getMinorBlocksPassedTrace(trace *[]TraceTerm, pos *gm.Position, idx *Indexes) {
	f := engine.ProbePawnStructure(pos)
	count := 0
	for _, c := range [2]gm.Color{gm.White, gm.Black} {
		them := c.Opposite()
		minors := pos.PieceBB(gm.MakePiece(them, gm.Knight)) | pos.PieceBB(gm.MakePiece(them, gm.Bishop))
		passed := f.Passed[c]
		for passed != 0 {
			s := gm.Square(bits.TrailingZeros64(passed))
			passed &= passed - 1
			stop := stepForward(s, c)
			if stop != gm.NoSquare && minors&(uint64(1)<<uint(stop)) != 0 {
				if c == gm.White {
					count++
				} else {
					count--
				}
			}
		}
	}
	if count != 0 {
		*trace = append(*trace, TraceTerm{Index: idx.MinorBlocksPassed, MG: float64(count), EG: float64(count)})
	}
}

func getTempoTrace(trace *[]TraceTerm, pos *gm.Position, idx *Indexes) {
	sign := sideSign(pos.Side())
	*trace = append(*trace, TraceTerm{Index: idx.Tempo, MG: sign, EG: sign})
}

func fileMask(file int) uint64 {
	var bb uint64
	for r := 0; r < 8; r++ {
		bb |= uint64(1) << uint(r*8+file)
	}
	return bb
}
