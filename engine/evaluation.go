package engine

import (
	"math/bits"

	gm "github.com/kaiesamurai/mattock/goosemg"
)

// pieceCounts returns, for color c, the number of knights, bishops, rooks,
// queens and pawns on the board.
func pieceCounts(pos *gm.Position, c gm.Color) (knights, bishops, rooks, queens, pawns int) {
	knights = bits.OnesCount64(pos.PieceBB(gm.MakePiece(c, gm.Knight)))
	bishops = bits.OnesCount64(pos.PieceBB(gm.MakePiece(c, gm.Bishop)))
	rooks = bits.OnesCount64(pos.PieceBB(gm.MakePiece(c, gm.Rook)))
	queens = bits.OnesCount64(pos.PieceBB(gm.MakePiece(c, gm.Queen)))
	pawns = bits.OnesCount64(pos.PieceBB(gm.MakePiece(c, gm.Pawn)))
	return
}

// nonPawnMaterial sums the centipawn middlegame value of every piece except
// pawns and the king.
func nonPawnMaterial(pos *gm.Position, c gm.Color) int {
	n, b, r, q, _ := pieceCounts(pos, c)
	return n*PieceValueMG[gm.Knight] + b*PieceValueMG[gm.Bishop] + r*PieceValueMG[gm.Rook] + q*PieceValueMG[gm.Queen]
}

// phase returns the game-phase weight (0 = no pieces, TotalPhase = all pieces
// present) summed over both sides' non-pawn pieces.
func phase(pos *gm.Position) int {
	total := 0
	for _, c := range [2]gm.Color{gm.White, gm.Black} {
		n, b, r, q, _ := pieceCounts(pos, c)
		total += n*KnightPhase + b*BishopPhase + r*RookPhase + q*QueenPhase
	}
	if total > TotalPhase {
		total = TotalPhase
	}
	return total
}

// collapse linearly interpolates a (middlegame, endgame) pair by the current
// phase weight, clamped to [0, TotalPhase].
func collapse(mg, eg, ph int) int {
	if ph < 0 {
		ph = 0
	}
	if ph > TotalPhase {
		ph = TotalPhase
	}
	return (mg*ph + eg*(TotalPhase-ph)) / TotalPhase
}

// Evaluate is the static evaluator (§4.3): endgame specializations are tried
// first, falling through to the general PST + pawn-cache + bonus evaluation.
// The result is always from the perspective of the side to move.
func Evaluate(pos *gm.Position) int {
	wNonPawn := nonPawnMaterial(pos, gm.White)
	bNonPawn := nonPawnMaterial(pos, gm.Black)

	var score int
	switch {
	case wNonPawn == 0 && bNonPawn == 0:
		score = pawnEndgameEvaluation(pos)
	case isDrawish(pos, wNonPawn, bNonPawn):
		score = 0
	case wNonPawn == 0 || bNonPawn == 0:
		score = kxkEvaluation(pos, wNonPawn, bNonPawn)
	default:
		score = generalEvaluation(pos)
	}

	if pos.Side() == gm.Black {
		score = -score
	}
	score += TempoBonus
	return score
}

// pawnEndgameEvaluation handles the case where neither side has any non-pawn
// material: PST-endgame subtotals plus the passed-pawn/king-tropism terms
// already folded into the pawn cache, no general bonuses apply.
func pawnEndgameEvaluation(pos *gm.Position) int {
	e := probePawnCache(pos)
	score := e.eg[gm.White] - e.eg[gm.Black]
	score += kingPawnTropism(pos, gm.White, e) - kingPawnTropism(pos, gm.Black, e)
	return score
}

// kingPawnTropism rewards a king standing close to its own passed pawns:
// 2·(7 − king distance to the pawn) per passed pawn.
func kingPawnTropism(pos *gm.Position, c gm.Color, e *pawnCacheEntry) int {
	ks := pos.KingSquare(c)
	passed := e.passed[c]
	bonus := 0
	for passed != 0 {
		s := gm.Square(bits.TrailingZeros64(passed))
		passed &= passed - 1
		d := kingDistance(ks, s)
		bonus += (7 - d) * 2
	}
	return bonus
}

func kingDistance(a, b gm.Square) int {
	df := abs(a.File() - b.File())
	dr := abs(a.Rank() - b.Rank())
	if df > dr {
		return df
	}
	return dr
}

// isDrawish recognizes the classic insufficient-material configurations
// (§4.3): no pawns on board, total non-pawn material on both sides small
// enough that no side can realistically force a win.
func isDrawish(pos *gm.Position, wNonPawn, bNonPawn int) bool {
	_, _, _, _, wp := pieceCounts(pos, gm.White)
	_, _, _, _, bp := pieceCounts(pos, gm.Black)
	if wp != 0 || bp != 0 {
		return false
	}
	if wNonPawn+bNonPawn > PieceValueMG[gm.Queen] {
		return false
	}
	wn, wb, wr, wq, _ := pieceCounts(pos, gm.White)
	bn, bb, br, bq, _ := pieceCounts(pos, gm.Black)
	wMinors, bMinors := wn+wb, bn+bb

	switch {
	case wq == 0 && bq == 0 && wr == 0 && br == 0:
		// KK, KK-minor, KK-2minor: nothing to promote, nobody can break through.
		// Two minors against a bare king are drawish only as two knights; KBNK
		// and KBBK fall through to kxkEvaluation.
		switch {
		case bMinors == 0 && wMinors == 2:
			return wn == 2
		case wMinors == 0 && bMinors == 2:
			return bn == 2
		}
		return wMinors <= 2 && bMinors <= 2
	case wq+bq == 0 && wr+br == 1 && wMinors+bMinors == 1 && (wr == 1) == (bMinors == 1):
		// lone rook vs a single minor piece.
		return true
	case wb == 1 && bb == 1 && wn == 0 && bn == 0 && wr+br+wq+bq == 0:
		return sameColorBishops(pos)
	}
	return false
}

func sameColorBishops(pos *gm.Position) bool {
	wb := pos.PieceBB(gm.MakePiece(gm.White, gm.Bishop))
	bb := pos.PieceBB(gm.MakePiece(gm.Black, gm.Bishop))
	if wb == 0 || bb == 0 {
		return false
	}
	wSq := gm.Square(bits.TrailingZeros64(wb))
	bSq := gm.Square(bits.TrailingZeros64(bb))
	return squareColor(wSq) == squareColor(bSq)
}

func squareColor(s gm.Square) int { return (s.File() + s.Rank()) & 1 }

// kxkEvaluation handles the case where one side has zero non-pawn material:
// push the lone king toward the corner (or, for KBNK, toward the bishop's
// corner specifically) and add a large sure-win bonus oriented toward the
// stronger side.
func kxkEvaluation(pos *gm.Position, wNonPawn, bNonPawn int) int {
	strong, weak := gm.White, gm.Black
	strongMaterial := wNonPawn
	if bNonPawn > wNonPawn {
		strong, weak = gm.Black, gm.White
		strongMaterial = bNonPawn
	}

	const sureWinBonus = 2000
	weakKing := pos.KingSquare(weak)
	strongKing := pos.KingSquare(strong)

	var pushScore int
	n, b, r, q, _ := pieceCounts(pos, strong)
	if n == 1 && b == 1 && r == 0 && q == 0 {
		bishopBB := pos.PieceBB(gm.MakePiece(strong, gm.Bishop))
		bSq := gm.Square(bits.TrailingZeros64(bishopBB))
		if squareColor(bSq) == 1 {
			pushScore = bishopCornerDistanceLight[weakKing]
		} else {
			pushScore = bishopCornerDistanceDark[weakKing]
		}
	} else {
		pushScore = cornerDistance[weakKing]
	}

	closeness := 14 - kingDistance(strongKing, weakKing)
	score := sureWinBonus + strongMaterial + pushScore + closeness*10
	if strong == gm.Black {
		score = -score
	}
	return score
}

// generalEvaluation is the default case (§4.3 step 2): PST + pawn-cache
// subtotal + bishop pair + rook-behind-passed-pawn + minor-blocks-passed-pawn,
// collapsed across the game phase.
func generalEvaluation(pos *gm.Position) int {
	var mg, eg [2]int

	for c := gm.Black; c <= gm.White; c++ {
		for pt := gm.Knight; pt <= gm.King; pt++ {
			bb := pos.PieceBB(gm.MakePiece(c, pt))
			for bb != 0 {
				s := gm.Square(bits.TrailingZeros64(bb))
				bb &= bb - 1
				rs := s.Relative(c)
				mg[c] += PieceValueMG[pt] + PSQT_MG[pt][rs]
				eg[c] += PieceValueEG[pt] + PSQT_EG[pt][rs]
			}
		}
	}

	e := probePawnCache(pos)
	for c := gm.Black; c <= gm.White; c++ {
		mg[c] += PieceValueMG[gm.Pawn]*bits.OnesCount64(pos.PieceBB(gm.MakePiece(c, gm.Pawn))) + e.mg[c]
		eg[c] += PieceValueEG[gm.Pawn]*bits.OnesCount64(pos.PieceBB(gm.MakePiece(c, gm.Pawn))) + e.eg[c]

		if bits.OnesCount64(pos.PieceBB(gm.MakePiece(c, gm.Bishop))) >= 2 {
			mg[c] += BishopPairBonusMG
			eg[c] += BishopPairBonusEG
		}

		rookMG, rookEG := rookBehindPassedPawn(pos, c, e)
		mg[c] += rookMG
		eg[c] += rookEG

		minorMG, minorEG := minorBlocksPassedPawn(pos, c, e)
		mg[c] += minorMG
		eg[c] += minorEG
	}

	ph := phase(pos)
	return collapse(mg[gm.White]-mg[gm.Black], eg[gm.White]-eg[gm.Black], ph)
}

// rookBehindPassedPawn rewards a rook standing on the same file behind one of
// its own passed pawns, from that pawn's perspective (i.e. toward own side).
func rookBehindPassedPawn(pos *gm.Position, c gm.Color, e *pawnCacheEntry) (mg, eg int) {
	rooks := pos.PieceBB(gm.MakePiece(c, gm.Rook))
	passed := e.passed[c]
	for passed != 0 {
		s := gm.Square(bits.TrailingZeros64(passed))
		passed &= passed - 1
		if onlyFile[s.File()]&rooks&behindMask(s, c) != 0 {
			mg += RookBehindPassedMG
			eg += RookBehindPassedEG
		}
	}
	return
}

// behindMask returns s's file, restricted to squares behind s (toward c's own
// back rank).
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

// minorBlocksPassedPawn penalizes an opponent's minor piece sitting directly
// in front of one of c's passed pawns, which is a structural plus for c.
func minorBlocksPassedPawn(pos *gm.Position, c gm.Color, e *pawnCacheEntry) (mg, eg int) {
	them := c.Opposite()
	passed := e.passed[c]
	minors := pos.PieceBB(gm.MakePiece(them, gm.Knight)) | pos.PieceBB(gm.MakePiece(them, gm.Bishop))
	for passed != 0 {
		s := gm.Square(bits.TrailingZeros64(passed))
		passed &= passed - 1
		stop := stepForward(s, c)
		if stop != gm.NoSquare && minors&(uint64(1)<<uint(stop)) != 0 {
			mg += MinorBlocksPassedMG
			eg += MinorBlocksPassedEG
		}
	}
	return
}
