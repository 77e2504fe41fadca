package engine

import (
	"fmt"
	"math/bits"

	gm "github.com/kaiesamurai/mattock/goosemg"
)

// MaxDepth bounds every per-ply array in the search (killers).
const MaxDepth = 100

// hasMinorOrMajorPiece reports each side's count of knights/bishops/rooks/
// queens, used by the search driver to decide whether null-move pruning is
// safe (it is unsound with only pawns and a king left, zugzwang territory).
func hasMinorOrMajorPiece(pos *gm.Position) (wCount, bCount int) {
	w := pos.PieceBB(gm.MakePiece(gm.White, gm.Knight)) | pos.PieceBB(gm.MakePiece(gm.White, gm.Bishop)) |
		pos.PieceBB(gm.MakePiece(gm.White, gm.Rook)) | pos.PieceBB(gm.MakePiece(gm.White, gm.Queen))
	b := pos.PieceBB(gm.MakePiece(gm.Black, gm.Knight)) | pos.PieceBB(gm.MakePiece(gm.Black, gm.Bishop)) |
		pos.PieceBB(gm.MakePiece(gm.Black, gm.Rook)) | pos.PieceBB(gm.MakePiece(gm.Black, gm.Queen))
	return bits.OnesCount64(w), bits.OnesCount64(b)
}

func getPVLineString(pvLine PVLine) (theMoves string) {
	for _, move := range pvLine.Moves {
		theMoves += " "
		theMoves += move.String()
	}
	return theMoves
}

// getMateOrCPScore renders a score as UCI-style "mate N" or "cp N".
func getMateOrCPScore(score int) string {
	mateValue := int(MaxScore)
	mateThreshold := int(Checkmate)

	if score >= mateThreshold {
		pliesToMate := mateValue - score
		if pliesToMate < 0 {
			pliesToMate = 0
		}
		mateInN := (pliesToMate + 1) / 2
		return fmt.Sprintf("mate %d", mateInN)
	} else if score <= -mateThreshold {
		pliesToMate := mateValue + score
		if pliesToMate < 0 {
			pliesToMate = 0
		}
		mateInN := (pliesToMate + 1) / 2
		return fmt.Sprintf("mate %d", -mateInN)
	}

	return fmt.Sprintf("cp %d", score)
}

// ResetForNewGame clears all state that must not leak between games: the
// transposition table, history/killer tables, and the aspiration-window seed.
func ResetForNewGame() {
	TT.clearTT()
	TT.init()
	ResetHistory()
	Killers.ClearKillers()
	prevSearchScore = 0
}

// computeLMRReduction implements the §4.6.2 late-move-reduction formula: a
// base reduction that grows gently with depth and lateness, adjusted by how
// reliable the move's history success rate has been.
func computeLMRReduction(depth int8, quietMovesSeen int, historyScore int16) int8 {
	r := 1 + int(depth-3)/9 + (quietMovesSeen-2)/9

	switch {
	case historyScore > 50:
		r--
	case historyScore < 2:
		r += 2
	case historyScore < 10:
		r++
	}

	if r < 0 {
		r = 0
	}
	if r > int(depth)-1 {
		r = int(depth) - 1
	}
	if r < 0 {
		r = 0
	}
	return int8(r)
}
