package engine

import gm "github.com/kaiesamurai/mattock/goosemg"

// Move-ordering score bands (§4.5): the hash move goes first, then all
// captures/promotions by MVV/LVA, then killers, then history.
const (
	hashMoveScore     int16 = 30000
	firstKillerScore  int16 = 120
	secondKillerScore int16 = 110
	captureBaseScore  int16 = 1000

	historyRenewalShift = 3
)

// historyTries/historySuccesses are indexed [piece][to]. A try is recorded
// when a quiet move is made during search; a success when it causes a beta
// cutoff. Both accumulate depth² so deeper, more reliable results dominate.
var historyTries [14][64]uint32
var historySuccesses [14][64]uint32

// ResetHistory clears the history tables.
func ResetHistory() {
	historyTries = [14][64]uint32{}
	historySuccesses = [14][64]uint32{}
}

// DecayHistory divides every entry by 8 (a right-shift by historyRenewalShift). Called once per root
// search so history from recent moves carries over without growing unbounded.
func DecayHistory() {
	for pc := range historyTries {
		for sq := range historyTries[pc] {
			historyTries[pc][sq] >>= historyRenewalShift
			historySuccesses[pc][sq] >>= historyRenewalShift
		}
	}
}

// AddHistoryTry records a quiet move played during search at depth.
func AddHistoryTry(piece gm.Piece, to gm.Square, depth int8) {
	historyTries[piece][to] += uint32(depth) * uint32(depth)
}

// AddHistorySuccess records a quiet move that caused a beta cutoff at depth.
func AddHistorySuccess(piece gm.Piece, to gm.Square, depth int8) {
	historySuccesses[piece][to] += uint32(depth) * uint32(depth)
}

// historyScore is the success rate (successes+1)*100/(tries+2): unseen moves
// default to a middling ~50, moves with a strong cutoff record score near 100.
func historyScore(piece gm.Piece, to gm.Square) int16 {
	return int16((uint64(historySuccesses[piece][to]) + 1) * 100 / (uint64(historyTries[piece][to]) + 2))
}

// isQuiet reports whether m is neither a capture, an en-passant capture, nor
// a promotion.
func isQuiet(pos *gm.Position, m gm.Move) bool {
	if m.Type() == gm.MovePromotion || m.Type() == gm.MoveEnPassant {
		return false
	}
	return pos.PieceAt(m.To()) == gm.NoPiece
}

// captureScore implements MVV/LVA with a promotion bonus: twice the victim's
// plus the promoted piece's value, minus the attacker's value. An en-passant
// victim is always valued as a pawn.
func captureScore(pos *gm.Position, m gm.Move) int16 {
	attacker := pos.PieceAt(m.From())
	var victimValue, promotedValue int
	if m.Type() == gm.MoveEnPassant {
		victimValue = gm.SeeValue[gm.Pawn]
	} else {
		victimValue = gm.SeeValue[pos.PieceAt(m.To()).Type()]
	}
	if m.Type() == gm.MovePromotion {
		promotedValue = gm.SeeValue[m.PromotedType()]
	}
	return int16(2*(victimValue+promotedValue) - gm.SeeValue[attacker.Type()])
}

// MovePicker scores every move in a generated list and then hands them out
// one at a time in descending-score order via a partial selection sort, so a
// search that cuts off early never pays to sort moves it never looks at.
type MovePicker struct {
	list *gm.MoveList
	next int
}

// NewMovePicker scores list in place against ply's killers and hashMove.
func NewMovePicker(pos *gm.Position, list *gm.MoveList, ply int8, hashMove gm.Move) *MovePicker {
	firstKiller := Killers.KillerMoves[ply][0]
	secondKiller := Killers.KillerMoves[ply][1]

	for i := 0; i < list.Len(); i++ {
		m := list.At(i).Move()

		var score int16
		switch {
		case m == hashMove:
			score = hashMoveScore
		case !isQuiet(pos, m):
			score = captureBaseScore + captureScore(pos, m)
		case m == firstKiller:
			score = firstKillerScore
		case m == secondKiller:
			score = secondKillerScore
		default:
			score = historyScore(pos.PieceAt(m.From()), m.To())
		}
		list.Set(i, gm.MakeScoredMove(m, score))
	}
	return &MovePicker{list: list}
}

// HasNext reports whether any unpicked move remains.
func (mp *MovePicker) HasNext() bool { return mp.next < mp.list.Len() }

// Next selects the highest-scored remaining move, swaps it to the front of
// the unpicked range, and returns it.
func (mp *MovePicker) Next() gm.Move {
	best := mp.next
	bestScore := mp.list.At(best).Score()
	for i := mp.next + 1; i < mp.list.Len(); i++ {
		if mp.list.At(i).Score() > bestScore {
			best = i
			bestScore = mp.list.At(i).Score()
		}
	}
	mp.list.Swap(mp.next, best)
	m := mp.list.At(mp.next).Move()
	mp.next++
	return m
}
