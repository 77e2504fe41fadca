package goosemg

import (
	"fmt"
	"math/bits"
)

// Castle-rights bitfield (8 bits, §6): queenside/kingside per color plus two
// "already castled" status bits. CastleBoth is a convenience kingside|queenside mask.
const (
	CastleBlackQ    uint8 = 0x01
	CastleBlackK    uint8 = 0x02
	CastleWhiteQ    uint8 = 0x04
	CastleWhiteK    uint8 = 0x08
	CastleDoneBlack uint8 = 0x10
	CastleDoneWhite uint8 = 0x20

	CastleBlackBoth uint8 = CastleBlackK | CastleBlackQ
	CastleWhiteBoth uint8 = CastleWhiteK | CastleWhiteQ
)

// stateRecord is the reversible per-ply state (§3): the position's incremental hash,
// check/pin bookkeeping, repetition distance, en-passant target, captured piece,
// fifty-move counter, and castle rights. Position.states is a stack of these; make
// pushes a new top copied from (and then mutated from) the previous one, unmake pops.
type stateRecord struct {
	hash           uint64
	checkBlockers  [2]uint64
	pinners        [2]uint64
	checkGivers    uint64
	lastRepetition int // plies back to a matching hash; 0 = none
	movesFromNull  int
	ep             Square
	captured       Piece
	fiftyRule      int
	castleRights   uint8
}

// Position is the bitboard position representation: a redundant piece array for O(1)
// piece-at-square lookup, per-piece and per-color occupancy bitboards, an incremental
// material subtotal, and a stack of reversible per-ply state. Piece-square evaluation
// scoring is tracked by the evaluator, not here, mirroring how board representation
// and evaluation are split into separate packages.
type Position struct {
	board         [64]Piece
	pieces        [14]uint64 // indexed by Piece value
	piecesByColor [2]uint64
	material      [2]int
	moveCount     int
	side          Color
	states        []stateRecord
}

func (p *Position) top() *stateRecord        { return &p.states[len(p.states)-1] }
func (p *Position) Side() Color              { return p.side }
func (p *Position) MoveCount() int            { return p.moveCount }
func (p *Position) PieceAt(s Square) Piece    { return p.board[s] }
func (p *Position) Material(c Color) int      { return p.material[c] }
func (p *Position) Hash() uint64              { return p.top().hash }
func (p *Position) EnPassant() Square         { return p.top().ep }
func (p *Position) CastleRights() uint8       { return p.top().castleRights }
func (p *Position) FiftyRule() int            { return p.top().fiftyRule }
func (p *Position) Occupancy() uint64         { return p.piecesByColor[White] | p.piecesByColor[Black] }
func (p *Position) ColorOccupancy(c Color) uint64 { return p.piecesByColor[c] }
func (p *Position) PieceBB(pc Piece) uint64   { return p.pieces[pc] }

// KingSquare returns the square of color c's king (there is always exactly one).
func (p *Position) KingSquare(c Color) Square {
	bb := p.pieces[MakePiece(c, King)]
	return Square(bits.TrailingZeros64(bb))
}

// addPiece places piece pc on sq, updating bitboards, the board array, the material
// subtotal, and incrementally XORing the Zobrist hash. sq must currently be empty.
func (p *Position) addPiece(pc Piece, s Square) {
	bb := uint64(1) << uint(s)
	p.pieces[pc] |= bb
	p.piecesByColor[pc.Color()] |= bb
	p.board[s] = pc
	if pc.Type() != King {
		p.material[pc.Color()] += pc.Type().MaterialValue()
	}
	p.top().hash ^= zobristPiece[pc][s]
}

// removePiece clears sq, which must currently hold pc.
func (p *Position) removePiece(pc Piece, s Square) {
	bb := uint64(1) << uint(s)
	p.pieces[pc] &^= bb
	p.piecesByColor[pc.Color()] &^= bb
	p.board[s] = NoPiece
	if pc.Type() != King {
		p.material[pc.Color()] -= pc.Type().MaterialValue()
	}
	p.top().hash ^= zobristPiece[pc][s]
}

// movePieceOnBoard relocates pc from "from" to an empty "to" square.
func (p *Position) movePieceOnBoard(pc Piece, from, to Square) {
	p.removePiece(pc, from)
	p.addPiece(pc, to)
}

// Validate cross-checks the bitboards, the board array, and the incremental hash
// against a from-scratch recomputation; used by tests to assert invariants.
func (p *Position) Validate() error {
	var all [2]uint64
	for s := Square(0); s < 64; s++ {
		pc := p.board[s]
		if pc == NoPiece {
			continue
		}
		if p.pieces[pc]&(uint64(1)<<uint(s)) == 0 {
			return fmt.Errorf("square %d holds %c but bitboard disagrees", s, pc.Letter())
		}
		all[pc.Color()] |= uint64(1) << uint(s)
	}
	for c := Color(0); c < 2; c++ {
		if all[c] != p.piecesByColor[c] {
			return fmt.Errorf("piecesByColor[%d] out of sync", c)
		}
	}
	if all[White]&all[Black] != 0 {
		return fmt.Errorf("white and black occupancy overlap")
	}
	if bits.OnesCount64(p.pieces[MakePiece(White, King)]) != 1 || bits.OnesCount64(p.pieces[MakePiece(Black, King)]) != 1 {
		return fmt.Errorf("expected exactly one king per side")
	}
	if p.top().hash != p.ComputeHash() {
		return fmt.Errorf("incremental hash does not match recomputation")
	}
	return nil
}

// IsDrawBy50 reports whether the fifty-move counter alone forces a draw.
func (p *Position) IsDrawBy50() bool { return p.top().fiftyRule >= 100 }

// IsDraw implements the draw rules used during search (§4.6.2 step 4): fifty-move,
// and repetition, where ply>0 treats a single repetition as sufficient but the root
// (ply==0) requires the stricter "actual" repetition distance already recorded.
func (p *Position) IsDraw(ply int) bool {
	if p.IsDrawBy50() {
		return true
	}
	rep := p.top().lastRepetition
	if rep == 0 {
		return false
	}
	if ply > 0 {
		return true
	}
	// At the root a single prior occurrence plus the current one is only two-fold;
	// a genuine triple repetition needs a second matching occurrence further back.
	return p.hasSecondRepetition()
}

// hasSecondRepetition scans the reachable window for a second matching hash beyond
// the nearest one already recorded in lastRepetition, implementing the root's
// stricter "must be an actual triple repetition" rule (§9 design notes).
func (p *Position) hasSecondRepetition() bool {
	top := p.top()
	limit := top.fiftyRule
	if top.movesFromNull < limit {
		limit = top.movesFromNull
	}
	n := len(p.states)
	matches := 0
	for d := 4; d <= limit && d <= n-1; d += 2 {
		if p.states[n-1-d].hash == top.hash {
			matches++
			if matches >= 2 {
				return true
			}
		}
	}
	return false
}
