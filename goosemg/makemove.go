package goosemg

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// rawAdd/rawRemove mirror addPiece/removePiece but skip the Zobrist XOR: Unmake
// restores the previous ply's hash simply by popping the state stack (the popped
// record was never mutated after it was pushed), so redoing the hash toggle would
// corrupt it. Board/bitboard/material bookkeeping still needs undoing by hand.
func (p *Position) rawAdd(pc Piece, s Square) {
	bb := uint64(1) << uint(s)
	p.pieces[pc] |= bb
	p.piecesByColor[pc.Color()] |= bb
	p.board[s] = pc
	if pc.Type() != King {
		p.material[pc.Color()] += pc.Type().MaterialValue()
	}
}

func (p *Position) rawRemove(pc Piece, s Square) {
	bb := uint64(1) << uint(s)
	p.pieces[pc] &^= bb
	p.piecesByColor[pc.Color()] &^= bb
	p.board[s] = NoPiece
	if pc.Type() != King {
		p.material[pc.Color()] -= pc.Type().MaterialValue()
	}
}

// castleRightsLost reports which castle-rights bits a move by `moved` leaving
// `from` should strip: a king or rook vacating its home square.
func castleRightsLost(moved Piece, from Square) uint8 {
	switch moved.Type() {
	case King:
		if moved.Color() == White {
			return CastleWhiteBoth
		}
		return CastleBlackBoth
	case Rook:
		switch from {
		case 0:
			return CastleWhiteQ
		case 7:
			return CastleWhiteK
		case 56:
			return CastleBlackQ
		case 63:
			return CastleBlackK
		}
	}
	return 0
}

func capturedRookRightsLost(capturedSquare Square) uint8 {
	switch capturedSquare {
	case 0:
		return CastleWhiteQ
	case 7:
		return CastleWhiteK
	case 56:
		return CastleBlackQ
	case 63:
		return CastleBlackK
	}
	return 0
}

// castleRookSquares returns the rook's from/dest squares for a castle move landing on `to`.
func castleRookSquares(to Square) (from, dest Square) {
	switch to {
	case 6:
		return 7, 5
	case 2:
		return 0, 3
	case 62:
		return 63, 61
	case 58:
		return 56, 59
	}
	return NoSquare, NoSquare
}

// Make applies m to the position. It returns false (and leaves the position
// unchanged) if m leaves the mover's own king in check — the only legality
// check deferred past move generation, which already filters pins/checks, so
// this only fires for a hand-constructed or externally supplied move.
func (p *Position) Make(m Move) bool {
	prev := p.top()
	ns := stateRecord{
		hash:          prev.hash,
		castleRights:  prev.castleRights,
		ep:            NoSquare,
		fiftyRule:     prev.fiftyRule + 1,
		movesFromNull: prev.movesFromNull + 1,
	}
	p.states = append(p.states, ns)
	top := p.top()

	us, them := p.side, p.side.Opposite()
	from, to, mtype := m.From(), m.To(), m.Type()
	moved := p.board[from]

	if mtype == MoveEnPassant {
		forward := 8
		if us == Black {
			forward = -8
		}
		capSq := to - Square(forward)
		captured := p.board[capSq]
		p.removePiece(captured, capSq)
		top.captured = captured
		top.fiftyRule = 0
	} else if captured := p.board[to]; captured != NoPiece {
		p.removePiece(captured, to)
		top.captured = captured
		top.fiftyRule = 0
		top.castleRights &^= capturedRookRightsLost(to)
	}

	if mtype == MovePromotion {
		p.removePiece(moved, from)
		p.addPiece(MakePiece(us, m.PromotedType()), to)
	} else {
		p.movePieceOnBoard(moved, from, to)
	}

	if mtype == MoveCastle {
		rFrom, rTo := castleRookSquares(to)
		p.movePieceOnBoard(MakePiece(us, Rook), rFrom, rTo)
		if us == White {
			top.castleRights |= CastleDoneWhite
		} else {
			top.castleRights |= CastleDoneBlack
		}
	}

	top.castleRights &^= castleRightsLost(moved, from)

	if moved.Type() == Pawn {
		top.fiftyRule = 0
		if abs(int(to)-int(from)) == 16 {
			top.ep = (from + to) / 2
		}
	}

	p.side = them
	ks := p.KingSquare(us)
	occ := p.Occupancy()
	needCheck := true
	if moved.Type() != King && mtype != MoveEnPassant && kingRaysUnion[ks]&(uint64(1)<<uint(from)) == 0 {
		needCheck = false
	}
	if us == Black {
		p.moveCount++
	}
	if needCheck && p.isSquareAttackedWithOcc(int(ks), them, occ) {
		p.Unmake(m)
		return false
	}

	p.updateRepetition()
	p.refreshCheckState()
	return true
}

// Unmake reverses a move previously applied by a successful Make call. Callers
// must unmake moves in exactly the reverse order they were made.
func (p *Position) Unmake(m Move) {
	top := p.top()
	captured := top.captured
	from, to, mtype := m.From(), m.To(), m.Type()

	p.side = p.side.Opposite()
	us := p.side

	if mtype == MoveCastle {
		rFrom, rTo := castleRookSquares(to)
		rook := p.board[rTo]
		p.rawRemove(rook, rTo)
		p.rawAdd(rook, rFrom)
	}

	if mtype == MovePromotion {
		promoted := p.board[to]
		p.rawRemove(promoted, to)
		p.rawAdd(MakePiece(us, Pawn), from)
	} else {
		moved := p.board[to]
		p.rawRemove(moved, to)
		p.rawAdd(moved, from)
	}

	if captured != NoPiece {
		if mtype == MoveEnPassant {
			forward := 8
			if us == Black {
				forward = -8
			}
			p.rawAdd(captured, to-Square(forward))
		} else {
			p.rawAdd(captured, to)
		}
	}

	if us == Black {
		p.moveCount--
	}
	p.states = p.states[:len(p.states)-1]
}

// MakeNull performs a null move: the side to move passes without moving a
// piece. Used by null-move pruning in search.
func (p *Position) MakeNull() {
	prev := p.top()
	ns := stateRecord{
		hash:          prev.hash,
		castleRights:  prev.castleRights,
		ep:            NoSquare,
		fiftyRule:     prev.fiftyRule + 1,
		movesFromNull: 0,
	}
	p.states = append(p.states, ns)
	if p.side == Black {
		p.moveCount++
	}
	p.side = p.side.Opposite()
	p.refreshCheckState()
}

// UnmakeNull reverses MakeNull.
func (p *Position) UnmakeNull() {
	p.side = p.side.Opposite()
	if p.side == Black {
		p.moveCount--
	}
	p.states = p.states[:len(p.states)-1]
}

// updateRepetition scans backward in steps of two plies (same side to move, so a
// piece-only hash match is a genuine repeated position) within the window bounded
// by both the fifty-move counter and the distance back to the last null move.
func (p *Position) updateRepetition() {
	top := p.top()
	limit := top.fiftyRule
	if top.movesFromNull < limit {
		limit = top.movesFromNull
	}
	n := len(p.states)
	top.lastRepetition = 0
	for d := 2; d <= limit && d <= n-1; d += 2 {
		if p.states[n-1-d].hash == top.hash {
			top.lastRepetition = d
			break
		}
	}
}
