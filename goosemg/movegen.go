package goosemg

import "math/bits"

// generation mode selects which subset of legal moves a generator call appends.
type genMode int

const (
	ModeAll      genMode = iota
	ModeCaptures         // captures, en-passant, and capture promotions only
	ModeQuiets           // non-capturing moves, including castling and quiet promotions
)

// refreshCheckState recomputes checkGivers/checkBlockers/pinners for the side to
// move and stores them on the state-stack top. Called after FEN load and after
// every make (unmake restores the previous record by popping the stack).
func (p *Position) refreshCheckState() {
	top := p.top()
	occ := p.Occupancy()
	checkers, _, _, _, pinLine := p.computeCheckAndPins(p.side, occ)
	top.checkGivers = checkers

	var pinned uint64
	for s := 0; s < 64; s++ {
		if pinLine[s] != 0 {
			pinned |= uint64(1) << uint(s)
		}
	}
	them := p.side.Opposite()
	top.checkBlockers[p.side] = pinned
	top.pinners[p.side] = p.pieces[MakePiece(them, Rook)] | p.pieces[MakePiece(them, Bishop)] | p.pieces[MakePiece(them, Queen)]
}

// computeCheckAndPins computes the checkers bitboard, check status, and, for a
// single check, the checkMask (squares a non-king piece may move to in order to
// block or capture the checker), plus per-square pin lines: pinLine[s] is
// non-zero (the line the piece may still move along) iff the piece on s is
// pinned to side's king.
func (p *Position) computeCheckAndPins(side Color, occ uint64) (checkers uint64, inCheck, doubleCheck bool, checkMask uint64, pinLine [64]uint64) {
	them := side.Opposite()
	kingBB := p.pieces[MakePiece(side, King)]
	if kingBB == 0 {
		return 0, false, false, 0, pinLine
	}
	ksq := bits.TrailingZeros64(kingBB)

	checkers |= pawnAttacks[side][ksq] & p.pieces[MakePiece(them, Pawn)]
	checkers |= knightAttacks[ksq] & p.pieces[MakePiece(them, Knight)]
	diag := bishopAttacksWith(ksq, occ)
	checkers |= diag & (p.pieces[MakePiece(them, Bishop)] | p.pieces[MakePiece(them, Queen)])
	ortho := rookAttacksWith(ksq, occ)
	checkers |= ortho & (p.pieces[MakePiece(them, Rook)] | p.pieces[MakePiece(them, Queen)])

	inCheck = checkers != 0
	doubleCheck = inCheck && checkers&(checkers-1) != 0

	if inCheck && !doubleCheck {
		c := bits.TrailingZeros64(checkers)
		cbb := uint64(1) << uint(c)
		switch p.board[c].Type() {
		case Rook:
			for d := 0; d < 4; d++ {
				if rookRays[ksq][d]&cbb != 0 {
					checkMask = rookRays[ksq][d] &^ rookRays[c][d]
					break
				}
			}
		case Bishop:
			for d := 0; d < 4; d++ {
				if bishopRays[ksq][d]&cbb != 0 {
					checkMask = bishopRays[ksq][d] &^ bishopRays[c][d]
					break
				}
			}
		case Queen:
			for d := 0; d < 4; d++ {
				if rookRays[ksq][d]&cbb != 0 {
					checkMask = rookRays[ksq][d] &^ rookRays[c][d]
					break
				}
				if bishopRays[ksq][d]&cbb != 0 {
					checkMask = bishopRays[ksq][d] &^ bishopRays[c][d]
					break
				}
			}
		default:
			checkMask = cbb
		}
	}

	p.computePins(side, them, ksq, occ, &pinLine)
	return checkers, inCheck, doubleCheck, checkMask, pinLine
}

// computePins fills pinLine for side's pieces pinned against side's king at ksq.
func (p *Position) computePins(side, them Color, ksq int, occ uint64, pinLine *[64]uint64) {
	ownOcc := p.piecesByColor[side]
	for d := 0; d < 4; d++ {
		ray := rookRays[ksq][d]
		blockers := ray & occ
		if blockers == 0 {
			continue
		}
		var first int
		if d == 0 || d == 2 {
			first = bits.TrailingZeros64(blockers)
		} else {
			first = 63 - bits.LeadingZeros64(blockers)
		}
		if uint64(1)<<uint(first)&ownOcc == 0 {
			continue
		}
		beyond := rookRays[first][d] & occ
		if beyond == 0 {
			continue
		}
		var next int
		if d == 0 || d == 2 {
			next = bits.TrailingZeros64(beyond)
		} else {
			next = 63 - bits.LeadingZeros64(beyond)
		}
		pc := p.board[next]
		if pc.Color() == them && (pc.Type() == Rook || pc.Type() == Queen) {
			pinLine[first] = rookRays[ksq][d] &^ rookRays[next][d]
		}
	}
	for d := 0; d < 4; d++ {
		ray := bishopRays[ksq][d]
		blockers := ray & occ
		if blockers == 0 {
			continue
		}
		var first int
		if d == 0 || d == 1 {
			first = bits.TrailingZeros64(blockers)
		} else {
			first = 63 - bits.LeadingZeros64(blockers)
		}
		if uint64(1)<<uint(first)&ownOcc == 0 {
			continue
		}
		beyond := bishopRays[first][d] & occ
		if beyond == 0 {
			continue
		}
		var next int
		if d == 0 || d == 1 {
			next = bits.TrailingZeros64(beyond)
		} else {
			next = 63 - bits.LeadingZeros64(beyond)
		}
		pc := p.board[next]
		if pc.Color() == them && (pc.Type() == Bishop || pc.Type() == Queen) {
			pinLine[first] = bishopRays[ksq][d] &^ bishopRays[next][d]
		}
	}
}

// isSquareAttackedWithOcc reports whether s is attacked by color `by`, given an
// arbitrary (possibly hypothetical) occupancy bitboard.
func (p *Position) isSquareAttackedWithOcc(s int, by Color, occ uint64) bool {
	if pawnAttacks[by.Opposite()][s]&p.pieces[MakePiece(by, Pawn)] != 0 {
		return true
	}
	if knightAttacks[s]&p.pieces[MakePiece(by, Knight)] != 0 {
		return true
	}
	if kingAttacks[s]&p.pieces[MakePiece(by, King)] != 0 {
		return true
	}
	rq := p.pieces[MakePiece(by, Rook)] | p.pieces[MakePiece(by, Queen)]
	bq := p.pieces[MakePiece(by, Bishop)] | p.pieces[MakePiece(by, Queen)]
	if rookAttacksWith(s, occ)&rq != 0 {
		return true
	}
	if bishopAttacksWith(s, occ)&bq != 0 {
		return true
	}
	return false
}

// IsSquareAttacked reports whether sq is attacked by color `by` in the current position.
func (p *Position) IsSquareAttacked(s Square, by Color) bool {
	return p.isSquareAttackedWithOcc(int(s), by, p.Occupancy())
}

// InCheckColor reports whether color c's king is attacked in the current position.
func (p *Position) InCheckColor(c Color) bool {
	if c == p.side {
		return p.top().checkGivers != 0
	}
	return p.IsSquareAttacked(p.KingSquare(c), c.Opposite())
}

// Generate appends legal moves for the side to move matching mode into l.
func (p *Position) Generate(l *MoveList, mode genMode) {
	side := p.side
	them := side.Opposite()
	ownOcc := p.piecesByColor[side]
	oppOcc := p.piecesByColor[them]
	allOcc := ownOcc | oppOcc

	kingBB := p.pieces[MakePiece(side, King)]
	ks := bits.TrailingZeros64(kingBB)

	_, inCheck, doubleCheck, checkMask, pinLine := p.computeCheckAndPins(side, allOcc)

	genPawns(p, l, side, them, allOcc, inCheck, doubleCheck, checkMask, pinLine, ks, mode)

	if !doubleCheck {
		genLeaper(p, l, MakePiece(side, Knight), knightAttacks[:], ownOcc, oppOcc, inCheck, checkMask, pinLine, mode)
		genSlider(p, l, MakePiece(side, Bishop), allOcc, ownOcc, oppOcc, inCheck, checkMask, pinLine, mode, false)
		genSlider(p, l, MakePiece(side, Rook), allOcc, ownOcc, oppOcc, inCheck, checkMask, pinLine, mode, true)
		genQueen(p, l, MakePiece(side, Queen), allOcc, ownOcc, oppOcc, inCheck, checkMask, pinLine, mode)
	}

	genKing(p, l, side, them, ks, ownOcc, oppOcc, allOcc, inCheck, mode)
}

func genLeaper(p *Position, l *MoveList, pc Piece, atk []uint64, ownOcc, oppOcc uint64, inCheck bool, checkMask uint64, pinLine [64]uint64, mode genMode) {
	bb := p.pieces[pc]
	for bb != 0 {
		from := popLSB(&bb)
		targets := atk[from] &^ ownOcc
		if pm := pinLine[from]; pm != 0 {
			targets &= pm
		}
		if inCheck {
			targets &= checkMask
		}
		applyModeFilter(&targets, oppOcc, mode)
		for targets != 0 {
			to := popLSB(&targets)
			l.Add(NewMove(Square(from), Square(to), MoveSimple))
		}
	}
}

func genSlider(p *Position, l *MoveList, pc Piece, allOcc, ownOcc, oppOcc uint64, inCheck bool, checkMask uint64, pinLine [64]uint64, mode genMode, rook bool) {
	bb := p.pieces[pc]
	for bb != 0 {
		from := popLSB(&bb)
		var targets uint64
		if rook {
			targets = rookAttacksWith(from, allOcc) &^ ownOcc
		} else {
			targets = bishopAttacksWith(from, allOcc) &^ ownOcc
		}
		if pm := pinLine[from]; pm != 0 {
			targets &= pm
		}
		if inCheck {
			targets &= checkMask
		}
		applyModeFilter(&targets, oppOcc, mode)
		for targets != 0 {
			to := popLSB(&targets)
			l.Add(NewMove(Square(from), Square(to), MoveSimple))
		}
	}
}

func genQueen(p *Position, l *MoveList, pc Piece, allOcc, ownOcc, oppOcc uint64, inCheck bool, checkMask uint64, pinLine [64]uint64, mode genMode) {
	bb := p.pieces[pc]
	for bb != 0 {
		from := popLSB(&bb)
		targets := (rookAttacksWith(from, allOcc) | bishopAttacksWith(from, allOcc)) &^ ownOcc
		if pm := pinLine[from]; pm != 0 {
			targets &= pm
		}
		if inCheck {
			targets &= checkMask
		}
		applyModeFilter(&targets, oppOcc, mode)
		for targets != 0 {
			to := popLSB(&targets)
			l.Add(NewMove(Square(from), Square(to), MoveSimple))
		}
	}
}

func applyModeFilter(targets *uint64, oppOcc uint64, mode genMode) {
	switch mode {
	case ModeCaptures:
		*targets &= oppOcc
	case ModeQuiets:
		*targets &^= oppOcc
	}
}

func genPawns(p *Position, l *MoveList, side, them Color, allOcc uint64, inCheck, doubleCheck bool, checkMask uint64, pinLine [64]uint64, ks int, mode genMode) {
	if doubleCheck {
		return
	}
	pawns := p.pieces[MakePiece(side, Pawn)]
	oppOcc := p.piecesByColor[them]
	forward, startRank, promoRank := 8, 1, 7
	if side == Black {
		forward, startRank, promoRank = -8, 6, 0
	}
	for pawns != 0 {
		from := popLSB(&pawns)
		pin := pinLine[from]
		one := from + forward
		if one >= 0 && one < 64 && allOcc&(uint64(1)<<uint(one)) == 0 {
			toBB := uint64(1) << uint(one)
			allowed := (pin == 0 || toBB&pin != 0) && (!inCheck || toBB&checkMask != 0)
			if mode != ModeCaptures {
				if one/8 == promoRank {
					for _, pt := range [4]PieceType{Queen, Rook, Bishop, Knight} {
						if allowed {
							l.Add(NewPromotionMove(Square(from), Square(one), pt))
						}
					}
				} else {
					if allowed {
						l.Add(NewMove(Square(from), Square(one), MoveSimple))
					}
					if from/8 == startRank {
						two := from + 2*forward
						if allOcc&(uint64(1)<<uint(two)) == 0 {
							toBB2 := uint64(1) << uint(two)
							if (pin == 0 || toBB2&pin != 0) && (!inCheck || toBB2&checkMask != 0) {
								l.Add(NewMove(Square(from), Square(two), MoveSimple))
							}
						}
					}
				}
			}
		}

		caps := pawnAttacks[side][from] & oppOcc
		for caps != 0 {
			to := popLSB(&caps)
			toBB := uint64(1) << uint(to)
			if pin != 0 && toBB&pin == 0 {
				continue
			}
			if inCheck && toBB&checkMask == 0 {
				continue
			}
			if mode == ModeQuiets {
				continue
			}
			if to/8 == promoRank {
				for _, pt := range [4]PieceType{Queen, Rook, Bishop, Knight} {
					l.Add(NewPromotionMove(Square(from), Square(to), pt))
				}
			} else {
				l.Add(NewMove(Square(from), Square(to), MoveSimple))
			}
		}

		ep := p.top().ep
		if ep != NoSquare && pawnAttacks[side][from]&(uint64(1)<<uint(ep)) != 0 {
			if mode != ModeQuiets {
				toBB := uint64(1) << uint(ep)
				if pin == 0 || toBB&pin != 0 {
					capSq := int(ep) - forward
					occp := allOcc &^ (uint64(1) << uint(from))
					occp &^= uint64(1) << uint(capSq)
					occp |= toBB
					if !p.isSquareAttackedWithOcc(ks, them, occp) {
						l.Add(NewMove(Square(from), ep, MoveEnPassant))
					}
				}
			}
		}
	}
}

func genKing(p *Position, l *MoveList, side, them Color, ks int, ownOcc, oppOcc, allOcc uint64, inCheck bool, mode genMode) {
	targets := kingAttacks[ks] &^ ownOcc
	applyModeFilter(&targets, oppOcc, mode)
	for targets != 0 {
		to := popLSB(&targets)
		occp := allOcc &^ (uint64(1) << uint(ks))
		occp &^= uint64(1) << uint(to)
		occp |= uint64(1) << uint(to)
		if p.isSquareAttackedWithOcc(to, them, occp) {
			continue
		}
		l.Add(NewMove(Square(ks), Square(to), MoveSimple))
	}

	if mode == ModeCaptures || inCheck {
		return
	}
	rights := p.top().castleRights
	occ := allOcc
	if side == White {
		if rights&CastleWhiteK != 0 && p.board[5] == NoPiece && p.board[6] == NoPiece &&
			!p.isSquareAttackedWithOcc(5, Black, occ) && !p.isSquareAttackedWithOcc(6, Black, occ) {
			l.Add(NewMove(4, 6, MoveCastle))
		}
		if rights&CastleWhiteQ != 0 && p.board[1] == NoPiece && p.board[2] == NoPiece && p.board[3] == NoPiece &&
			!p.isSquareAttackedWithOcc(3, Black, occ) && !p.isSquareAttackedWithOcc(2, Black, occ) {
			l.Add(NewMove(4, 2, MoveCastle))
		}
	} else {
		if rights&CastleBlackK != 0 && p.board[61] == NoPiece && p.board[62] == NoPiece &&
			!p.isSquareAttackedWithOcc(61, White, occ) && !p.isSquareAttackedWithOcc(62, White, occ) {
			l.Add(NewMove(60, 62, MoveCastle))
		}
		if rights&CastleBlackQ != 0 && p.board[57] == NoPiece && p.board[58] == NoPiece && p.board[59] == NoPiece &&
			!p.isSquareAttackedWithOcc(59, White, occ) && !p.isSquareAttackedWithOcc(58, White, occ) {
			l.Add(NewMove(60, 58, MoveCastle))
		}
	}
}

// GivesCheck reports whether making m would give check to the opponent, without
// mutating position state. Used by search (LMR's "quiet and not a check" guard,
// quiescence's delta-pruning exception for checking moves).
func (p *Position) GivesCheck(m Move) bool {
	side, them := p.side, p.side.Opposite()
	ks := p.KingSquare(them)
	kBit := uint64(1) << uint(ks)
	from, to := int(m.From()), int(m.To())
	occ := p.Occupancy()
	occp := occ &^ (uint64(1) << uint(from))
	occp |= uint64(1) << uint(to)

	if m.Type() == MoveEnPassant {
		forward := 8
		if side == Black {
			forward = -8
		}
		occp &^= uint64(1) << uint(to-forward)
	}
	rookTo := -1
	if m.Type() == MoveCastle {
		switch to {
		case 6:
			occp &^= uint64(1) << 7
			occp |= uint64(1) << 5
			rookTo = 5
		case 2:
			occp &^= uint64(1) << 0
			occp |= uint64(1) << 3
			rookTo = 3
		case 62:
			occp &^= uint64(1) << 63
			occp |= uint64(1) << 61
			rookTo = 61
		case 58:
			occp &^= uint64(1) << 56
			occp |= uint64(1) << 59
			rookTo = 59
		}
	}

	movedType := p.board[from].Type()
	if m.Type() == MovePromotion {
		movedType = m.PromotedType()
	}
	var gives bool
	switch movedType {
	case Pawn:
		gives = pawnAttacks[side][to]&kBit != 0
	case Knight:
		gives = knightAttacks[to]&kBit != 0
	case Bishop:
		gives = bishopAttacksWith(to, occp)&kBit != 0
	case Rook:
		gives = rookAttacksWith(to, occp)&kBit != 0
	case Queen:
		gives = (rookAttacksWith(to, occp)|bishopAttacksWith(to, occp))&kBit != 0
	case King:
		gives = kingAttacks[to]&kBit != 0
	}
	if !gives && rookTo >= 0 {
		gives = rookAttacksWith(rookTo, occp)&kBit != 0
	}
	if !gives {
		rq := p.pieces[MakePiece(side, Rook)] | p.pieces[MakePiece(side, Queen)]
		bq := p.pieces[MakePiece(side, Bishop)] | p.pieces[MakePiece(side, Queen)]
		if rookAttacksWith(int(ks), occp)&rq != 0 || bishopAttacksWith(int(ks), occp)&bq != 0 {
			gives = true
		}
	}
	return gives
}

// HasLegalMoves reports whether the side to move has any legal move.
func (p *Position) HasLegalMoves() bool {
	var l MoveList
	p.Generate(&l, ModeAll)
	return l.Len() > 0
}

// InCheckmate reports whether the side to move is checkmated.
func (p *Position) InCheckmate() bool { return p.InCheckColor(p.side) && !p.HasLegalMoves() }

// InStalemate reports whether the side to move is stalemated.
func (p *Position) InStalemate() bool { return !p.InCheckColor(p.side) && !p.HasLegalMoves() }
