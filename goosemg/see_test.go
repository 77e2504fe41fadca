package goosemg

import "testing"

func coordSquare(coord string) Square {
	file := int(coord[0] - 'a')
	rank := int(coord[1] - '1')
	return Square(rank*8 + file)
}

func seeCase(t *testing.T, fen, from, to string, promo PieceType, want int) {
	t.Helper()
	pos, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	var m Move
	if promo != NoPieceType {
		m = NewPromotionMove(coordSquare(from), coordSquare(to), promo)
	} else {
		m = NewMove(coordSquare(from), coordSquare(to), MoveSimple)
	}
	if got := pos.SEE(m); got != want {
		t.Fatalf("SEE(%q %s%s) on %q: got %d want %d", fen, from, to, fen, got, want)
	}
}

func TestSEESeedCases(t *testing.T) {
	seeCase(t, "8/8/5R2/8/8/1kb5/8/2K5 b - - 0 1", "c3", "f6", NoPieceType, SeeValue[Rook])
	seeCase(t, "8/2k5/3b4/4n3/6N1/8/5K2/8 w - - 0 1", "g4", "e5", NoPieceType, 0)
	seeCase(t, "k7/3q4/8/8/3Q4/4K3/8/8 b - - 0 1", "d7", "d4", NoPieceType, 0)
	seeCase(t, "k7/3q4/4n3/8/3Q4/4K3/8/8 b - - 0 1", "d7", "d4", NoPieceType, SeeValue[Queen])
	seeCase(t, "6k1/7p/8/8/8/8/2Q5/6K1 w - - 0 1", "c2", "h7", NoPieceType, SeeValue[Pawn]-SeeValue[Queen])
	seeCase(t, "8/3P4/8/8/8/k7/8/1K6 w - - 0 1", "d7", "d8", Rook, SeeValue[Rook]-SeeValue[Pawn])
}

func TestSEEEnPassantSeedCase(t *testing.T) {
	pos, err := ParseFEN("rnbqkbnr/pp1ppppp/8/8/2pPP3/5P2/PPP3PP/RNBQKBNR b KQkq d3 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	m := NewMove(coordSquare("c4"), coordSquare("d3"), MoveEnPassant)
	if got := pos.SEE(m); got != 0 {
		t.Fatalf("SEE en passant c4d3: got %d want 0", got)
	}
}
