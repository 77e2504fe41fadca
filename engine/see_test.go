package engine

import (
	"testing"

	gm "github.com/kaiesamurai/mattock/goosemg"
)

func square(coord string) gm.Square {
	if len(coord) != 2 {
		panic("invalid coordinate")
	}
	file := int(coord[0] - 'a')
	rank := int(coord[1] - '1')
	return gm.Square(rank*8 + file)
}

func TestSEEEvenTradeWhenQueenRecaptures(t *testing.T) {
	pos, err := gm.ParseFEN("6k1/4q1p1/4n3/8/2B5/8/8/6K1 w - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}

	move := gm.NewMove(square("c4"), square("e6"), gm.MoveSimple)
	if score := pos.SEE(move); score != 0 {
		t.Fatalf("expected SEE score 0 (bishop trades evenly for knight once the queen recaptures), got %d", score)
	}
}

func TestSEEHandlesEnPassantCapture(t *testing.T) {
	pos, err := gm.ParseFEN("8/8/8/3pP3/8/8/8/6K1 w - d6 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}

	move := gm.NewMove(square("e5"), square("d6"), gm.MoveEnPassant)
	expected := gm.SeeValue[gm.Pawn]
	if score := pos.SEE(move); score != expected {
		t.Fatalf("expected SEE score %d (undefended pawn), got %d", expected, score)
	}
}

func TestSEELosingCaptureIsNegative(t *testing.T) {
	pos, err := gm.ParseFEN("6k1/5p2/4p3/8/2B5/8/8/6K1 w - - 0 1")
	if err != nil {
		t.Fatalf("parse FEN: %v", err)
	}

	move := gm.NewMove(square("c4"), square("e6"), gm.MoveSimple)
	expected := gm.SeeValue[gm.Pawn] - gm.SeeValue[gm.Bishop]
	if score := pos.SEE(move); score != expected {
		t.Fatalf("expected SEE score %d (bishop lost for a pawn once f7 recaptures), got %d", expected, score)
	}
}
