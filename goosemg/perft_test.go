package goosemg

import "testing"

func perftCase(t *testing.T, fen string, depth int, want uint64) {
	t.Helper()
	pos, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	if got := Perft(pos, depth); got != want {
		t.Fatalf("Perft(%d) on %q: got %d want %d", depth, fen, got, want)
	}
}

func TestPerftStartPosShallow(t *testing.T) {
	perftCase(t, FENStartPos, 1, 20)
	perftCase(t, FENStartPos, 2, 400)
	perftCase(t, FENStartPos, 3, 8902)
	perftCase(t, FENStartPos, 4, 197281)
}

func TestPerftStartPosDeep(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping depth 5 perft in short mode")
	}
	perftCase(t, FENStartPos, 5, 4865609)
}

func TestPerftKiwipete(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	perftCase(t, fen, 1, 48)
	perftCase(t, fen, 2, 2039)
	perftCase(t, fen, 3, 97862)
}

func TestPerftKiwipeteDeep(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping depth 5 perft in short mode")
	}
	perftCase(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 5, 193690690)
}

func TestPerftRookEndgameDeep(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping depth 5 perft in short mode")
	}
	perftCase(t, "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", 5, 674624)
}

func TestPerftPromotionHeavyDeep(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping deep perft in short mode")
	}
	perftCase(t, "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1", 5, 15833292)
}

func TestPerftPinnedKnightDeep(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping deep perft in short mode")
	}
	perftCase(t, "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8", 5, 89941194)
}

func TestPerftOpenPositionDeep(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping deep perft in short mode")
	}
	perftCase(t, "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10", 5, 164075551)
}

func TestPerftDivideInitialDepth2(t *testing.T) {
	pos, err := ParseFEN(FENStartPos)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	div := PerftDivide(pos, 2)
	var total uint64
	for _, n := range div {
		total += n
	}
	if total != 400 {
		t.Fatalf("PerftDivide depth2 total: got %d want %d", total, 400)
	}
	if len(div) != 20 {
		t.Fatalf("PerftDivide depth2 root move count: got %d want 20", len(div))
	}
}
