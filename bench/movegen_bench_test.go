package bench

import (
	"testing"

	eng "github.com/kaiesamurai/mattock/goosemg"
)

func benchGenerate(b *testing.B, fen string, mode func(*eng.Position, *eng.MoveList)) {
	board, err := eng.ParseFEN(fen)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	var list eng.MoveList
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		list.Reset()
		mode(board, &list)
	}
}

func BenchmarkGenerateMoves_Initial(b *testing.B) {
	benchGenerate(b, eng.FENStartPos, func(p *eng.Position, l *eng.MoveList) { p.Generate(l, eng.ModeAll) })
}

func BenchmarkGenerateMoves_Kiwipete(b *testing.B) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	benchGenerate(b, fen, func(p *eng.Position, l *eng.MoveList) { p.Generate(l, eng.ModeAll) })
}

func BenchmarkGenerateMoves_Pos6(b *testing.B) {
	fen := "r4rk1/1pp1qppp/p1np1n2/2b1p3/2B1P3/2NP1N2/PPP1QPPP/R4RK1 w - - 0 10"
	benchGenerate(b, fen, func(p *eng.Position, l *eng.MoveList) { p.Generate(l, eng.ModeAll) })
}

func BenchmarkGenerateCaptures_EP(b *testing.B) {
	fen := "k7/8/8/3pP3/8/8/8/7K w - d6 0 2"
	benchGenerate(b, fen, func(p *eng.Position, l *eng.MoveList) { p.Generate(l, eng.ModeCaptures) })
}

func BenchmarkGenerateQuiets_Initial(b *testing.B) {
	benchGenerate(b, eng.FENStartPos, func(p *eng.Position, l *eng.MoveList) { p.Generate(l, eng.ModeQuiets) })
}

func BenchmarkMakeUnmake_AllMoves_Initial(b *testing.B) {
	board, err := eng.ParseFEN(eng.FENStartPos)
	if err != nil {
		b.Fatalf("ParseFEN: %v", err)
	}
	var list eng.MoveList
	board.Generate(&list, eng.ModeAll)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for j := 0; j < list.Len(); j++ {
			m := list.At(j).Move()
			if board.Make(m) {
				board.Unmake(m)
			}
		}
	}
}
