package tuner

import (
	"fmt"

	"github.com/kaiesamurai/mattock/engine"
	gm "github.com/kaiesamurai/mattock/goosemg"
)

// Indexes lays out the flat [][2]float64 parameter vector the texel tuner
// optimizes. It mirrors exactly the linear terms generalEvaluation sums:
// per-square tables for knight..king (pawn's own square bonus is folded into
// the pawn cache and not separately tunable here), material for pawn..queen,
// the passed-pawn table, and the handful of scalar structural bonuses.
type Indexes struct {
	PSQT              uint16 // knight..king, 5 * 64
	PieceValues       uint16 // pawn..queen, 5
	PassedPawnPSQT    uint16 // 64
	BishopPair        uint16
	IsolatedPawns     uint16
	DoubledPawns      uint16
	BackwardPawns     uint16
	RookBehindPassed  uint16
	MinorBlocksPassed uint16
	Tempo             uint16
}

// numParams is the total parameter count generateIndexes lays out.
const numParams = 5*64 + 5 + 64 + 1 + 1 + 1 + 1 + 1 + 1 + 1

func generateIndexes() Indexes {
	var idx Indexes
	next := uint16(0)

	idx.PSQT = next
	next += 5 * 64

	idx.PieceValues = next
	next += 5

	idx.PassedPawnPSQT = next
	next += 64

	idx.BishopPair = next
	next++
	idx.IsolatedPawns = next
	next++
	idx.DoubledPawns = next
	next++
	idx.BackwardPawns = next
	next++
	idx.RookBehindPassed = next
	next++
	idx.MinorBlocksPassed = next
	next++
	idx.Tempo = next
	next++

	return idx
}

// psqtSlot maps a non-pawn piece type and square onto its parameter index.
func psqtSlot(idx Indexes, pt gm.PieceType, sq gm.Square) uint16 {
	return idx.PSQT + uint16((int(pt)-int(gm.Knight))*64+int(sq))
}

func initParamsDefaults(params *[][2]float64, idx Indexes) {
	for pt := gm.Knight; pt <= gm.King; pt++ {
		for sq := 0; sq < 64; sq++ {
			slot := psqtSlot(idx, pt, gm.Square(sq))
			(*params)[slot][0] = float64(engine.PSQT_MG[pt][sq])
			(*params)[slot][1] = float64(engine.PSQT_EG[pt][sq])
		}
	}

	for pt := gm.Pawn; pt <= gm.Queen; pt++ {
		slot := idx.PieceValues + uint16(int(pt)-int(gm.Pawn))
		(*params)[slot][0] = float64(engine.PieceValueMG[pt])
		(*params)[slot][1] = float64(engine.PieceValueEG[pt])
	}

	for sq := 0; sq < 64; sq++ {
		slot := idx.PassedPawnPSQT + uint16(sq)
		(*params)[slot][0] = float64(engine.PassedPawnPSQT_MG[sq])
		(*params)[slot][1] = float64(engine.PassedPawnPSQT_EG[sq])
	}

	(*params)[idx.BishopPair][0] = float64(engine.BishopPairBonusMG)
	(*params)[idx.BishopPair][1] = float64(engine.BishopPairBonusEG)
	(*params)[idx.IsolatedPawns][0] = float64(engine.IsolatedPawnMG)
	(*params)[idx.IsolatedPawns][1] = float64(engine.IsolatedPawnEG)
	(*params)[idx.DoubledPawns][0] = float64(engine.PawnDoubledMG)
	(*params)[idx.DoubledPawns][1] = float64(engine.PawnDoubledEG)
	(*params)[idx.BackwardPawns][0] = float64(engine.BackwardPawnMG)
	(*params)[idx.BackwardPawns][1] = float64(engine.BackwardPawnEG)
	(*params)[idx.RookBehindPassed][0] = float64(engine.RookBehindPassedMG)
	(*params)[idx.RookBehindPassed][1] = float64(engine.RookBehindPassedEG)
	(*params)[idx.MinorBlocksPassed][0] = float64(engine.MinorBlocksPassedMG)
	(*params)[idx.MinorBlocksPassed][1] = float64(engine.MinorBlocksPassedEG)
	(*params)[idx.Tempo][0] = float64(engine.TempoBonus)
	(*params)[idx.Tempo][1] = float64(engine.TempoBonus)
}

func printParams(params *[][2]float64, idx Indexes) {
	fmt.Println("==== Tuned Parameters ====")

	pieceNames := []string{"Pawn", "Knight", "Bishop", "Rook", "Queen"}
	fmt.Println("\n-- Piece Values --")
	for i, name := range pieceNames {
		mg := (*params)[idx.PieceValues+uint16(i)][0]
		eg := (*params)[idx.PieceValues+uint16(i)][1]
		fmt.Printf("  %-6s: MG = %8.2f | EG = %8.2f\n", name, mg, eg)
	}

	fmt.Println("\n-- PSQT Tables (MG | EG), knight..king --")
	nonPawnNames := []string{"Knight", "Bishop", "Rook", "Queen", "King"}
	for p, name := range nonPawnNames {
		fmt.Printf("\n%s:\n", name)
		for rank := 0; rank <= 7; rank++ {
			for file := 0; file < 8; file++ {
				sq := rank*8 + file
				slot := idx.PSQT + uint16(p*64+sq)
				fmt.Printf("%6.2f/%-6.2f ", (*params)[slot][0], (*params)[slot][1])
			}
			fmt.Println()
		}
	}

	fmt.Println("\n-- Passed Pawn PSQT (MG | EG) --")
	for sq := 0; sq < 64; sq++ {
		slot := idx.PassedPawnPSQT + uint16(sq)
		fmt.Printf("%6.1f/%-6.1f ", (*params)[slot][0], (*params)[slot][1])
		if (sq+1)%8 == 0 {
			fmt.Println()
		}
	}

	fmt.Println("\n-- Structural Terms --")
	printTerm(params, idx.BishopPair, "Bishop pair")
	printTerm(params, idx.IsolatedPawns, "Isolated pawns")
	printTerm(params, idx.DoubledPawns, "Doubled pawns")
	printTerm(params, idx.BackwardPawns, "Backward pawns")
	printTerm(params, idx.RookBehindPassed, "Rook behind passed")
	printTerm(params, idx.MinorBlocksPassed, "Minor blocks passed")
	printTerm(params, idx.Tempo, "Tempo")
}

// SeedPSTDefaults fills a bare PST with the evaluator's own piece-square
// tables, the starting point TrainPST's quick-iteration mode refines.
func SeedPSTDefaults(pst *PST) {
	for pt := gm.Pawn; pt <= gm.King; pt++ {
		i := int(pt) - int(gm.Pawn)
		for sq := 0; sq < 64; sq++ {
			pst.MG[i][sq] = float64(engine.PSQT_MG[pt][sq])
			pst.EG[i][sq] = float64(engine.PSQT_EG[pt][sq])
		}
	}
}

func printTerm(params *[][2]float64, index uint16, name string) {
	mg := (*params)[index][0]
	eg := (*params)[index][1]
	fmt.Printf("  %-20s: MG = %8.2f | EG = %8.2f\n", name, mg, eg)
}
