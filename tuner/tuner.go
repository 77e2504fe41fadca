package tuner

import (
	"fmt"
	"math"
	"math/bits"
	"math/rand"

	gm "github.com/kaiesamurai/mattock/goosemg"
	"golang.org/x/sync/errgroup"
)

// TEntry is one texel-tuning sample: a FEN plus its game result (1 = white
// win, 0 = black win, 0.5 = draw), as parsed from a .book corpus file.
type TEntry struct {
	index  int
	fen    string
	result float64
}

// TraceTerm is one (parameter, coefficient) occurrence in a position's linear
// evaluation decomposition; see getTraces. The same coefficient is applied
// against both the middlegame and endgame half of its parameter, tapered by
// the position's own phase weight at fold time.
type TraceTerm struct {
	Index  uint16
	MG, EG float64
}

// InitEntry loads a .book corpus and runs the tuner over it, returning the
// final tuned [][2]float64 parameter vector (indexed by the Indexes layout).
func InitEntry() [][2]float64 {
	var entries []TEntry
	parseNextEPD(&entries)
	for i := range entries {
		entries[i].index = i
	}
	return runTuner(entries, 1.0, 1000)
}

const (
	lambda      = 0.0001 // L2 regularization strength
	epsilon     = 1e-15
	sigmoidBase = 400.0 // standard texel-tuning logistic scale
	batchSize   = 100000
)

// tunerPhase recomputes the same game-phase weight the evaluator's phase()
// function does, duplicated here (consts.go's Phase constants already match
// engine's) so the tuner has no dependency on engine internals beyond the
// exported tables.
func tunerPhase(pos *gm.Position) int {
	total := 0
	for _, c := range [2]gm.Color{gm.White, gm.Black} {
		total += bits.OnesCount64(pos.PieceBB(gm.MakePiece(c, gm.Knight))) * KnightPhase
		total += bits.OnesCount64(pos.PieceBB(gm.MakePiece(c, gm.Bishop))) * BishopPhase
		total += bits.OnesCount64(pos.PieceBB(gm.MakePiece(c, gm.Rook))) * RookPhase
		total += bits.OnesCount64(pos.PieceBB(gm.MakePiece(c, gm.Queen))) * QueenPhase
	}
	if total > TotalPhase {
		total = TotalPhase
	}
	return total
}

// runTuner performs batched, L2-regularized SGD over the trimmed Indexes
// parameter vector, evaluating each position by replaying its trace against
// the current parameters. Batches within an epoch are computed concurrently
// via errgroup, one goroutine per batch, and accumulated before the update.
func runTuner(entries []TEntry, learningRate float64, epochs int) [][2]float64 {
	idx := generateIndexes()
	params := make([][2]float64, numParams)
	initParamsDefaults(&params, idx)

	rng := rand.New(rand.NewSource(1))

	for ep := 0; ep < epochs; ep++ {
		order := rng.Perm(len(entries))

		var numBatches int
		if len(order) > 0 {
			numBatches = (len(order) + batchSize - 1) / batchSize
		}

		gradMG := make([][]float64, numBatches)
		gradEG := make([][]float64, numBatches)
		losses := make([]float64, numBatches)
		counts := make([]int, numBatches)

		g := new(errgroup.Group)
		for b := 0; b < numBatches; b++ {
			b := b
			lo := b * batchSize
			hi := lo + batchSize
			if hi > len(order) {
				hi = len(order)
			}
			g.Go(func() error {
				mg := make([]float64, numParams)
				eg := make([]float64, numParams)
				loss := 0.0
				for _, oi := range order[lo:hi] {
					entry := entries[oi]
					pos, err := gm.ParseFEN(entry.fen)
					if err != nil {
						continue
					}
					trace := getTraces(pos, &idx)
					ph := tunerPhase(pos)
					mgWeight := float64(ph) / float64(TotalPhase)
					egWeight := float64(TotalPhase-ph) / float64(TotalPhase)

					eval := 0.0
					for _, t := range trace {
						eval += t.MG*params[t.Index][0]*mgWeight + t.EG*params[t.Index][1]*egWeight
					}

					sigmoid := 1 / (1 + math.Exp(-eval/sigmoidBase))
					sigmoid = math.Min(math.Max(sigmoid, epsilon), 1-epsilon)
					diff := sigmoid - entry.result
					loss += diff * diff

					dLdEval := 2 * diff * sigmoid * (1 - sigmoid) / sigmoidBase
					for _, t := range trace {
						mg[t.Index] += dLdEval * t.MG * mgWeight
						eg[t.Index] += dLdEval * t.EG * egWeight
					}
				}
				gradMG[b], gradEG[b], losses[b], counts[b] = mg, eg, loss, hi-lo
				return nil
			})
		}
		g.Wait()

		totalN, totalLoss := 0, 0.0
		mg := make([]float64, numParams)
		eg := make([]float64, numParams)
		for b := 0; b < numBatches; b++ {
			totalN += counts[b]
			totalLoss += losses[b]
			for i := 0; i < numParams; i++ {
				mg[i] += gradMG[b][i]
				eg[i] += gradEG[b][i]
			}
		}
		if totalN == 0 {
			continue
		}
		n := float64(totalN)
		for i := 0; i < numParams; i++ {
			params[i][0] -= learningRate * (mg[i]/n + lambda*params[i][0])
			params[i][1] -= learningRate * (eg[i]/n + lambda*params[i][1])
		}

		if ep%10 == 0 {
			fmt.Printf("epoch %d  loss=%.6f  n=%d\n", ep, totalLoss/n, totalN)
		}
	}

	printParams(&params, idx)
	return params
}
