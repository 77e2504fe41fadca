// tuner/train.go
package tuner

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// TrainPST fits a tapered piece-square table by gradient descent on the
// logistic texel loss. It is the quick-iteration companion to the fuller
// Indexes-based texel tuner in tuner.go: only the 6x64 middlegame/endgame
// square tables move, material and the structural pawn terms stay fixed.
// pst.K is the logistic scale factor and is not refit here; callers pick it
// once (typically ~1/400) and leave it alone for the duration of a run.
func TrainPST(data []Sample, pst *PST, epochs int, lr float64) {
	rng := rand.New(rand.NewSource(42))
	order := make([]int, len(data))
	for i := range order {
		order[i] = i
	}

	for ep := 1; ep <= epochs; ep++ {
		t0 := time.Now()
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		var gMG, gEG [6][64]float64
		totalLoss := 0.0

		for _, idx := range order {
			s := data[idx]
			eval := evalPST(pst, s)
			sigmoid := 1 / (1 + math.Exp(-pst.K*eval))
			err := sigmoid - s.Label
			totalLoss += err * err

			// dLoss/dEval for squared-error-on-sigmoid loss.
			dLdEval := 2 * err * sigmoid * (1 - sigmoid) * pst.K
			addEvalGrad(pst, s, &gMG, &gEG, dLdEval)
		}

		n := float64(len(data))
		if n == 0 {
			n = 1
		}
		for pt := 0; pt < 6; pt++ {
			for sq := 0; sq < 64; sq++ {
				pst.MG[pt][sq] -= lr * gMG[pt][sq] / n
				pst.EG[pt][sq] -= lr * gEG[pt][sq] / n
			}
		}

		fmt.Printf("pst epoch %d  loss=%.6f  n=%d  time=%s\n", ep, totalLoss/n, len(data), time.Since(t0))
	}
}
