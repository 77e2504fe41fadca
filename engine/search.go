package engine

import (
	"fmt"

	gm "github.com/kaiesamurai/mattock/goosemg"
)

// Score scale (§4.6.2): MaxScore is the search's notion of infinity; Checkmate
// is the threshold beyond which a score is "found a mate" rather than an
// ordinary evaluation. A side mated N plies from the search root scores
// -MaxScore+N (so shorter mates score higher for the winner); transposition.go's
// ±ply fixups store such values as a distance from the storing node and turn
// them back into a distance from the root on load.
const (
	MaxScore  int32 = 32500
	Checkmate int32 = 20000
)

// aspirationWindows is the widening schedule (§4.6.1): the root search starts
// at ±35 around the previous iteration's score and widens through 110 and 450
// before falling back to a full-width search, tracked independently per side.
var aspirationWindows = [3]int32{35, 110, 450}

// futilityMargin[d] bounds how much a quiet move needs to gain, at depth d
// (1..4), for a static-eval-based cutoff to be unsafe to take (§4.6.2).
var futilityMargin = [5]int32{0, 50, 200, 400, 700}

// historyLeafThreshold[d] (d = 1..4) is the minimum history success rate a
// quiet move must clear past the third one tried at low depth, or it is
// pruned outright (§4.6.2 low-depth pruning).
var historyLeafThreshold = [5]int16{0, 20, 12, 7, 3}

const iidTriggerDepth = 6
const lowDepthPruneLimit = 3

// PVLine accumulates the principal variation discovered from a node down.
type PVLine struct {
	Moves []gm.Move
}

func (pv *PVLine) Clear() { pv.Moves = pv.Moves[:0] }

func (pv *PVLine) Clone() PVLine {
	c := make([]gm.Move, len(pv.Moves))
	copy(c, pv.Moves)
	return PVLine{Moves: c}
}

func (pv *PVLine) GetPVMove() gm.Move {
	if len(pv.Moves) == 0 {
		return gm.NullMove
	}
	return pv.Moves[0]
}

// Update makes m the new first move of pv, followed by child's line.
func (pv *PVLine) Update(m gm.Move, child PVLine) {
	pv.Moves = append(pv.Moves[:0], m)
	pv.Moves = append(pv.Moves, child.Moves...)
}

// TT is the shared transposition table, sized and cleared via ResetForNewGame.
var TT TransTable

var (
	nodesSearched   uint64
	mustStop        bool
	currentLimits   *Limits
	prevSearchScore int32
)

// Stop requests that the in-progress RootSearch abort at the next poll, for
// the UCI "stop" command and pondering hits.
func Stop() { mustStop = true }

// pollStop checks the hard deadline and node ceiling every 512 nodes (§5);
// checking every node would make the clock call itself dominate throughput.
func pollStop() bool {
	if mustStop {
		return true
	}
	if currentLimits == nil {
		return false
	}
	if nodesSearched&511 == 0 {
		if currentLimits.isHardLimitBroken() || currentLimits.isNodesLimitBroken(nodesSearched) {
			mustStop = true
		}
	}
	return mustStop
}

// RootSearch runs iterative deepening from pos until the limits stop it,
// returning the best move found and its score from the side-to-move's
// perspective (§4.6.1).
func RootSearch(pos *gm.Position, limits *Limits, maxDepth int8, report bool) (gm.Move, int32) {
	nodesSearched = 0
	mustStop = false
	currentLimits = limits
	resetCutStats()
	DecayHistory()
	TT.setRootAge(uint16(pos.MoveCount()))

	var bestMove gm.Move
	var bestScore int32
	var prevPVLine PVLine
	prevSearchScore = 0

	for depth := int8(1); depth <= maxDepth; depth++ {
		var pvLine PVLine
		var score int32

		if depth < 4 || prevSearchScore == 0 {
			score = alphabeta(pos, -MaxScore, MaxScore, depth, 0, &pvLine, gm.NullMove, false, gm.NullMove)
		} else {
			score = aspirationSearch(pos, depth, prevSearchScore, &pvLine)
		}

		if mustStop && depth > 1 {
			break
		}

		bestScore = score
		prevSearchScore = score
		if len(pvLine.Moves) > 0 {
			prevPVLine = pvLine.Clone()
			bestMove = prevPVLine.GetPVMove()
		}

		if report {
			fmt.Printf("info depth %d score %s nodes %d pv%s\n",
				depth, getMateOrCPScore(int(score)), nodesSearched, getPVLineString(prevPVLine))
		}

		if limits.isDepthLimitBroken(depth) {
			break
		}
		if limits.isSoftLimitBroken() {
			break
		}
		if (score > Checkmate || score < -Checkmate) && len(prevPVLine.Moves) > 0 {
			break
		}
	}

	if PrintCutStats {
		dumpCutStats()
	}
	return bestMove, bestScore
}

// aspirationSearch implements the §4.6.1 widening schedule: start narrow
// around the previous score, widen on a fail-low/fail-high through the fixed
// schedule (max 3 widenings per side), then fall back to a full-width search.
func aspirationSearch(pos *gm.Position, depth int8, guess int32, pvLine *PVLine) int32 {
	var alphaWidens, betaWidens int
	alpha := guess - aspirationWindows[0]
	beta := guess + aspirationWindows[0]
	if alpha < -MaxScore {
		alpha = -MaxScore
	}
	if beta > MaxScore {
		beta = MaxScore
	}

	for {
		pvLine.Clear()
		score := alphabeta(pos, alpha, beta, depth, 0, pvLine, gm.NullMove, false, gm.NullMove)
		if mustStop {
			return score
		}
		if score <= alpha {
			if alphaWidens+1 >= len(aspirationWindows) {
				alpha = -MaxScore
			} else {
				alphaWidens++
				alpha = guess - aspirationWindows[alphaWidens]
				if alpha < -MaxScore {
					alpha = -MaxScore
				}
			}
			continue
		}
		if score >= beta {
			if betaWidens+1 >= len(aspirationWindows) {
				beta = MaxScore
			} else {
				betaWidens++
				beta = guess + aspirationWindows[betaWidens]
				if beta > MaxScore {
					beta = MaxScore
				}
			}
			continue
		}
		return score
	}
}

// alphabeta is the core search function, covering both PV and non-PV nodes
// (distinguished by beta-alpha > 1) per §4.6.2.
func alphabeta(pos *gm.Position, alpha, beta int32, depth int8, ply int8, pvLine *PVLine, prevMove gm.Move, didNull bool, excludedMove gm.Move) int32 {
	nodesSearched++
	pvLine.Clear()

	isPVNode := beta-alpha > 1
	isRoot := ply == 0
	inCheck := pos.InCheckColor(pos.Side())

	if pollStop() {
		return 0
	}

	if !isRoot {
		if pos.IsDraw(int(ply)) {
			return 0
		}
		// Mate-distance pruning: a mate already found closer to the root makes
		// further search at this node pointless once alpha/beta can't move.
		if !isPVNode {
			if a := -MaxScore + int32(ply); a > alpha {
				alpha = a
			}
			if b := MaxScore - int32(ply); b < beta {
				beta = b
			}
			if alpha >= beta {
				return alpha
			}
		}
	}

	if depth <= 0 {
		return quiescence(pos, alpha, beta, pvLine, ply, 0)
	}

	hash := pos.FullKey()
	var hashMove gm.Move
	ttEntry, found := TT.probe(hash)
	if found {
		hashMove = ttEntry.Move
		if !isPVNode {
			if usable, score := TT.useEntry(ttEntry, hash, depth, int16(alpha), int16(beta), ply, excludedMove); usable {
				cutStats.TTCutoffs++
				return int32(score)
			}
		}
	}

	staticEval := int32(Evaluate(pos))

	// Reverse futility / static null-move pruning: if we're already comfortably
	// above beta by more than the futility margin, assume a full search would
	// only confirm it.
	if !isPVNode && !inCheck && depth <= 4 && depth >= 1 {
		if staticEval-futilityMargin[depth] >= beta && beta < Checkmate {
			cutStats.StaticNullCutoffs++
			return staticEval - futilityMargin[depth]
		}
	}

	// Null-move pruning (§4.6.2): skip our move entirely and see if the
	// opponent is still in trouble; if even a free move doesn't save them, the
	// position is winning regardless of what we actually play.
	wPieces, bPieces := hasMinorOrMajorPiece(pos)
	sidePieces := bPieces
	if pos.Side() == gm.White {
		sidePieces = wPieces
	}
	if !isPVNode && !inCheck && !didNull && depth >= 3 && excludedMove == gm.NullMove &&
		staticEval >= beta && sidePieces > 0 {
		r := int32(3) + int32(depth-2)/5
		if bonus := (staticEval - beta) / 300; bonus > 0 {
			r += bonus
		}
		reducedDepth := depth - 1 - int8(r)
		if reducedDepth < 0 {
			reducedDepth = 0
		}
		var nullPV PVLine
		pos.MakeNull()
		score := -alphabeta(pos, -beta, -beta+1, reducedDepth, ply+1, &nullPV, gm.NullMove, true, gm.NullMove)
		pos.UnmakeNull()
		if mustStop {
			return 0
		}
		if score >= beta && score < Checkmate {
			if depth >= 5 {
				verify := alphabeta(pos, beta-1, beta, reducedDepth, ply, &nullPV, prevMove, true, gm.NullMove)
				if verify >= beta {
					cutStats.NullMoveCutoffs++
					return beta
				}
			} else {
				cutStats.NullMoveCutoffs++
				return beta
			}
		}
	}

	// Internal iterative deepening: with no hash move at a reasonably deep PV
	// node, do a shallow search first so the move loop below still orders well.
	if hashMove == gm.NullMove && depth > iidTriggerDepth && isPVNode {
		var iidPV PVLine
		alphabeta(pos, alpha, beta, depth-6, ply, &iidPV, prevMove, didNull, gm.NullMove)
		hashMove = iidPV.GetPVMove()
	}

	if !pos.HasLegalMoves() {
		if inCheck {
			return -MaxScore + int32(ply)
		}
		return 0
	}

	var list gm.MoveList
	pos.Generate(&list, gm.ModeAll)
	mp := NewMovePicker(pos, &list, ply, hashMove)

	var childPVLine PVLine
	bestScore := -MaxScore
	var bestMove gm.Move
	var bestFlag int8 = AlphaFlag
	legalMoves := 0
	quietMovesSeen := 0

	for mp.HasNext() {
		move := mp.Next()
		if move == excludedMove {
			continue
		}
		quiet := isQuiet(pos, move)
		givesCheck := pos.GivesCheck(move)

		if !isPVNode && !inCheck && depth <= lowDepthPruneLimit && bestScore > -Checkmate {
			if !quiet && !givesCheck {
				if pos.SEE(move) <= -100*int(depth) {
					cutStats.LateMovePrunes++
					continue
				}
			}
			if quiet && quietMovesSeen > 2 && !givesCheck {
				hs := historyScore(pos.PieceAt(move.From()), move.To())
				d := int(depth)
				if d > 4 {
					d = 4
				}
				if hs < historyLeafThreshold[d] {
					cutStats.LateMovePrunes++
					continue
				}
			}
		}

		pos.Make(move)
		legalMoves++
		if quiet {
			quietMovesSeen++
			AddHistoryTry(pos.PieceAt(move.To()), move.To(), depth)
		}

		childPVLine.Clear()
		var score int32
		nextDepth := depth - 1

		reduction := int8(0)
		if depth >= 3 && !inCheck && !givesCheck && quiet && legalMoves > 1 && quietMovesSeen > 2 {
			hs := historyScore(pos.PieceAt(move.To()), move.To())
			if hs < 75 {
				reduction = computeLMRReduction(depth, quietMovesSeen, hs)
			}
		}

		if legalMoves == 1 {
			score = -alphabeta(pos, -beta, -alpha, nextDepth, ply+1, &childPVLine, move, false, gm.NullMove)
		} else {
			score = -alphabeta(pos, -alpha-1, -alpha, nextDepth-reduction, ply+1, &childPVLine, move, false, gm.NullMove)
			if score > alpha && reduction > 0 {
				childPVLine.Clear()
				score = -alphabeta(pos, -alpha-1, -alpha, nextDepth, ply+1, &childPVLine, move, false, gm.NullMove)
			}
			if score > alpha && isPVNode {
				childPVLine.Clear()
				score = -alphabeta(pos, -beta, -alpha, nextDepth, ply+1, &childPVLine, move, false, gm.NullMove)
			}
		}

		pos.Unmake(move)

		if mustStop {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = move
			if score > alpha {
				alpha = score
				bestFlag = ExactFlag
				pvLine.Update(move, childPVLine)
			}
		}

		if alpha >= beta {
			cutStats.BetaCutoffs++
			if quiet {
				Killers.InsertKiller(move, ply)
				AddHistorySuccess(pos.PieceAt(move.From()), move.To(), depth)
			}
			bestFlag = BetaFlag
			break
		}
	}

	if legalMoves == 0 {
		// Every move was pruned or excluded; the caller's alpha already
		// reflects whatever bound it can rely on.
		return alpha
	}

	flagBit := int8(0)
	if isPVNode {
		flagBit = pvBit
	}
	TT.storeEntry(hash, depth, ply, bestMove, int16(bestScore), bestFlag|flagBit)

	return bestScore
}

// quiescence resolves captures/checks past the main search horizon (§4.6.3):
// stand-pat, then delta/SEE-pruned captures, then (only within the first two
// plies) quiet checks.
func quiescence(pos *gm.Position, alpha, beta int32, pvLine *PVLine, ply int8, qply int8) int32 {
	nodesSearched++
	pvLine.Clear()

	if pollStop() {
		return 0
	}

	inCheck := pos.InCheckColor(pos.Side())
	var bestScore int32
	if inCheck {
		bestScore = -MaxScore + int32(ply)
	} else {
		bestScore = int32(Evaluate(pos))
		if bestScore >= beta {
			cutStats.QStandPatCutoffs++
			return bestScore
		}
		if bestScore > alpha {
			alpha = bestScore
		}
	}

	var list gm.MoveList
	if inCheck {
		pos.Generate(&list, gm.ModeAll)
	} else {
		pos.Generate(&list, gm.ModeCaptures)
		if qply < 2 {
			pos.Generate(&list, gm.ModeQuiets)
		}
	}

	mp := NewMovePicker(pos, &list, 0, gm.NullMove)
	var childPVLine PVLine
	legalMoves := 0

	for mp.HasNext() {
		move := mp.Next()
		quiet := isQuiet(pos, move)

		if !inCheck {
			if quiet && !pos.GivesCheck(move) {
				continue
			}
			if !quiet && move.Type() != gm.MovePromotion {
				victimValue := gm.SeeValue[pos.PieceAt(move.To()).Type()]
				if move.Type() == gm.MoveEnPassant {
					victimValue = gm.SeeValue[gm.Pawn]
				}
				if bestScore+int32(victimValue)+200 <= alpha && !pos.GivesCheck(move) {
					continue
				}
			}
			if !quiet && pos.SEE(move) < 0 {
				continue
			}
		}

		pos.Make(move)
		legalMoves++
		childPVLine.Clear()
		score := -quiescence(pos, -beta, -alpha, &childPVLine, ply+1, qply+1)
		pos.Unmake(move)

		if mustStop {
			return 0
		}

		if score > bestScore {
			bestScore = score
			if score > alpha {
				alpha = score
				pvLine.Update(move, childPVLine)
			}
		}
		if alpha >= beta {
			cutStats.QBetaCutoffs++
			break
		}
	}

	if inCheck && legalMoves == 0 && !pos.HasLegalMoves() {
		return -MaxScore + int32(ply)
	}

	return bestScore
}
