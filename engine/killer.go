package engine

import gm "github.com/kaiesamurai/mattock/goosemg"

// KillerStruct holds the two killer-move slots per ply: quiet moves that
// caused a beta cutoff elsewhere at the same ply are tried early again.
type KillerStruct struct {
	KillerMoves [MaxDepth + 1][2]gm.Move
}

var Killers KillerStruct

// InsertKiller records move as the new first killer at ply, demoting the old
// first killer to second, unless move is already the first killer.
func (k *KillerStruct) InsertKiller(move gm.Move, ply int8) {
	if move != k.KillerMoves[ply][0] {
		k.KillerMoves[ply][1] = k.KillerMoves[ply][0]
		k.KillerMoves[ply][0] = move
	}
}

// ClearKillers resets every ply's killer slots.
func (k *KillerStruct) ClearKillers() {
	for depth := 0; depth < MaxDepth+1; depth++ {
		k.KillerMoves[depth][0] = gm.NullMove
		k.KillerMoves[depth][1] = gm.NullMove
	}
}
