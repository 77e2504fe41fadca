package goosemg

import "math/rand"

// Zobrist keys are generated once from a fixed seed, never reseeded per run, so
// hashes (and anything derived from them, like perft/SEE fixtures or a persisted
// TT snapshot) are reproducible across process invocations.
var (
	zobristPiece  [14][64]uint64 // indexed by Piece x Square
	zobristSide   uint64
	zobristCastle [64]uint64 // indexed by the 6 live bits of the castle-rights bitfield
	zobristEPFile [8]uint64
	zobristNull   uint64
)

func init() {
	r := rand.New(rand.NewSource(0xC0DE))
	for p := 1; p < 14; p++ {
		for s := 0; s < 64; s++ {
			zobristPiece[p][s] = r.Uint64()
		}
	}
	zobristSide = r.Uint64()
	for i := range zobristCastle {
		zobristCastle[i] = r.Uint64()
	}
	for i := range zobristEPFile {
		zobristEPFile[i] = r.Uint64()
	}
	zobristNull = r.Uint64()
}

// ComputeHash recomputes the piece-only Zobrist hash from scratch; the incrementally
// maintained stack-top hash must always equal this value.
func (p *Position) ComputeHash() uint64 {
	var h uint64
	for s := 0; s < 64; s++ {
		if pc := p.board[s]; pc != NoPiece {
			h ^= zobristPiece[pc][s]
		}
	}
	return h
}

// FullKey is the hash used to probe/store the transposition table and to detect
// repetitions: the incremental piece-only hash, additionally XORed on demand with
// side-to-move, castling rights, and the en-passant file.
func (p *Position) FullKey() uint64 {
	top := p.top()
	k := top.hash
	if p.side == White {
		k ^= zobristSide
	}
	k ^= zobristCastle[top.castleRights&0x3F]
	if top.ep != NoSquare {
		k ^= zobristEPFile[top.ep.File()]
	}
	return k
}
