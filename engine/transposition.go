package engine

import (
	"unsafe"

	"golang.org/x/exp/constraints"

	gm "github.com/kaiesamurai/mattock/goosemg"
)

// Bound types a stored entry can carry, packed into the low bits of Flag
// alongside the PV bit (§4.4): EntryType = (bound<<1) | pv, with the PV flag
// in bit 0 and the bound in bits 1-2.
const (
	AlphaFlag int8 = 0b010
	BetaFlag  int8 = 0b100
	ExactFlag int8 = 0
	pvBit     int8 = 0b001

	boundMask int8 = 0b110

	// In MB
	TTSize = 64

	UnusableScore = -32750
)

// TTEntry is one 16-byte transposition-table record: hash, move, value, age
// (the recording position's move count, for staleness), depth, and bound/PV flag.
type TTEntry struct {
	Hash  uint64
	Move  gm.Move
	Score int16
	Age   uint16
	Depth int8
	Flag  int8
}

// ttCluster holds two entries for the same hash slot: mainEntry is
// depth-preferred, auxEntry is always-replace (§4.4).
type ttCluster struct {
	mainEntry TTEntry
	auxEntry  TTEntry
}

// TransTable is a fixed-size array of 2-entry clusters keyed by hash mod
// len(clusters). It never grows or rehashes after init.
type TransTable struct {
	isInitialized bool
	clusters      []ttCluster
	rootAge       uint16
}

func (TT *TransTable) clearTT() {
	TT.clusters = nil
	TT.isInitialized = false
	TT.rootAge = 0
}

func (TT *TransTable) init() {
	entrySize := uint64(unsafe.Sizeof(ttCluster{}))
	if entrySize == 0 {
		entrySize = 1
	}
	totalBytes := uint64(TTSize) * 1024 * 1024
	clusterCount := totalBytes / entrySize
	clusterCount = clampMin(clusterCount, 1)
	TT.clusters = make([]ttCluster, clusterCount)
	TT.isInitialized = true
}

func (TT *TransTable) setRootAge(age uint16) { TT.rootAge = age }

func clampMin[T constraints.Ordered](v, lo T) T {
	if v < lo {
		return lo
	}
	return v
}

// probe looks up hash, preferring an exact-bound match over a depth-preferred
// one when both sub-entries hit (§4.4).
func (TT *TransTable) probe(hash uint64) (entry *TTEntry, found bool) {
	if len(TT.clusters) == 0 {
		return nil, false
	}
	cluster := &TT.clusters[hash%uint64(len(TT.clusters))]
	mainHit := cluster.mainEntry.Hash == hash
	auxHit := cluster.auxEntry.Hash == hash
	switch {
	case mainHit && auxHit:
		if cluster.auxEntry.Flag&boundMask == ExactFlag {
			return &cluster.auxEntry, true
		}
		return &cluster.mainEntry, true
	case mainHit:
		return &cluster.mainEntry, true
	case auxHit:
		return &cluster.auxEntry, true
	default:
		return nil, false
	}
}

// useEntry decides whether a probed entry's stored score can resolve the
// current node outright, fixing up mate-distance values for the current ply.
func (TT *TransTable) useEntry(ttEntry *TTEntry, hash uint64, depth int8, alpha, beta int16, ply int8, excludedMove gm.Move) (usable bool, score int16) {
	score = UnusableScore
	if ttEntry == nil || ttEntry.Hash != hash {
		return false, score
	}
	if excludedMove != gm.NullMove && ttEntry.Move == excludedMove {
		return false, score
	}
	if ttEntry.Depth < depth {
		return false, score
	}
	norm := ttEntry.Score
	if norm > int16(Checkmate) {
		norm -= int16(ply)
	} else if norm < -int16(Checkmate) {
		norm += int16(ply)
	}
	switch ttEntry.Flag & boundMask {
	case ExactFlag:
		usable, score = true, norm
	case AlphaFlag:
		if norm <= alpha {
			usable, score = true, alpha
		}
	case BetaFlag:
		if norm >= beta {
			usable, score = true, beta
		}
	}
	return usable, score
}

// storeEntry records a search result, implementing the exact replacement
// policy of §4.4: the main slot is replaced when empty, aged out, shallower,
// or equally deep with non-worsening PV/bound dominance; otherwise the
// auxiliary slot is overwritten unconditionally, except a repeated hash
// always overwrites its own matching slot.
func (TT *TransTable) storeEntry(hash uint64, depth int8, ply int8, move gm.Move, score int16, flag int8) {
	if len(TT.clusters) == 0 {
		return
	}
	if score > int16(Checkmate) {
		score += int16(ply)
	} else if score < -int16(Checkmate) {
		score -= int16(ply)
	}

	cluster := &TT.clusters[hash%uint64(len(TT.clusters))]
	main := &cluster.mainEntry

	replaceMain := main.Flag == 0 || // empty slot, or (harmlessly) an exact non-PV entry
		main.Age < TT.rootAge ||
		depth > main.Depth ||
		(depth == main.Depth &&
			(flag&pvBit) >= (main.Flag&pvBit) &&
			(flag&boundMask) <= (main.Flag&boundMask))

	if replaceMain || main.Hash == hash {
		*main = TTEntry{Hash: hash, Move: move, Score: score, Age: TT.rootAge, Depth: depth, Flag: flag}
		return
	}
	cluster.auxEntry = TTEntry{Hash: hash, Move: move, Score: score, Age: TT.rootAge, Depth: depth, Flag: flag}
}
