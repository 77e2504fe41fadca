package engine

import (
	"math/bits"

	gm "github.com/kaiesamurai/mattock/goosemg"
)

// pawnCacheSize is the direct-mapped pawn cache slot count (§4.3): 4096 slots,
// indexed by a 12-bit fold of the position's combined pawn bitboard.
const pawnCacheSize = 4096

// pawnCacheEntry stores both sides' pawn bitboards (for collision detection)
// plus the precomputed structural bitboards and evaluation subtotal a full
// pawn-structure scan would otherwise have to redo on every call.
type pawnCacheEntry struct {
	valid       bool
	whitePawns  uint64
	blackPawns  uint64
	passed      [2]uint64
	isolated    [2]uint64
	doubled     [2]uint64
	backward    [2]uint64
	islands     [2]int
	distortion  [2]int
	advancedFor [2][10]int8 // most-advanced rank per file, sentinels at index 0 and 9
	mg, eg      [2]int
}

var pawnCache [pawnCacheSize]pawnCacheEntry

// PawnStructure is the exported view of a pawnCacheEntry's structural
// bitboards, for callers outside the package (the tuner's feature traces)
// that cannot reach the unexported cache fields.
type PawnStructure struct {
	Passed, Isolated, Doubled, Backward [2]uint64
}

// ProbePawnStructure exposes probePawnCache's classification bitboards.
func ProbePawnStructure(pos *gm.Position) PawnStructure {
	e := probePawnCache(pos)
	return PawnStructure{Passed: e.passed, Isolated: e.isolated, Doubled: e.doubled, Backward: e.backward}
}

// pawnCacheKey folds the combined pawn occupancy down to 12 bits.
func pawnCacheKey(white, black uint64) uint32 {
	combined := white ^ black
	folded := combined ^ (combined >> 32) ^ (combined >> 16)
	return uint32(folded) & (pawnCacheSize - 1)
}

func pawnAttacksWhite(bb uint64) uint64 {
	return ((bb &^ onlyFile[0]) << 7) | ((bb &^ onlyFile[7]) << 9)
}

func pawnAttacksBlack(bb uint64) uint64 {
	return ((bb &^ onlyFile[0]) >> 9) | ((bb &^ onlyFile[7]) >> 7)
}

// probePawnCache returns the cached pawn-structure entry for the position's
// current pawn bitboards, rescanning on a cache miss or a colliding key.
func probePawnCache(pos *gm.Position) *pawnCacheEntry {
	white := pos.PieceBB(gm.MakePiece(gm.White, gm.Pawn))
	black := pos.PieceBB(gm.MakePiece(gm.Black, gm.Pawn))
	key := pawnCacheKey(white, black)
	e := &pawnCache[key]
	if e.valid && e.whitePawns == white && e.blackPawns == black {
		return e
	}
	*e = scanPawnStructure(white, black)
	return e
}

// scanPawnStructure implements the §4.3 pawn-cache scan policy: isolated,
// doubled, passed, and backward classification per pawn, then island count
// and distortion (sum of absolute differences in most-advanced rank between
// consecutive occupied files).
func scanPawnStructure(white, black uint64) pawnCacheEntry {
	var e pawnCacheEntry
	e.valid = true
	e.whitePawns, e.blackPawns = white, black

	pawnsByColor := [2]uint64{gm.Black: black, gm.White: white}
	wAttacks, bAttacks := pawnAttacksWhite(white), pawnAttacksBlack(black)
	attacksByColor := [2]uint64{gm.Black: bAttacks, gm.White: wAttacks}

	// advancedFor[c][file+1] = most advanced rank (relative to c) reached by a
	// pawn of color c on that file, or -1 if none; index 0 and 9 are sentinels
	// (always -1) so neighbour lookups at the board edge never go out of range.
	for c := gm.Black; c <= gm.White; c++ {
		for f := 0; f < 10; f++ {
			e.advancedFor[c][f] = -1
		}
		bb := pawnsByColor[c]
		for bb != 0 {
			s := gm.Square(bits.TrailingZeros64(bb))
			bb &= bb - 1
			f := s.File() + 1
			rank := int8(s.Relative(c).Rank())
			if rank > e.advancedFor[c][f] {
				e.advancedFor[c][f] = rank
			}
		}
	}

	for c := gm.Black; c <= gm.White; c++ {
		them := c.Opposite()
		ownBB, oppBB := pawnsByColor[c], pawnsByColor[them]
		oppAttacks := attacksByColor[them]

		filesOccupied := 0
		prevFile := -1
		for f := 0; f < 8; f++ {
			if e.advancedFor[c][f+1] < 0 {
				continue
			}
			filesOccupied++
			if prevFile >= 0 && f-prevFile > 1 {
				e.islands[c]++
			}
			if prevFile >= 0 {
				e.distortion[c] += abs(int(e.advancedFor[c][f+1]) - int(e.advancedFor[c][prevFile+1]))
			}
			prevFile = f
		}
		if filesOccupied > 0 {
			e.islands[c]++
		}

		bb := ownBB
		for bb != 0 {
			s := gm.Square(bits.TrailingZeros64(bb))
			bb &= bb - 1
			file := s.File()
			rank := s.Relative(c).Rank()

			if onlyFile[file]&ownBB != (uint64(1) << uint(s)) {
				e.doubled[c] |= uint64(1) << uint(s)
			}
			if isolatedPawnTable[file]&ownBB == 0 {
				e.isolated[c] |= uint64(1) << uint(s)
			}

			aheadMask := frontSpan(s, c)
			threeFilesForward := (onlyFile[file] | isolatedPawnTable[file]) & aheadMask & oppBB
			sameFileAhead := onlyFile[file] & aheadMask & ownBB
			if threeFilesForward == 0 && sameFileAhead == 0 {
				e.passed[c] |= uint64(1) << uint(s)
			}

			if isolatedPawnTable[file]&supportSpan(s, c)&ownBB == 0 {
				stopSquare := stepForward(s, c)
				if stopSquare != gm.NoSquare && (uint64(1)<<uint(stopSquare))&oppAttacks != 0 {
					e.backward[c] |= uint64(1) << uint(s)
				}
			}

			mg := PSQT_MG[gm.Pawn][s.Relative(c)]
			eg := PSQT_EG[gm.Pawn][s.Relative(c)]
			if e.passed[c]&(uint64(1)<<uint(s)) != 0 {
				mg += PassedPawnPSQT_MG[s.Relative(c)]
				eg += PassedPawnPSQT_EG[s.Relative(c)]
			}
			if e.isolated[c]&(uint64(1)<<uint(s)) != 0 {
				mg -= IsolatedPawnMG
				eg -= IsolatedPawnEG
			}
			if e.doubled[c]&(uint64(1)<<uint(s)) != 0 {
				mg -= PawnDoubledMG
				eg -= PawnDoubledEG
			}
			if e.backward[c]&(uint64(1)<<uint(s)) != 0 {
				mg -= BackwardPawnMG
				eg -= BackwardPawnEG
			}
			e.mg[c] += mg
			e.eg[c] += eg
			_ = rank
		}
	}
	return e
}

// frontSpan returns every square strictly ahead of s (toward the promotion
// rank) on s's file and both adjacent files, relative to color c.
func frontSpan(s gm.Square, c gm.Color) uint64 {
	var ranks uint64
	file, rank := s.File(), s.Rank()
	if c == gm.White {
		for r := rank + 1; r < 8; r++ {
			ranks |= uint64(0xFF) << uint(r*8)
		}
	} else {
		for r := rank - 1; r >= 0; r-- {
			ranks |= uint64(0xFF) << uint(r*8)
		}
	}
	return ranks & (onlyFile[file] | isolatedPawnTable[file])
}

// supportSpan returns every square on s's adjacent files at s's rank or
// behind it (relative to color c), the region a friendly pawn must occupy to
// count as support for s.
func supportSpan(s gm.Square, c gm.Color) uint64 {
	var bb uint64
	rank := s.Rank()
	lo, hi := 0, rank
	if c == gm.Black {
		lo, hi = rank, 7
	}
	for r := lo; r <= hi; r++ {
		if s.File() > 0 {
			bb |= uint64(1) << uint(r*8+s.File()-1)
		}
		if s.File() < 7 {
			bb |= uint64(1) << uint(r*8+s.File()+1)
		}
	}
	return bb
}

// stepForward returns the square directly ahead of s for color c, or NoSquare
// if s is already on the back rank for that direction (should not occur for a
// pawn, but guards a hand-constructed position).
func stepForward(s gm.Square, c gm.Color) gm.Square {
	if c == gm.White {
		if s.Rank() == 7 {
			return gm.NoSquare
		}
		return s + 8
	}
	if s.Rank() == 0 {
		return gm.NoSquare
	}
	return s - 8
}
