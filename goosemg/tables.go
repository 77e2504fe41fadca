package goosemg

import "math/bits"

// Precomputed attack/ray tables, built once at startup and read-only thereafter.
var (
	knightAttacks [64]uint64
	kingAttacks   [64]uint64
	pawnAttacks   [2][64]uint64 // pawnAttacks[color][sq]

	// rook/bishop ray tables, one entry per of the 4 directions, squares strictly beyond sq.
	rookRays   [64][4]uint64 // 0=N,1=S,2=E,3=W
	bishopRays [64][4]uint64 // 0=NE,1=NW,2=SE,3=SW

	kingRaysUnion [64]uint64

	rookMask      [64]uint64
	bishopMask    [64]uint64
	rookAttTable  [64][]uint64
	bishopAttTable [64][]uint64

	betweenBits [64][64]uint64
	alignedBits [64][64]uint64

	adjacentFiles        [8]uint64
	threeFilesForward    [2][64]uint64
	adjacentFilesForward [2][64]uint64

	// castlingInternalSquares[color][0]=kingside transit+clear mask, [1]=queenside.
	castlingInternalSquares [2][2]uint64
)

func init() {
	initAttackTables()
	initRays()
	initSliderTables()
	initBetweenAligned()
	initPawnStructureTables()
	initCastlingTables()
}

func initAttackTables() {
	knightOffsets := [8][2]int{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	kingOffsets := [8][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

	for s := 0; s < 64; s++ {
		file, rank := s%8, s/8
		var kn, ki uint64
		for _, off := range knightOffsets {
			rf, ff := rank+off[0], file+off[1]
			if rf >= 0 && rf < 8 && ff >= 0 && ff < 8 {
				kn |= 1 << uint(rf*8+ff)
			}
		}
		for _, off := range kingOffsets {
			rf, ff := rank+off[0], file+off[1]
			if rf >= 0 && rf < 8 && ff >= 0 && ff < 8 {
				ki |= 1 << uint(rf*8+ff)
			}
		}
		knightAttacks[s] = kn
		kingAttacks[s] = ki

		if rank < 7 {
			if file > 0 {
				pawnAttacks[White][s] |= 1 << uint((rank+1)*8+file-1)
			}
			if file < 7 {
				pawnAttacks[White][s] |= 1 << uint((rank+1)*8+file+1)
			}
		}
		if rank > 0 {
			if file > 0 {
				pawnAttacks[Black][s] |= 1 << uint((rank-1)*8+file-1)
			}
			if file < 7 {
				pawnAttacks[Black][s] |= 1 << uint((rank-1)*8+file+1)
			}
		}
	}
}

func initRays() {
	for s := 0; s < 64; s++ {
		file, rank := s%8, s/8

		var ray uint64
		for r := rank + 1; r < 8; r++ {
			ray |= 1 << uint(r*8+file)
		}
		rookRays[s][0] = ray

		ray = 0
		for r := rank - 1; r >= 0; r-- {
			ray |= 1 << uint(r*8+file)
		}
		rookRays[s][1] = ray

		ray = 0
		for f := file + 1; f < 8; f++ {
			ray |= 1 << uint(rank*8+f)
		}
		rookRays[s][2] = ray

		ray = 0
		for f := file - 1; f >= 0; f-- {
			ray |= 1 << uint(rank*8+f)
		}
		rookRays[s][3] = ray

		ray = 0
		for r, f := rank+1, file+1; r < 8 && f < 8; r, f = r+1, f+1 {
			ray |= 1 << uint(r*8+f)
		}
		bishopRays[s][0] = ray

		ray = 0
		for r, f := rank+1, file-1; r < 8 && f >= 0; r, f = r+1, f-1 {
			ray |= 1 << uint(r*8+f)
		}
		bishopRays[s][1] = ray

		ray = 0
		for r, f := rank-1, file+1; r >= 0 && f < 8; r, f = r-1, f+1 {
			ray |= 1 << uint(r*8+f)
		}
		bishopRays[s][2] = ray

		ray = 0
		for r, f := rank-1, file-1; r >= 0 && f >= 0; r, f = r-1, f-1 {
			ray |= 1 << uint(r*8+f)
		}
		bishopRays[s][3] = ray

		kingRaysUnion[s] = rookRays[s][0] | rookRays[s][1] | rookRays[s][2] | rookRays[s][3] |
			bishopRays[s][0] | bishopRays[s][1] | bishopRays[s][2] | bishopRays[s][3]
	}
}

// rookAttacksSlow/bishopAttacksSlow compute slider attacks by ray-walking; used only to
// populate the PEXT/PDEP lookup tables at startup.
func rookAttacksSlow(s int, occ uint64) uint64 {
	var attacks uint64
	for d := 0; d < 4; d++ {
		ray := rookRays[s][d]
		blockers := ray & occ
		if blockers == 0 {
			attacks |= ray
			continue
		}
		var first int
		if d == 0 || d == 2 {
			first = bits.TrailingZeros64(blockers)
		} else {
			first = 63 - bits.LeadingZeros64(blockers)
		}
		attacks |= ray &^ rookRays[first][d]
	}
	return attacks
}

func bishopAttacksSlow(s int, occ uint64) uint64 {
	var attacks uint64
	for d := 0; d < 4; d++ {
		ray := bishopRays[s][d]
		blockers := ray & occ
		if blockers == 0 {
			attacks |= ray
			continue
		}
		var first int
		if d == 0 || d == 1 {
			first = bits.TrailingZeros64(blockers)
		} else {
			first = 63 - bits.LeadingZeros64(blockers)
		}
		attacks |= ray &^ bishopRays[first][d]
	}
	return attacks
}

// pext extracts, into the low bits of the result, the bits of x at the positions set in mask.
func pext(x, mask uint64) uint64 {
	var res uint64
	var idx uint
	for m := mask; m != 0; m &= m - 1 {
		bit := uint(bits.TrailingZeros64(m & -m))
		if (x>>bit)&1 != 0 {
			res |= 1 << idx
		}
		idx++
	}
	return res
}

// pdep scatters the low bits of x into the positions set in mask.
func pdep(x, mask uint64) uint64 {
	var res uint64
	var idx uint
	for m := mask; m != 0; m &= m - 1 {
		bit := uint(bits.TrailingZeros64(m & -m))
		if (x>>idx)&1 != 0 {
			res |= 1 << bit
		}
		idx++
	}
	return res
}

// initSliderTables builds, for every square, a relevant-occupancy mask (rays with the
// far edge trimmed) and a dense table indexed by the PEXT-compressed occupancy subset,
// emulating a magic-bitboard lookup entirely in software (no CPU PEXT/PDEP instruction).
func initSliderTables() {
	for s := 0; s < 64; s++ {
		file, rank := s%8, s/8

		var rm uint64
		for r := rank + 1; r < 7; r++ {
			rm |= 1 << uint(r*8+file)
		}
		for r := rank - 1; r > 0; r-- {
			rm |= 1 << uint(r*8+file)
		}
		for f := file + 1; f < 7; f++ {
			rm |= 1 << uint(rank*8+f)
		}
		for f := file - 1; f > 0; f-- {
			rm |= 1 << uint(rank*8+f)
		}
		rookMask[s] = rm

		var bm uint64
		for r, f := rank+1, file+1; r < 7 && f < 7; r, f = r+1, f+1 {
			bm |= 1 << uint(r*8+f)
		}
		for r, f := rank+1, file-1; r < 7 && f > 0; r, f = r+1, f-1 {
			bm |= 1 << uint(r*8+f)
		}
		for r, f := rank-1, file+1; r > 0 && f < 7; r, f = r-1, f+1 {
			bm |= 1 << uint(r*8+f)
		}
		for r, f := rank-1, file-1; r > 0 && f > 0; r, f = r-1, f-1 {
			bm |= 1 << uint(r*8+f)
		}
		bishopMask[s] = bm

		rBits := bits.OnesCount64(rm)
		bBits := bits.OnesCount64(bm)
		rookAttTable[s] = make([]uint64, 1<<rBits)
		bishopAttTable[s] = make([]uint64, 1<<bBits)

		for idx := 0; idx < (1 << rBits); idx++ {
			occ := pdep(uint64(idx), rm)
			rookAttTable[s][idx] = rookAttacksSlow(s, occ)
		}
		for idx := 0; idx < (1 << bBits); idx++ {
			occ := pdep(uint64(idx), bm)
			bishopAttTable[s][idx] = bishopAttacksSlow(s, occ)
		}
	}
}

func rookAttacksWith(s int, occ uint64) uint64 {
	return rookAttTable[s][pext(occ, rookMask[s])]
}

func bishopAttacksWith(s int, occ uint64) uint64 {
	return bishopAttTable[s][pext(occ, bishopMask[s])]
}

// initBetweenAligned builds betweenBits (squares strictly between two colinear squares,
// or just {b} otherwise) and alignedBits (the full line through a and b, or 0).
func initBetweenAligned() {
	for a := 0; a < 64; a++ {
		for b := 0; b < 64; b++ {
			if a == b {
				betweenBits[a][b] = 1 << uint(b)
				continue
			}
			found := false
			for d := 0; d < 4; d++ {
				if rookRays[a][d]&(uint64(1)<<uint(b)) != 0 {
					opp := d ^ 1 // N<->S, E<->W share index pairs (0,1) and (2,3)
					betweenBits[a][b] = rookRays[a][d] &^ rookRays[b][d] &^ (uint64(1) << uint(b))
					alignedBits[a][b] = rookRays[a][d] | rookRays[b][opp] | (uint64(1) << uint(a)) | (uint64(1) << uint(b))
					found = true
					break
				}
			}
			if !found {
				for d := 0; d < 4; d++ {
					if bishopRays[a][d]&(uint64(1)<<uint(b)) != 0 {
						// bishop direction opposites: NE(0)<->SW(3), NW(1)<->SE(2)
						opp := 3 - d
						betweenBits[a][b] = bishopRays[a][d] &^ bishopRays[b][d] &^ (uint64(1) << uint(b))
						alignedBits[a][b] = bishopRays[a][d] | bishopRays[b][opp] | (uint64(1) << uint(a)) | (uint64(1) << uint(b))
						found = true
						break
					}
				}
			}
			if !found {
				betweenBits[a][b] = uint64(1) << uint(b)
			}
		}
	}
}

func initPawnStructureTables() {
	for f := 0; f < 8; f++ {
		var m uint64
		if f > 0 {
			m |= fileMask(f - 1)
		}
		if f < 7 {
			m |= fileMask(f + 1)
		}
		adjacentFiles[f] = m
	}

	for s := 0; s < 64; s++ {
		file, rank := s%8, s/8
		var three, adjFwd uint64
		for df := -1; df <= 1; df++ {
			ff := file + df
			if ff < 0 || ff > 7 {
				continue
			}
			for r := rank + 1; r < 8; r++ {
				three |= 1 << uint(r*8+ff)
			}
			if df != 0 {
				for r := rank + 1; r < 8; r++ {
					adjFwd |= 1 << uint(r*8+ff)
				}
			}
		}
		threeFilesForward[White][s] = three
		adjacentFilesForward[White][s] = adjFwd

		three, adjFwd = 0, 0
		for df := -1; df <= 1; df++ {
			ff := file + df
			if ff < 0 || ff > 7 {
				continue
			}
			for r := rank - 1; r >= 0; r-- {
				three |= 1 << uint(r*8+ff)
			}
			if df != 0 {
				for r := rank - 1; r >= 0; r-- {
					adjFwd |= 1 << uint(r*8+ff)
				}
			}
		}
		threeFilesForward[Black][s] = three
		adjacentFilesForward[Black][s] = adjFwd
	}
}

func fileMask(f int) uint64 {
	var m uint64
	for r := 0; r < 8; r++ {
		m |= 1 << uint(r*8+f)
	}
	return m
}

func initCastlingTables() {
	// White kingside: f1,g1 must be empty and (with king) not attacked; queenside: b1,c1,d1 empty.
	castlingInternalSquares[White][0] = bit(5) | bit(6)
	castlingInternalSquares[White][1] = bit(1) | bit(2) | bit(3)
	castlingInternalSquares[Black][0] = bit(61) | bit(62)
	castlingInternalSquares[Black][1] = bit(57) | bit(58) | bit(59)
}

func bit(s int) uint64 { return uint64(1) << uint(s) }

func popLSB(bb *uint64) int {
	s := bits.TrailingZeros64(*bb)
	*bb &= *bb - 1
	return s
}
