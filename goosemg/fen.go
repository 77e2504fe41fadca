package goosemg

import (
	"errors"
	"strconv"
	"strings"
)

// FENStartPos is the FEN string for the standard initial chess position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var fenPieceChars = map[rune]Piece{
	'P': MakePiece(White, Pawn), 'N': MakePiece(White, Knight), 'B': MakePiece(White, Bishop),
	'R': MakePiece(White, Rook), 'Q': MakePiece(White, Queen), 'K': MakePiece(White, King),
	'p': MakePiece(Black, Pawn), 'n': MakePiece(Black, Knight), 'b': MakePiece(Black, Bishop),
	'r': MakePiece(Black, Rook), 'q': MakePiece(Black, Queen), 'k': MakePiece(Black, King),
}

// ParseFEN parses a FEN string and returns a new Position set up to that position.
// Fields 5 and 6 (halfmove clock, fullmove number) default to 0/1 when omitted.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, errors.New("invalid FEN: not enough fields")
	}

	p := &Position{}
	p.states = append(p.states, stateRecord{ep: NoSquare})

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, errors.New("invalid FEN: incorrect number of ranks")
	}
	for i, rankStr := range ranks {
		if len(rankStr) == 0 {
			return nil, errors.New("invalid FEN: empty rank description")
		}
		rankIndex := 7 - i
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			pc, ok := fenPieceChars[ch]
			if !ok {
				return nil, errors.New("invalid FEN: unrecognized piece character")
			}
			if file >= 8 {
				return nil, errors.New("invalid FEN: too many squares in rank")
			}
			p.addPiece(pc, sq(file, rankIndex))
			file++
		}
		if file != 8 {
			return nil, errors.New("invalid FEN: rank does not have 8 columns")
		}
	}

	switch fields[1] {
	case "w":
		p.side = White
	case "b":
		p.side = Black
	default:
		return nil, errors.New("invalid FEN: side to move must be 'w' or 'b'")
	}

	top := p.top()
	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				top.castleRights |= CastleWhiteK
			case 'Q':
				top.castleRights |= CastleWhiteQ
			case 'k':
				top.castleRights |= CastleBlackK
			case 'q':
				top.castleRights |= CastleBlackQ
			default:
				return nil, errors.New("invalid FEN: invalid castling rights character")
			}
		}
	}

	if fields[3] != "-" {
		if len(fields[3]) != 2 {
			return nil, errors.New("invalid FEN: invalid en passant square")
		}
		fileChar, rankChar := fields[3][0], fields[3][1]
		if fileChar < 'a' || fileChar > 'h' || rankChar < '1' || rankChar > '8' {
			return nil, errors.New("invalid FEN: en passant square out of range")
		}
		top.ep = sq(int(fileChar-'a'), int(rankChar-'1'))
	}

	if len(fields) > 4 {
		hm, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, errors.New("invalid FEN: halfmove clock is not a number")
		}
		top.fiftyRule = hm
	}
	p.moveCount = 1
	if len(fields) > 5 {
		fm, err := strconv.Atoi(fields[5])
		if err != nil {
			return nil, errors.New("invalid FEN: fullmove number is not a number")
		}
		p.moveCount = fm
	}

	p.refreshCheckState()
	return p, nil
}

func charFromPiece(p Piece) byte {
	l := p.Letter()
	return l
}

// ToFEN produces the FEN string representation of the position's current state.
func (p *Position) ToFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			pc := p.board[sq(file, rank)]
			if pc == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteByte(charFromPiece(pc))
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')

	if p.side == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')

	top := p.top()
	rights := top.castleRights
	if rights&(CastleWhiteBoth|CastleBlackBoth) == 0 {
		sb.WriteByte('-')
	} else {
		if rights&CastleWhiteK != 0 {
			sb.WriteByte('K')
		}
		if rights&CastleWhiteQ != 0 {
			sb.WriteByte('Q')
		}
		if rights&CastleBlackK != 0 {
			sb.WriteByte('k')
		}
		if rights&CastleBlackQ != 0 {
			sb.WriteByte('q')
		}
	}
	sb.WriteByte(' ')

	if top.ep != NoSquare {
		sb.WriteByte('a' + byte(top.ep.File()))
		sb.WriteByte('1' + byte(top.ep.Rank()))
	} else {
		sb.WriteByte('-')
	}
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(top.fiftyRule))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.moveCount))
	return sb.String()
}
