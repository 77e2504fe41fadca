package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kaiesamurai/mattock/engine"
	gm "github.com/kaiesamurai/mattock/goosemg"
)

func atoi(s string) int { v, _ := strconv.Atoi(s); return v }

// parseUCIMove finds the legal move matching a UCI coordinate string
// ("e2e4", "e7e8q") by generating every legal move and comparing its
// rendered string, since the packed Move encoding carries no knowledge of
// which piece is moving and so can't be built from the string alone.
func parseUCIMove(pos *gm.Position, s string) gm.Move {
	var list gm.MoveList
	pos.Generate(&list, gm.ModeAll)
	for i := 0; i < list.Len(); i++ {
		m := list.At(i).Move()
		if m.String() == s {
			return m
		}
	}
	return gm.NullMove
}

func setPosition(fen string, moves []string) *gm.Position {
	pos, err := gm.ParseFEN(fen)
	if err != nil {
		pos, _ = gm.ParseFEN(gm.FENStartPos)
	}
	for _, mv := range moves {
		m := parseUCIMove(pos, mv)
		if m == gm.NullMove {
			break
		}
		pos.Make(m)
	}
	return pos
}

func main() {
	reader := bufio.NewReader(os.Stdin)
	pos, _ := gm.ParseFEN(gm.FENStartPos)
	engine.ResetForNewGame()

	fmt.Println("id name mattock")
	fmt.Println("id author kaiesamurai")
	fmt.Println("uciok")

	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			handleLine(&pos, line)
		}
		if err != nil {
			return
		}
		if line == "quit" {
			return
		}
	}
}

func handleLine(pos **gm.Position, line string) {
	parts := strings.Fields(line)
	switch parts[0] {
	case "quit":
		return
	case "uci":
		fmt.Println("id name mattock")
		fmt.Println("id author kaiesamurai")
		fmt.Println("uciok")
	case "isready":
		fmt.Println("readyok")
	case "ucinewgame":
		engine.ResetForNewGame()
		*pos, _ = gm.ParseFEN(gm.FENStartPos)
	case "position":
		handlePosition(pos, parts[1:])
	case "stop":
		engine.Stop()
	case "go":
		handleGo(*pos, parts[1:])
	}
}

func handlePosition(pos **gm.Position, args []string) {
	if len(args) == 0 {
		return
	}
	var fen string
	var rest []string
	switch args[0] {
	case "startpos":
		fen = gm.FENStartPos
		rest = args[1:]
	case "fen":
		i := 1
		for i < len(args) && args[i] != "moves" {
			i++
		}
		fen = strings.Join(args[1:i], " ")
		rest = args[i:]
	default:
		return
	}

	var moves []string
	if len(rest) > 0 && rest[0] == "moves" {
		moves = rest[1:]
	}
	*pos = setPosition(fen, moves)
}

func handleGo(pos *gm.Position, args []string) {
	depth := int8(0)
	nodes := uint64(0)
	infinite := false
	moveTimeMs := -1
	wtimeMs, btimeMs, wincMs, bincMs, movesToGo := -1, -1, 0, 0, 0

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			i++
			depth = int8(atoi(args[i]))
		case "nodes":
			i++
			nodes = uint64(atoi(args[i]))
		case "movetime":
			i++
			moveTimeMs = atoi(args[i])
		case "wtime":
			i++
			wtimeMs = atoi(args[i])
		case "btime":
			i++
			btimeMs = atoi(args[i])
		case "winc":
			i++
			wincMs = atoi(args[i])
		case "binc":
			i++
			bincMs = atoi(args[i])
		case "movestogo":
			i++
			movesToGo = atoi(args[i])
		case "infinite":
			infinite = true
		}
	}

	var limits engine.Limits
	maxDepth := int8(engine.MaxDepth - 1)

	switch {
	case infinite:
		limits = engine.NewDepthLimits(0, nodes, true)
	case moveTimeMs >= 0:
		limits = engine.NewFixedLimits(moveTimeMs, false)
	case wtimeMs >= 0 || btimeMs >= 0:
		remaining, inc := wtimeMs, wincMs
		if pos.Side() == gm.Black {
			remaining, inc = btimeMs, bincMs
		}
		if movesToGo > 0 {
			limits = engine.NewConventionalLimits(remaining, inc, movesToGo, false)
		} else {
			limits = engine.NewIncrementalLimits(remaining, inc, false)
		}
	case depth > 0:
		maxDepth = depth
		limits = engine.NewDepthLimits(depth, nodes, false)
	default:
		limits = engine.NewDepthLimits(0, nodes, true)
	}

	bestMove, _ := engine.RootSearch(pos, &limits, maxDepth, true)
	if bestMove == gm.NullMove {
		fmt.Println("bestmove 0000")
	} else {
		fmt.Printf("bestmove %s\n", bestMove.String())
	}
}
