package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/kaiesamurai/mattock/engine"
	gm "github.com/kaiesamurai/mattock/goosemg"
)

func main() {
	depthFlag := flag.Int("depth", 10, "search depth in plies")
	repeatFlag := flag.Int("repeat", 1, "number of searches to run")
	fenFlag := flag.String("fen", "", "FEN to search (empty = startpos)")
	cpuProfile := flag.String("cpuprofile", "", "write CPU profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile (heap) to file")
	flag.Parse()

	if *depthFlag <= 0 {
		log.Fatalf("depth must be positive, got %d", *depthFlag)
	}

	var cpuFile *os.File
	var err error
	if *cpuProfile != "" {
		cpuFile, err = os.Create(*cpuProfile)
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}()
	}

	fen := gm.FENStartPos
	if *fenFlag != "" {
		fen = *fenFlag
	}

	depth := int8(*depthFlag)
	repeat := *repeatFlag

	fmt.Printf("searchbench: fen=%q depth=%d repeat=%d\n", fen, depth, repeat)

	startAll := time.Now()
	for i := 0; i < repeat; i++ {
		pos, parseErr := gm.ParseFEN(fen)
		if parseErr != nil {
			log.Fatalf("ParseFEN: %v", parseErr)
		}

		engine.ResetForNewGame()
		limits := engine.NewDepthLimits(depth, 0, false)

		iterStart := time.Now()
		bestMove, score := engine.RootSearch(pos, &limits, depth, false)
		iterElapsed := time.Since(iterStart)

		fmt.Printf("iteration %d: bestmove %s score %d  time=%v\n", i+1, bestMove.String(), score, iterElapsed)
	}
	totalElapsed := time.Since(startAll)
	fmt.Printf("total time: %v\n", totalElapsed)

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			log.Fatalf("could not create memory profile: %v", err)
		}
		defer f.Close()

		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatalf("could not write memory profile: %v", err)
		}
	}
}
