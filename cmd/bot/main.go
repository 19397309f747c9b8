package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/barrybecker4/conquest-engine/pkg/ai"
	"github.com/barrybecker4/conquest-engine/pkg/engine"
)

// cmd/bot runs self-play matches entirely in-memory against pkg/engine and
// pkg/ai, with no server/database involved — useful for personality tuning
// and regression-checking the AI without standing up the full stack.
func main() {
	var (
		matchup  string
		numGames int
		workers  int
		maxTurns int
		seed     string
		jsonOut  bool
	)

	flag.StringVar(&matchup, "matchup", "Berserker-vs-Defender", "personality matchup, e.g. Berserker-vs-Defender")
	flag.IntVar(&numGames, "n", 1, "number of games to run")
	flag.IntVar(&workers, "workers", 1, "concurrency (parallel games)")
	flag.IntVar(&maxTurns, "max-turns", 200, "max turns before a score-based draw/winner is forced")
	flag.StringVar(&seed, "seed", "arena", "base RNG seed")
	flag.BoolVar(&jsonOut, "json", false, "print the totals as a single JSON line")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	p0, p1 := parseMatchup(matchup)

	results := make([]arenaResult, numGames)
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for i := 0; i < numGames; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = runGame(fmt.Sprintf("%s-%d", seed, idx), p0, p1, maxTurns)
			log.Info().Int("game", idx+1).Str("winner", results[idx].winner).Int("turns", results[idx].turns).Msg("game completed")
		}(i)
	}
	wg.Wait()

	printSummary(results, p0, p1, jsonOut)
}

type arenaResult struct {
	winner string
	draw   bool
	turns  int
}

func runGame(seed, p0, p1 string, maxTurns int) arenaResult {
	st := seedArenaState(seed, p0, p1, maxTurns)

	for {
		if ended, _ := engine.IsGameEnded(st); ended {
			slot, draw := engine.Winner(st)
			name := p0
			if slot == 1 {
				name = p1
			}
			if draw {
				return arenaResult{draw: true, turns: st.TurnNumber}
			}
			return arenaResult{winner: name, turns: st.TurnNumber}
		}
		st = ai.TakeTurn(st, st.CurrentPlayerSlot, 500*time.Millisecond)
	}
}

func seedArenaState(seed, p0, p1 string, maxTurns int) *engine.GameState {
	regions := []engine.Region{
		{Index: 0, Neighbors: []int{1, 2}},
		{Index: 1, Neighbors: []int{0, 3}},
		{Index: 2, Neighbors: []int{0, 3}},
		{Index: 3, Neighbors: []int{1, 2}},
	}
	owners := map[int]int{0: 0, 1: 0, 2: 1, 3: 1}
	soldiers := map[int][]engine.Soldier{
		0: {{ID: 1}, {ID: 2}}, 1: {{ID: 3}, {ID: 4}},
		2: {{ID: 5}, {ID: 6}}, 3: {{ID: 7}, {ID: 8}},
	}

	return &engine.GameState{
		MaxTurns:          maxTurns,
		CurrentPlayerSlot: 0,
		MovesRemaining:    3,
		Players: []engine.Player{
			{SlotIndex: 0, Name: p0, IsAI: true, Personality: p0},
			{SlotIndex: 1, Name: p1, IsAI: true, Personality: p1},
		},
		Map:                    engine.NewRegionMap(regions),
		OwnersByRegion:         owners,
		SoldiersByRegion:       soldiers,
		TemplesByRegion:        map[int]engine.Temple{},
		FaithByPlayer:          map[int]int{0: 0, 1: 0},
		ConqueredRegions:       map[int]bool{},
		EliminatedPlayers:      map[int]bool{},
		SoldiersBoughtThisTurn: map[int]int{},
		PendingAirRefund:       map[int]int{},
		NextSoldierID:          9,
		RNGSeed:                seed,
	}
}

func parseMatchup(s string) (string, string) {
	parts := strings.SplitN(s, "-vs-", 2)
	if len(parts) != 2 {
		return "Berserker", "Defender"
	}
	return parts[0], parts[1]
}

func printSummary(results []arenaResult, p0, p1 string, jsonOut bool) {
	wins := map[string]int{p0: 0, p1: 0}
	draws := 0
	for _, r := range results {
		if r.draw {
			draws++
			continue
		}
		wins[r.winner]++
	}

	if jsonOut {
		fmt.Printf(`{"%s_wins":%d,"%s_wins":%d,"draws":%d,"total":%d}`+"\n", p0, wins[p0], p1, wins[p1], draws, len(results))
		return
	}

	fmt.Printf("\n%s vs %s (%d games):\n", p0, p1, len(results))
	fmt.Printf("  %-12s %d wins\n", p0, wins[p0])
	fmt.Printf("  %-12s %d wins\n", p1, wins[p1])
	fmt.Printf("  %-12s %d\n", "draws", draws)
}
