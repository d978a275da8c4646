// Command cmd replays the station simulation offline for a fixed number of
// ticks and prints the headline metrics and the at-risk ranking.
//
// Usage:
//
//	go run ./cmd -seed 42 -ticks 300 -every 30
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"station-dashboard/internal/logging"
	"station-dashboard/internal/metrics"
	"station-dashboard/internal/models"
	"station-dashboard/internal/simulation"
)

func main() {
	seed := flag.Uint64("seed", 1, "random seed (0 = time based)")
	ticks := flag.Int("ticks", 60, "number of ticks to run")
	every := flag.Int("every", 10, "print a report every N ticks")
	limit := flag.Int("limit", metrics.DefaultRankLimit, "at-risk rows per report")
	flag.Parse()

	if *ticks < 0 || *every <= 0 {
		log.Fatalf("ticks must be >= 0 and every > 0")
	}

	src := simulation.NewSource(*seed)
	loop := simulation.NewLoop(simulation.GenerateStations(src), src, 0, logging.NewWriter(os.Stderr))

	report(loop.Snapshot(), *limit)
	for i := 1; i <= *ticks; i++ {
		snap := loop.Step()
		if i%*every == 0 || i == *ticks {
			report(snap, *limit)
		}
	}
}

func report(snap *models.Snapshot, limit int) {
	d := metrics.Summarize(snap)
	fmt.Printf("tick %d  completion %.1f%% (%s)  %d/%d kg  remaining %d kg (%s)  capacity %.0f%%  fire %d kg\n",
		d.Seq,
		d.Completion.CompletionRate*100, d.CompletionTone,
		d.Completion.CompletedKg, d.Completion.TargetKg,
		d.Completion.RemainingKg, d.RemainingTone,
		d.CapacityUtilization*100,
		d.FireKg,
	)

	ranked := metrics.RankAtRisk(snap.Stations, limit)
	if len(ranked) == 0 {
		fmt.Println("  no stations at risk")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  STATION\tDEPT\tSCORE\tFLAGS\tDONE\tIDLE")
	for _, r := range ranked {
		fmt.Fprintf(w, "  %s\t%s\t%d\t%s\t%.0f%%\t%dm\n",
			r.Station.ID, r.Station.Department, r.Score, strings.Join(r.Flags(), ","),
			r.Station.CompletionRatio()*100, r.Station.LastLogMinutes)
	}
	w.Flush()
}
