// Command calibrate replays archived seasons through a fresh rating engine
// and reports per-season Brier scores plus a bucketed calibration table, for
// judging how honest the predicted win probabilities are.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/bracket-predictor-service/internal/models"
	"github.com/cypherlabdev/bracket-predictor-service/internal/rating"
	"github.com/cypherlabdev/bracket-predictor-service/internal/store"
)

const calibrationBuckets = 20

func main() {
	var (
		redisAddr = flag.String("redis", "localhost:6379", "Redis `address` holding archived seasons")
		startYear = flag.Int("from", 2008, "first season `year` to replay")
		endYear   = flag.Int("to", 2017, "last season `year` to replay; its predictions feed the calibration table")
	)
	flag.Parse()

	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)
	st := store.NewRedisStore(store.RedisStoreConfig{Addr: *redisAddr}, logger)
	defer st.Close()

	engine := rating.NewEngine(rating.Params{
		KQualification: 15,
		KPlayoff:       5,
		DefaultRating:  1350,
		InitialStdev:   20,
		WindowSize:     800,
		RecomputeEvery: 100,
		MarginScale:    0.004,
	}, logger)

	ctx := context.Background()
	var lastYear []outcomePair

	for year := *startYear; year <= *endYear; year++ {
		batches, err := st.YearMatches(ctx, year)
		if err != nil {
			fmt.Fprintf(os.Stderr, "season %d: %v (run the server once to archive it)\n", year, err)
			os.Exit(1)
		}

		pairs := replaySeason(engine, batches)
		fmt.Printf("%d  matches=%-5d  brier=%.4f\n", year, len(pairs), brier(pairs))
		if year == *endYear {
			lastYear = pairs
		}
		engine.NextYear(1450, 0.2, 20)
	}

	fmt.Printf("\ncalibration over %d (%d buckets):\n", *endYear, calibrationBuckets)
	printCalibration(lastYear)
}

// outcomePair is one match's forecast next to what actually happened.
type outcomePair struct {
	forecast float64
	outcome  float64 // 1 blue win, 0 red win, 0.5 tie
}

func replaySeason(engine *rating.Engine, batches []models.EventMatches) []outcomePair {
	var pairs []outcomePair
	for _, batch := range batches {
		for _, m := range batch.Matches {
			if !m.Played() {
				continue
			}
			forecast := engine.PredictMatch(m)

			outcome := 0.5
			if m.Margin() > 0 {
				outcome = 1
			} else if m.Margin() < 0 {
				outcome = 0
			}

			pairs = append(pairs, outcomePair{forecast: forecast, outcome: outcome})
			engine.Update(m)
		}
	}
	return pairs
}

func brier(pairs []outcomePair) float64 {
	if len(pairs) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, p := range pairs {
		sum += (p.forecast - p.outcome) * (p.forecast - p.outcome)
	}
	return sum / float64(len(pairs))
}

// printCalibration buckets forecasts into equal-width probability bands and
// compares each band's mean forecast against its empirical win rate. Ties are
// excluded; they carry no directional information.
func printCalibration(pairs []outcomePair) {
	counts := make([]int, calibrationBuckets)
	wins := make([]float64, calibrationBuckets)

	for _, p := range pairs {
		if p.outcome == 0.5 {
			continue
		}
		bucket := int(p.forecast * calibrationBuckets)
		if bucket == calibrationBuckets {
			bucket--
		}
		counts[bucket]++
		wins[bucket] += p.outcome
	}

	var totalDrift float64
	for i := 0; i < calibrationBuckets; i++ {
		mid := (float64(i) + 0.5) / calibrationBuckets
		if counts[i] == 0 {
			fmt.Printf("  %.3f  (no samples)\n", mid)
			continue
		}
		observed := wins[i] / float64(counts[i])
		fmt.Printf("  %.3f  observed=%.3f  n=%d\n", mid, observed, counts[i])
		totalDrift += math.Abs(mid - observed)
	}
	fmt.Printf("total calibration drift: %.4f\n", totalDrift)
}
