package bracket

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/rs/zerolog"

	"github.com/cypherlabdev/bracket-predictor-service/internal/models"
)

// rounds is the simulated elimination ladder for an 8-slot bracket, in play
// order. Passing the finals round means winning the bracket.
var rounds = []models.RoundTier{models.TierQuarters, models.TierSemis, models.TierFinals}

// Predictor supplies the win probability for one match between two alliances.
type Predictor interface {
	Predict(blue, red []string) float64
}

// Config holds simulation tunables.
type Config struct {
	Trials      int
	SeriesToWin int
	// Seed fixes the random source; 0 means a time-derived seed.
	Seed int64
}

// Simulator estimates per-alliance advancement probabilities for a seeded
// single-elimination bracket by repeated randomized playouts. Not safe for
// concurrent use.
type Simulator struct {
	predictor Predictor
	cfg       Config
	rng       *rand.Rand
	logger    zerolog.Logger
}

// NewSimulator creates a bracket simulator backed by the given predictor.
func NewSimulator(predictor Predictor, cfg Config, logger zerolog.Logger) *Simulator {
	src := rand.NewSource(cfg.Seed)
	if cfg.Seed == 0 {
		src = rand.NewSource(rand.Int63())
	}
	return &Simulator{
		predictor: predictor,
		cfg:       cfg,
		rng:       rand.New(src),
		logger:    logger.With().Str("component", "bracket_simulator").Logger(),
	}
}

// alliance is one seeded alliance's mutable simulation state.
type alliance struct {
	number int
	teams  []string
	// level is the index in rounds of the round the alliance is currently
	// playing; -1 marks an alliance eliminated before the bracket resumed.
	level  int
	record models.WinLoss
	// passed counts, per round index, the trials in which the alliance
	// crossed that round boundary.
	passed []int
}

// node is a bracket tree position: either a resolved alliance (leaf) or an
// unresolved pairing of two subtrees played at the given round index.
type node struct {
	alliance *alliance
	level    int
	left     *node
	right    *node
}

// Simulate runs the configured number of independent bracket playouts over
// the given seeding and returns one forecast per alliance, ordered by
// ascending probability of winning the whole bracket.
func (s *Simulator) Simulate(seeding []models.SeedSlot) ([]models.BracketForecast, error) {
	alliances, err := buildAlliances(seeding)
	if err != nil {
		return nil, err
	}

	for trial := 0; trial < s.cfg.Trials; trial++ {
		root := buildTree(alliances)
		s.resolve(root)
	}

	forecasts := make([]models.BracketForecast, 0, len(alliances))
	for _, a := range alliances {
		advancement := make([]models.RoundOdds, len(rounds))
		for i, round := range rounds {
			advancement[i] = models.RoundOdds{
				Round:       round,
				Probability: float64(a.passed[i]) / float64(s.cfg.Trials),
			}
		}
		forecasts = append(forecasts, models.BracketForecast{
			AllianceNumber:      a.number,
			Teams:               a.teams,
			Advancement:         advancement,
			ChampionProbability: advancement[len(advancement)-1].Probability,
		})
	}

	sort.SliceStable(forecasts, func(i, j int) bool {
		return forecasts[i].ChampionProbability < forecasts[j].ChampionProbability
	})

	s.logger.Debug().
		Int("trials", s.cfg.Trials).
		Int("alliances", len(alliances)).
		Msg("bracket simulation complete")

	return forecasts, nil
}

// resolve plays out the subtree and returns its winner, crediting the winner
// of every pairing with a pass of that pairing's round.
func (s *Simulator) resolve(n *node) *alliance {
	if n.alliance != nil {
		return n.alliance
	}
	a := s.resolve(n.left)
	b := s.resolve(n.right)
	winner := s.playPairing(a, b, n.level)
	winner.passed[n.level]++
	return winner
}

// playPairing decides one pairing at the given round index. Real-world
// progress short-circuits rounds that are already decided, and a series in
// progress resumes from its real record instead of zero.
func (s *Simulator) playPairing(a, b *alliance, level int) *alliance {
	if a.level > level {
		return a
	}
	if b.level > level {
		return b
	}

	// wins/losses are from a's perspective.
	var wins, losses int
	if a.level == level {
		wins, losses = a.record.Wins, a.record.Losses
	} else if b.level == level {
		wins, losses = b.record.Losses, b.record.Wins
	}

	for wins < s.cfg.SeriesToWin && losses < s.cfg.SeriesToWin {
		p := s.predictor.Predict(a.teams, b.teams)
		if s.rng.Float64() <= p {
			wins++
		} else {
			losses++
		}
	}
	if wins > losses {
		return a
	}
	return b
}

// buildAlliances converts seeding slots into simulation state, applying
// backup substitutions and parsing alliance numbers from "Alliance N" names
// when present.
func buildAlliances(seeding []models.SeedSlot) ([]*alliance, error) {
	if len(seeding) != 8 {
		return nil, fmt.Errorf("unsupported bracket size: %d alliances (want 8)", len(seeding))
	}

	alliances := make([]*alliance, len(seeding))
	for i, slot := range seeding {
		teams := make([]string, len(slot.Teams))
		copy(teams, slot.Teams)
		if slot.Backup != nil {
			for j, t := range teams {
				if t == slot.Backup.Out {
					teams[j] = slot.Backup.In
				}
			}
		}

		number := slot.Number
		if number == 0 {
			number = i + 1
		}

		alliances[i] = &alliance{
			number: number,
			teams:  teams,
			level:  levelIndex(slot.Level),
			record: slot.Record,
			passed: make([]int, len(rounds)),
		}
	}
	return alliances, nil
}

// levelIndex maps an alliance's current round tier to a rounds index. An
// empty tier means the bracket has not started for that alliance; it begins
// at the first simulated round.
func levelIndex(tier models.RoundTier) int {
	for i, r := range rounds {
		if r == tier {
			return i
		}
	}
	if tier == "" {
		return 0
	}
	// Eliminated or playing a tier outside the simulated ladder.
	return -1
}

// buildTree constructs the standard 8-slot single-elimination pairing tree:
// (1v8, 4v5) on one side, (2v7, 3v6) on the other.
func buildTree(alliances []*alliance) *node {
	leaf := func(i int) *node { return &node{alliance: alliances[i]} }
	pair := func(level int, left, right *node) *node {
		return &node{level: level, left: left, right: right}
	}
	return pair(2,
		pair(1,
			pair(0, leaf(0), leaf(7)),
			pair(0, leaf(3), leaf(4)),
		),
		pair(1,
			pair(0, leaf(1), leaf(6)),
			pair(0, leaf(2), leaf(5)),
		),
	)
}
