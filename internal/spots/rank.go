package spots

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/paulmach/orb"

	"github.com/castnet/castnet-go/internal/errors"
	"github.com/castnet/castnet-go/internal/habitat"
)

// ScoredSpot is one ranked location together with the weather snapshot it
// was scored against and a human-readable rationale.
type ScoredSpot struct {
	Location  habitat.Location `json:"location"`
	Weather   WeatherSnapshot  `json:"weather"`
	BiteScore int              `json:"bite_score"`
	Status    Status           `json:"status"`
	Reasoning string           `json:"reasoning"`
}

// Engine ranks habitat locations for a target species. It performs no I/O
// and holds no mutable state, so a single instance is safe for concurrent
// use.
type Engine struct {
	cfg      ScoringConfig
	matcher  KeywordMatcher
	profiles Profiles
}

// NewEngine builds a ranking engine. A nil matcher falls back to the
// substring matcher configured from cfg.
func NewEngine(cfg ScoringConfig, matcher KeywordMatcher, profiles Profiles) *Engine {
	if matcher == nil {
		m := NewSubstringMatcher(cfg.MaxKeywordHits)
		if cfg.MultiplierCeil > cfg.MultiplierFloor {
			m.Floor = cfg.MultiplierFloor
			m.Ceil = cfg.MultiplierCeil
		}
		matcher = m
	}
	return &Engine{cfg: cfg, matcher: matcher, profiles: profiles}
}

// Rank scores every location that has a weather snapshot and returns them
// in descending bite-score order. Locations whose region has no snapshot
// in weatherByID are skipped rather than scored on stale or guessed data.
// Ties preserve the catalog order of the input slice. A nil bounds scores
// everything; otherwise only locations inside the bound are considered.
// An empty result is not an error.
func (e *Engine) Rank(species string, locations []habitat.Location, weatherByID map[string]WeatherSnapshot, now time.Time, bounds *orb.Bound, limit int) ([]ScoredSpot, error) {
	profile, ok := e.profiles.Get(species)
	if !ok {
		names := e.profiles.Names()
		sort.Strings(names)
		supported := strings.Join(names, ", ")
		return nil, errors.New(fmt.Errorf("%w: %q (supported: %s)", ErrUnknownSpecies, species, supported)).
			Component("spots").
			Category(errors.CategoryRanking).
			Context("species", species).
			Build()
	}

	hour := now.Hour()
	scored := make([]ScoredSpot, 0, len(locations))
	for _, loc := range locations {
		if bounds != nil && !bounds.Contains(loc.Point()) {
			continue
		}
		weather, ok := weatherByID[loc.ID]
		if !ok {
			continue
		}

		text := loc.HabitatType + " " + loc.HabitatDescription
		mult := e.matcher.Multiplier(text, profile.Keywords)
		weatherScore := e.cfg.weatherScore(&profile, weather)
		timeScore := e.cfg.timeScore(&profile, hour)
		score := e.cfg.compositeScore(loc.BaseHabitatScore, mult, weatherScore, timeScore)

		scored = append(scored, ScoredSpot{
			Location:  loc,
			Weather:   weather,
			BiteScore: score,
			Status:    e.cfg.StatusFor(score),
			Reasoning: e.cfg.reasoning(&profile, mult, weather, hour),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].BiteScore > scored[j].BiteScore
	})

	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

// Best returns the single highest-scoring spot, or false when no location
// could be scored.
func (e *Engine) Best(species string, locations []habitat.Location, weatherByID map[string]WeatherSnapshot, now time.Time, bounds *orb.Bound) (ScoredSpot, bool, error) {
	ranked, err := e.Rank(species, locations, weatherByID, now, bounds, 1)
	if err != nil {
		return ScoredSpot{}, false, err
	}
	if len(ranked) == 0 {
		return ScoredSpot{}, false, nil
	}
	return ranked[0], true, nil
}
