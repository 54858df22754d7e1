package chase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/guarzo/pkmchase/internal/fallback"
	"github.com/guarzo/pkmchase/internal/model"
	"github.com/guarzo/pkmchase/internal/sets"
)

const (
	NoticeSample      = "Showing sample data: live pricing is unavailable right now."
	NoticeNoSample    = "Live pricing is unavailable and there is no sample data for this set."
	NoticeUnsupported = "This set is not supported."
	NoticeNoChase     = "No priced chase cards were found for this set."
)

// Result is what the presentation layer renders for one set.
type Result struct {
	SetID       string             `json:"setId"`
	SetName     string             `json:"setName,omitempty"`
	Strategy    Strategy           `json:"strategy"`
	Cards       []model.RankedCard `json:"cards"`
	Fallback    bool               `json:"fallback"`
	Notice      string             `json:"notice,omitempty"`
	GeneratedAt time.Time          `json:"generatedAt"`
}

// Service wraps an Aggregator and substitutes curated data on failure, so
// callers always get something to render.
type Service struct {
	agg          *Aggregator
	sets         *sets.Registry
	fallback     *fallback.Table
	defaultLimit int
	log          zerolog.Logger
	now          func() time.Time
}

// NewService creates a service. defaultLimit replaces non-positive limits.
func NewService(agg *Aggregator, defaultLimit int) *Service {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	table := agg.Fallback
	if table == nil {
		table = fallback.Default()
	}
	registry := agg.Sets
	if registry == nil {
		registry = sets.Default()
	}
	return &Service{
		agg:          agg,
		sets:         registry,
		fallback:     table,
		defaultLimit: defaultLimit,
		log:          agg.Logger,
		now:          time.Now,
	}
}

// Sets returns the dropdown options.
func (s *Service) Sets() []model.Set {
	return s.sets.Options()
}

// Known reports whether uiSetID is in the set table.
func (s *Service) Known(uiSetID string) bool { return s.sets.Known(uiSetID) }

// DefaultLimit is the limit used when a caller passes none.
func (s *Service) DefaultLimit() int { return s.defaultLimit }

// Strategy reports which pipeline the service runs.
func (s *Service) Strategy() Strategy { return s.agg.Strategy }

// Top returns the ranked chase cards for uiSetID. Pipeline failures are
// logged and turned into a notice; they are never returned to the caller.
func (s *Service) Top(ctx context.Context, uiSetID string, limit int) Result {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	res := Result{
		SetID:       uiSetID,
		Strategy:    s.agg.Strategy,
		GeneratedAt: s.now(),
	}
	if set, ok := s.sets.Lookup(uiSetID); ok {
		res.SetName = set.Name
	}

	log := s.logger(ctx)
	cards, err := s.agg.TopChaseCards(ctx, uiSetID, limit)
	switch {
	case err == nil:
		res.Cards = cards
		if len(cards) == 0 {
			res.Notice = NoticeNoChase
		}
	case model.IsUnsupportedSet(err):
		log.Info().Str("set", uiSetID).Msg("unsupported set requested")
		res.Cards = []model.RankedCard{}
		res.Notice = NoticeUnsupported
	default:
		log.Warn().Err(err).Str("set", uiSetID).Bool("upstream", model.IsUpstreamFailure(err)).Msg("serving sample data")
		res.Fallback = true
		res.Cards = s.fallback.Get(uiSetID)
		if len(res.Cards) > limit {
			res.Cards = res.Cards[:limit]
		}
		if len(res.Cards) == 0 {
			res.Cards = []model.RankedCard{}
			res.Notice = NoticeNoSample
		} else {
			res.Notice = NoticeSample
		}
	}
	return res
}

// logger prefers the request-scoped logger carried by ctx.
func (s *Service) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.log
}
