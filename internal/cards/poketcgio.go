package cards

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/guarzo/pkmchase/internal/cache"
	"github.com/guarzo/pkmchase/internal/httpx"
	"github.com/guarzo/pkmchase/internal/model"
)

const (
	DefaultBaseURL = "https://api.pokemontcg.io/v2"
	MaxPageSize    = 250
	sourceName     = "pokemontcg.io"
)

// PokeTCGIO is the card catalog client. Responses carry card metadata,
// rarity and the upstream's own embedded marketplace payloads.
type PokeTCGIO struct {
	apiKey  string
	baseURL string
	client  *httpx.Client
	cache   *cache.Memory[[]model.Card]
	ttl     time.Duration
	log     zerolog.Logger
}

// Options configures a PokeTCGIO client.
type Options struct {
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	Cache    *cache.Memory[[]model.Card] // optional
	CacheTTL time.Duration
	Logger   zerolog.Logger
}

func NewPokeTCGIO(opts Options) *PokeTCGIO {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &PokeTCGIO{
		apiKey:  opts.APIKey,
		baseURL: base,
		client:  httpx.New(sourceName, opts.Timeout, nil),
		cache:   opts.Cache,
		ttl:     opts.CacheTTL,
		log:     opts.Logger,
	}
}

type apiCard struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
	Rarity string `json:"rarity"`
	Set    struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"set"`
	Images struct {
		Small string `json:"small"`
		Large string `json:"large"`
	} `json:"images"`
	TCGPlayer  map[string]any `json:"tcgplayer"`
	Cardmarket *struct {
		Prices map[string]any `json:"prices"`
	} `json:"cardmarket"`
}

// CardsBySet fetches one page of up to pageSize cards for a catalog set id.
// An empty page is an upstream failure: without a catalog there is nothing
// to rank.
func (p *PokeTCGIO) CardsBySet(ctx context.Context, setID string, pageSize int) ([]model.Card, error) {
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	key := cache.CatalogKey(setID, pageSize)
	if p.cache != nil {
		if cards, ok := p.cache.Get(key); ok {
			p.log.Debug().Str("set", setID).Int("cards", len(cards)).Msg("catalog cache hit")
			return cards, nil
		}
	}

	// GET /v2/cards?q=set.id:sv1&pageSize=N
	q := url.Values{}
	q.Set("q", "set.id:"+setID)
	q.Set("pageSize", fmt.Sprint(pageSize))
	u := p.baseURL + "/cards?" + q.Encode()

	header := http.Header{}
	if p.apiKey != "" {
		header.Set("X-Api-Key", p.apiKey)
	}

	body, err := p.client.Get(ctx, u, header)
	if err != nil {
		return nil, err
	}

	items, err := httpx.DecodeList(sourceName, body, "data")
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &model.UpstreamRequestError{Source: sourceName, Err: fmt.Errorf("no cards for set %s", setID)}
	}

	cards := make([]model.Card, 0, len(items))
	for _, item := range items {
		var c apiCard
		if err := json.Unmarshal(item, &c); err != nil {
			return nil, &model.MalformedResponseError{Source: sourceName, Detail: "card record", Err: err}
		}
		cards = append(cards, c.toModel())
	}

	if p.cache != nil {
		p.cache.Set(key, cards, p.ttl)
	}
	return cards, nil
}

func (c apiCard) toModel() model.Card {
	card := model.Card{
		ID:       c.ID,
		Number:   c.Number,
		Name:     c.Name,
		Rarity:   c.Rarity,
		SetID:    c.Set.ID,
		SetName:  c.Set.Name,
		ImageURL: c.Images.Large,
	}
	if card.ImageURL == "" {
		card.ImageURL = c.Images.Small
	}

	raw := map[model.Source]map[string]any{}
	if len(c.TCGPlayer) > 0 {
		raw[model.SourceTCGPlayer] = c.TCGPlayer
	}
	if c.Cardmarket != nil && len(c.Cardmarket.Prices) > 0 {
		raw[model.SourceCardmarket] = c.Cardmarket.Prices
	}
	if len(raw) > 0 {
		card.Raw = raw
	}
	return card
}
