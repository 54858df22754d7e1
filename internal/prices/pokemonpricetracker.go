package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/guarzo/pkmchase/internal/httpx"
	"github.com/guarzo/pkmchase/internal/model"
	"github.com/guarzo/pkmchase/internal/ratelimit"
)

const (
	DefaultBaseURL = "https://www.pokemonpricetracker.com/api/v2"
	providerName   = "PokemonPriceTracker"
)

// PokemonPriceTrackerProvider implements the Provider interface using PokemonPriceTracker API
type PokemonPriceTrackerProvider struct {
	apiKey  string
	baseURL string
	client  *httpx.Client
	log     zerolog.Logger
}

// priceRecord is one card as returned by the API. Marketplace blocks are
// left untyped; their shape varies between cards and API revisions.
type priceRecord struct {
	ID         string         `json:"id"`
	TCGPlayer  string         `json:"tcgPlayerId"`
	Name       string         `json:"name"`
	Number     string         `json:"number"`
	CardNumber string         `json:"cardNumber"`
	Rarity     string         `json:"rarity"`
	SetID      string         `json:"setId"`
	SetName    string         `json:"setName"`
	ImageURL   string         `json:"imageUrl"`
	Prices     map[string]any `json:"prices"`
	TCGBlock   map[string]any `json:"tcgplayer"`
	Ebay       map[string]any `json:"ebay"`
	Cardmarket map[string]any `json:"cardmarket"`
}

// NewPokemonPriceTrackerProvider creates a new PokemonPriceTracker provider
func NewPokemonPriceTrackerProvider(config Config) *PokemonPriceTrackerProvider {
	baseURL := strings.TrimRight(config.PokemonPriceTrackerURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &PokemonPriceTrackerProvider{
		apiKey:  config.PokemonPriceTrackerAPIKey,
		baseURL: baseURL,
		client:  httpx.New(providerName, config.RequestTimeout, ratelimit.NewPacer(config.RateLimitPerMin, 1)),
		log:     config.Logger,
	}
}

// Available returns true if the provider is configured
func (p *PokemonPriceTrackerProvider) Available() bool {
	return p.apiKey != ""
}

// GetProviderName returns the provider name
func (p *PokemonPriceTrackerProvider) GetProviderName() string {
	return providerName
}

// SetPrices retrieves up to limit priced cards for a set
func (p *PokemonPriceTrackerProvider) SetPrices(ctx context.Context, setID string, limit int) ([]model.Card, error) {
	if limit <= 0 || limit > MaxSetPage {
		limit = MaxSetPage
	}
	params := url.Values{}
	params.Set("set", setID)
	params.Set("limit", strconv.Itoa(limit))

	records, err := p.query(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &model.UpstreamRequestError{Source: providerName, Err: fmt.Errorf("no cards for set %s", setID)}
	}

	cards := make([]model.Card, 0, len(records))
	for _, r := range records {
		cards = append(cards, r.toModel(setID))
	}
	return cards, nil
}

// CardPrice retrieves the price record for one printing. Among the search
// results it prefers the same name and collector number, then the same
// number, then the same name, then the first result.
func (p *PokemonPriceTrackerProvider) CardPrice(ctx context.Context, card model.Card, setID string) (model.Card, error) {
	params := url.Values{}
	params.Set("search", card.Name)
	params.Set("set", setID)
	params.Set("limit", "5")

	records, err := p.query(ctx, params)
	if err != nil {
		return model.Card{}, err
	}
	if len(records) == 0 {
		return model.Card{}, &model.UpstreamRequestError{Source: providerName, Err: fmt.Errorf("no price record for %q #%s", card.Name, card.Number)}
	}

	candidates := make([]model.Card, 0, len(records))
	for _, r := range records {
		candidates = append(candidates, r.toModel(setID))
	}
	return bestMatch(card, candidates), nil
}

// bestMatch picks the candidate describing the same printing as card.
func bestMatch(card model.Card, candidates []model.Card) model.Card {
	sameName := func(c model.Card) bool { return strings.EqualFold(strings.TrimSpace(c.Name), strings.TrimSpace(card.Name)) }
	sameNumber := func(c model.Card) bool { return model.SameNumber(c.Number, card.Number) }

	for _, match := range []func(model.Card) bool{
		func(c model.Card) bool { return sameName(c) && sameNumber(c) },
		sameNumber,
		sameName,
	} {
		for _, c := range candidates {
			if match(c) {
				return c
			}
		}
	}
	return candidates[0]
}

func (p *PokemonPriceTrackerProvider) query(ctx context.Context, params url.Values) ([]priceRecord, error) {
	if !p.Available() {
		return nil, &model.MissingCredentialError{Provider: providerName}
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+p.apiKey)

	body, err := p.client.Get(ctx, p.baseURL+"/cards?"+params.Encode(), header)
	if err != nil {
		return nil, err
	}

	items, err := httpx.DecodeList(providerName, body, "data", "cards")
	if err != nil {
		return nil, err
	}

	records := make([]priceRecord, 0, len(items))
	for _, item := range items {
		var r priceRecord
		if err := json.Unmarshal(item, &r); err != nil {
			// One odd record should not sink the page.
			p.log.Debug().Err(err).Msg("skipping undecodable price record")
			continue
		}
		records = append(records, r)
	}
	if len(items) > 0 && len(records) == 0 {
		return nil, &model.MalformedResponseError{Source: providerName, Detail: "no decodable card records"}
	}
	return records, nil
}

func (r priceRecord) toModel(setID string) model.Card {
	card := model.Card{
		ID:       r.ID,
		Number:   r.Number,
		Name:     r.Name,
		Rarity:   r.Rarity,
		SetID:    r.SetID,
		SetName:  r.SetName,
		ImageURL: r.ImageURL,
	}
	if card.Number == "" {
		card.Number = r.CardNumber
	}
	if card.SetID == "" {
		card.SetID = setID
	}
	if card.ID == "" {
		card.ID = r.TCGPlayer
	}

	raw := map[model.Source]map[string]any{}
	// Older responses carry the primary marketplace under "prices".
	if tcg := r.TCGBlock; len(tcg) > 0 {
		raw[model.SourceTCGPlayer] = tcg
	} else if len(r.Prices) > 0 {
		raw[model.SourceTCGPlayer] = r.Prices
	}
	if len(r.Ebay) > 0 {
		raw[model.SourceEbay] = r.Ebay
	}
	if cm := r.Cardmarket; len(cm) > 0 {
		if nested, ok := cm["prices"].(map[string]any); ok {
			cm = nested
		}
		raw[model.SourceCardmarket] = cm
	}
	if len(raw) > 0 {
		card.Raw = raw
	}
	return card
}
