package testutil

import (
	"os"
)

const (
	// Test token environment variables
	TestPokemonAPIKey      = "TEST_POKEMON_TCG_API_KEY"
	TestPriceTrackerAPIKey = "TEST_POKEMON_PRICE_TRACKER_API_KEY"

	// Default test values when environment variables are not set
	DefaultTestToken = "test-token"
	DefaultTestKey   = "test-key"
)

// GetTestToken returns a test token from environment variable or default
func GetTestToken(envVar, defaultValue string) string {
	if token := os.Getenv(envVar); token != "" {
		return token
	}
	return defaultValue
}

// GetTestPokemonAPIKey returns test API key for Pokemon TCG API
func GetTestPokemonAPIKey() string {
	return GetTestToken(TestPokemonAPIKey, DefaultTestKey)
}

// GetTestPriceTrackerAPIKey returns the bearer token used against fake
// PokemonPriceTracker servers
func GetTestPriceTrackerAPIKey() string {
	return GetTestToken(TestPriceTrackerAPIKey, DefaultTestToken)
}
