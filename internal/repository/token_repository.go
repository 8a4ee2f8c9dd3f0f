package repository

import (
	"sync"
)

// DeviceToken is a registered push notification target.
// Categories limits which product categories the device wants alerts
// for; empty means all.
type DeviceToken struct {
	Token      string
	Platform   string // "android" or "ios"
	Categories []string
	CreatedAt  int64
}

// TokenRepository manages device tokens for push notifications.
type TokenRepository struct {
	tokens map[string]*DeviceToken
	mu     sync.RWMutex
}

func NewTokenRepository() *TokenRepository {
	return &TokenRepository{
		tokens: make(map[string]*DeviceToken),
	}
}

// RegisterToken adds or updates a device token.
func (r *TokenRepository) RegisterToken(token, platform string, categories []string, timestamp int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[token] = &DeviceToken{
		Token:      token,
		Platform:   platform,
		Categories: categories,
		CreatedAt:  timestamp,
	}
}

// UnregisterToken removes a device token.
func (r *TokenRepository) UnregisterToken(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, token)
}

// TokensForCategory returns tokens subscribed to the given category.
// Tokens with no category filter receive everything.
func (r *TokenRepository) TokensForCategory(category string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tokens := make([]string, 0, len(r.tokens))
	for _, dt := range r.tokens {
		if len(dt.Categories) == 0 {
			tokens = append(tokens, dt.Token)
			continue
		}
		for _, c := range dt.Categories {
			if c == category {
				tokens = append(tokens, dt.Token)
				break
			}
		}
	}
	return tokens
}

// GetAllTokens returns every registered token.
func (r *TokenRepository) GetAllTokens() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tokens := make([]string, 0, len(r.tokens))
	for token := range r.tokens {
		tokens = append(tokens, token)
	}
	return tokens
}

// GetTokenCount returns the number of registered tokens.
func (r *TokenRepository) GetTokenCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.tokens)
}
