package ratelimit

import (
	"fmt"
	"strings"
)

// Store kinds accepted by NewStore
const (
	StoreMemory = "memory"
	StoreBadger = "badger"
)

// NewStore builds the store named by kind
func NewStore(kind string, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", StoreMemory:
		return NewMemoryStore(), nil
	case StoreBadger:
		staleAfter := cfg.StaleAfter
		if staleAfter <= 0 {
			staleAfter = DefaultStaleAfter
		}
		return NewBadgerStore(staleAfter)
	default:
		return nil, fmt.Errorf("unknown rate limit store %q", kind)
	}
}
