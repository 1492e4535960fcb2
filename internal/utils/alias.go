package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var aliasAdjectives = []string{
	"Steady", "Bright", "Lucky", "Rapid", "Clever",
	"Golden", "Quiet", "Bold", "Sunny", "Keen",
	"Noble", "Prime", "Royal", "Swift", "Vivid",
}

var aliasNouns = []string{
	"Hornbill", "Tapir", "Orchid", "Monsoon", "Harbour",
	"Merbau", "Kestrel", "Rambutan", "Banyan", "Otter",
	"Pelican", "Lotus", "Gecko", "Meranti", "Heron",
}

// GenerateAlias returns a public leaderboard name like "Lucky Hornbill 0427"
// for affiliates who have not set a display name
func GenerateAlias() (string, error) {
	adj, err := randomIndex(len(aliasAdjectives))
	if err != nil {
		return "", fmt.Errorf("failed to pick alias adjective: %w", err)
	}
	noun, err := randomIndex(len(aliasNouns))
	if err != nil {
		return "", fmt.Errorf("failed to pick alias noun: %w", err)
	}
	suffix, err := randomIndex(10000)
	if err != nil {
		return "", fmt.Errorf("failed to pick alias suffix: %w", err)
	}

	return fmt.Sprintf("%s %s %04d", aliasAdjectives[adj], aliasNouns[noun], suffix), nil
}

func randomIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
