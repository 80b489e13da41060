package models

import (
	"fmt"
	"strings"
)

// IncomeTier represents one of five ordered income classifications
type IncomeTier int

const (
	TierLow IncomeTier = iota
	TierLowerMiddle
	TierMiddle
	TierUpperMiddle
	TierHigh
)

// Tiers lists every tier in ascending order
var Tiers = []IncomeTier{TierLow, TierLowerMiddle, TierMiddle, TierUpperMiddle, TierHigh}

func (t IncomeTier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierLowerMiddle:
		return "lower_middle"
	case TierMiddle:
		return "middle"
	case TierUpperMiddle:
		return "upper_middle"
	case TierHigh:
		return "high"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// MarshalText encodes the tier by name so JSON responses stay readable
func (t IncomeTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tier name produced by MarshalText
func (t *IncomeTier) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for _, tier := range Tiers {
		if tier.String() == name {
			*t = tier
			return nil
		}
	}
	return fmt.Errorf("unknown income tier %q", string(text))
}
