package models

import (
	"fmt"
	"strings"
)

// BehaviorPolicy describes how a category's monthly amount is placed across days
type BehaviorPolicy int

const (
	PolicySpread BehaviorPolicy = iota
	PolicyFixed
	PolicyClustered
)

func (p BehaviorPolicy) String() string {
	switch p {
	case PolicyFixed:
		return "FIXED"
	case PolicySpread:
		return "SPREAD"
	case PolicyClustered:
		return "CLUSTERED"
	default:
		return fmt.Sprintf("POLICY(%d)", int(p))
	}
}

// ParseBehaviorPolicy parses FIXED, SPREAD or CLUSTERED (case-insensitive)
func ParseBehaviorPolicy(s string) (BehaviorPolicy, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FIXED":
		return PolicyFixed, nil
	case "SPREAD":
		return PolicySpread, nil
	case "CLUSTERED":
		return PolicyClustered, nil
	}
	return PolicySpread, fmt.Errorf("unknown behavior policy %q", s)
}

func (p BehaviorPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *BehaviorPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseBehaviorPolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
