package domain

import (
	"encoding/json"
	"fmt"
)

// Badge is an achievement label derived from a user's score.
type Badge uint8

const (
	BadgeCodeNinja Badge = iota
	BadgeCodeChamp
	BadgeCodeMaster

	badgeCount
)

var badgeNames = [badgeCount]string{
	BadgeCodeNinja:  "CODE_NINJA",
	BadgeCodeChamp:  "CODE_CHAMP",
	BadgeCodeMaster: "CODE_MASTER",
}

func (b Badge) String() string {
	if b >= badgeCount {
		return fmt.Sprintf("Badge(%d)", uint8(b))
	}
	return badgeNames[b]
}

// ParseBadge resolves a wire name such as "CODE_CHAMP".
func ParseBadge(name string) (Badge, error) {
	for i, n := range badgeNames {
		if n == name {
			return Badge(i), nil
		}
	}
	return 0, fmt.Errorf("unknown badge %q", name)
}

// BadgeSet is a fixed-size set of badges stored as a bit mask.
type BadgeSet uint8

func NewBadgeSet(badges ...Badge) BadgeSet {
	var s BadgeSet
	for _, b := range badges {
		if b < badgeCount {
			s |= 1 << b
		}
	}
	return s
}

func (s BadgeSet) Has(b Badge) bool { return b < badgeCount && s&(1<<b) != 0 }

func (s BadgeSet) Len() int {
	n := 0
	for b := Badge(0); b < badgeCount; b++ {
		if s.Has(b) {
			n++
		}
	}
	return n
}

// Badges lists the members in declaration order.
func (s BadgeSet) Badges() []Badge {
	out := make([]Badge, 0, badgeCount)
	for b := Badge(0); b < badgeCount; b++ {
		if s.Has(b) {
			out = append(out, b)
		}
	}
	return out
}

// Names returns the wire names in declaration order. Never nil.
func (s BadgeSet) Names() []string {
	out := make([]string, 0, badgeCount)
	for _, b := range s.Badges() {
		out = append(out, b.String())
	}
	return out
}

func BadgeSetFromNames(names []string) (BadgeSet, error) {
	var s BadgeSet
	for _, n := range names {
		b, err := ParseBadge(n)
		if err != nil {
			return 0, err
		}
		s |= NewBadgeSet(b)
	}
	return s, nil
}

func (s BadgeSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func (s *BadgeSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	set, err := BadgeSetFromNames(names)
	if err != nil {
		return err
	}
	*s = set
	return nil
}

// BadgesForScore derives the badge set for a score. The result always
// replaces the previous set:
//
//	0       none
//	1..29   CODE_NINJA
//	30..59  CODE_CHAMP
//	60..100 CODE_MASTER
func BadgesForScore(score int) BadgeSet {
	switch {
	case score >= 60 && score <= MaxScore:
		return NewBadgeSet(BadgeCodeMaster)
	case score >= 30 && score < 60:
		return NewBadgeSet(BadgeCodeChamp)
	case score >= 1 && score < 30:
		return NewBadgeSet(BadgeCodeNinja)
	default:
		return 0
	}
}
