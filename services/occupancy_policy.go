package services

import "hotel-backoffice/models"

// DefaultChildPriceMultiplier is the percent charged per child when neither
// the room nor the site settings say otherwise.
const DefaultChildPriceMultiplier = 50.0

// EffectivePolicy is the occupancy ruleset for one booking after applying
// individual-room overrides onto room-type defaults.
type EffectivePolicy struct {
	SingleEnabled        bool    `json:"single_enabled"`
	DoubleEnabled        bool    `json:"double_enabled"`
	TripleEnabled        bool    `json:"triple_enabled"`
	ChildrenAllowed      bool    `json:"children_allowed"`
	ChildPriceMultiplier float64 `json:"child_price_multiplier"`
}

// Allows reports whether the occupancy tier is enabled.
func (p EffectivePolicy) Allows(o models.OccupancyType) bool {
	switch o {
	case models.OccupancySingle:
		return p.SingleEnabled
	case models.OccupancyDouble:
		return p.DoubleEnabled
	case models.OccupancyTriple:
		return p.TripleEnabled
	}
	return false
}

// ResolvePolicy overlays room's non-nil overrides onto rt. Either may be
// nil; a missing room type yields a permissive policy. defaultMultiplier
// applies when neither carries a child multiplier. This is the only place
// override-vs-default decisions are made.
func ResolvePolicy(rt *models.RoomType, room *models.IndividualRoom, defaultMultiplier float64) EffectivePolicy {
	p := EffectivePolicy{
		SingleEnabled:        true,
		DoubleEnabled:        true,
		TripleEnabled:        true,
		ChildrenAllowed:      true,
		ChildPriceMultiplier: defaultMultiplier,
	}
	if rt != nil {
		p.SingleEnabled = rt.SingleEnabled
		p.DoubleEnabled = rt.DoubleEnabled
		p.TripleEnabled = rt.TripleEnabled
		p.ChildrenAllowed = rt.ChildrenAllowed
		if rt.ChildPriceMultiplier != nil {
			p.ChildPriceMultiplier = *rt.ChildPriceMultiplier
		}
	}
	if room != nil {
		p.SingleEnabled = boolOr(room.SingleEnabledOverride, p.SingleEnabled)
		p.DoubleEnabled = boolOr(room.DoubleEnabledOverride, p.DoubleEnabled)
		p.TripleEnabled = boolOr(room.TripleEnabledOverride, p.TripleEnabled)
		p.ChildrenAllowed = boolOr(room.ChildrenAllowedOverride, p.ChildrenAllowed)
		if room.ChildPriceMultiplierOverride != nil {
			p.ChildPriceMultiplier = *room.ChildPriceMultiplierOverride
		}
	}
	if p.ChildPriceMultiplier < 0 {
		p.ChildPriceMultiplier = 0
	}
	return p
}

func boolOr(v *bool, def bool) bool {
	if v != nil {
		return *v
	}
	return def
}
