package services

import (
	"testing"

	"hotel-backoffice/models"

	"github.com/stretchr/testify/assert"
)

func TestResolvePolicy_OverridePrecedence(t *testing.T) {
	overrides := []*bool{nil, ptr(true), ptr(false)}

	for _, typeValue := range []bool{true, false} {
		for _, override := range overrides {
			rt := &models.RoomType{
				SingleEnabled:   typeValue,
				DoubleEnabled:   typeValue,
				TripleEnabled:   typeValue,
				ChildrenAllowed: typeValue,
			}
			room := &models.IndividualRoom{
				SingleEnabledOverride:   override,
				DoubleEnabledOverride:   override,
				TripleEnabledOverride:   override,
				ChildrenAllowedOverride: override,
			}
			want := typeValue
			if override != nil {
				want = *override
			}

			p := ResolvePolicy(rt, room, DefaultChildPriceMultiplier)
			assert.Equal(t, want, p.SingleEnabled)
			assert.Equal(t, want, p.DoubleEnabled)
			assert.Equal(t, want, p.TripleEnabled)
			assert.Equal(t, want, p.ChildrenAllowed)
		}
	}
}

func TestResolvePolicy_TripleOverrideDisables(t *testing.T) {
	rt := &models.RoomType{SingleEnabled: true, DoubleEnabled: true, TripleEnabled: true, ChildrenAllowed: true}
	room := &models.IndividualRoom{TripleEnabledOverride: ptr(false)}

	p := ResolvePolicy(rt, room, DefaultChildPriceMultiplier)
	assert.False(t, p.TripleEnabled)
	assert.False(t, p.Allows(models.OccupancyTriple))
	assert.True(t, p.Allows(models.OccupancyDouble))
}

func TestResolvePolicy_ChildMultiplier(t *testing.T) {
	rt := &models.RoomType{ChildPriceMultiplier: ptr(30.0)}

	assert.Equal(t, 40.0, ResolvePolicy(&models.RoomType{}, nil, 40).ChildPriceMultiplier)
	assert.Equal(t, 30.0, ResolvePolicy(rt, nil, 40).ChildPriceMultiplier)
	assert.Equal(t, 10.0, ResolvePolicy(rt, &models.IndividualRoom{ChildPriceMultiplierOverride: ptr(10.0)}, 40).ChildPriceMultiplier)
	assert.Equal(t, 0.0, ResolvePolicy(rt, &models.IndividualRoom{ChildPriceMultiplierOverride: ptr(-5.0)}, 40).ChildPriceMultiplier)
}

func TestResolvePolicy_NoRoomTypeIsPermissive(t *testing.T) {
	p := ResolvePolicy(nil, nil, 25)
	assert.Equal(t, EffectivePolicy{
		SingleEnabled:        true,
		DoubleEnabled:        true,
		TripleEnabled:        true,
		ChildrenAllowed:      true,
		ChildPriceMultiplier: 25,
	}, p)
}
