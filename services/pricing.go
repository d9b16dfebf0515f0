package services

import (
	"strings"
	"time"

	"hotel-backoffice/models"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// RateTable maps occupancy tiers to nightly rates. A missing tier falls
// back to the base rate.
type RateTable map[models.OccupancyType]decimal.Decimal

// RatesFromRoomType builds the tier table of rt, leaving out unset tiers.
func RatesFromRoomType(rt *models.RoomType) RateTable {
	rates := RateTable{}
	if rt == nil {
		return rates
	}
	for o, v := range map[models.OccupancyType]decimal.NullDecimal{
		models.OccupancySingle: rt.PriceSingle,
		models.OccupancyDouble: rt.PriceDouble,
		models.OccupancyTriple: rt.PriceTriple,
	} {
		if v.Valid {
			rates[o] = v.Decimal
		}
	}
	return rates
}

type PriceInput struct {
	Nights        int
	OccupancyType models.OccupancyType
	Rates         RateTable
	BaseRate      decimal.Decimal
	Adults        int
	Children      int
	Policy        EffectivePolicy

	// VAT is inclusive: it is carved out of the total, never added.
	VATEnabled bool
	VATRate    decimal.Decimal
}

type PriceQuote struct {
	Nights               int                  `json:"nights"`
	OccupancyType        models.OccupancyType `json:"occupancy_type"`
	RatePerNight         decimal.Decimal      `json:"rate_per_night"`
	ChildPriceMultiplier float64              `json:"child_price_multiplier"`
	ChildSupplement      decimal.Decimal      `json:"child_supplement"`
	Total                decimal.Decimal      `json:"total"`
	VAT                  decimal.Decimal      `json:"vat"`
	NetTotal             decimal.Decimal      `json:"net_total"`
}

// CalculatePrice computes the nightly rate, child supplement and total for
// a stay, rejecting tiers and children the policy does not allow.
func CalculatePrice(in PriceInput) (PriceQuote, error) {
	if in.Nights <= 0 {
		return PriceQuote{}, validationErr("check-out date must be after check-in date")
	}
	if in.Adults < 1 {
		return PriceQuote{}, validationErr("at least one adult guest is required")
	}
	if in.Children < 0 {
		return PriceQuote{}, validationErr("number of children cannot be negative")
	}
	if !in.OccupancyType.Valid() {
		return PriceQuote{}, validationErr("unknown occupancy type %q", in.OccupancyType)
	}

	rate, ok := in.Rates[in.OccupancyType]
	if !ok {
		rate = in.BaseRate
	}

	if !in.Policy.Allows(in.OccupancyType) {
		return PriceQuote{}, policyErr("%s occupancy is not available for this room", in.OccupancyType)
	}
	if in.Children > 0 && !in.Policy.ChildrenAllowed {
		return PriceQuote{}, policyErr("children are not allowed in this room")
	}

	nights := decimal.NewFromInt(int64(in.Nights))
	supplement := decimal.Zero
	if in.Children > 0 {
		multiplier := decimal.NewFromFloat(in.Policy.ChildPriceMultiplier).Div(hundred)
		supplement = rate.Mul(multiplier).
			Mul(decimal.NewFromInt(int64(in.Children))).
			Mul(nights).
			Round(2)
	}
	total := rate.Mul(nights).Add(supplement).Round(2)

	q := PriceQuote{
		Nights:               in.Nights,
		OccupancyType:        in.OccupancyType,
		RatePerNight:         rate,
		ChildPriceMultiplier: in.Policy.ChildPriceMultiplier,
		ChildSupplement:      supplement,
		Total:                total,
		VAT:                  decimal.Zero,
		NetTotal:             total,
	}
	if in.VATEnabled {
		q.VAT = InclusiveVAT(total, in.VATRate)
		q.NetTotal = total.Sub(q.VAT)
	}
	return q, nil
}

// InclusiveVAT extracts the tax already contained in total:
// total × rate / (100 + rate), rounded to cents.
func InclusiveVAT(total, rate decimal.Decimal) decimal.Decimal {
	if !rate.IsPositive() {
		return decimal.Zero
	}
	return total.Mul(rate).Div(rate.Add(hundred)).Round(2)
}

// NightsBetween counts calendar nights from checkIn to the exclusive
// checkOut.
func NightsBetween(checkIn, checkOut time.Time) int {
	in := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	out := time.Date(checkOut.Year(), checkOut.Month(), checkOut.Day(), 0, 0, 0, 0, time.UTC)
	return int(out.Sub(in).Hours() / 24)
}

// ParseStayDates parses YYYY-MM-DD dates and requires checkOut > checkIn.
func ParseStayDates(checkIn, checkOut string) (time.Time, time.Time, int, error) {
	in, err := time.Parse(dateLayout, strings.TrimSpace(checkIn))
	if err != nil {
		return time.Time{}, time.Time{}, 0, validationErr("invalid check-in date %q", checkIn)
	}
	out, err := time.Parse(dateLayout, strings.TrimSpace(checkOut))
	if err != nil {
		return time.Time{}, time.Time{}, 0, validationErr("invalid check-out date %q", checkOut)
	}
	nights := NightsBetween(in, out)
	if nights <= 0 {
		return time.Time{}, time.Time{}, 0, validationErr("check-out date must be after check-in date")
	}
	return in, out, nights, nil
}
