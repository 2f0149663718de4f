package services

import (
	"math"
	"strconv"

	config "github.com/etuitionbd/etuition_backend/configs"
)

// The platform fee fraction is configuration, not a constant: the business
// has not settled on the figure, so deployments set PLATFORM_FEE_RATE.
const defaultPlatformFeeRate = 0.10

// FeeBreakdown is the gross/fee/payout split of one settlement, in currency
// units (the processor reports amounts in the smallest unit).
type FeeBreakdown struct {
	Gross       float64
	PlatformFee float64
	TutorPayout float64
}

// PlatformFeeRate reads the configured fee fraction, falling back to the
// default when unset or unparseable.
func PlatformFeeRate() float64 {
	raw := config.Config("PLATFORM_FEE_RATE")
	if raw == "" {
		return defaultPlatformFeeRate
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil || rate < 0 || rate >= 1 {
		return defaultPlatformFeeRate
	}
	return rate
}

// SplitFee divides a gross amount (in cents) between the platform and the
// tutor. The fee is rounded to whole cents; the payout absorbs the remainder
// so gross == fee + payout always holds.
func SplitFee(amountCents int64, rate float64) FeeBreakdown {
	feeCents := math.Round(float64(amountCents) * rate)
	return FeeBreakdown{
		Gross:       float64(amountCents) / 100,
		PlatformFee: feeCents / 100,
		TutorPayout: (float64(amountCents) - feeCents) / 100,
	}
}
