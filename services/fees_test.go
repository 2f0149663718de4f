package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitFee(t *testing.T) {
	cases := []struct {
		name   string
		cents  int64
		rate   float64
		gross  float64
		fee    float64
		payout float64
	}{
		{"even split", 500000, 0.10, 5000.00, 500.00, 4500.00},
		{"odd cents round to platform", 9999, 0.10, 99.99, 10.00, 89.99},
		{"sub-cent fee rounds", 105, 0.10, 1.05, 0.11, 0.94},
		{"zero rate", 12345, 0, 123.45, 0, 123.45},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SplitFee(tc.cents, tc.rate)
			assert.InDelta(t, tc.gross, got.Gross, 1e-9)
			assert.InDelta(t, tc.fee, got.PlatformFee, 1e-9)
			assert.InDelta(t, tc.payout, got.TutorPayout, 1e-9)
			assert.InDelta(t, got.Gross, got.PlatformFee+got.TutorPayout, 1e-9)
		})
	}
}

func TestPlatformFeeRate(t *testing.T) {
	t.Setenv("PLATFORM_FEE_RATE", "0.15")
	assert.Equal(t, 0.15, PlatformFeeRate())

	t.Setenv("PLATFORM_FEE_RATE", "not-a-number")
	assert.Equal(t, defaultPlatformFeeRate, PlatformFeeRate())

	t.Setenv("PLATFORM_FEE_RATE", "1.5")
	assert.Equal(t, defaultPlatformFeeRate, PlatformFeeRate())

	t.Setenv("PLATFORM_FEE_RATE", "")
	assert.Equal(t, defaultPlatformFeeRate, PlatformFeeRate())
}
