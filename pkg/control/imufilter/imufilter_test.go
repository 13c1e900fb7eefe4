package imufilter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIntegratesConstantRate(t *testing.T) {
	t.Parallel()

	f := New(Config{DeadbandRadps: 0.01, DeadbandWindowTicks: 20})
	const dt = 0.005
	for i := 0; i < 200; i++ {
		f.Update(dt, 1.0, true, 0)
	}
	require.InDelta(t, 1.0, f.Heading(), 1e-3)
}

func TestDeadbandSuppressesNoiseAfterSettleWindow(t *testing.T) {
	t.Parallel()

	f := New(Config{DeadbandRadps: 0.05, DeadbandWindowTicks: 5})
	const dt = 0.005
	for i := 0; i < 10; i++ {
		f.Update(dt, 0.02, true, 0)
	}
	before := f.Heading()
	for i := 0; i < 10; i++ {
		f.Update(dt, 0.02, true, 0)
	}
	require.Equal(t, before, f.Heading(), "deadband should have zeroed the rate once it settled")
}

func TestStaleSampleHoldsLastRate(t *testing.T) {
	t.Parallel()

	f := New(DefaultConfig())
	f.Update(0.005, 2.0, true, 0)
	require.False(t, f.Stale())

	h1 := f.Update(0.005, 999, false, 0)
	require.True(t, f.Stale())
	h2 := f.Update(0.005, 999, false, 0)
	require.InDelta(t, h1+2.0*0.005, h2, 1e-6)
}
