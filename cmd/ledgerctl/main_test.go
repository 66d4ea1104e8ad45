package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthsFlagsAreIndependent(t *testing.T) {
	suggest := suggestCmd.Flags().Lookup("months")
	forecast := forecastCmd.Flags().Lookup("months")
	require.NotNil(t, suggest)
	require.NotNil(t, forecast)

	assert.Equal(t, "6", suggest.DefValue)
	assert.Equal(t, "3", forecast.DefValue)

	// Setting one command's horizon must not leak into the other.
	require.NoError(t, forecastCmd.Flags().Set("months", "9"))
	assert.Equal(t, 9, flagForecastMonths)
	assert.Equal(t, 6, flagSuggestMonths)
}
