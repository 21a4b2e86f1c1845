package calculator

import (
	"math"
	"testing"

	"StockSimulator/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func barsFromCloses(closes ...float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{Open: c - 1, High: c + 2, Low: c - 3, Close: c}
	}
	return bars
}

func TestCalculateSMA(t *testing.T) {
	v, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 2)
	require.NoError(t, err)
	assert.Equal(t, 4.5, v)

	_, err = CalculateSMA([]float64{1}, 2)
	assert.Error(t, err)
	_, err = CalculateSMA([]float64{1}, 0)
	assert.Error(t, err)
}

func TestRollingMean(t *testing.T) {
	got, err := RollingMean([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 2.0, got[2], 1e-12)
	assert.InDelta(t, 3.0, got[3], 1e-12)
	assert.InDelta(t, 4.0, got[4], 1e-12)

	_, err = RollingMean([]float64{1}, 0)
	assert.Error(t, err)
}

func TestBackFill(t *testing.T) {
	nan := math.NaN()
	got := BackFill([]float64{nan, nan, 3, nan, 5}, -1)
	assert.Equal(t, []float64{3, 3, 3, 5, 5}, got)

	got = BackFill([]float64{nan, nan}, 7)
	assert.Equal(t, []float64{7, 7}, got)

	assert.Empty(t, BackFill(nil, 1))
}

func TestMovingAverage_ShortSeriesUsesMean(t *testing.T) {
	got, err := MovingAverage([]float64{2, 4, 6}, 20)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 4, 4}, got)

	got, err = MovingAverage([]float64{2, 4, 6, 8}, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 3, 5, 7}, got)
}

func TestDailyChangeAndSpread(t *testing.T) {
	bars := barsFromCloses(10, 20)
	assert.Equal(t, []float64{1, 1}, DailyChange(bars))
	assert.Equal(t, []float64{5, 5}, HighLowSpread(bars))
}

func TestPriceRange(t *testing.T) {
	bars := barsFromCloses(10, 30, 20, 15)
	high, low, err := PriceRange(bars, 2)
	require.NoError(t, err)
	assert.Equal(t, 22.0, high)
	assert.Equal(t, 12.0, low)

	high, low, err = PriceRange(bars, 100)
	require.NoError(t, err)
	assert.Equal(t, 32.0, high)
	assert.Equal(t, 7.0, low)

	_, _, err = PriceRange(nil, 5)
	assert.Error(t, err)
}

func TestRangePosition(t *testing.T) {
	pos, err := RangePosition(15, 20, 10)
	require.NoError(t, err)
	assert.Equal(t, 0.5, pos)

	pos, _ = RangePosition(25, 20, 10)
	assert.Equal(t, 1.0, pos)
	pos, _ = RangePosition(5, 20, 10)
	assert.Equal(t, 0.0, pos)
	pos, _ = RangePosition(5, 10, 10)
	assert.Equal(t, 0.5, pos)

	_, err = RangePosition(5, 1, 10)
	assert.Error(t, err)
}

func TestCalculateRSI(t *testing.T) {
	rising := barsFromCloses(1, 2, 3, 4, 5, 6)
	rsi, err := CalculateRSI(rising, 3)
	require.NoError(t, err)
	assert.Equal(t, 100.0, rsi)

	rsi, err = CalculateRSI(barsFromCloses(1, 2), 14)
	require.NoError(t, err)
	assert.Equal(t, 50.0, rsi)

	falling := barsFromCloses(6, 5, 4, 3, 2, 1)
	rsi, err = CalculateRSI(falling, 3)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, rsi, 1e-9)
}
