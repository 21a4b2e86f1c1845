package generator

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnd = time.Date(2025, 3, 14, 15, 30, 0, 0, time.UTC)

func TestGenerate_BarInvariants(t *testing.T) {
	bars, err := Generate(Options{Days: 365, End: testEnd, Seed: 7})
	require.NoError(t, err)
	require.Len(t, bars, 365*len(DefaultCompanies))

	for i, b := range bars {
		assert.GreaterOrEqual(t, b.High, b.Open, "row %d", i)
		assert.GreaterOrEqual(t, b.High, b.Close, "row %d", i)
		assert.LessOrEqual(t, b.Low, b.Open, "row %d", i)
		assert.LessOrEqual(t, b.Low, b.Close, "row %d", i)
		assert.Greater(t, b.Low, 0.0, "row %d", i)
		assert.GreaterOrEqual(t, b.Volume, int64(100000), "row %d", i)
		assert.Less(t, b.Volume, int64(1000000), "row %d", i)
	}
}

func TestGenerate_DatesAndContinuity(t *testing.T) {
	bars, err := Generate(Options{Companies: []string{"AAA"}, Days: 10, End: testEnd, Seed: 1})
	require.NoError(t, err)
	require.Len(t, bars, 10)

	assert.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), bars[0].Time)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), bars[9].Time)
	for i := 1; i < len(bars); i++ {
		assert.Equal(t, 24*time.Hour, bars[i].Time.Sub(bars[i-1].Time))
		// Each open moves at most 3% away from the previous close.
		prev := bars[i-1].Close
		assert.InDelta(t, prev, bars[i].Open, prev*0.03)
	}
	assert.GreaterOrEqual(t, bars[0].Open, 100*0.97)
	assert.Less(t, bars[0].Open, 500*1.03)
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate(Options{Days: 30, End: testEnd, Seed: 99})
	require.NoError(t, err)
	b, err := Generate(Options{Days: 30, End: testEnd, Seed: 99})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Generate(Options{Days: 30, End: testEnd, Seed: 100})
	require.NoError(t, err)
	assert.NotEqual(t, a[0].Close, c[0].Close)
}

func TestGenerate_BadDays(t *testing.T) {
	_, err := Generate(Options{Days: 0})
	assert.Error(t, err)
}

func TestCSV_RoundTrip(t *testing.T) {
	bars, err := Generate(Options{Companies: []string{"AAPL", "MSFT"}, Days: 5, End: testEnd, Seed: 3})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, WriteCSVFile(path, bars))

	got, err := ReadCSVFile(path)
	require.NoError(t, err)
	assert.Equal(t, bars, got)
}

func TestWriteCSV_Header(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "Date,Company,Open,High,Low,Close,Volume\n", buf.String())
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"wrong header", "a,b,c,d,e,f,g\n"},
		{"bad price", "Date,Company,Open,High,Low,Close,Volume\n2025-01-01,AAPL,x,1,1,1,1\n"},
		{"bad date", "Date,Company,Open,High,Low,Close,Volume\nyesterday,AAPL,1,1,1,1,1\n"},
		{"short row", "Date,Company,Open,High,Low,Close,Volume\n2025-01-01,AAPL,1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.in))
			assert.Error(t, err)
		})
	}
}

func TestReadCSV_RejectsNonFinite(t *testing.T) {
	for _, v := range []string{"NaN", "Inf", "-inf"} {
		in := "Date,Company,Open,High,Low,Close,Volume\n2025-01-01,AAPL,1,2,0.5,1,10\n2025-01-02,AAPL,1,2,0.5," + v + ",10\n"
		_, err := ReadCSV(strings.NewReader(in))
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "line 3: parse Close")
	}
}

func TestReadCSV_TimestampDates(t *testing.T) {
	in := "Date,Company,Open,High,Low,Close,Volume\n2025-01-02 10:11:12.123456,aapl,1,2,0.5,1.5,123456\n"
	bars, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, "AAPL", bars[0].Symbol)
	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Time)
	assert.Equal(t, int64(123456), bars[0].Volume)
}
