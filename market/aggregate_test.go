package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/sierrabt/scid"
)

func tick(tm time.Time, price, vol, bidVol, askVol float64) scid.Tick {
	return scid.Tick{
		TimeUS:    tm.UnixMicro(),
		Price:     price,
		Bid:       price - 0.25,
		Ask:       price + 0.25,
		Volume:    vol,
		BidVolume: bidVol,
		AskVolume: askVol,
	}
}

func TestIntervalSeconds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label string
		want  int64
	}{
		{"1s", 1},
		{"5s", 5},
		{"10s", 10},
		{"30s", 30},
		{"1m", 60},
		{"5m", 300},
		{"15m", 900},
		{"30m", 1800},
		{"1h", 3600},
		{"4h", 14400},
		{"1d", 86400},
	}
	for _, tt := range tests {
		got, err := IntervalSeconds(tt.label)
		require.NoError(t, err, tt.label)
		assert.Equal(t, tt.want, got, tt.label)
	}
}

func TestIntervalSecondsInvalid(t *testing.T) {
	t.Parallel()

	for _, label := range []string{"7m", "", "1w", "5M"} {
		_, err := IntervalSeconds(label)
		assert.ErrorIs(t, err, ErrInvalidInterval, label)
	}

	_, err := NewAggregator("7m")
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestAggregateSingleBucket(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 4, 13, 30, 0, 0, time.UTC)
	agg, err := NewAggregator("1m")
	require.NoError(t, err)

	agg.Add(tick(base, 100, 2, 1, 1))
	agg.Add(tick(base.Add(10*time.Second), 103, 3, 2, 1))
	agg.Add(tick(base.Add(30*time.Second), 99, 1, 0, 1))
	agg.Add(tick(base.Add(59*time.Second), 101, 4, 2, 2))

	bars := agg.Finish()
	require.Len(t, bars, 1)

	b := bars[0]
	assert.Equal(t, base.Unix(), b.Start)
	assert.Equal(t, 100.0, b.Open)
	assert.Equal(t, 103.0, b.High)
	assert.Equal(t, 99.0, b.Low)
	assert.Equal(t, 101.0, b.Close)
	assert.Equal(t, 10.0, b.Volume)
	assert.Equal(t, 5.0, b.BidVolume)
	assert.Equal(t, 5.0, b.AskVolume)
	assert.Equal(t, 4, b.Ticks)
}

func TestAggregateBucketBoundary(t *testing.T) {
	t.Parallel()

	// 13:30:59.999999 and 13:31:00.000000 land in different 1m buckets.
	base := time.Date(2024, 3, 4, 13, 30, 0, 0, time.UTC)
	agg, err := NewAggregator("1m")
	require.NoError(t, err)

	agg.Add(tick(base.Add(59*time.Second+999999*time.Microsecond), 100, 1, 1, 0))
	agg.Add(tick(base.Add(60*time.Second), 101, 1, 0, 1))

	bars := agg.Finish()
	require.Len(t, bars, 2)
	assert.Equal(t, base.Unix(), bars[0].Start)
	assert.Equal(t, base.Unix()+60, bars[1].Start)
	assert.Equal(t, 101.0, bars[1].Open)
}

func TestAggregateSkipsEmptyBuckets(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	agg, err := NewAggregator("1m")
	require.NoError(t, err)

	agg.Add(tick(base, 100, 1, 1, 0))
	// Weekend-sized gap: next tick two days later.
	agg.Add(tick(base.Add(48*time.Hour), 105, 1, 0, 1))

	bars := agg.Finish()
	require.Len(t, bars, 2)
	assert.Equal(t, base.Unix(), bars[0].Start)
	assert.Equal(t, base.Add(48*time.Hour).Unix(), bars[1].Start)
}

func TestAggregateInvariants(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 4, 13, 30, 0, 0, time.UTC)
	agg, err := NewAggregator("30s")
	require.NoError(t, err)

	prices := []float64{100, 101.5, 99.25, 100.75, 102, 98.5, 99, 103, 101, 100.5}
	for i, p := range prices {
		agg.Add(tick(base.Add(time.Duration(i*11)*time.Second), p, 2, 1, 1))
	}
	bars := agg.Finish()
	require.NotEmpty(t, bars)

	var prev int64 = -1 << 62
	for _, b := range bars {
		assert.LessOrEqual(t, b.Low, b.Open)
		assert.LessOrEqual(t, b.Low, b.Close)
		assert.GreaterOrEqual(t, b.High, b.Open)
		assert.GreaterOrEqual(t, b.High, b.Close)
		assert.GreaterOrEqual(t, b.Volume, 0.0)
		assert.InDelta(t, b.Volume, b.BidVolume+b.AskVolume, 1e-9)
		assert.Zero(t, b.Start%30, "bucket start must align to the interval")
		assert.Greater(t, b.Start, prev, "bars must be strictly increasing")
		prev = b.Start
	}
}

func TestAggregateDailyAlignsToUTCMidnight(t *testing.T) {
	t.Parallel()

	// 13:30 UTC session open still buckets to 00:00 UTC for 1d bars.
	open := time.Date(2024, 3, 4, 13, 30, 0, 0, time.UTC)
	agg, err := NewAggregator("1d")
	require.NoError(t, err)

	agg.Add(tick(open, 5000, 1, 1, 0))
	agg.Add(tick(open.Add(6*time.Hour), 5010, 1, 0, 1))

	bars := agg.Finish()
	require.Len(t, bars, 1)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC).Unix(), bars[0].Start)
}

func TestAggregateReader(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 3, 4, 13, 30, 0, 0, time.UTC)
	var ticks []scid.Tick
	for i := 0; i < 10; i++ {
		ticks = append(ticks, tick(base.Add(time.Duration(i*20)*time.Second), 100+float64(i), 1, 1, 0))
	}

	path := t.TempDir() + "/agg.scid"
	require.NoError(t, scid.WriteFile(path, ticks))

	r, err := scid.Open(path)
	require.NoError(t, err)
	defer r.Close()

	bars, err := Aggregate(r, "1m")
	require.NoError(t, err)
	require.Len(t, bars, 4) // 3 ticks per minute, 10 ticks => 4 buckets
	assert.Equal(t, 100.0, bars[0].Open)
	assert.Equal(t, 109.0, bars[3].Close)
}
