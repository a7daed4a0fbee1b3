package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/shramba/internal/db"
	"github.com/erazemk/shramba/internal/model"
	"github.com/erazemk/shramba/internal/pantry"
	"github.com/erazemk/shramba/internal/store"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	engine *Engine
	svc    *pantry.Service
	clock  *time.Time
	u1, u2 int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := db.NewTestDB(t)
	ctx := context.Background()

	u1, err := store.CreateUser(ctx, database, "U1", "u1@example.com", "hash")
	require.NoError(t, err)
	u2, err := store.CreateUser(ctx, database, "U2", "u2@example.com", "hash")
	require.NoError(t, err)

	items := store.NewItems(database)
	f := &fixture{engine: NewEngine(items), u1: u1.ID, u2: u2.ID}
	clock := now
	f.clock = &clock
	f.svc = pantry.NewService(items, func() time.Time { return *f.clock })
	return f
}

// add creates an item as if it had been added at the given time.
func (f *fixture) add(t *testing.T, owner int64, name string, at time.Time, expiry *time.Time) string {
	t.Helper()
	*f.clock = at
	item, err := f.svc.Add(context.Background(), owner, pantry.AddInput{Name: name, Quantity: 1, ExpiryDate: expiry})
	require.NoError(t, err)
	*f.clock = now
	return item.ID
}

func ptr[T any](v T) *T { return &v }

func TestWeeklyStatusCountsAlwaysHasAllKeys(t *testing.T) {
	f := newFixture(t)

	counts, err := f.engine.WeeklyStatusCounts(context.Background(), f.u1, now)
	require.NoError(t, err)
	assert.Equal(t, StatusCounts{}, counts)
}

func TestWeeklyStatusCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.add(t, f.u1, "A", now.Add(-time.Hour), nil)
	used := f.add(t, f.u1, "B", now.Add(-6*day), nil)
	wasted := f.add(t, f.u1, "C", now.Add(-7*day), nil)
	f.add(t, f.u1, "Old", now.Add(-8*day), nil)
	f.add(t, f.u2, "Other", now, nil)

	f.svc.MarkUsed(ctx, f.u1, used)
	f.svc.MarkWasted(ctx, f.u1, wasted)

	counts, err := f.engine.WeeklyStatusCounts(ctx, f.u1, now)
	require.NoError(t, err)
	assert.Equal(t, StatusCounts{Active: 1, Used: 1, Wasted: 1}, counts)
}

func TestCategoryBreakdown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b1 := f.add(t, f.u1, "Bread", now, nil)
	b2 := f.add(t, f.u1, "Bread", now, nil)
	b3 := f.add(t, f.u1, "Bread", now, nil)
	f.add(t, f.u1, "Rice", now, nil)

	f.svc.MarkWasted(ctx, f.u1, b1)
	f.svc.MarkWasted(ctx, f.u1, b2)
	f.svc.MarkUsed(ctx, f.u1, b3)

	breakdown, err := f.engine.CategoryBreakdown(ctx, f.u1)
	require.NoError(t, err)
	assert.Equal(t, map[string]UsageCounts{"Bread": {Used: 1, Wasted: 2}}, breakdown)
	assert.NotContains(t, breakdown, "Rice")
}

func TestDailyTrend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inWindow := now.Add(-6 * day)
	yesterday := now.Add(-day)

	a := f.add(t, f.u1, "A", inWindow, nil)
	b := f.add(t, f.u1, "B", yesterday, nil)
	c := f.add(t, f.u1, "C", yesterday, nil)
	tooOld := f.add(t, f.u1, "D", inWindow.Add(-time.Millisecond), nil)
	f.add(t, f.u1, "Active", yesterday, nil)

	f.svc.MarkUsed(ctx, f.u1, a)
	f.svc.MarkWasted(ctx, f.u1, b)
	f.svc.MarkUsed(ctx, f.u1, c)
	f.svc.MarkWasted(ctx, f.u1, tooOld)

	trend, err := f.engine.DailyTrend(ctx, f.u1, now)
	require.NoError(t, err)
	assert.Equal(t, map[string]UsageCounts{
		DateKey(inWindow):  {Used: 1},
		DateKey(yesterday): {Used: 1, Wasted: 1},
	}, trend)
	assert.NotContains(t, trend, DateKey(now), "days without activity are omitted")
}

func TestSummaryStatsScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	milk := f.add(t, f.u1, "Milk", now, ptr(now.Add(5*day)))

	_, err := f.svc.MarkWasted(ctx, f.u2, milk)
	assert.ErrorIs(t, err, pantry.ErrNotFound)

	_, err = f.svc.MarkWasted(ctx, f.u1, milk)
	require.NoError(t, err)

	summary, err := f.engine.SummaryStats(ctx, f.u1, now)
	require.NoError(t, err)
	assert.Equal(t, 100.0, summary.WastePercentage)
	assert.Equal(t, []string{"Milk"}, summary.MostWasted)
}

func TestSummaryStatsEmpty(t *testing.T) {
	f := newFixture(t)

	summary, err := f.engine.SummaryStats(context.Background(), f.u1, now)
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.WastePercentage)
	assert.Equal(t, 0, summary.NearExpiryCount)
	assert.NotNil(t, summary.MostWasted)
	assert.Empty(t, summary.MostWasted)
}

func TestSummaryStatsNearExpiry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.add(t, f.u1, "Soon", now, ptr(now.Add(2*day)))
	f.add(t, f.u1, "Later", now, ptr(now.Add(4*day)))
	f.add(t, f.u1, "Edge", now, ptr(now.Add(3*day)))
	used := f.add(t, f.u1, "Gone", now, ptr(now.Add(day)))
	f.svc.MarkUsed(ctx, f.u1, used)

	summary, err := f.engine.SummaryStats(ctx, f.u1, now)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.NearExpiryCount)
}

func TestSummaryStatsMostWastedTieBreak(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"Pear", "Pear", "Kale", "Kale", "Apple", "Apple", "Fig"} {
		id := f.add(t, f.u1, name, now, nil)
		f.svc.MarkWasted(ctx, f.u1, id)
	}

	summary, err := f.engine.SummaryStats(ctx, f.u1, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple", "Kale", "Pear"}, summary.MostWasted)
}

func TestWastePercentage(t *testing.T) {
	tests := []struct {
		used, wasted int
		want         float64
	}{
		{0, 0, 0},
		{1, 0, 0},
		{0, 4, 100},
		{1, 1, 50},
		{1, 2, 66.7},
		{2, 1, 33.3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WastePercentage(tt.used, tt.wasted), "used=%d wasted=%d", tt.used, tt.wasted)
	}
}

type brokenSource struct{ Source }

func (brokenSource) CountByStatus(context.Context, int64, model.ItemStatus) (int, error) {
	return 0, errors.New("database is locked")
}

func TestSummaryStatsStorageError(t *testing.T) {
	_, err := NewEngine(brokenSource{}).SummaryStats(context.Background(), 1, now)
	assert.ErrorIs(t, err, pantry.ErrStorage)
}
