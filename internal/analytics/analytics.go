// Package analytics derives waste and usage statistics from a user's items.
// Every method is a read; nothing here can modify an item.
package analytics

import (
	"context"
	"math"
	"time"

	"github.com/erazemk/shramba/internal/model"
	"github.com/erazemk/shramba/internal/pantry"
	"github.com/erazemk/shramba/internal/store"
)

const (
	day = 24 * time.Hour

	weeklyWindow     = 7 * day
	trendWindow      = 6 * day
	nearExpiryWindow = 3 * day
	mostWastedLimit  = 3

	dateLayout = "2006-01-02"
)

// Source is the read-only view of the item collection the engine needs.
type Source interface {
	CountByStatusSince(ctx context.Context, ownerID int64, since time.Time) (map[model.ItemStatus]int, error)
	CountByNameAndStatus(ctx context.Context, ownerID int64) ([]store.GroupCount, error)
	CountByDayAndStatus(ctx context.Context, ownerID int64, from, to time.Time) ([]store.GroupCount, error)
	CountByStatus(ctx context.Context, ownerID int64, status model.ItemStatus) (int, error)
	CountActiveExpiringBetween(ctx context.Context, ownerID int64, from, to time.Time) (int, error)
	TopWastedNames(ctx context.Context, ownerID int64, limit int) ([]store.NameCount, error)
}

// StatusCounts holds a count for every item status.
type StatusCounts struct {
	Active int `json:"active"`
	Used   int `json:"used"`
	Wasted int `json:"wasted"`
}

// UsageCounts tallies items that left the pantry.
type UsageCounts struct {
	Used   int `json:"used"`
	Wasted int `json:"wasted"`
}

// Summary is the overview shown on the statistics page.
type Summary struct {
	WastePercentage float64  `json:"wastePercentage"`
	NearExpiryCount int      `json:"nearExpiryCount"`
	MostWasted      []string `json:"mostWasted"`
}

// Engine computes statistics over a Source.
type Engine struct {
	src Source
}

// NewEngine returns an Engine reading from src.
func NewEngine(src Source) *Engine {
	return &Engine{src: src}
}

// WeeklyStatusCounts counts items added in the seven days up to now, by status.
// All three statuses are always present.
func (e *Engine) WeeklyStatusCounts(ctx context.Context, ownerID int64, now time.Time) (StatusCounts, error) {
	counts, err := e.src.CountByStatusSince(ctx, ownerID, now.Add(-weeklyWindow))
	if err != nil {
		return StatusCounts{}, storageError("weekly status counts", err)
	}
	return StatusCounts{
		Active: counts[model.ItemStatusActive],
		Used:   counts[model.ItemStatusUsed],
		Wasted: counts[model.ItemStatusWasted],
	}, nil
}

// CategoryBreakdown tallies used and wasted items per name over all time.
// Names whose items are all still active are absent.
func (e *Engine) CategoryBreakdown(ctx context.Context, ownerID int64) (map[string]UsageCounts, error) {
	rows, err := e.src.CountByNameAndStatus(ctx, ownerID)
	if err != nil {
		return nil, storageError("category breakdown", err)
	}
	return foldUsage(rows), nil
}

// DailyTrend tallies used and wasted items per UTC day for items added in
// [now-6d, now]. Days without activity are absent.
func (e *Engine) DailyTrend(ctx context.Context, ownerID int64, now time.Time) (map[string]UsageCounts, error) {
	rows, err := e.src.CountByDayAndStatus(ctx, ownerID, now.Add(-trendWindow), now)
	if err != nil {
		return nil, storageError("daily trend", err)
	}
	return foldUsage(rows), nil
}

// SummaryStats reports the waste percentage, the number of active items
// expiring within three days, and the most wasted item names.
func (e *Engine) SummaryStats(ctx context.Context, ownerID int64, now time.Time) (Summary, error) {
	const op = "summary stats"

	used, err := e.src.CountByStatus(ctx, ownerID, model.ItemStatusUsed)
	if err != nil {
		return Summary{}, storageError(op, err)
	}
	wasted, err := e.src.CountByStatus(ctx, ownerID, model.ItemStatusWasted)
	if err != nil {
		return Summary{}, storageError(op, err)
	}
	near, err := e.src.CountActiveExpiringBetween(ctx, ownerID, now, now.Add(nearExpiryWindow))
	if err != nil {
		return Summary{}, storageError(op, err)
	}
	top, err := e.src.TopWastedNames(ctx, ownerID, mostWastedLimit)
	if err != nil {
		return Summary{}, storageError(op, err)
	}

	names := make([]string, 0, len(top))
	for _, nc := range top {
		names = append(names, nc.Name)
	}

	return Summary{
		WastePercentage: WastePercentage(used, wasted),
		NearExpiryCount: near,
		MostWasted:      names,
	}, nil
}

// WastePercentage is 100*wasted/(used+wasted) rounded to one decimal place,
// or 0 when nothing has been used or wasted.
func WastePercentage(used, wasted int) float64 {
	total := used + wasted
	if total == 0 {
		return 0
	}
	return math.Round(float64(wasted)*1000/float64(total)) / 10
}

// DateKey formats t the way DailyTrend keys its result.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func foldUsage(rows []store.GroupCount) map[string]UsageCounts {
	out := make(map[string]UsageCounts)
	for _, r := range rows {
		c := out[r.Key]
		switch r.Status {
		case model.ItemStatusUsed:
			c.Used += r.Count
		case model.ItemStatusWasted:
			c.Wasted += r.Count
		default:
			continue
		}
		out[r.Key] = c
	}
	return out
}

func storageError(op string, err error) error {
	return &pantry.Error{Kind: pantry.KindStorage, Op: op, Msg: "storage failure", Err: err}
}

