package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortlink-desk/internal/model"
)

func TestSnapshotDailyStats(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t)
	day := time.Date(2024, 3, 15, 23, 50, 0, 0, time.UTC)

	_, err := r.Shorten(ctx, "example.com", "one")
	require.NoError(t, err)
	require.NoError(t, r.RecordClick(ctx, "one"))

	stat, err := r.SnapshotDailyStats(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", stat.Date)
	assert.Equal(t, int64(1), stat.ActiveLinks)
	assert.Equal(t, int64(1), stat.TotalClicks)

	// 同一天再次执行覆盖原记录
	_, err = r.Shorten(ctx, "example.org", "two")
	require.NoError(t, err)
	require.NoError(t, r.RecordClick(ctx, "two"))
	require.NoError(t, r.RecordClick(ctx, "two"))

	_, err = r.SnapshotDailyStats(ctx, day)
	require.NoError(t, err)

	var rows []model.DailyStat
	require.NoError(t, r.db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].ActiveLinks)
	assert.Equal(t, int64(3), rows[0].TotalClicks)
}

func TestListDailyStats(t *testing.T) {
	ctx := context.Background()
	r := newTestRegistry(t)

	for _, d := range []int{1, 3, 2} {
		_, err := r.SnapshotDailyStats(ctx, time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
	}

	stats, err := r.ListDailyStats(ctx, 2)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "2024-01-03", stats[0].Date)
	assert.Equal(t, "2024-01-02", stats[1].Date)

	all, err := r.ListDailyStats(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
