package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"shortlink-desk/constant"
	"shortlink-desk/internal/apperrors"
	"shortlink-desk/internal/model"
)

// SnapshotDailyStats 记录指定日期的统计快照，同一天重复执行时覆盖
func (r *Registry) SnapshotDailyStats(ctx context.Context, day time.Time) (*model.DailyStat, error) {
	stats, err := r.Statistics(ctx)
	if err != nil {
		return nil, err
	}

	date := constant.GetDateKey(day)
	dailyStat := &model.DailyStat{
		Date:        date,
		ActiveLinks: stats.TotalActive,
		TotalClicks: stats.TotalClicks,
	}

	err = r.db.WithContext(ctx).
		Where("date = ?", date).
		Assign(map[string]interface{}{
			"active_links": stats.TotalActive,
			"total_clicks": stats.TotalClicks,
		}).
		FirstOrCreate(dailyStat).Error
	if err != nil {
		r.logger.Error("Failed to insert or update daily stat",
			zap.String("date", date),
			zap.Int64("active_links", stats.TotalActive),
			zap.Int64("total_clicks", stats.TotalClicks),
			zap.Error(err),
		)
		return nil, apperrors.SystemErrorDefault().WithCause(err)
	}

	r.logger.Info("daily stat recorded",
		zap.String("date", date),
		zap.Int64("active_links", stats.TotalActive),
		zap.Int64("total_clicks", stats.TotalClicks),
	)
	return dailyStat, nil
}

// ListDailyStats 最近的统计快照，按日期倒序
func (r *Registry) ListDailyStats(ctx context.Context, limit int) ([]model.DailyStat, error) {
	if limit < 1 || limit > 366 {
		limit = 30
	}

	stats := make([]model.DailyStat, 0)
	if err := r.db.WithContext(ctx).Order("date DESC").Limit(limit).Find(&stats).Error; err != nil {
		r.logger.Error("查询统计快照失败", zap.Error(err))
		return nil, apperrors.SystemErrorDefault().WithCause(err)
	}
	return stats, nil
}
