package service

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"shortlink-desk/internal/apperrors"
	"shortlink-desk/internal/model"
	"shortlink-desk/internal/repository"
	"shortlink-desk/pkg/utils"
	"shortlink-desk/response"
)

const (
	DefaultCodeLength = 6
	DefaultBaseURL    = "http://short.url"

	// 大小写字母加数字，共 62 个字符
	codeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Stats 启用状态短链的汇总统计
type Stats struct {
	TotalActive int64 `json:"totalActive"`
	TotalClicks int64 `json:"totalClicks"`
}

// Registry 短码注册表，持有数据库连接，由调用方负责 Close
type Registry struct {
	db         *gorm.DB
	cache      repository.LinkCache
	logger     *zap.Logger
	baseURL    string
	codeLength int
	intn       func(n int) int
	now        func() time.Time
}

type Option func(*Registry)

// WithCache 设置查找缓存
func WithCache(cache repository.LinkCache) Option {
	return func(r *Registry) {
		if cache != nil {
			r.cache = cache
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithBaseURL 设置展示用短链前缀
func WithBaseURL(baseURL string) Option {
	return func(r *Registry) {
		if baseURL != "" {
			r.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func WithCodeLength(length int) Option {
	return func(r *Registry) {
		if length > 0 {
			r.codeLength = length
		}
	}
}

// WithRandom 替换随机数来源，intn 返回 [0, n) 的整数
func WithRandom(intn func(n int) int) Option {
	return func(r *Registry) {
		if intn != nil {
			r.intn = intn
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRegistry 创建注册表
func NewRegistry(db *gorm.DB, opts ...Option) *Registry {
	r := &Registry{
		db:         db,
		cache:      repository.NopCache{},
		logger:     zap.NewNop(),
		baseURL:    DefaultBaseURL,
		codeLength: DefaultCodeLength,
		intn:       rand.Intn,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Close 关闭数据库连接
func (r *Registry) Close() error {
	return repository.CloseDB(r.db)
}

// ShortURL 拼接展示用短链
func (r *Registry) ShortURL(shortCode string) string {
	return r.baseURL + "/" + shortCode
}

func codeExists(tx *gorm.DB, shortCode string) (bool, error) {
	var count int64
	if err := tx.Model(&model.ShortLink{}).Where("short_code = ?", shortCode).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Registry) randomCode(length int) string {
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		sb.WriteByte(codeAlphabet[r.intn(len(codeAlphabet))])
	}
	return sb.String()
}

func (r *Registry) generateUniqueCode(tx *gorm.DB, length int) (string, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}
	for attempt := 1; ; attempt++ {
		code := r.randomCode(length)
		exists, err := codeExists(tx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
		r.logger.Debug("short code collision, retrying",
			zap.String("short_code", code),
			zap.Int("attempt", attempt))
	}
}

// GenerateUniqueCode 生成未被占用的随机短码（包括已停用记录的短码）
func (r *Registry) GenerateUniqueCode(ctx context.Context, length int) (string, error) {
	code, err := r.generateUniqueCode(r.db.WithContext(ctx), length)
	if err != nil {
		r.logger.Error("生成短码失败", zap.Error(err))
		return "", apperrors.SystemErrorDefault().WithCause(err)
	}
	return code, nil
}

// Shorten 创建短链
func (r *Registry) Shorten(ctx context.Context, originalURL, customCode string) (*model.ShortLink, error) {
	normalized, err := utils.NormalizeURL(originalURL)
	if err != nil {
		return nil, apperrors.ValidationError(err.Error())
	}

	customCode = strings.TrimSpace(customCode)
	if customCode != "" {
		if err := utils.ValidateShortCode(customCode); err != nil {
			return nil, apperrors.ValidationError(err.Error())
		}
	}

	link := &model.ShortLink{
		OriginalURL: normalized,
		CustomCode:  customCode != "",
		IsActive:    true,
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if customCode != "" {
			exists, err := codeExists(tx, customCode)
			if err != nil {
				return err
			}
			if exists {
				return apperrors.DuplicateCodeError("error.shortcode_exists")
			}
			link.ShortCode = customCode
		} else {
			code, err := r.generateUniqueCode(tx, r.codeLength)
			if err != nil {
				return err
			}
			link.ShortCode = code
		}

		now := r.now()
		link.CreatedAt = now
		link.UpdatedAt = now
		return tx.Create(link).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		switch {
		case errors.As(err, &appErr):
			r.logger.Info("短链已存在", zap.String("short_code", customCode))
			return nil, appErr
		case errors.Is(err, gorm.ErrDuplicatedKey):
			r.logger.Info("短链已存在", zap.String("short_code", link.ShortCode), zap.Error(err))
			return nil, apperrors.DuplicateCodeError("error.shortcode_exists").WithCause(err)
		default:
			r.logger.Error("数据库操作失败", zap.String("original_url", normalized), zap.Error(err))
			return nil, apperrors.SystemErrorDefault().WithCause(err)
		}
	}

	r.logger.Info("short link created",
		zap.Uint("id", link.ID),
		zap.String("short_code", link.ShortCode),
		zap.Bool("custom_code", link.CustomCode))
	return link, nil
}

// Get 按短码查询，包括已停用的记录
func (r *Registry) Get(ctx context.Context, shortCode string) (*model.ShortLink, error) {
	var link model.ShortLink
	if err := r.db.WithContext(ctx).Where("short_code = ?", shortCode).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundError("error.shortcode_not_found")
		}
		r.logger.Error("查询短链失败", zap.String("short_code", shortCode), zap.Error(err))
		return nil, apperrors.SystemErrorDefault().WithCause(err)
	}
	return &link, nil
}

// RecordClick 点击数加一，已停用的记录同样计数
func (r *Registry) RecordClick(ctx context.Context, shortCode string) error {
	result := r.db.WithContext(ctx).
		Model(&model.ShortLink{}).
		Where("short_code = ?", shortCode).
		UpdateColumn("clicks", gorm.Expr("clicks + ?", 1))
	if result.Error != nil {
		r.logger.Error("更新点击数失败", zap.String("short_code", shortCode), zap.Error(result.Error))
		return apperrors.SystemErrorDefault().WithCause(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFoundError("error.shortcode_not_found")
	}
	return nil
}

// SoftDelete 停用短链，短码不会被释放
func (r *Registry) SoftDelete(ctx context.Context, shortCode string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var link model.ShortLink
		if err := tx.Where("short_code = ?", shortCode).First(&link).Error; err != nil {
			return err
		}
		if !link.IsActive {
			return nil
		}
		return tx.Model(&link).Update("is_active", false).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFoundError("error.shortcode_not_found")
		}
		r.logger.Error("停用短链失败", zap.String("short_code", shortCode), zap.Error(err))
		return apperrors.SystemErrorDefault().WithCause(err)
	}

	r.cache.Delete(ctx, shortCode)
	r.logger.Info("short link deactivated", zap.String("short_code", shortCode))
	return nil
}

func (r *Registry) activeLinks(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.ShortLink{}).Where("is_active = ?", true)
}

// ListActive 返回全部启用的短链，按创建时间倒序
func (r *Registry) ListActive(ctx context.Context) ([]model.ShortLink, error) {
	links := make([]model.ShortLink, 0)
	if err := r.activeLinks(ctx).Order("created_at DESC").Order("id DESC").Find(&links).Error; err != nil {
		r.logger.Error("查询短链列表失败", zap.Error(err))
		return nil, apperrors.SystemErrorDefault().WithCause(err)
	}
	return links, nil
}

// ListActivePage 分页查询启用的短链
func (r *Registry) ListActivePage(ctx context.Context, page, size int) (*response.PageResponse[model.ShortLink], error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10 // 默认每页10条，最大100条
	}

	var total int64
	if err := r.activeLinks(ctx).Count(&total).Error; err != nil {
		r.logger.Error("统计短链记录数失败", zap.Error(err))
		return nil, apperrors.SystemErrorDefault().WithCause(err)
	}

	// 如果总数为0，直接返回空结果，不执行分页查询
	if total == 0 {
		return response.NewPage[model.ShortLink](page, size, 0, nil), nil
	}

	var links []model.ShortLink
	if err := r.activeLinks(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&links).Error; err != nil {
		r.logger.Error("查询短链列表失败", zap.Error(err))
		return nil, apperrors.SystemErrorDefault().WithCause(err)
	}

	return response.NewPage(page, size, int(total), links), nil
}

// Statistics 启用短链的数量和点击总数
func (r *Registry) Statistics(ctx context.Context) (Stats, error) {
	var stats Stats
	err := r.activeLinks(ctx).
		Select("COUNT(*) AS total_active, COALESCE(SUM(clicks), 0) AS total_clicks").
		Scan(&stats).Error
	if err != nil {
		r.logger.Error("统计短链失败", zap.Error(err))
		return Stats{}, apperrors.SystemErrorDefault().WithCause(err)
	}
	return stats, nil
}

// Resolve 打开短链：查找启用的记录（先查缓存），点击数加一，返回原始 URL
func (r *Registry) Resolve(ctx context.Context, shortCode string) (string, error) {
	if originalURL, ok := r.cache.Get(ctx, shortCode); ok {
		// 缓存命中时只给启用的记录计数，停用或不存在说明缓存已过期
		result := r.activeLinks(ctx).
			Where("short_code = ?", shortCode).
			UpdateColumn("clicks", gorm.Expr("clicks + ?", 1))
		if result.Error != nil {
			r.logger.Error("更新点击数失败", zap.String("short_code", shortCode), zap.Error(result.Error))
			return "", apperrors.SystemErrorDefault().WithCause(result.Error)
		}
		if result.RowsAffected == 0 {
			r.cache.Delete(ctx, shortCode)
			return "", apperrors.NotFoundError("error.shortcode_not_found")
		}
		return originalURL, nil
	}

	var link model.ShortLink
	err := r.activeLinks(ctx).Where("short_code = ?", shortCode).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.NotFoundError("error.shortcode_not_found")
		}
		r.logger.Error("查询短链失败", zap.String("short_code", shortCode), zap.Error(err))
		return "", apperrors.SystemErrorDefault().WithCause(err)
	}

	if err := r.RecordClick(ctx, shortCode); err != nil {
		return "", err
	}
	r.cache.Set(ctx, shortCode, link.OriginalURL)
	return link.OriginalURL, nil
}
