package handler

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"shortlink-desk/internal/apperrors"
	"shortlink-desk/internal/desktop"
	"shortlink-desk/internal/dto"
	"shortlink-desk/internal/i18n"
	"shortlink-desk/internal/model"
	"shortlink-desk/internal/service"
	"shortlink-desk/response"
)

// Registry 处理器依赖的注册表操作
type Registry interface {
	Shorten(ctx context.Context, originalURL, customCode string) (*model.ShortLink, error)
	Get(ctx context.Context, shortCode string) (*model.ShortLink, error)
	RecordClick(ctx context.Context, shortCode string) error
	SoftDelete(ctx context.Context, shortCode string) error
	ListActive(ctx context.Context) ([]model.ShortLink, error)
	ListActivePage(ctx context.Context, page, size int) (*response.PageResponse[model.ShortLink], error)
	Statistics(ctx context.Context) (service.Stats, error)
	Resolve(ctx context.Context, shortCode string) (string, error)
	ListDailyStats(ctx context.Context, limit int) ([]model.DailyStat, error)
	ShortURL(shortCode string) string
}

type Handler struct {
	registry Registry
	shell    desktop.Shell
}

func New(registry Registry, shell desktop.Shell) *Handler {
	return &Handler{registry: registry, shell: shell}
}

// Register 注册 /api 下的路由
func (h *Handler) Register(api *gin.RouterGroup) {
	api.POST("/shortlink", h.CreateShortLinkHandler)
	api.GET("/shortlink", h.ListShortLinksHandler)
	api.GET("/shortlink/stats", h.StatisticsHandler)
	api.GET("/shortlink/daily", h.DailyStatsHandler)
	api.POST("/shortlink/:code/click", h.RecordClickHandler)
	api.POST("/shortlink/:code/open", h.OpenShortLinkHandler)
	api.POST("/shortlink/:code/copy", h.CopyShortLinkHandler)
	api.GET("/shortlink/:code/qrcode", h.QRCodeHandler)
	api.DELETE("/shortlink/:code", h.DeleteShortLinkHandler)
}

func (h *Handler) toResponse(link model.ShortLink) dto.ShortLinkResponse {
	return dto.NewShortLinkResponse(link, h.registry.ShortURL(link.ShortCode))
}

// bindErrorMessage 取出字段 msg 标签作为错误信息
func bindErrorMessage(req interface{}, err error) *apperrors.AppError {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		t := reflect.TypeOf(req)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		for _, e := range validationErrs {
			field, ok := t.FieldByName(e.StructField())
			if !ok {
				continue
			}
			if customMsg := field.Tag.Get("msg"); customMsg != "" {
				return apperrors.ValidationError(customMsg)
			}
		}
	}
	return apperrors.InvalidRequestErrorDefault()
}

// CreateShortLinkHandler 创建短链
func (h *Handler) CreateShortLinkHandler(c *gin.Context) {
	var req dto.CreateShortLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zap.L().Warn("Request body binding failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		_ = c.Error(bindErrorMessage(&req, err))
		return
	}

	ctx := c.Request.Context()
	link, err := h.registry.Shorten(ctx, req.OriginalURL, req.CustomCode)
	if err != nil {
		zap.L().Warn("Short link creation failed",
			zap.Error(err),
			zap.String("custom_code", req.CustomCode),
		)
		_ = c.Error(err)
		return
	}

	resp := h.toResponse(*link)
	if req.Copy {
		// 复制失败不影响创建结果
		if err := h.shell.CopyToClipboard(resp.ShortURL); err != nil {
			zap.L().Warn("Copy short url failed", zap.Error(err), zap.String("short_code", link.ShortCode))
		}
	}

	c.JSON(http.StatusCreated, response.OK(resp, i18n.T(ctx, "msg.shortened", nil)))
}

// ListShortLinksHandler 启用的短链列表，带 page 参数时分页
func (h *Handler) ListShortLinksHandler(c *gin.Context) {
	ctx := c.Request.Context()

	pageStr, paged := c.GetQuery("page")
	if !paged {
		links, err := h.registry.ListActive(ctx)
		if err != nil {
			_ = c.Error(err)
			return
		}
		list := make([]dto.ShortLinkResponse, 0, len(links))
		for _, link := range links {
			list = append(list, h.toResponse(link))
		}
		c.JSON(http.StatusOK, response.OK(list, i18n.T(ctx, "msg.success", nil)))
		return
	}

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size < 1 || size > 100 {
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return
	}

	pageResp, err := h.registry.ListActivePage(ctx, page, size)
	if err != nil {
		_ = c.Error(err)
		return
	}

	list := make([]dto.ShortLinkResponse, 0, len(pageResp.List))
	for _, link := range pageResp.List {
		list = append(list, h.toResponse(link))
	}
	out := response.NewPage(pageResp.Page, pageResp.Size, pageResp.Total, list)
	c.JSON(http.StatusOK, response.OK(out, i18n.T(ctx, "msg.success", nil)))
}

// StatisticsHandler 汇总统计
func (h *Handler) StatisticsHandler(c *gin.Context) {
	stats, err := h.registry.Statistics(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.OK(stats, i18n.T(c.Request.Context(), "msg.success", nil)))
}

// DailyStatsHandler 每日统计快照
func (h *Handler) DailyStatsHandler(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "30"))
	if err != nil {
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return
	}

	stats, err := h.registry.ListDailyStats(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.OK(stats, i18n.T(c.Request.Context(), "msg.success", nil)))
}

// RecordClickHandler 点击数加一
func (h *Handler) RecordClickHandler(c *gin.Context) {
	code := c.Param("code")
	if err := h.registry.RecordClick(c.Request.Context(), code); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.OK(struct{}{}, i18n.T(c.Request.Context(), "msg.click_recorded", nil)))
}

// OpenShortLinkHandler 打开短链：记录点击并用默认浏览器打开原始链接
func (h *Handler) OpenShortLinkHandler(c *gin.Context) {
	ctx := c.Request.Context()
	code := c.Param("code")

	originalURL, err := h.registry.Resolve(ctx, code)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.shell.OpenBrowser(originalURL); err != nil {
		_ = c.Error(apperrors.SystemError("error.browser_failed").WithCause(err))
		return
	}

	c.JSON(http.StatusOK, response.OK(dto.OpenShortLinkResponse{OriginalURL: originalURL}, i18n.T(ctx, "msg.opened", nil)))
}

// CopyShortLinkHandler 复制短链（target=short，默认）或原始链接（target=original）
func (h *Handler) CopyShortLinkHandler(c *gin.Context) {
	ctx := c.Request.Context()

	link, err := h.registry.Get(ctx, c.Param("code"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	var text, messageID string
	switch c.DefaultQuery("target", "short") {
	case "short":
		text, messageID = h.registry.ShortURL(link.ShortCode), "msg.copied_short"
	case "original":
		text, messageID = link.OriginalURL, "msg.copied_original"
	default:
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return
	}

	if err := h.shell.CopyToClipboard(text); err != nil {
		_ = c.Error(apperrors.SystemError("error.clipboard_failed").WithCause(err))
		return
	}

	c.JSON(http.StatusOK, response.OK(dto.CopyShortLinkResponse{Text: text}, i18n.T(ctx, messageID, nil)))
}

// QRCodeHandler 返回短链二维码 PNG，同时保存到二维码目录
func (h *Handler) QRCodeHandler(c *gin.Context) {
	link, err := h.registry.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	path, png, err := h.shell.ExportQRCode(h.registry.ShortURL(link.ShortCode), link.ShortCode)
	if err != nil {
		_ = c.Error(apperrors.SystemError("error.qrcode_failed").WithCause(err))
		return
	}

	if path != "" {
		c.Header("X-QRCode-Path", path)
	}
	c.Data(http.StatusOK, "image/png", png)
}

// DeleteShortLinkHandler 停用短链
func (h *Handler) DeleteShortLinkHandler(c *gin.Context) {
	code := c.Param("code")
	if err := h.registry.SoftDelete(c.Request.Context(), code); err != nil {
		zap.L().Warn("Short link delete failed", zap.Error(err), zap.String("short_code", code))
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response.OK(struct{}{}, i18n.T(c.Request.Context(), "msg.deleted", nil)))
}
