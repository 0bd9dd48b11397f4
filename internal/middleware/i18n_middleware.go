package middleware

import (
	"github.com/gin-gonic/gin"

	"shortlink-desk/internal/i18n"
)

// I18nMiddleware 根据 Accept-Language 选择语言，把 Localizer 放入请求 context
func I18nMiddleware(catalog *i18n.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := catalog.Match(c.GetHeader("Accept-Language"))
		localizer := catalog.NewLocalizer(lang)
		c.Request = c.Request.WithContext(i18n.WithLocalizer(c.Request.Context(), localizer))
		c.Header("Content-Language", lang)
		c.Next()
	}
}
