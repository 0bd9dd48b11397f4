package constant

import (
	"fmt"
	"time"
)

const (
	BasePrefix = "shortlink:"
	Separator  = ":"
)

// Redis 键模板
const (
	ShortCode = BasePrefix + "code" + Separator + "%s" // shortlink:code:<shortcode>
)

// DateLayout 每日统计的日期格式
const DateLayout = "2006-01-02"

// GetShortCodeKey 生成 shortCode key
func GetShortCodeKey(shortcode string) string {
	return fmt.Sprintf(ShortCode, shortcode)
}

// GetDateKey 生成指定时间的日期键（格式：YYYY-MM-DD）
func GetDateKey(t time.Time) string {
	return t.Format(DateLayout)
}
