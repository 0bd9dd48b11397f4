package utils

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxShortCodeLength 与 short_code 列宽一致
const MaxShortCodeLength = 32

// NormalizeURL 去除首尾空白，缺少 http:// 或 https:// 前缀时补上 https://
func NormalizeURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("error.original_url_required")
	}

	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "https://" + trimmed
	}
	return trimmed, nil
}

// ValidateShortCode 校验自定义短码：原样使用，只限制长度和空白字符
func ValidateShortCode(shortCode string) error {
	if shortCode == "" {
		return fmt.Errorf("error.shortcode_required")
	}

	if ContainsWhitespace(shortCode) {
		return fmt.Errorf("error.shortcode_cannot_contain_spaces")
	}

	if utf8.RuneCountInString(shortCode) > MaxShortCodeLength {
		return fmt.Errorf("error.shortcode_too_long")
	}

	return nil
}

func ContainsWhitespace(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) {
			return true
		}
	}
	return false
}
