package i18n

import (
	"context"
	"embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var builtinLocales embed.FS

type localizerKey struct{}

// Catalog 翻译包及其支持的语言
type Catalog struct {
	Bundle      *i18n.Bundle
	DefaultLang string
	Languages   []string
}

// InitI18n 加载内置的 locales/*.toml，再加载 extraFiles 覆盖同名消息
func InitI18n(defaultLang string, extraFiles ...string) (*Catalog, error) {
	if defaultLang == "" {
		defaultLang = "en"
	}
	bundle := i18n.NewBundle(language.MustParse(defaultLang))
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	catalog := &Catalog{Bundle: bundle, DefaultLang: defaultLang}

	entries, err := builtinLocales.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		path := "locales/" + entry.Name()
		data, err := builtinLocales.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if _, err := bundle.ParseMessageFileBytes(data, path); err != nil {
			return nil, err
		}
		catalog.addLanguage(extractLanguageFromPath(path))
	}

	for _, filePath := range extraFiles {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		if _, err := bundle.ParseMessageFileBytes(data, filePath); err != nil {
			return nil, err
		}
		catalog.addLanguage(extractLanguageFromPath(filePath))
	}

	return catalog, nil
}

func (c *Catalog) addLanguage(lang string) {
	for _, l := range c.Languages {
		if l == lang {
			return
		}
	}
	c.Languages = append(c.Languages, lang)
}

// Match 根据 Accept-Language 选择支持的语言，未匹配时返回默认语言
func (c *Catalog) Match(acceptLanguage string) string {
	tags, _, _ := language.ParseAcceptLanguage(acceptLanguage)
	for _, tag := range tags {
		base, _ := tag.Base()
		for _, lang := range c.Languages {
			if lang == tag.String() || lang == base.String() {
				return lang
			}
		}
	}
	return c.DefaultLang
}

// NewLocalizer 创建指定语言的 Localizer
func (c *Catalog) NewLocalizer(lang string) *i18n.Localizer {
	return i18n.NewLocalizer(c.Bundle, lang, c.DefaultLang)
}

// 从文件路径中提取语言标签（假设文件名格式为 <lang>.toml）
func extractLanguageFromPath(filePath string) string {
	baseName := filepath.Base(filePath)
	return strings.TrimSuffix(baseName, filepath.Ext(baseName))
}

// WithLocalizer 将 Localizer 放入 context
func WithLocalizer(ctx context.Context, localizer *i18n.Localizer) context.Context {
	return context.WithValue(ctx, localizerKey{}, localizer)
}

// T 翻译消息，context 中没有 Localizer 或消息未定义时返回 key 本身
func T(ctx context.Context, key string, data map[string]interface{}) string {
	localizer, ok := ctx.Value(localizerKey{}).(*i18n.Localizer)
	if !ok || localizer == nil {
		return key
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil || msg == "" {
		return key
	}
	return msg
}
