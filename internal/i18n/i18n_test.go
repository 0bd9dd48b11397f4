package i18n

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitI18n_Builtin(t *testing.T) {
	catalog, err := InitI18n("en")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"en", "zh"}, catalog.Languages)

	ctx := WithLocalizer(context.Background(), catalog.NewLocalizer("zh"))
	assert.Equal(t, "该自定义短码已被使用", T(ctx, "error.shortcode_exists", nil))

	ctx = WithLocalizer(context.Background(), catalog.NewLocalizer("en"))
	assert.Equal(t, "This custom code is already in use", T(ctx, "error.shortcode_exists", nil))
}

func TestT_Fallbacks(t *testing.T) {
	catalog, err := InitI18n("en")
	require.NoError(t, err)

	// 没有 Localizer 时返回 key
	assert.Equal(t, "error.system", T(context.Background(), "error.system", nil))

	// 未定义的消息返回 key
	ctx := WithLocalizer(context.Background(), catalog.NewLocalizer("en"))
	assert.Equal(t, "error.unknown_key", T(ctx, "error.unknown_key", nil))

	// 不支持的语言回落到默认语言
	ctx = WithLocalizer(context.Background(), catalog.NewLocalizer("fr"))
	assert.Equal(t, "Short link not found", T(ctx, "error.shortcode_not_found", nil))
}

func TestInitI18n_ExtraFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "de.toml")
	require.NoError(t, os.WriteFile(path, []byte(`"error.shortcode_not_found" = "Kurzlink nicht gefunden"`), 0o644))

	catalog, err := InitI18n("en", path)
	require.NoError(t, err)
	assert.Contains(t, catalog.Languages, "de")

	ctx := WithLocalizer(context.Background(), catalog.NewLocalizer("de"))
	assert.Equal(t, "Kurzlink nicht gefunden", T(ctx, "error.shortcode_not_found", nil))
}

func TestCatalog_Match(t *testing.T) {
	catalog, err := InitI18n("en")
	require.NoError(t, err)

	assert.Equal(t, "zh", catalog.Match("zh-CN,zh;q=0.9,en;q=0.8"))
	assert.Equal(t, "en", catalog.Match("en-US"))
	assert.Equal(t, "en", catalog.Match("fr-FR"))
	assert.Equal(t, "en", catalog.Match(""))
}
