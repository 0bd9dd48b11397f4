package desktop

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"shortlink-desk/internal/config"
)

const defaultQRSize = 256

// Shell 桌面端副作用：剪贴板、默认浏览器、二维码导出
type Shell interface {
	CopyToClipboard(text string) error
	OpenBrowser(url string) error
	// ExportQRCode 生成二维码 PNG 并保存为 <dir>/qr_<shortCode>.png
	ExportQRCode(content, shortCode string) (path string, png []byte, err error)
}

// New 根据配置返回系统实现或无副作用实现
func New(cfg config.DesktopConfig, logger *zap.Logger) Shell {
	size := cfg.QRSize
	if size <= 0 {
		size = defaultQRSize
	}
	if !cfg.Enabled {
		return &Headless{QRDir: cfg.QRDir, QRSize: size}
	}
	return &System{qrDir: cfg.QRDir, qrSize: size, logger: logger}
}

// System 调用操作系统能力
type System struct {
	qrDir  string
	qrSize int
	logger *zap.Logger
}

func (s *System) CopyToClipboard(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		s.logger.Warn("Failed to write clipboard", zap.Error(err))
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

func (s *System) OpenBrowser(url string) error {
	if err := browser.OpenURL(url); err != nil {
		s.logger.Warn("Failed to open browser", zap.String("url", url), zap.Error(err))
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}

func (s *System) ExportQRCode(content, shortCode string) (string, []byte, error) {
	return exportQRCode(s.qrDir, s.qrSize, content, shortCode)
}

// Headless 不访问剪贴板和浏览器，二维码仍然会生成
type Headless struct {
	QRDir  string
	QRSize int
}

func (h *Headless) CopyToClipboard(string) error { return nil }

func (h *Headless) OpenBrowser(string) error { return nil }

func (h *Headless) ExportQRCode(content, shortCode string) (string, []byte, error) {
	return exportQRCode(h.QRDir, h.QRSize, content, shortCode)
}

func exportQRCode(dir string, size int, content, shortCode string) (string, []byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return "", nil, fmt.Errorf("encode qr code: %w", err)
	}
	if dir == "" {
		return "", png, nil
	}

	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", nil, fmt.Errorf("create qr directory: %w", err)
	}
	path := filepath.Join(dir, "qr_"+filepath.Base(shortCode)+".png")
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", nil, fmt.Errorf("write qr code: %w", err)
	}
	return path, png, nil
}
