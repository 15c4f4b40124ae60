package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/LouYuanbo1/rdriver/param"
	"go.uber.org/zap"
)

const (
	BackendChromedp = "chromedp"
	BackendRod      = "rod"
)

var ErrUnknownBackend = errors.New("未知的浏览器后端")

// Element 已解析的页面元素,仅在当前页面内有效
type Element interface {
	Click(ctx context.Context) error
	SendKeys(ctx context.Context, text string) error
	Text(ctx context.Context) (string, error)
	// Hover 将鼠标移动到元素上
	Hover(ctx context.Context) error
}

// Driver 浏览器会话,不支持并发调用
type Driver interface {
	Navigate(ctx context.Context, url string) error
	// StartDownload 跳转到会触发下载的地址,不等待页面加载
	StartDownload(ctx context.Context, url string) error
	// FindElements 按文档顺序返回所有匹配元素,没有匹配时返回空切片
	FindElements(ctx context.Context, locator param.Locator) ([]Element, error)
	// Screenshot 整页截图,PNG 格式
	Screenshot(ctx context.Context) ([]byte, error)
	Close() error
}

// Config 启动浏览器所需的参数,由各后端共用
type Config struct {
	Backend     string
	ExecPath    string
	DownloadDir string
	UserDataDir string
	Headless    bool
	NoSandbox   bool
	UserAgent   string

	DisableBlinkFeatures string
	Incognito            bool
	DisableDevShmUsage   bool
	// LifeTime 仅 chromedp 使用,0 表示不限制
	LifeTime int

	Leakless bool
	Stealth  bool
	Trace    bool
}

// New 根据 Backend 启动对应的浏览器,启动失败时不会留下运行中的进程
func New(ctx context.Context, cfg *Config, logger *zap.Logger) (Driver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Backend {
	case "", BackendChromedp:
		return InitChromedpDriver(ctx, cfg, logger)
	case BackendRod:
		return InitRodDriver(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
