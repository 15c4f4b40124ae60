package browser

import (
	"context"
	"fmt"
	"os"

	"github.com/LouYuanbo1/rdriver/internal/infra/browser/options"
	"github.com/LouYuanbo1/rdriver/param"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"go.uber.org/zap"
)

type rodDriver struct {
	launcher    *launcher.Launcher
	browser     *rod.Browser
	page        *rod.Page
	tempProfile string
	logger      *zap.Logger
}

func InitRodDriver(ctx context.Context, cfg *Config, logger *zap.Logger) (Driver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	userDataDir, tempProfile, err := prepareProfile(cfg, "rdriver-rod-*")
	if err != nil {
		return nil, err
	}

	l := options.CreateLauncher(
		options.WithBin(cfg.ExecPath),
		options.WithUserDataDir(userDataDir),
		options.WithHeadless(cfg.Headless),
		options.WithDisableBlinkFeatures(cfg.DisableBlinkFeatures),
		options.WithIncognito(cfg.Incognito),
		options.WithDisableDevShmUsage(cfg.DisableDevShmUsage),
		options.WithNoSandbox(cfg.NoSandbox),
		options.WithUserAgent(cfg.UserAgent),
		options.WithLeakless(cfg.Leakless),
	)
	rd := &rodDriver{
		launcher:    l,
		tempProfile: tempProfile,
		logger:      logger.With(zap.String("component", "rod_driver")),
	}

	controlURL, err := l.Context(ctx).Launch()
	if err != nil {
		rd.cleanup()
		return nil, fmt.Errorf("启动浏览器失败: %w", err)
	}

	rd.browser = rod.New().ControlURL(controlURL).Trace(cfg.Trace)
	if err := rd.browser.Connect(); err != nil {
		l.Kill()
		rd.cleanup()
		return nil, fmt.Errorf("连接浏览器失败: %w", err)
	}

	if cfg.DownloadDir != "" {
		err = proto.BrowserSetDownloadBehavior{
			Behavior:      proto.BrowserSetDownloadBehaviorBehaviorAllow,
			DownloadPath:  cfg.DownloadDir,
			EventsEnabled: true,
		}.Call(rd.browser)
		if err != nil {
			rd.Close()
			return nil, fmt.Errorf("设置下载目录失败: %w", err)
		}
	}

	if cfg.Stealth {
		rd.page, err = stealth.Page(rd.browser)
	} else {
		rd.page, err = rd.browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		rd.Close()
		return nil, fmt.Errorf("创建页面失败: %w", err)
	}

	rd.logger.Info("rod browser started",
		zap.String("control_url", controlURL),
		zap.Bool("headless", cfg.Headless),
		zap.Bool("stealth", cfg.Stealth))
	return rd, nil
}

func (rd *rodDriver) Close() error {
	err := rd.browser.Close()
	rd.cleanup()
	rd.logger.Info("rod browser closed")
	return err
}

// 只删除自己创建的临时目录,用户配置的目录保留
func (rd *rodDriver) cleanup() {
	if rd.tempProfile == "" {
		return
	}
	if err := os.RemoveAll(rd.tempProfile); err != nil {
		rd.logger.Warn("remove temp profile failed", zap.String("dir", rd.tempProfile), zap.Error(err))
	}
}

func (rd *rodDriver) Navigate(ctx context.Context, url string) error {
	rd.logger.Debug("navigating", zap.String("url", url))
	page := rd.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("导航失败: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("等待加载失败: %w", err)
	}
	return nil
}

func (rd *rodDriver) StartDownload(ctx context.Context, url string) error {
	rd.logger.Debug("start download", zap.String("url", url))
	if _, err := rd.page.Context(ctx).Eval(`(u) => { window.location.href = u }`, url); err != nil {
		return fmt.Errorf("触发下载失败: %w", err)
	}
	return nil
}

func (rd *rodDriver) FindElements(ctx context.Context, locator param.Locator) ([]Element, error) {
	sel, err := CompileLocator(locator)
	if err != nil {
		return nil, err
	}
	page := rd.page.Context(ctx)

	var found rod.Elements
	if sel.Kind == SelectorXPath {
		found, err = page.ElementsX(sel.Expr)
	} else {
		found, err = page.Elements(sel.Expr)
	}
	if err != nil {
		return nil, fmt.Errorf("查找元素失败 (%s): %w", locator, err)
	}
	elements := make([]Element, 0, len(found))
	for _, el := range found {
		elements = append(elements, &rodElement{el: el})
	}
	return elements, nil
}

func (rd *rodDriver) Screenshot(ctx context.Context) ([]byte, error) {
	buf, err := rd.page.Context(ctx).Screenshot(true, nil)
	if err != nil {
		return nil, fmt.Errorf("截图失败: %w", err)
	}
	return buf, nil
}

type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Click(ctx context.Context) error {
	return e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1)
}

func (e *rodElement) SendKeys(ctx context.Context, text string) error {
	return e.el.Context(ctx).Input(text)
}

func (e *rodElement) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}

func (e *rodElement) Hover(ctx context.Context) error {
	return e.el.Context(ctx).Hover()
}
