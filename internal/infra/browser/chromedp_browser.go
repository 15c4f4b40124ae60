package browser

import (
	"context"
	"fmt"
	"os"

	"github.com/LouYuanbo1/rdriver/param"
	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

type chromedpDriver struct {
	allocCtx      context.Context
	allocCtxFuc   context.CancelFunc
	pageCtx       context.Context
	pageCtxFuc    context.CancelFunc
	timeoutCtxFuc context.CancelFunc
	tempProfile   string
	logger        *zap.Logger
}

// InitChromedpDriver 启动 chromedp 浏览器。浏览器的生命周期由 Close 控制,不随 ctx 取消
func InitChromedpDriver(ctx context.Context, cfg *Config, logger *zap.Logger) (Driver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	userDataDir, tempProfile, err := prepareProfile(cfg, "rdriver-chromedp-*")
	if err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("incognito", cfg.Incognito),
		chromedp.Flag("disable-dev-shm-usage", cfg.DisableDevShmUsage),
		chromedp.Flag("no-sandbox", cfg.NoSandbox),
		chromedp.UserDataDir(userDataDir),
	)
	if cfg.DisableBlinkFeatures != "" {
		opts = append(opts, chromedp.Flag("disable-blink-features", cfg.DisableBlinkFeatures))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	var (
		timeoutCtx    context.Context
		cancelTimeout context.CancelFunc
	)
	if cfg.LifeTime > 0 {
		timeoutCtx, cancelTimeout = context.WithTimeout(context.WithoutCancel(ctx), secondsDuration(cfg.LifeTime))
	} else {
		timeoutCtx, cancelTimeout = context.WithCancel(context.WithoutCancel(ctx))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(timeoutCtx, opts...)
	pageCtx, cancelPage := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		}),
	)

	cd := &chromedpDriver{
		allocCtx:      allocCtx,
		allocCtxFuc:   cancelAlloc,
		pageCtx:       pageCtx,
		pageCtxFuc:    cancelPage,
		timeoutCtxFuc: cancelTimeout,
		tempProfile:   tempProfile,
		logger:        logger.With(zap.String("component", "chromedp_driver")),
	}

	// 第一次 Run 才会真正启动浏览器
	var actions []chromedp.Action
	if cfg.DownloadDir != "" {
		actions = append(actions, cdpbrowser.SetDownloadBehavior(cdpbrowser.SetDownloadBehaviorBehaviorAllow).
			WithDownloadPath(cfg.DownloadDir).
			WithEventsEnabled(true))
	}
	if err := chromedp.Run(pageCtx, actions...); err != nil {
		cd.Close()
		return nil, fmt.Errorf("启动浏览器失败: %w", err)
	}

	cd.logger.Info("chromedp browser started",
		zap.Bool("headless", cfg.Headless),
		zap.String("exec_path", cfg.ExecPath),
		zap.String("download_dir", cfg.DownloadDir))
	return cd, nil
}

func (cd *chromedpDriver) Close() error {
	err := chromedp.Cancel(cd.pageCtx)
	cd.pageCtxFuc()
	cd.allocCtxFuc()
	cd.timeoutCtxFuc()
	if cd.tempProfile != "" {
		if rmErr := os.RemoveAll(cd.tempProfile); rmErr != nil {
			cd.logger.Warn("remove temp profile failed", zap.String("dir", cd.tempProfile), zap.Error(rmErr))
		}
	}
	cd.logger.Info("chromedp browser closed")
	return err
}

// run 在页面上下文中执行动作,调用方的 ctx 取消时中止
func (cd *chromedpDriver) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(cd.pageCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

func (cd *chromedpDriver) Navigate(ctx context.Context, url string) error {
	cd.logger.Debug("navigating", zap.String("url", url))
	if err := cd.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("导航失败: %w", err)
	}
	return nil
}

// 下载地址不会产生 load 事件,chromedp.Navigate 会报 net::ERR_ABORTED,改用脚本跳转
func (cd *chromedpDriver) StartDownload(ctx context.Context, url string) error {
	cd.logger.Debug("start download", zap.String("url", url))
	if err := cd.run(ctx, chromedp.Evaluate(locationScript(url), nil)); err != nil {
		return fmt.Errorf("触发下载失败: %w", err)
	}
	return nil
}

func (cd *chromedpDriver) FindElements(ctx context.Context, locator param.Locator) ([]Element, error) {
	sel, err := CompileLocator(locator)
	if err != nil {
		return nil, err
	}
	by := chromedp.ByQueryAll
	if sel.Kind == SelectorXPath {
		by = chromedp.BySearch
	}

	var nodes []*cdp.Node
	if err := cd.run(ctx, chromedp.Nodes(sel.Expr, &nodes, by, chromedp.AtLeast(0))); err != nil {
		return nil, fmt.Errorf("查找元素失败 (%s): %w", locator, err)
	}
	elements := make([]Element, 0, len(nodes))
	for _, node := range nodes {
		elements = append(elements, &chromedpElement{driver: cd, node: node})
	}
	return elements, nil
}

func (cd *chromedpDriver) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	// quality 100 时输出 PNG
	if err := cd.run(ctx, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return nil, fmt.Errorf("截图失败: %w", err)
	}
	return buf, nil
}

type chromedpElement struct {
	driver *chromedpDriver
	node   *cdp.Node
}

func (e *chromedpElement) ids() []cdp.NodeID {
	return []cdp.NodeID{e.node.NodeID}
}

func (e *chromedpElement) Click(ctx context.Context) error {
	return e.driver.run(ctx, chromedp.MouseClickNode(e.node))
}

func (e *chromedpElement) SendKeys(ctx context.Context, text string) error {
	return e.driver.run(ctx, chromedp.SendKeys(e.ids(), text, chromedp.ByNodeID))
}

func (e *chromedpElement) Text(ctx context.Context) (string, error) {
	var text string
	err := e.driver.run(ctx, chromedp.JavascriptAttribute(e.ids(), "innerText", &text, chromedp.ByNodeID))
	return text, err
}

func (e *chromedpElement) Hover(ctx context.Context) error {
	return e.driver.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		if err := dom.ScrollIntoViewIfNeeded().WithNodeID(e.node.NodeID).Do(ctx); err != nil {
			return fmt.Errorf("滚动到元素失败: %w", err)
		}
		quads, err := dom.GetContentQuads().WithNodeID(e.node.NodeID).Do(ctx)
		if err != nil {
			return fmt.Errorf("获取元素位置失败: %w", err)
		}
		if len(quads) == 0 {
			return fmt.Errorf("元素不可见: %s", e.node.FullXPath())
		}
		x, y := quadCenter(quads[0])
		return input.DispatchMouseEvent(input.MouseMoved, x, y).Do(ctx)
	}))
}

func quadCenter(q dom.Quad) (float64, float64) {
	var x, y float64
	n := len(q) / 2
	for i := 0; i < n; i++ {
		x += q[2*i]
		y += q[2*i+1]
	}
	return x / float64(n), y / float64(n)
}
