package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/LouYuanbo1/rdriver/internal/download"
	"github.com/LouYuanbo1/rdriver/internal/infra/browser"
	"github.com/LouYuanbo1/rdriver/internal/infra/metrics"
	"github.com/LouYuanbo1/rdriver/internal/retry"
	"github.com/LouYuanbo1/rdriver/param"
	"go.uber.org/zap"
)

const ScreenshotDir = "screenshots"

var ErrExhausted = errors.New("重试次数已用完")

// Facade 封装一个浏览器会话。不是并发安全的,并发任务需各自创建 Facade
type Facade struct {
	driver  browser.Driver
	opts    Options
	policy  retry.Policy
	waiter  *download.Waiter
	sleep   retry.Sleeper
	logger  *zap.Logger
	metrics *metrics.Collector

	closeOnce sync.Once
	closeErr  error
}

// New 创建下载目录和截图目录并启动浏览器。启动失败直接返回错误
func New(ctx context.Context, opts Options, options ...Option) (*Facade, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	f := &Facade{
		opts:   opts,
		logger: zap.NewNop(),
	}
	for _, o := range options {
		o(f)
	}
	f.logger = f.logger.With(zap.String("component", "automation"))

	if err := EnsureDirs(opts.DownloadDir); err != nil {
		return nil, err
	}

	if f.driver == nil {
		bcfg := opts.Browser
		bcfg.ExecPath = opts.DriverPath
		bcfg.DownloadDir = opts.DownloadDir
		drv, err := browser.New(ctx, &bcfg, f.logger)
		if err != nil {
			return nil, err
		}
		f.driver = drv
	}

	f.policy = retry.Policy{
		Attempts: opts.Attempts,
		Cooldown: opts.Cooldown,
		Sleep:    f.sleep,
	}
	f.waiter = &download.Waiter{
		Dir:      opts.DownloadDir,
		Grace:    opts.Grace,
		Poll:     opts.Cooldown,
		Timeout:  opts.DownloadTimeout,
		Suffixes: opts.InProgressSuffixes,
		Sleep:    f.sleep,
		Logger:   f.logger,
	}

	f.logger.Info("automation session ready",
		zap.Int("attempts", opts.Attempts),
		zap.Duration("cooldown", opts.Cooldown),
		zap.String("download_dir", opts.DownloadDir))
	return f, nil
}

// EnsureDirs 创建 dir 及其 screenshots 子目录,已存在时不报错
func EnsureDirs(dir string) error {
	if err := os.MkdirAll(filepath.Join(dir, ScreenshotDir), 0o755); err != nil {
		return fmt.Errorf("创建下载目录失败: %w", err)
	}
	return nil
}

func (f *Facade) Options() Options {
	return f.opts
}

// Close 释放浏览器会话,重复调用返回第一次的结果
func (f *Facade) Close() error {
	f.closeOnce.Do(func() {
		f.closeErr = f.driver.Close()
		f.logger.Info("automation session closed")
	})
	return f.closeErr
}

func (f *Facade) Navigate(ctx context.Context, url string) error {
	return f.driver.Navigate(ctx, url)
}

// retried 按会话的重试策略执行 fn,并记录指标
func retried[T any](ctx context.Context, f *Facade, action string, fn func(ctx context.Context) (T, bool, error)) (T, bool, error) {
	p := f.policy
	p.OnAttempt = func(attempt int, ok bool, err error) {
		f.metrics.Attempt(action)
		if err != nil {
			f.metrics.Error(action)
		}
		if !ok && err == nil {
			f.logger.Debug("attempt not satisfied", zap.String("action", action), zap.Int("attempt", attempt))
		}
	}
	v, ok, err := retry.Do(ctx, p, fn)
	if err != nil {
		f.logger.Debug("action failed", zap.String("action", action), zap.Error(err))
		return v, false, err
	}
	if !ok {
		f.metrics.Exhausted(action)
		f.logger.Warn("action exhausted", zap.String("action", action), zap.Int("attempts", p.Attempts))
		if f.opts.FailOnExhaustion {
			return v, false, fmt.Errorf("%w: %s (%d 次)", ErrExhausted, action, p.Attempts)
		}
	}
	return v, ok, nil
}

// resolve 定位条件取第一个匹配元素,没有匹配时 ok == false
func (f *Facade) resolve(ctx context.Context, t Target) (browser.Element, bool, error) {
	if el, ok := t.Element(); ok {
		return el, true, nil
	}
	loc, _ := t.Locator()
	if err := loc.Validate(); err != nil {
		return nil, false, err
	}
	elements, err := f.driver.FindElements(ctx, loc)
	if err != nil {
		return nil, false, err
	}
	if len(elements) == 0 {
		return nil, false, nil
	}
	return elements[0], true, nil
}

func (f *Facade) FindElement(ctx context.Context, loc param.Locator) (browser.Element, bool, error) {
	return retried(ctx, f, "find_element", func(ctx context.Context) (browser.Element, bool, error) {
		return f.resolve(ctx, Locate(loc))
	})
}

// GetData 返回元素本身,由调用方读取内容
func (f *Facade) GetData(ctx context.Context, loc param.Locator) (browser.Element, bool, error) {
	return f.FindElement(ctx, loc)
}

// FindElements 只查询一次,不重试
func (f *Facade) FindElements(ctx context.Context, loc param.Locator) (Match, error) {
	if err := loc.Validate(); err != nil {
		return Match{}, err
	}
	elements, err := f.driver.FindElements(ctx, loc)
	if err != nil {
		return Match{}, err
	}
	return Match{elements: elements}, nil
}

func (f *Facade) Click(ctx context.Context, t Target) (bool, error) {
	_, ok, err := retried(ctx, f, "click", func(ctx context.Context) (struct{}, bool, error) {
		el, ok, err := f.resolve(ctx, t)
		if err != nil || !ok {
			return struct{}{}, false, err
		}
		if err := el.Click(ctx); err != nil {
			return struct{}{}, false, err
		}
		return struct{}{}, true, nil
	})
	return ok, err
}

func (f *Facade) Type(ctx context.Context, text string, t Target) (bool, error) {
	_, ok, err := retried(ctx, f, "type", func(ctx context.Context) (struct{}, bool, error) {
		el, ok, err := f.resolve(ctx, t)
		if err != nil || !ok {
			return struct{}{}, false, err
		}
		if err := el.SendKeys(ctx, text); err != nil {
			return struct{}{}, false, err
		}
		return struct{}{}, true, nil
	})
	return ok, err
}

// Text 读取元素文本,空文本视为未满足并重试
func (f *Facade) Text(ctx context.Context, t Target) (string, bool, error) {
	return retried(ctx, f, "text", func(ctx context.Context) (string, bool, error) {
		el, ok, err := f.resolve(ctx, t)
		if err != nil || !ok {
			return "", false, err
		}
		text, err := el.Text(ctx)
		if err != nil {
			return "", false, err
		}
		return text, text != "", nil
	})
}

// MoveToElement 先把鼠标移到元素上再点击,用于关闭遮挡目标的浮层
func (f *Facade) MoveToElement(ctx context.Context, t Target) (bool, error) {
	_, ok, err := retried(ctx, f, "move_to_element", func(ctx context.Context) (struct{}, bool, error) {
		el, ok, err := f.resolve(ctx, t)
		if err != nil || !ok {
			return struct{}{}, false, err
		}
		if err := el.Hover(ctx); err != nil {
			return struct{}{}, false, err
		}
		if err := el.Click(ctx); err != nil {
			return struct{}{}, false, err
		}
		return struct{}{}, true, nil
	})
	return ok, err
}

// DownloadFileFromLink 点击与等待下载完成作为一次尝试
func (f *Facade) DownloadFileFromLink(ctx context.Context, t Target) (bool, error) {
	_, ok, err := retried(ctx, f, "download_file_from_link", func(ctx context.Context) (struct{}, bool, error) {
		el, ok, err := f.resolve(ctx, t)
		if err != nil || !ok {
			return struct{}{}, false, err
		}
		if err := el.Click(ctx); err != nil {
			return struct{}{}, false, err
		}
		if err := f.waitDownload(ctx); err != nil {
			return struct{}{}, false, err
		}
		return struct{}{}, true, nil
	})
	return ok, err
}

func (f *Facade) DownloadFileFromURL(ctx context.Context, url string) error {
	if err := f.driver.StartDownload(ctx, url); err != nil {
		return err
	}
	return f.waitDownload(ctx)
}

func (f *Facade) waitDownload(ctx context.Context) error {
	start := time.Now()
	err := f.waiter.Wait(ctx)
	f.metrics.ObserveDownloadWait(time.Since(start))
	return err
}

// TakeScreenshot 整页截图,保存到 <DownloadDir>/screenshots/<filename>
func (f *Facade) TakeScreenshot(ctx context.Context, filename string) error {
	if filename == "" || filename == "." || filename == ".." || filepath.Base(filename) != filename {
		return fmt.Errorf("截图文件名无效: %q", filename)
	}
	buf, err := f.driver.Screenshot(ctx)
	if err != nil {
		return err
	}
	path := filepath.Join(f.opts.DownloadDir, ScreenshotDir, filename)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("保存截图失败: %w", err)
	}
	f.logger.Debug("screenshot saved", zap.String("path", path), zap.Int("bytes", len(buf)))
	return nil
}
