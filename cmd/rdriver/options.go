package main

import (
	"time"

	"github.com/LouYuanbo1/rdriver/internal/config"
	"github.com/LouYuanbo1/rdriver/internal/infra/browser"
	"github.com/LouYuanbo1/rdriver/internal/service/automation"
)

// facadeOptions 把配置文件转换为 Facade 的构造参数
func facadeOptions(cfg *config.Config) automation.Options {
	opts := automation.Options{
		DriverPath:       cfg.Driver.Bin,
		Attempts:         cfg.Driver.Attempts,
		Cooldown:         time.Duration(cfg.Driver.CooldownMillis) * time.Millisecond,
		DownloadDir:      cfg.Driver.DownloadDir,
		Grace:            time.Duration(cfg.Driver.GraceSeconds * float64(time.Second)),
		DownloadTimeout:  time.Duration(cfg.Driver.DownloadTimeout) * time.Second,
		FailOnExhaustion: cfg.Driver.FailOnExhaustion,
	}

	switch cfg.Driver.Backend {
	case browser.BackendRod:
		opts.Browser = browser.Config{
			Backend:              browser.BackendRod,
			UserDataDir:          cfg.Rod.UserDataDir,
			Headless:             cfg.Rod.Headless,
			DisableBlinkFeatures: cfg.Rod.DisableBlinkFeatures,
			Incognito:            cfg.Rod.Incognito,
			DisableDevShmUsage:   cfg.Rod.DisableDevShmUsage,
			NoSandbox:            cfg.Rod.NoSandbox,
			UserAgent:            cfg.Rod.UserAgent,
			Leakless:             cfg.Rod.Leakless,
			Stealth:              cfg.Rod.Stealth,
			Trace:                cfg.Rod.Trace,
		}
	default:
		opts.Browser = browser.Config{
			Backend:              cfg.Driver.Backend,
			UserDataDir:          cfg.Chromedp.UserDataDir,
			Headless:             cfg.Chromedp.Headless,
			DisableBlinkFeatures: cfg.Chromedp.DisableBlinkFeatures,
			Incognito:            cfg.Chromedp.Incognito,
			DisableDevShmUsage:   cfg.Chromedp.DisableDevShmUsage,
			NoSandbox:            cfg.Chromedp.NoSandbox,
			UserAgent:            cfg.Chromedp.UserAgent,
			LifeTime:             cfg.Chromedp.LifeTime,
		}
	}
	return opts
}
