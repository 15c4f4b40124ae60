package main

import (
	"testing"
	"time"

	"github.com/LouYuanbo1/rdriver/internal/config"
	"github.com/LouYuanbo1/rdriver/internal/infra/browser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedConfigParses(t *testing.T) {
	cfg, err := config.ParseConfig(appConfig)
	require.NoError(t, err)
	assert.Equal(t, browser.BackendChromedp, cfg.Driver.Backend)
	assert.Equal(t, 100, cfg.Driver.Attempts)
}

func TestFacadeOptions(t *testing.T) {
	cfg := &config.Config{}
	cfg.Driver.Backend = browser.BackendRod
	cfg.Driver.Bin = "/usr/bin/chromium"
	cfg.Driver.CooldownMillis = 250
	cfg.Driver.GraceSeconds = 1.5
	cfg.Driver.DownloadTimeout = 30
	cfg.Rod.Stealth = true
	cfg.Rod.Headless = true

	opts := facadeOptions(cfg)
	assert.Equal(t, "/usr/bin/chromium", opts.DriverPath)
	assert.Equal(t, 250*time.Millisecond, opts.Cooldown)
	assert.Equal(t, 1500*time.Millisecond, opts.Grace)
	assert.Equal(t, 30*time.Second, opts.DownloadTimeout)
	assert.Equal(t, browser.BackendRod, opts.Browser.Backend)
	assert.True(t, opts.Browser.Stealth)
	assert.True(t, opts.Browser.Headless)
}

func TestFacadeOptionsChromedp(t *testing.T) {
	cfg := &config.Config{}
	cfg.Chromedp.LifeTime = 600
	cfg.Chromedp.UserAgent = "rdriver"

	opts := facadeOptions(cfg)
	assert.Equal(t, "", opts.Browser.Backend)
	assert.Equal(t, 600, opts.Browser.LifeTime)
	assert.Equal(t, "rdriver", opts.Browser.UserAgent)
}
