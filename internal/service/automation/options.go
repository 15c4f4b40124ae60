package automation

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/LouYuanbo1/rdriver/internal/infra/browser"
	"github.com/LouYuanbo1/rdriver/internal/infra/metrics"
	"github.com/LouYuanbo1/rdriver/internal/retry"
	"go.uber.org/zap"
)

const (
	DefaultAttempts = 100
	DefaultCooldown = 100 * time.Millisecond
	DefaultGrace    = time.Second
)

// Options 在构造时确定,整个会话期间不变。零值字段使用默认值
type Options struct {
	// DriverPath 浏览器可执行文件路径,为空时由后端自行查找
	DriverPath string
	// Attempts 重试动作的最大尝试次数
	Attempts int
	// Cooldown 两次尝试之间的等待时间
	Cooldown time.Duration
	// DownloadDir 下载与截图目录,默认为当前工作目录
	DownloadDir string
	// Grace 触发下载后开始轮询前的等待时间
	Grace time.Duration
	// DownloadTimeout 为 0 时下载等待不限时
	DownloadTimeout time.Duration
	// FailOnExhaustion 为 true 时次数用完返回 ErrExhausted,否则只返回 ok == false
	FailOnExhaustion bool
	// InProgressSuffixes 未完成下载的文件后缀,默认 .crdownload
	InProgressSuffixes []string
	// Browser 启动参数,其中 ExecPath 与 DownloadDir 由上面的字段覆盖
	Browser browser.Config
}

func (o Options) withDefaults() (Options, error) {
	if o.Attempts < 0 {
		return o, fmt.Errorf("attempts 不能为负数: %d", o.Attempts)
	}
	if o.Cooldown < 0 || o.Grace < 0 || o.DownloadTimeout < 0 {
		return o, fmt.Errorf("等待时间不能为负数")
	}
	if o.Attempts == 0 {
		o.Attempts = DefaultAttempts
	}
	if o.Cooldown == 0 {
		o.Cooldown = DefaultCooldown
	}
	if o.Grace == 0 {
		o.Grace = DefaultGrace
	}
	if o.DownloadDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return o, fmt.Errorf("获取工作目录失败: %w", err)
		}
		o.DownloadDir = wd
	}
	absDir, err := filepath.Abs(o.DownloadDir)
	if err != nil {
		return o, err
	}
	o.DownloadDir = absDir
	return o, nil
}

type Option func(f *Facade)

func WithLogger(logger *zap.Logger) Option {
	return func(f *Facade) {
		if logger != nil {
			f.logger = logger
		}
	}
}

func WithMetrics(c *metrics.Collector) Option {
	return func(f *Facade) {
		f.metrics = c
	}
}

// WithDriver 使用已有的驱动,不再启动浏览器。Facade 关闭时会关闭该驱动
func WithDriver(d browser.Driver) Option {
	return func(f *Facade) {
		f.driver = d
	}
}

func WithSleeper(s retry.Sleeper) Option {
	return func(f *Facade) {
		f.sleep = s
	}
}
