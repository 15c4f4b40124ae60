package download

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/LouYuanbo1/rdriver/internal/retry"
	"go.uber.org/zap"
)

// ChromeInProgressSuffix Chrome 下载未完成时的文件后缀
const ChromeInProgressSuffix = ".crdownload"

var ErrTimeout = errors.New("等待下载完成超时")

// Waiter 轮询下载目录,直到没有未完成的下载文件
type Waiter struct {
	Dir string
	// Grace 开始轮询前等待下载启动的时间
	Grace time.Duration
	// Poll 两次轮询之间的间隔
	Poll time.Duration
	// Timeout 为 0 时不限制等待时间
	Timeout  time.Duration
	Suffixes []string
	Sleep    retry.Sleeper
	Logger   *zap.Logger
}

// Wait 返回 nil 表示目录中已没有未完成的下载
func (w *Waiter) Wait(ctx context.Context) error {
	sleep := w.Sleep
	if sleep == nil {
		sleep = retry.SleepContext
	}
	logger := w.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if w.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.Timeout)
		defer cancel()
	}

	if err := sleep(ctx, w.Grace); err != nil {
		return w.wrap(err)
	}
	for polls := 1; ; polls++ {
		pending, err := w.Pending()
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			logger.Debug("download finished", zap.String("dir", w.Dir), zap.Int("polls", polls))
			return nil
		}
		logger.Debug("download in progress", zap.Strings("files", pending))
		if err := sleep(ctx, w.Poll); err != nil {
			return w.wrap(err)
		}
	}
}

func (w *Waiter) wrap(err error) error {
	if errors.Is(err, context.DeadlineExceeded) && w.Timeout > 0 {
		return fmt.Errorf("%w (%s): %s", ErrTimeout, w.Timeout, w.Dir)
	}
	return err
}

// Pending 递归列出目录中未完成的下载文件
func (w *Waiter) Pending() ([]string, error) {
	suffixes := w.Suffixes
	if len(suffixes) == 0 {
		suffixes = []string{ChromeInProgressSuffix}
	}
	var pending []string
	err := filepath.WalkDir(w.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// 下载完成时临时文件会被重命名,遍历过程中消失是正常的
			if errors.Is(err, fs.ErrNotExist) && path != w.Dir {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		for _, suffix := range suffixes {
			if strings.HasSuffix(d.Name(), suffix) {
				pending = append(pending, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("扫描下载目录失败: %w", err)
	}
	return pending, nil
}
