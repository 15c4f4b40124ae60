package browser

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// prepareProfile 返回浏览器使用的 user-data-dir。未配置时创建临时目录,
// 由驱动在 Close 时删除。配置了下载目录时写入下载偏好
func prepareProfile(cfg *Config, pattern string) (dir string, temp string, err error) {
	dir = cfg.UserDataDir
	if dir == "" {
		dir, err = os.MkdirTemp("", pattern)
		if err != nil {
			return "", "", fmt.Errorf("创建临时用户目录失败: %w", err)
		}
		temp = dir
	}
	if cfg.DownloadDir != "" {
		if err := WriteDownloadPreferences(dir, cfg.DownloadDir); err != nil {
			if temp != "" {
				_ = os.RemoveAll(temp)
			}
			return "", "", err
		}
	}
	return dir, temp, nil
}

func secondsDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}

// locationScript 生成跳转脚本,URL 按 JSON 字符串转义
func locationScript(url string) string {
	quoted, _ := json.Marshal(url)
	return "window.location.href = " + string(quoted) + ";"
}
