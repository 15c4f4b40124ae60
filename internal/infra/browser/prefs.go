package browser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// downloadPreferences Chrome 配置文件中与下载相关的设置
func downloadPreferences(downloadDir string) map[string]map[string]any {
	return map[string]map[string]any{
		"download": {
			"default_directory":   downloadDir,
			"prompt_for_download": false,
			"directory_upgrade":   true,
		},
		"savefile": {
			"default_directory": downloadDir,
		},
		// PDF 直接下载,不在内置查看器中打开
		"plugins": {
			"always_open_pdf_externally": true,
		},
	}
}

// WriteDownloadPreferences 在浏览器启动前写入 <userDataDir>/Default/Preferences,
// 已有的其它设置会保留
func WriteDownloadPreferences(userDataDir, downloadDir string) error {
	profileDir := filepath.Join(userDataDir, "Default")
	if err := os.MkdirAll(profileDir, 0o755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}
	prefsPath := filepath.Join(profileDir, "Preferences")

	prefs := map[string]any{}
	data, err := os.ReadFile(prefsPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &prefs); err != nil {
			return fmt.Errorf("解析 Preferences 失败: %w", err)
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("读取 Preferences 失败: %w", err)
	}

	for section, values := range downloadPreferences(downloadDir) {
		sub, ok := prefs[section].(map[string]any)
		if !ok {
			sub = map[string]any{}
		}
		for k, v := range values {
			sub[k] = v
		}
		prefs[section] = sub
	}

	out, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return os.WriteFile(prefsPath, out, 0o644)
}
