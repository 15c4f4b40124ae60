package script

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/LouYuanbo1/rdriver/param"
	"gopkg.in/yaml.v3"
)

// LoadScript 读取 JSON 或 YAML 脚本,未设置名称时使用文件名
func LoadScript(path string) (*param.Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取脚本失败: %w", err)
	}
	var s param.Script
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &s)
	default:
		err = yaml.Unmarshal(data, &s)
	}
	if err != nil {
		return nil, fmt.Errorf("解析脚本失败 (%s): %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &s, nil
}
