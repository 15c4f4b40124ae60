package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

func ParseConfig(byteConfig []byte) (*Config, error) {
	var cfg Config
	err := json.Unmarshal(byteConfig, &cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.absPaths(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func ParseYAMLConfig(byteConfig []byte) (*Config, error) {
	var cfg Config
	err := yaml.Unmarshal(byteConfig, &cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.absPaths(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig 按扩展名选择 JSON 或 YAML 解析
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAMLConfig(data)
	default:
		return ParseConfig(data)
	}
}

// 空路径保持为空,由使用方决定默认值
func (cfg *Config) absPaths() error {
	for _, p := range []*string{&cfg.Chromedp.UserDataDir, &cfg.Rod.UserDataDir, &cfg.Driver.DownloadDir} {
		if *p == "" {
			continue
		}
		absPath, err := filepath.Abs(*p)
		if err != nil {
			return err
		}
		*p = absPath
	}
	return nil
}
