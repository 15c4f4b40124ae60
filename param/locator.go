package param

import (
	"errors"
	"fmt"
	"strings"
)

// Strategy 元素定位方式
type Strategy string

const (
	StrategyXPath           Strategy = "xpath"
	StrategyID              Strategy = "id"
	StrategyClass           Strategy = "class"
	StrategyCSS             Strategy = "css"
	StrategyLinkText        Strategy = "text"
	StrategyPartialLinkText Strategy = "partial_text"
	StrategyName            Strategy = "name"
	StrategyTag             Strategy = "tag"
)

var ErrUnknownStrategy = errors.New("未知的定位方式")

// 历史版本中使用过的别名
var strategyAliases = map[string]Strategy{
	"class_name":        StrategyClass,
	"css_selector":      StrategyCSS,
	"link_text":         StrategyLinkText,
	"partial_link_text": StrategyPartialLinkText,
	"tag_name":          StrategyTag,
}

func (s Strategy) IsValid() bool {
	switch s {
	case StrategyXPath, StrategyID, StrategyClass, StrategyCSS,
		StrategyLinkText, StrategyPartialLinkText, StrategyName, StrategyTag:
		return true
	default:
		return false
	}
}

// ParseStrategy 解析定位方式,大小写不敏感,支持旧别名
func ParseStrategy(s string) (Strategy, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if st := Strategy(key); st.IsValid() {
		return st, nil
	}
	if st, ok := strategyAliases[key]; ok {
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Locator 定位条件,只是一次查询,不保存任何页面状态
type Locator struct {
	Strategy Strategy `json:"strategy" yaml:"strategy"`
	Value    string   `json:"value" yaml:"value"`
}

func (l Locator) Validate() error {
	if !l.Strategy.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, string(l.Strategy))
	}
	if l.Value == "" {
		return fmt.Errorf("定位值不能为空 (strategy: %s)", l.Strategy)
	}
	return nil
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.Strategy, l.Value)
}

// UnmarshalText 让 JSON/YAML 中的定位方式同样支持别名,未知值直接报错
func (s *Strategy) UnmarshalText(text []byte) error {
	st, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}
