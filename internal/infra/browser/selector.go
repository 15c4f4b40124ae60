package browser

import (
	"fmt"
	"strings"

	"github.com/LouYuanbo1/rdriver/param"
)

type SelectorKind int

const (
	SelectorCSS SelectorKind = iota
	SelectorXPath
)

// Selector 由 Locator 编译得到的查询表达式
type Selector struct {
	Kind SelectorKind
	Expr string
}

// CompileLocator 把各种定位方式统一转换为 CSS 或 XPath
func CompileLocator(loc param.Locator) (Selector, error) {
	if err := loc.Validate(); err != nil {
		return Selector{}, err
	}
	switch loc.Strategy {
	case param.StrategyXPath:
		return Selector{SelectorXPath, loc.Value}, nil
	case param.StrategyID:
		return Selector{SelectorCSS, fmt.Sprintf("[id=%s]", cssString(loc.Value))}, nil
	case param.StrategyClass:
		if strings.ContainsAny(loc.Value, " \t\n") {
			return Selector{}, fmt.Errorf("class 定位不支持复合类名: %q", loc.Value)
		}
		return Selector{SelectorXPath, fmt.Sprintf(
			"//*[contains(concat(' ', normalize-space(@class), ' '), %s)]",
			xpathString(" "+loc.Value+" "))}, nil
	case param.StrategyCSS:
		return Selector{SelectorCSS, loc.Value}, nil
	case param.StrategyLinkText:
		return Selector{SelectorXPath, fmt.Sprintf("//a[normalize-space(.)=%s]", xpathString(strings.TrimSpace(loc.Value)))}, nil
	case param.StrategyPartialLinkText:
		return Selector{SelectorXPath, fmt.Sprintf("//a[contains(., %s)]", xpathString(loc.Value))}, nil
	case param.StrategyName:
		return Selector{SelectorCSS, fmt.Sprintf("[name=%s]", cssString(loc.Value))}, nil
	case param.StrategyTag:
		return Selector{SelectorCSS, loc.Value}, nil
	default:
		return Selector{}, fmt.Errorf("%w: %q", param.ErrUnknownStrategy, string(loc.Strategy))
	}
}

// CSS 字符串字面量
func cssString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\a `)
	return `"` + r.Replace(s) + `"`
}

// XPath 1.0 没有转义,同时包含两种引号时用 concat 拼接
func xpathString(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, `'`) {
		return `'` + s + `'`
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `'"'`)
		}
		if p != "" {
			quoted = append(quoted, `"`+p+`"`)
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
