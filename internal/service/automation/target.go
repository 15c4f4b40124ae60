package automation

import (
	"github.com/LouYuanbo1/rdriver/internal/infra/browser"
	"github.com/LouYuanbo1/rdriver/param"
)

// Target 操作对象: 定位条件或已解析的元素,二者只能有一个
type Target struct {
	locator param.Locator
	element browser.Element
}

func By(strategy param.Strategy, value string) Target {
	return Target{locator: param.Locator{Strategy: strategy, Value: value}}
}

// XPath 默认的定位方式
func XPath(expr string) Target {
	return By(param.StrategyXPath, expr)
}

func Locate(loc param.Locator) Target {
	return Target{locator: loc}
}

func Ref(el browser.Element) Target {
	return Target{element: el}
}

func (t Target) Element() (browser.Element, bool) {
	return t.element, t.element != nil
}

func (t Target) Locator() (param.Locator, bool) {
	return t.locator, t.element == nil
}

func (t Target) String() string {
	if t.element != nil {
		return "element"
	}
	return t.locator.String()
}
