package automation

import "github.com/LouYuanbo1/rdriver/internal/infra/browser"

// Match FindElements 的结果: 恰好一个元素,或者按文档顺序的全部元素(0 个或多个)
type Match struct {
	elements []browser.Element
}

func (m Match) One() (browser.Element, bool) {
	if len(m.elements) != 1 {
		return nil, false
	}
	return m.elements[0], true
}

func (m Match) Many() ([]browser.Element, bool) {
	if len(m.elements) == 1 {
		return nil, false
	}
	return m.elements, true
}

func (m Match) All() []browser.Element {
	return m.elements
}

func (m Match) Len() int {
	return len(m.elements)
}
