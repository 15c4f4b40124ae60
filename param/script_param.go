package param

type ActionType string

const (
	ActionNavigate     ActionType = "navigate"
	ActionClick        ActionType = "click"
	ActionInput        ActionType = "type"
	ActionMove         ActionType = "move"
	ActionText         ActionType = "text"
	ActionFind         ActionType = "find"
	ActionDownloadLink ActionType = "download_link"
	ActionDownloadURL  ActionType = "download_url"
	ActionScreenshot   ActionType = "screenshot"
)

// Step 脚本中的一步操作
type Step struct {
	Action   ActionType `json:"action" yaml:"action"`
	Url      string     `json:"url,omitempty" yaml:"url,omitempty"`
	Locator  *Locator   `json:"locator,omitempty" yaml:"locator,omitempty"`
	Text     string     `json:"text,omitempty" yaml:"text,omitempty"`
	Filename string     `json:"filename,omitempty" yaml:"filename,omitempty"`
	// Expect 仅用于 text 操作,非空时比较读取到的文本
	Expect string `json:"expect,omitempty" yaml:"expect,omitempty"`
}

type Script struct {
	Name  string  `json:"name" yaml:"name"`
	Steps []*Step `json:"steps" yaml:"steps"`
}

func (s *Step) IsValid() bool {
	if s == nil || s.Action == "" {
		return false
	}
	switch s.Action {
	case ActionNavigate, ActionDownloadURL:
		return s.Url != ""
	case ActionClick, ActionMove, ActionFind, ActionDownloadLink, ActionText:
		return s.Locator != nil && s.Locator.Validate() == nil
	case ActionInput:
		return s.Locator != nil && s.Locator.Validate() == nil && s.Text != ""
	case ActionScreenshot:
		return s.Filename != ""
	default:
		return false
	}
}
