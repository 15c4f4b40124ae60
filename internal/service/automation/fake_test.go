package automation

import (
	"context"

	"github.com/LouYuanbo1/rdriver/internal/infra/browser"
	"github.com/LouYuanbo1/rdriver/param"
)

type fakeElement struct {
	name     string
	text     string
	events   *[]string
	clicks   int
	hovers   int
	keys     []string
	clickErr error
	onClick  func()
	texts    []string
}

func (e *fakeElement) record(ev string) {
	if e.events != nil {
		*e.events = append(*e.events, ev+":"+e.name)
	}
}

func (e *fakeElement) Click(context.Context) error {
	e.record("click")
	if e.clickErr != nil {
		return e.clickErr
	}
	e.clicks++
	if e.onClick != nil {
		e.onClick()
	}
	return nil
}

func (e *fakeElement) SendKeys(_ context.Context, text string) error {
	e.record("keys")
	e.keys = append(e.keys, text)
	return nil
}

// texts 依次返回,用完后返回 text
func (e *fakeElement) Text(context.Context) (string, error) {
	if len(e.texts) > 0 {
		t := e.texts[0]
		e.texts = e.texts[1:]
		return t, nil
	}
	return e.text, nil
}

func (e *fakeElement) Hover(context.Context) error {
	e.record("hover")
	e.hovers++
	return nil
}

type fakeDriver struct {
	// find 为空时返回 elements
	find       func(call int, loc param.Locator) ([]browser.Element, error)
	elements   []browser.Element
	findCalls  int
	locators   []param.Locator
	navigated  []string
	downloads  []string
	onDownload func(url string)
	screenshot []byte
	closed     int
}

func (d *fakeDriver) Navigate(_ context.Context, url string) error {
	d.navigated = append(d.navigated, url)
	return nil
}

func (d *fakeDriver) StartDownload(_ context.Context, url string) error {
	d.downloads = append(d.downloads, url)
	if d.onDownload != nil {
		d.onDownload(url)
	}
	return nil
}

func (d *fakeDriver) FindElements(_ context.Context, loc param.Locator) ([]browser.Element, error) {
	d.findCalls++
	d.locators = append(d.locators, loc)
	if d.find != nil {
		return d.find(d.findCalls, loc)
	}
	return d.elements, nil
}

func (d *fakeDriver) Screenshot(context.Context) ([]byte, error) {
	return d.screenshot, nil
}

func (d *fakeDriver) Close() error {
	d.closed++
	return nil
}
