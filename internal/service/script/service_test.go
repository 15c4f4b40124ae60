package script

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/LouYuanbo1/rdriver/internal/infra/browser"
	"github.com/LouYuanbo1/rdriver/internal/service/automation"
	"github.com/LouYuanbo1/rdriver/param"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu      sync.Mutex
	calls   []string
	clickOK bool
	text    string
	failOn  string
	closed  int
}

func (s *fakeSession) record(call string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
	if call == s.failOn {
		return errors.New("boom: " + call)
	}
	return nil
}

func (s *fakeSession) Navigate(_ context.Context, url string) error {
	return s.record("navigate " + url)
}

func (s *fakeSession) Click(_ context.Context, t automation.Target) (bool, error) {
	return s.clickOK, s.record("click " + t.String())
}

func (s *fakeSession) Type(_ context.Context, text string, t automation.Target) (bool, error) {
	return true, s.record("type " + text + " " + t.String())
}

func (s *fakeSession) MoveToElement(_ context.Context, t automation.Target) (bool, error) {
	return true, s.record("move " + t.String())
}

func (s *fakeSession) Text(_ context.Context, t automation.Target) (string, bool, error) {
	return s.text, s.text != "", s.record("text " + t.String())
}

func (s *fakeSession) FindElement(_ context.Context, loc param.Locator) (browser.Element, bool, error) {
	return nil, true, s.record("find " + loc.String())
}

func (s *fakeSession) DownloadFileFromLink(_ context.Context, t automation.Target) (bool, error) {
	return true, s.record("download_link " + t.String())
}

func (s *fakeSession) DownloadFileFromURL(_ context.Context, url string) error {
	return s.record("download_url " + url)
}

func (s *fakeSession) TakeScreenshot(_ context.Context, filename string) error {
	return s.record("screenshot " + filename)
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

func wikiScript() *param.Script {
	search := &param.Locator{Strategy: param.StrategyID, Value: "searchInput"}
	return &param.Script{
		Name: "wiki",
		Steps: []*param.Step{
			{Action: param.ActionNavigate, Url: "https://en.wikipedia.org/wiki/Manx_cat"},
			{Action: param.ActionInput, Locator: search, Text: "manx flag"},
			{Action: param.ActionClick, Locator: &param.Locator{Strategy: param.StrategyID, Value: "searchButton"}},
			{Action: param.ActionText, Locator: &param.Locator{Strategy: param.StrategyID, Value: "firstHeading"}, Expect: "Flag of the Isle of Man"},
			{Action: param.ActionScreenshot, Filename: "flag.png"},
		},
	}
}

func factory(sess *fakeSession) SessionFactory {
	return func(context.Context) (Session, error) { return sess, nil }
}

func TestRunExecutesStepsInOrder(t *testing.T) {
	sess := &fakeSession{clickOK: true, text: "Flag of the Isle of Man"}
	r := NewRunner(factory(sess), 1, nil)

	require.NoError(t, r.Run(context.Background(), wikiScript()))
	assert.Equal(t, []string{
		"navigate https://en.wikipedia.org/wiki/Manx_cat",
		"type manx flag id=searchInput",
		"click id=searchButton",
		"text id=firstHeading",
		"screenshot flag.png",
	}, sess.calls)
	assert.Equal(t, 1, sess.closed)
}

func TestRunStopsOnUnsatisfiedStep(t *testing.T) {
	sess := &fakeSession{clickOK: false, text: "x"}
	r := NewRunner(factory(sess), 1, nil)

	err := r.Run(context.Background(), wikiScript())
	assert.ErrorIs(t, err, ErrStepFailed)
	assert.Len(t, sess.calls, 3)
	assert.Equal(t, 1, sess.closed)
}

func TestRunTextMismatch(t *testing.T) {
	sess := &fakeSession{clickOK: true, text: "Manx cat"}
	r := NewRunner(factory(sess), 1, nil)

	err := r.Run(context.Background(), wikiScript())
	assert.ErrorIs(t, err, ErrStepFailed)
}

func TestRunPropagatesErrors(t *testing.T) {
	sess := &fakeSession{clickOK: true, failOn: "navigate https://en.wikipedia.org/wiki/Manx_cat"}
	r := NewRunner(factory(sess), 1, nil)

	err := r.Run(context.Background(), wikiScript())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrStepFailed)
	assert.Len(t, sess.calls, 1)
}

func TestRunRejectsInvalidScriptBeforeOpeningSession(t *testing.T) {
	opened := false
	r := NewRunner(func(context.Context) (Session, error) {
		opened = true
		return &fakeSession{}, nil
	}, 1, nil)

	s := &param.Script{Name: "bad", Steps: []*param.Step{{Action: param.ActionClick}}}
	assert.ErrorIs(t, r.Run(context.Background(), s), ErrInvalidStep)
	assert.False(t, opened)
}

func TestRunAllUsesOneSessionPerScript(t *testing.T) {
	var opened atomic.Int32
	var sessions sync.Map
	r := NewRunner(func(context.Context) (Session, error) {
		n := opened.Add(1)
		sess := &fakeSession{clickOK: true, text: "Flag of the Isle of Man"}
		sessions.Store(n, sess)
		return sess, nil
	}, 2, nil)

	scripts := []*param.Script{wikiScript(), wikiScript(), wikiScript()}
	require.NoError(t, r.RunAll(context.Background(), scripts))
	assert.Equal(t, int32(3), opened.Load())
	sessions.Range(func(_, v any) bool {
		assert.Equal(t, 1, v.(*fakeSession).closed)
		return true
	})
}

func TestRunAllJoinsErrors(t *testing.T) {
	r := NewRunner(func(context.Context) (Session, error) {
		return nil, errors.New("launch failed")
	}, 3, nil)

	err := r.RunAll(context.Background(), []*param.Script{wikiScript(), wikiScript()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "launch failed")
}

func TestLoadScriptYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manx.yaml")
	body := `steps:
  - action: navigate
    url: https://en.wikipedia.org/wiki/Manx_cat
  - action: click
    locator: {strategy: link_text, value: Isle of Man}
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	s, err := LoadScript(path)
	require.NoError(t, err)
	assert.Equal(t, "manx", s.Name)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, param.StrategyLinkText, s.Steps[1].Locator.Strategy)
	assert.True(t, s.Steps[1].IsValid())
}

func TestLoadScriptUnknownStrategy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	body := `{"steps":[{"action":"click","locator":{"strategy":"shadow","value":"x"}}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := LoadScript(path)
	assert.ErrorIs(t, err, param.ErrUnknownStrategy)
}
