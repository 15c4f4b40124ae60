package script

import (
	"context"
	"errors"
	"fmt"

	"github.com/LouYuanbo1/rdriver/internal/infra/browser"
	"github.com/LouYuanbo1/rdriver/internal/service/automation"
	"github.com/LouYuanbo1/rdriver/param"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidStep = errors.New("无效的步骤")
	ErrStepFailed  = errors.New("步骤未完成")
)

// Session 脚本执行需要的浏览器操作,由 *automation.Facade 实现
type Session interface {
	Navigate(ctx context.Context, url string) error
	Click(ctx context.Context, t automation.Target) (bool, error)
	Type(ctx context.Context, text string, t automation.Target) (bool, error)
	MoveToElement(ctx context.Context, t automation.Target) (bool, error)
	Text(ctx context.Context, t automation.Target) (string, bool, error)
	FindElement(ctx context.Context, loc param.Locator) (browser.Element, bool, error)
	DownloadFileFromLink(ctx context.Context, t automation.Target) (bool, error)
	DownloadFileFromURL(ctx context.Context, url string) error
	TakeScreenshot(ctx context.Context, filename string) error
	Close() error
}

type SessionFactory func(ctx context.Context) (Session, error)

type Runner struct {
	newSession  SessionFactory
	parallelism int
	logger      *zap.Logger
}

func NewRunner(newSession SessionFactory, parallelism int, logger *zap.Logger) *Runner {
	if parallelism <= 0 {
		parallelism = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		newSession:  newSession,
		parallelism: parallelism,
		logger:      logger.With(zap.String("component", "script_runner")),
	}
}

// Run 打开一个会话按顺序执行步骤,遇到第一个失败的步骤即停止
func (r *Runner) Run(ctx context.Context, s *param.Script) error {
	for i, step := range s.Steps {
		if !step.IsValid() {
			return fmt.Errorf("%w: 脚本 %s 第 %d 步", ErrInvalidStep, s.Name, i+1)
		}
	}

	sess, err := r.newSession(ctx)
	if err != nil {
		return fmt.Errorf("创建会话失败 (%s): %w", s.Name, err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			r.logger.Warn("close session failed", zap.String("script", s.Name), zap.Error(err))
		}
	}()

	log := r.logger.With(zap.String("script", s.Name))
	log.Info("script started", zap.Int("steps", len(s.Steps)))
	for i, step := range s.Steps {
		log.Debug("run step", zap.Int("step", i+1), zap.String("action", string(step.Action)))
		if err := runStep(ctx, sess, step); err != nil {
			return fmt.Errorf("脚本 %s 第 %d 步 (%s) 失败: %w", s.Name, i+1, step.Action, err)
		}
	}
	log.Info("script finished")
	return nil
}

// RunAll 并发执行多个脚本,每个脚本使用独立的会话,返回所有失败脚本的错误
func (r *Runner) RunAll(ctx context.Context, scripts []*param.Script) error {
	errs := make([]error, len(scripts))
	var g errgroup.Group
	g.SetLimit(r.parallelism)
	for i, s := range scripts {
		g.Go(func() error {
			errs[i] = r.Run(ctx, s)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func runStep(ctx context.Context, sess Session, step *param.Step) error {
	switch step.Action {
	case param.ActionNavigate:
		return sess.Navigate(ctx, step.Url)
	case param.ActionClick:
		return satisfied(sess.Click(ctx, automation.Locate(*step.Locator)))
	case param.ActionInput:
		return satisfied(sess.Type(ctx, step.Text, automation.Locate(*step.Locator)))
	case param.ActionMove:
		return satisfied(sess.MoveToElement(ctx, automation.Locate(*step.Locator)))
	case param.ActionDownloadLink:
		return satisfied(sess.DownloadFileFromLink(ctx, automation.Locate(*step.Locator)))
	case param.ActionFind:
		_, ok, err := sess.FindElement(ctx, *step.Locator)
		return satisfied(ok, err)
	case param.ActionText:
		text, ok, err := sess.Text(ctx, automation.Locate(*step.Locator))
		if err := satisfied(ok, err); err != nil {
			return err
		}
		if step.Expect != "" && text != step.Expect {
			return fmt.Errorf("%w: 期望文本 %q, 实际 %q", ErrStepFailed, step.Expect, text)
		}
		return nil
	case param.ActionDownloadURL:
		return sess.DownloadFileFromURL(ctx, step.Url)
	case param.ActionScreenshot:
		return sess.TakeScreenshot(ctx, step.Filename)
	default:
		return fmt.Errorf("%w: 未知操作类型 %q", ErrInvalidStep, step.Action)
	}
}

func satisfied(ok bool, err error) error {
	if err != nil {
		return err
	}
	if !ok {
		return ErrStepFailed
	}
	return nil
}
