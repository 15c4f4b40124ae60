// Package retry 固定间隔的有限次重试。
//
// 动作返回 error 时立即返回,不再重试;只有"未满足"的结果才会等待后重试。
// 次数用完仍未满足时返回 ok == false 和 nil error,由调用方决定是否视为失败。
package retry

import (
	"context"
	"time"
)

// Sleeper 等待 d,ctx 取消时提前返回 ctx.Err()
type Sleeper func(ctx context.Context, d time.Duration) error

type Policy struct {
	Attempts int
	Cooldown time.Duration
	// Sleep 为空时使用 SleepContext
	Sleep Sleeper
	// OnAttempt 每次调用动作后回调,attempt 从 1 开始
	OnAttempt func(attempt int, ok bool, err error)
}

// Do 最多执行 p.Attempts 次 fn,每次未满足后等待 p.Cooldown
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, bool, error)) (T, bool, error) {
	var zero T
	sleep := p.Sleep
	if sleep == nil {
		sleep = SleepContext
	}
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		result, ok, err := fn(ctx)
		if p.OnAttempt != nil {
			p.OnAttempt(attempt, ok, err)
		}
		if err != nil {
			return zero, false, err
		}
		if ok {
			return result, true, nil
		}
		if err := sleep(ctx, p.Cooldown); err != nil {
			return zero, false, err
		}
	}
	return zero, false, nil
}

func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
