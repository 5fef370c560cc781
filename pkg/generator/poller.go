package generator

import (
	"context"
	"time"
)

// sleepFunc は試行間の待機を差し替え可能にします。テストでは仮想時計を注入します。
type sleepFunc func(ctx context.Context, d time.Duration) error

// poller は (間隔, 最大試行回数) でパラメータ化された固定間隔リトライです。
// 各試行の前に interval だけ待機します。
type poller struct {
	interval    time.Duration
	maxAttempts int
	sleep       sleepFunc
}

func newPoller(interval time.Duration, maxAttempts int) *poller {
	return &poller{
		interval:    interval,
		maxAttempts: maxAttempts,
		sleep:       sleepContext,
	}
}

// poll は fn が done を返すまで最大 maxAttempts 回呼び出します。
// fn のエラーは即時に伝播し、試行回数を使い切った場合は (false, nil) を返します。
func (p *poller) poll(ctx context.Context, fn func(attempt int) (done bool, err error)) (bool, error) {
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err := p.sleep(ctx, p.interval); err != nil {
			return false, err
		}
		done, err := fn(attempt)
		if err != nil {
			return false, err
		}
		if done {
			return true, nil
		}
	}
	return false, nil
}

// sleepContext はキャンセルに応答する time.Sleep です。
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
