package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPoller(maxAttempts int, clock *fakeSleep) *poller {
	return &poller{
		interval:    pollInterval,
		maxAttempts: maxAttempts,
		sleep:       clock.sleep,
	}
}

func TestPoller_Poll(t *testing.T) {
	ctx := context.Background()

	t.Run("最終試行での完了も成功として扱われる", func(t *testing.T) {
		clock := &fakeSleep{}
		p := newTestPoller(30, clock)

		attempts := 0
		done, err := p.poll(ctx, func(attempt int) (bool, error) {
			attempts++
			// 29回は未完了、30回目で完了
			return attempt == 30, nil
		})

		require.NoError(t, err)
		assert.True(t, done)
		assert.Equal(t, 30, attempts)
		assert.Equal(t, 30, clock.calls)
	})

	t.Run("試行回数を使い切ると未完了のまま戻る", func(t *testing.T) {
		clock := &fakeSleep{}
		p := newTestPoller(30, clock)

		attempts := 0
		done, err := p.poll(ctx, func(attempt int) (bool, error) {
			attempts++
			return false, nil
		})

		require.NoError(t, err)
		assert.False(t, done)
		assert.Equal(t, 30, attempts, "ちょうど30回だけポーリングされるべき")
	})

	t.Run("各試行の前に固定間隔で待機する", func(t *testing.T) {
		clock := &fakeSleep{}
		p := newTestPoller(3, clock)

		_, err := p.poll(ctx, func(attempt int) (bool, error) { return false, nil })

		require.NoError(t, err)
		require.Len(t, clock.intervals, 3)
		for _, d := range clock.intervals {
			assert.Equal(t, 2*time.Second, d)
		}
	})

	t.Run("コールバックのエラーは即時に伝播する", func(t *testing.T) {
		clock := &fakeSleep{}
		p := newTestPoller(30, clock)

		wantErr := errors.New("boom")
		_, err := p.poll(ctx, func(attempt int) (bool, error) {
			if attempt == 2 {
				return false, wantErr
			}
			return false, nil
		})

		assert.ErrorIs(t, err, wantErr)
		assert.Equal(t, 2, clock.calls)
	})

	t.Run("キャンセルされたコンテキストでは待機が中断される", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		clock := &fakeSleep{}
		p := newTestPoller(30, clock)

		_, err := p.poll(cancelled, func(attempt int) (bool, error) {
			t.Fatal("コールバックは呼ばれないはず")
			return false, nil
		})

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSleepContext(t *testing.T) {
	t.Run("経過後にnilを返す", func(t *testing.T) {
		err := sleepContext(context.Background(), time.Millisecond)
		assert.NoError(t, err)
	})

	t.Run("キャンセルで即時に戻る", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := sleepContext(ctx, time.Hour)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
