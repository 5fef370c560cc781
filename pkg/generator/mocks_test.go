package generator

import (
	"context"
	"time"
)

// mockFetcher は httpkit.ClientInterface のテスト用モックなのだ。
type mockFetcher struct {
	fetchFunc func(ctx context.Context, url string) ([]byte, error)
	lastURL   string
}

func (m *mockFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.lastURL = url
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, url)
	}
	return nil, nil
}

// fakeSleep は実時間を消費せずに待機呼び出しを記録する仮想時計なのだ。
type fakeSleep struct {
	calls     int
	intervals []time.Duration
}

func (f *fakeSleep) sleep(ctx context.Context, d time.Duration) error {
	f.calls++
	f.intervals = append(f.intervals, d)
	return ctx.Err()
}
