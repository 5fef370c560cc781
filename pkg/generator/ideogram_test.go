package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ideogramTestServer は生成リクエストとステータスポーリングを模擬するのだ。
// states はポーリングごとに順番に返すステータス列。
func ideogramTestServer(t *testing.T, states []string, imageURL string, polls *int32) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/generation":
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]string{"generation_id": "gen-123"})

		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/generation/gen-123":
			n := atomic.AddInt32(polls, 1)
			idx := int(n) - 1
			if idx >= len(states) {
				t.Errorf("想定以上のポーリング回数: %d", n)
				idx = len(states) - 1
			}
			resp := map[string]string{"state": states[idx]}
			if states[idx] == stateCompleted {
				resp["image_url"] = imageURL
			}
			json.NewEncoder(w).Encode(resp)

		default:
			http.NotFound(w, r)
		}
	}))
}

// newFastIdeogram はポーリング待機を仮想化した IdeogramGenerator を作るのだ。
func newFastIdeogram(t *testing.T, baseURL string, fetcher *mockFetcher) (*IdeogramGenerator, *fakeSleep) {
	t.Helper()

	g, err := NewIdeogramGenerator(Config{IdeogramAPIKey: "test-key", IdeogramBaseURL: baseURL}, fetcher)
	require.NoError(t, err)

	clock := &fakeSleep{}
	g.poller.sleep = clock.sleep
	return g, clock
}

func repeatStates(state string, n int) []string {
	states := make([]string, n)
	for i := range states {
		states[i] = state
	}
	return states
}

func TestNewIdeogramGenerator(t *testing.T) {
	t.Run("APIキー未設定はConfigErrorになる", func(t *testing.T) {
		_, err := NewIdeogramGenerator(Config{}, &mockFetcher{})
		assert.True(t, IsConfigError(err))
	})

	t.Run("fetcher未指定はConfigErrorになる", func(t *testing.T) {
		_, err := NewIdeogramGenerator(Config{IdeogramAPIKey: "k"}, nil)
		assert.True(t, IsConfigError(err))
	})
}

func TestIdeogramGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	fakeImage := []byte("fake-png-bytes")

	t.Run("30回目のポーリングで完了しても画像が返る", func(t *testing.T) {
		var polls int32
		states := append(repeatStates("processing", 29), stateCompleted)
		srv := ideogramTestServer(t, states, "https://cdn.example.com/img.png", &polls)
		defer srv.Close()

		fetcher := &mockFetcher{fetchFunc: func(ctx context.Context, url string) ([]byte, error) {
			return fakeImage, nil
		}}
		g, clock := newFastIdeogram(t, srv.URL, fetcher)

		asset, err := g.Generate(ctx, "prompt")

		require.NoError(t, err)
		assert.Equal(t, fakeImage, asset.Data)
		assert.Equal(t, int32(30), polls)
		assert.Equal(t, 30, clock.calls)
		assert.Equal(t, "https://cdn.example.com/img.png", fetcher.lastURL)
	})

	t.Run("30回とも未完了ならTimeoutErrorになりポーリングはちょうど30回", func(t *testing.T) {
		var polls int32
		srv := ideogramTestServer(t, repeatStates("processing", 30), "", &polls)
		defer srv.Close()

		g, _ := newFastIdeogram(t, srv.URL, &mockFetcher{})

		_, err := g.Generate(ctx, "prompt")

		require.Error(t, err)
		assert.True(t, IsTimeoutError(err))
		assert.Equal(t, int32(30), polls)

		var terr *TimeoutError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, 30, terr.Attempts)
	})

	t.Run("プロバイダがfailedを報告したら残り試行を待たずに打ち切る", func(t *testing.T) {
		var polls int32
		states := append([]string{"processing", "processing"}, stateFailed)
		srv := ideogramTestServer(t, states, "", &polls)
		defer srv.Close()

		g, _ := newFastIdeogram(t, srv.URL, &mockFetcher{})

		_, err := g.Generate(ctx, "prompt")

		assert.True(t, IsProviderError(err))
		assert.Equal(t, int32(3), polls)
	})

	t.Run("generation_idが無い応答はProviderErrorになる", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		g, _ := newFastIdeogram(t, srv.URL, &mockFetcher{})

		_, err := g.Generate(ctx, "prompt")

		assert.True(t, IsProviderError(err))
	})

	t.Run("完了後の画像取得に失敗したらProviderErrorになる", func(t *testing.T) {
		var polls int32
		srv := ideogramTestServer(t, []string{stateCompleted}, "https://cdn.example.com/img.png", &polls)
		defer srv.Close()

		fetcher := &mockFetcher{fetchFunc: func(ctx context.Context, url string) ([]byte, error) {
			return nil, fmt.Errorf("取得に失敗しました (status=404)")
		}}
		g, _ := newFastIdeogram(t, srv.URL, fetcher)

		_, err := g.Generate(ctx, "prompt")

		assert.True(t, IsProviderError(err))
	})
}
