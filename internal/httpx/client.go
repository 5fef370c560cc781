package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

// Client は httpkit.ClientInterface を満たす最小のHTTPフェッチャーです。
// 認証不要の配信URLからバイナリを取得する用途に使います。
type Client struct {
	hc *http.Client
}

var _ httpkit.ClientInterface = (*Client)(nil)

// New は指定タイムアウトの Client を返します。
func New(timeout time.Duration) *Client {
	return &Client{
		hc: &http.Client{Timeout: timeout},
	}
}

// FetchBytes は URL の内容を取得します。非2xxステータスはエラーです。
func (c *Client) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("取得に失敗しました (status=%d): %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}
