package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// postJSON は Bearer 認証付きで JSON を POST し、ステータスとボディを返します。
// 非2xxの分類は呼び出し側（各プロバイダ）の責務です。
func postJSON(ctx context.Context, client *http.Client, url, apiKey string, payload any) (int, []byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, data, nil
}

// getJSON は Bearer 認証付きで GET し、ステータスとボディを返します。
func getJSON(ctx context.Context, client *http.Client, url, apiKey string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, data, nil
}

// unmarshalBody は応答ボディを JSON として解析します。
func unmarshalBody(body []byte, v any) error {
	return json.Unmarshal(body, v)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// errorText はエラー応答のボディをログ・エラーメッセージ向けに切り詰めます。
func errorText(body []byte) string {
	const max = 512
	if len(body) > max {
		body = body[:max]
	}
	return string(bytes.TrimSpace(body))
}
