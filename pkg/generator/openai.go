package generator

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/shouni/yoga-sheet-kit/pkg/domain"
)

const defaultOpenAIBaseURL = "https://api.openai.com"

// OpenAIGenerator は DALL-E API を同期呼び出しする直接型プロバイダです。
// 1リクエストで base64 埋め込みの画像が返ります。
type OpenAIGenerator struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewOpenAIGenerator は OpenAIGenerator を初期化します。
// APIキーが未設定の場合は ConfigError を返します。
func NewOpenAIGenerator(cfg Config) (*OpenAIGenerator, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, &ConfigError{Reason: "OpenAI APIキーが設定されていません"}
	}

	baseURL := cfg.OpenAIBaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	return &OpenAIGenerator{
		apiKey:  cfg.OpenAIAPIKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: cfg.httpTimeout()},
	}, nil
}

type openAIRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type openAIResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// Generate は固定パラメータ (dall-e-3, 1024x1024, 1枚) で画像を生成します。
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (*domain.ImageAsset, error) {
	payload := openAIRequest{
		Model:          "dall-e-3",
		Prompt:         prompt,
		N:              1,
		Size:           "1024x1024",
		ResponseFormat: "b64_json",
	}

	status, body, err := postJSON(ctx, g.client, g.baseURL+"/v1/images/generations", g.apiKey, payload)
	if err != nil {
		return nil, &TransportError{Provider: string(SelectionOpenAI), Cause: err}
	}
	if !isSuccess(status) {
		return nil, &ProviderError{Provider: string(SelectionOpenAI), StatusCode: status, Message: errorText(body)}
	}

	var resp openAIResponse
	if err := unmarshalBody(body, &resp); err != nil {
		return nil, &ProviderError{Provider: string(SelectionOpenAI), Message: "応答ボディを解析できませんでした: " + err.Error()}
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, &ProviderError{Provider: string(SelectionOpenAI), Message: "応答に画像データが含まれていません"}
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, &ProviderError{Provider: string(SelectionOpenAI), Message: "base64デコードに失敗しました: " + err.Error()}
	}

	return &domain.ImageAsset{Data: data, MimeType: "image/png"}, nil
}
