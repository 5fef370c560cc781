package generator

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/shouni/yoga-sheet-kit/pkg/domain"
)

const (
	defaultStabilityBaseURL = "https://api.stability.ai"
	stabilityEngine         = "stable-diffusion-xl-1024-v1-0"
)

// StabilityGenerator は同期型プロバイダです。1リクエストで生成物(artifact)の
// リストが返り、先頭の base64 ペイロードを画像として採用します。
type StabilityGenerator struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewStabilityGenerator は StabilityGenerator を初期化します。
func NewStabilityGenerator(cfg Config) (*StabilityGenerator, error) {
	if cfg.StabilityAPIKey == "" {
		return nil, &ConfigError{Reason: "Stability APIキーが設定されていません"}
	}

	baseURL := cfg.StabilityBaseURL
	if baseURL == "" {
		baseURL = defaultStabilityBaseURL
	}

	return &StabilityGenerator{
		apiKey:  cfg.StabilityAPIKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: cfg.httpTimeout()},
	}, nil
}

type stabilityTextPrompt struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

type stabilityRequest struct {
	TextPrompts []stabilityTextPrompt `json:"text_prompts"`
	CfgScale    int                   `json:"cfg_scale"`
	Height      int                   `json:"height"`
	Width       int                   `json:"width"`
	Samples     int                   `json:"samples"`
	Steps       int                   `json:"steps"`
}

type stabilityResponse struct {
	Artifacts []struct {
		Base64 string `json:"base64"`
	} `json:"artifacts"`
}

// Generate は固定パラメータ (cfg_scale 7, 1024x1024, 30 steps) で画像を生成します。
// artifact リストが空の場合は ProviderError です。
func (g *StabilityGenerator) Generate(ctx context.Context, prompt string) (*domain.ImageAsset, error) {
	payload := stabilityRequest{
		TextPrompts: []stabilityTextPrompt{{Text: prompt, Weight: 1.0}},
		CfgScale:    7,
		Height:      1024,
		Width:       1024,
		Samples:     1,
		Steps:       30,
	}

	url := g.baseURL + "/v1/generation/" + stabilityEngine + "/text-to-image"
	status, body, err := postJSON(ctx, g.client, url, g.apiKey, payload)
	if err != nil {
		return nil, &TransportError{Provider: string(SelectionStability), Cause: err}
	}
	if !isSuccess(status) {
		return nil, &ProviderError{Provider: string(SelectionStability), StatusCode: status, Message: errorText(body)}
	}

	var resp stabilityResponse
	if err := unmarshalBody(body, &resp); err != nil {
		return nil, &ProviderError{Provider: string(SelectionStability), Message: "応答ボディを解析できませんでした: " + err.Error()}
	}
	if len(resp.Artifacts) == 0 {
		return nil, &ProviderError{Provider: string(SelectionStability), Message: "応答に artifact が含まれていません"}
	}

	data, err := base64.StdEncoding.DecodeString(resp.Artifacts[0].Base64)
	if err != nil {
		return nil, &ProviderError{Provider: string(SelectionStability), Message: "base64デコードに失敗しました: " + err.Error()}
	}

	return &domain.ImageAsset{Data: data, MimeType: "image/png"}, nil
}
