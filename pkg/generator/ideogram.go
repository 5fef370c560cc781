package generator

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/yoga-sheet-kit/pkg/domain"
)

const (
	defaultIdeogramBaseURL = "https://api.ideogram.ai"

	// ポーリングは2秒間隔で最大30回。合計60秒で打ち切ります。
	pollInterval    = 2 * time.Second
	maxPollAttempts = 30
)

// Ideogram の生成ステータス遷移:
// submitted → polling → (completed | timed-out | failed)
const (
	stateCompleted = "completed"
	stateFailed    = "failed"
)

// IdeogramGenerator は非同期型プロバイダです。生成リクエストで ID を受け取り、
// 完了までステータスエンドポイントをポーリングしてから画像URLを取得します。
type IdeogramGenerator struct {
	apiKey  string
	baseURL string
	client  *http.Client
	fetcher httpkit.ClientInterface
	poller  *poller
}

// NewIdeogramGenerator は IdeogramGenerator を初期化します。
// fetcher は完了済み画像のダウンロードに必須です。
func NewIdeogramGenerator(cfg Config, fetcher httpkit.ClientInterface) (*IdeogramGenerator, error) {
	if cfg.IdeogramAPIKey == "" {
		return nil, &ConfigError{Reason: "Ideogram APIキーが設定されていません"}
	}
	if fetcher == nil {
		return nil, &ConfigError{Reason: "fetcher (httpkit.ClientInterface) は必須です"}
	}

	baseURL := cfg.IdeogramBaseURL
	if baseURL == "" {
		baseURL = defaultIdeogramBaseURL
	}

	return &IdeogramGenerator{
		apiKey:  cfg.IdeogramAPIKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: cfg.httpTimeout()},
		fetcher: fetcher,
		poller:  newPoller(pollInterval, maxPollAttempts),
	}, nil
}

type ideogramRequest struct {
	Prompt      string `json:"prompt"`
	Style       string `json:"style"`
	AspectRatio string `json:"aspect_ratio"`
}

type ideogramSubmitResponse struct {
	GenerationID string `json:"generation_id"`
}

type ideogramStatusResponse struct {
	State    string `json:"state"`
	ImageURL string `json:"image_url"`
}

// Generate は生成リクエストを送信し、完了をポーリングしてから画像を取得します。
// 試行回数を使い切った場合は TimeoutError を返します。
func (g *IdeogramGenerator) Generate(ctx context.Context, prompt string) (*domain.ImageAsset, error) {
	id, err := g.submit(ctx, prompt)
	if err != nil {
		return nil, err
	}

	imageURL, err := g.awaitCompletion(ctx, id)
	if err != nil {
		return nil, err
	}

	return g.download(ctx, imageURL)
}

// submit は生成リクエストを送信し generation_id を返します。
func (g *IdeogramGenerator) submit(ctx context.Context, prompt string) (string, error) {
	payload := ideogramRequest{
		Prompt:      prompt,
		Style:       "illustration",
		AspectRatio: "1:1",
	}

	status, body, err := postJSON(ctx, g.client, g.baseURL+"/api/v1/generation", g.apiKey, payload)
	if err != nil {
		return "", &TransportError{Provider: string(SelectionIdeogram), Cause: err}
	}
	if !isSuccess(status) {
		return "", &ProviderError{Provider: string(SelectionIdeogram), StatusCode: status, Message: errorText(body)}
	}

	var resp ideogramSubmitResponse
	if err := unmarshalBody(body, &resp); err != nil {
		return "", &ProviderError{Provider: string(SelectionIdeogram), Message: "応答ボディを解析できませんでした: " + err.Error()}
	}
	if resp.GenerationID == "" {
		return "", &ProviderError{Provider: string(SelectionIdeogram), Message: "generation_id が返されませんでした"}
	}
	return resp.GenerationID, nil
}

// awaitCompletion は state が completed になるまでポーリングし、画像URLを返します。
// プロバイダが failed を報告した場合は残り試行を待たずに打ち切ります。
func (g *IdeogramGenerator) awaitCompletion(ctx context.Context, id string) (string, error) {
	var imageURL string

	done, err := g.poller.poll(ctx, func(attempt int) (bool, error) {
		status, body, err := getJSON(ctx, g.client, fmt.Sprintf("%s/api/v1/generation/%s", g.baseURL, id), g.apiKey)
		if err != nil {
			return false, &TransportError{Provider: string(SelectionIdeogram), Cause: err}
		}
		if !isSuccess(status) {
			return false, &ProviderError{Provider: string(SelectionIdeogram), StatusCode: status, Message: errorText(body)}
		}

		var sr ideogramStatusResponse
		if err := unmarshalBody(body, &sr); err != nil {
			return false, &ProviderError{Provider: string(SelectionIdeogram), Message: "ステータス応答を解析できませんでした: " + err.Error()}
		}

		switch sr.State {
		case stateCompleted:
			imageURL = sr.ImageURL
			return true, nil
		case stateFailed:
			return false, &ProviderError{Provider: string(SelectionIdeogram), Message: "プロバイダが生成失敗を報告しました"}
		default:
			slog.Debug("生成完了を待機中です", "generation_id", id, "attempt", attempt, "state", sr.State)
			return false, nil
		}
	})
	if err != nil {
		return "", err
	}
	if !done {
		return "", &TimeoutError{Provider: string(SelectionIdeogram), Attempts: maxPollAttempts}
	}
	if imageURL == "" {
		return "", &ProviderError{Provider: string(SelectionIdeogram), Message: "完了応答に image_url が含まれていません"}
	}
	return imageURL, nil
}

// download は配信URLから画像バイナリを取得します。
func (g *IdeogramGenerator) download(ctx context.Context, imageURL string) (*domain.ImageAsset, error) {
	if !strings.HasPrefix(imageURL, "http://") && !strings.HasPrefix(imageURL, "https://") {
		return nil, &ProviderError{Provider: string(SelectionIdeogram), Message: "image_url のスキームが不正です: " + imageURL}
	}

	data, err := g.fetcher.FetchBytes(ctx, imageURL)
	if err != nil {
		return nil, &ProviderError{Provider: string(SelectionIdeogram), Message: "画像の取得に失敗しました: " + err.Error()}
	}
	return &domain.ImageAsset{Data: data, MimeType: "image/png"}, nil
}
