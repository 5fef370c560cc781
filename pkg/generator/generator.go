package generator

import (
	"fmt"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

// Selection は使用するプロバイダを表す閉じた集合です。
// バッチ実行の開始前に1つだけ選択され、実行中は不変です。
type Selection string

const (
	SelectionOpenAI    Selection = "openai"
	SelectionIdeogram  Selection = "ideogram"
	SelectionStability Selection = "stability"
)

// DefaultSelection はフラグ省略時のプロバイダです。
const DefaultSelection = SelectionIdeogram

// ParseSelection はプロバイダ名を検証します。未知の名前は ConfigError です。
func ParseSelection(name string) (Selection, error) {
	switch Selection(name) {
	case SelectionOpenAI, SelectionIdeogram, SelectionStability:
		return Selection(name), nil
	default:
		return "", &ConfigError{Reason: fmt.Sprintf("未対応のプロバイダ名です: %q (openai / ideogram / stability から選択してください)", name)}
	}
}

// Config はプロバイダ構築に必要な資格情報とエンドポイントを保持します。
// 環境から読むのではなく明示的に注入することで、テストで偽の資格情報を使えます。
// APIキーは選択されたプロバイダの分だけ検証されます。
type Config struct {
	OpenAIAPIKey    string
	IdeogramAPIKey  string
	StabilityAPIKey string

	// 空の場合は各プロバイダの既定エンドポイントを使用します。
	OpenAIBaseURL    string
	IdeogramBaseURL  string
	StabilityBaseURL string

	// HTTPTimeout は1リクエストあたりのタイムアウトです。0 は既定値(60s)。
	HTTPTimeout time.Duration
}

const defaultHTTPTimeout = 60 * time.Second

func (c Config) httpTimeout() time.Duration {
	if c.HTTPTimeout <= 0 {
		return defaultHTTPTimeout
	}
	return c.HTTPTimeout
}

// New は選択に対応するプロバイダ実装を構築します。
// fetcher は完了済み画像URLのダウンロードに使用します (ideogram のみ)。
func New(sel Selection, cfg Config, fetcher httpkit.ClientInterface) (ImageGenerator, error) {
	switch sel {
	case SelectionOpenAI:
		return NewOpenAIGenerator(cfg)
	case SelectionIdeogram:
		return NewIdeogramGenerator(cfg, fetcher)
	case SelectionStability:
		return NewStabilityGenerator(cfg)
	default:
		return nil, &ConfigError{Reason: fmt.Sprintf("未対応のプロバイダ名です: %q", sel)}
	}
}
