package config

import (
	"os"
	"time"

	"github.com/shouni/yoga-sheet-kit/pkg/generator"
	"github.com/shouni/yoga-sheet-kit/pkg/sheet"
)

// 環境変数のキー名です。APIキーは選択されたプロバイダの分だけ参照されます。
const (
	envOpenAIAPIKey       = "OPENAI_API_KEY"
	envIdeogramAPIKey     = "IDEOGRAM_API_KEY"
	envStabilityAPIKey    = "STABILITY_API_KEY"
	envServiceAccountFile = "SERVICE_ACCOUNT_FILE"
	envWorksheet          = "SHEET_WORKSHEET"
	envArchiveURL         = "ARCHIVE_URL"
	envRateInterval       = "RATE_INTERVAL"
)

// DefaultServiceAccountFile はサービスアカウント鍵ファイルの既定パスです。
const DefaultServiceAccountFile = "service_account.json"

// Config はアプリケーション全体の設定です。
// 環境変数から一度だけ構築され、実行中は読み取り専用です。
type Config struct {
	Provider generator.Config

	ServiceAccountFile string
	Worksheet          string

	// ArchiveURL が空でない場合、生成画像の控えをこの場所に書き出します。
	ArchiveURL string

	// RateInterval は行ごとの生成リクエストの最小間隔です。0 は無制限。
	RateInterval time.Duration
}

// LoadConfig は環境変数から設定を読み込みます。
// .env のロード (godotenv) は呼び出し側 (cmd) の責務です。
func LoadConfig() Config {
	return Config{
		Provider: generator.Config{
			OpenAIAPIKey:    os.Getenv(envOpenAIAPIKey),
			IdeogramAPIKey:  os.Getenv(envIdeogramAPIKey),
			StabilityAPIKey: os.Getenv(envStabilityAPIKey),
		},
		ServiceAccountFile: envOrDefault(envServiceAccountFile, DefaultServiceAccountFile),
		Worksheet:          envOrDefault(envWorksheet, sheet.DefaultWorksheet),
		ArchiveURL:         os.Getenv(envArchiveURL),
		RateInterval:       parseDuration(os.Getenv(envRateInterval)),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0
	}
	return d
}
