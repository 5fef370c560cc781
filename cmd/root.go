package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/patrickmn/go-cache"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/shouni/yoga-sheet-kit/internal/config"
	"github.com/shouni/yoga-sheet-kit/internal/httpx"
	"github.com/shouni/yoga-sheet-kit/internal/localfs"
	"github.com/shouni/yoga-sheet-kit/pkg/generator"
	"github.com/shouni/yoga-sheet-kit/pkg/prompt"
	sheetgw "github.com/shouni/yoga-sheet-kit/pkg/sheet"
	"github.com/shouni/yoga-sheet-kit/pkg/storage"
	"github.com/shouni/yoga-sheet-kit/pkg/workflow"
)

const (
	defaultFetchTimeout    = 60 * time.Second
	defaultCacheExpiration = 24 * time.Hour
	cacheCleanupInterval   = time.Hour
)

// opts はコマンドラインフラグの値を保持するのだ。
var opts struct {
	SheetID  string
	Provider string
	Archive  string
}

var rootCmd = &cobra.Command{
	Use:   "yoga-sheet-kit",
	Short: "シートのヨガポーズ一覧からAI画像を生成してセルに挿入するのだ。",
	Long: `Google Sheets からヨガポーズの属性を読み込み、選択した画像生成API
(openai / ideogram / stability) でイラストを生成して Google Drive に保存し、
公開URLを =IMAGE() フォーミュラとしてシートへ書き戻すのだ。
行ごとの失敗ではバッチを止めず、最後に処理件数のサマリを出すのだ。`,
	RunE: runCommand,
}

// Execute はアプリケーションのエントリーポイントです。
// 構成エラーなど実行前に判明する失敗は非ゼロ終了コードで終わります。
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("実行に失敗しました", "error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&opts.SheetID, "sheet-id", "", "対象の Google Sheet ID (省略時は対話入力)")
	rootCmd.Flags().StringVar(&opts.Provider, "provider", string(generator.DefaultSelection), "画像生成プロバイダ (openai / ideogram / stability)")
	rootCmd.Flags().StringVar(&opts.Archive, "archive", "", "生成画像の控えを書き出すディレクトリ (省略時はアーカイブなし)")
}

// runCommand は root コマンドの実行ロジック本体です。
func runCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// .env があれば読み込む。無くてもエラーにはしない
	_ = godotenv.Load()

	cfg := config.LoadConfig()
	if opts.Archive != "" {
		cfg.ArchiveURL = opts.Archive
	}

	sheetID := opts.SheetID
	if sheetID == "" {
		var err error
		if sheetID, err = promptSheetID(cmd); err != nil {
			return err
		}
	}

	sel, err := generator.ParseSelection(opts.Provider)
	if err != nil {
		return err
	}
	slog.Info("画像生成プロバイダを選択しました", "provider", strings.ToUpper(string(sel)))

	pipeline, err := buildPipeline(ctx, cfg, sel)
	if err != nil {
		return err
	}

	summary, err := pipeline.Run(ctx, sheetID)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "処理完了: 成功 %d / 失敗 %d / スキップ %d (全 %d 行)\n",
		summary.Processed, summary.Failed, summary.Skipped, summary.Total)
	return nil
}

// promptSheetID はフラグ省略時に標準入力から Sheet ID を受け取ります。
func promptSheetID(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Google Sheet ID を入力してください: ")

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("Sheet ID の読み取りに失敗しました: %w", err)
	}

	sheetID := strings.TrimSpace(line)
	if sheetID == "" {
		return "", fmt.Errorf("Sheet ID は必須です")
	}
	return sheetID, nil
}

// buildPipeline は設定から全コンポーネントを構築して注入します。
func buildPipeline(ctx context.Context, cfg config.Config, sel generator.Selection) (*workflow.Pipeline, error) {
	// サービスアカウント鍵がないと Sheets / Drive のどちらも使えない
	if _, err := os.Stat(cfg.ServiceAccountFile); err != nil {
		return nil, fmt.Errorf("サービスアカウント鍵ファイルが見つかりません (%s): %w", cfg.ServiceAccountFile, err)
	}

	authOpts := []option.ClientOption{
		option.WithCredentialsFile(cfg.ServiceAccountFile),
		option.WithScopes(sheets.SpreadsheetsScope, drive.DriveScope),
	}

	sheetsSvc, err := sheets.NewService(ctx, authOpts...)
	if err != nil {
		return nil, fmt.Errorf("Sheets サービスの初期化に失敗しました: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, authOpts...)
	if err != nil {
		return nil, fmt.Errorf("Drive サービスの初期化に失敗しました: %w", err)
	}

	gateway, err := sheetgw.NewGoogleSheetGateway(sheetsSvc, cfg.Worksheet)
	if err != nil {
		return nil, err
	}

	uploadCache := cache.New(defaultCacheExpiration, cacheCleanupInterval)
	sink, err := storage.NewDriveSink(driveSvc, uploadCache, defaultCacheExpiration)
	if err != nil {
		return nil, err
	}

	imgGen, err := generator.New(sel, cfg.Provider, httpx.New(defaultFetchTimeout))
	if err != nil {
		return nil, err
	}

	pipelineOpts := []workflow.Option{}
	if cfg.RateInterval > 0 {
		pipelineOpts = append(pipelineOpts, workflow.WithRateLimiter(rate.NewLimiter(rate.Every(cfg.RateInterval), 1)))
	}
	if cfg.ArchiveURL != "" {
		archiver, err := storage.NewArchiver(localfs.New(), cfg.ArchiveURL)
		if err != nil {
			return nil, err
		}
		pipelineOpts = append(pipelineOpts, workflow.WithArchiver(archiver))
	}

	return workflow.NewPipeline(gateway, prompt.NewBuilder(), imgGen, sink, pipelineOpts...)
}
