package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/shouni/yoga-sheet-kit/pkg/domain"
	"github.com/shouni/yoga-sheet-kit/pkg/generator"
	"github.com/shouni/yoga-sheet-kit/pkg/imgutil"
)

// PromptBuilder はポーズ行から生成プロンプトを構築するインターフェースです。
type PromptBuilder interface {
	Build(row domain.PoseRow) string
}

// SheetGateway はシートの読み書きを抽象化するインターフェースです。
type SheetGateway interface {
	ReadPoses(ctx context.Context, sheetID string) ([]domain.PoseRow, error)
	WriteImageCell(ctx context.Context, sheetID string, dataIndex int, imageURL string) error
}

// StorageSink は画像バイナリを保存して公開URLを返すインターフェースです。
type StorageSink interface {
	Store(ctx context.Context, data []byte, filename string) (string, error)
}

// ArtifactArchiver は生成画像の控え保存を抽象化するインターフェースです。
type ArtifactArchiver interface {
	Save(ctx context.Context, asset domain.ImageAsset) error
}

// Pipeline はポーズ画像生成の全工程をオーケストレートする司令塔です。
// 行を1件ずつ順番に処理します。外部APIのレート制限を前提としているため
// 並列化は行わず、行ローカルな失敗でバッチ全体を止めることもありません。
type Pipeline struct {
	sheet    SheetGateway
	builder  PromptBuilder
	imgGen   generator.ImageGenerator
	sink     StorageSink
	archiver ArtifactArchiver // nil 可（アーカイブなし動作）
	limiter  *rate.Limiter
}

// Option は Pipeline の任意依存を設定します。
type Option func(*Pipeline)

// WithArchiver は生成画像の控え保存先を設定します。
func WithArchiver(a ArtifactArchiver) Option {
	return func(p *Pipeline) { p.archiver = a }
}

// WithRateLimiter は行ごとの生成直前に適用するレートリミッタを設定します。
func WithRateLimiter(l *rate.Limiter) Option {
	return func(p *Pipeline) { p.limiter = l }
}

// NewPipeline は各コンポーネントを注入して Pipeline を初期化します。
func NewPipeline(sheet SheetGateway, builder PromptBuilder, imgGen generator.ImageGenerator, sink StorageSink, opts ...Option) (*Pipeline, error) {
	if sheet == nil {
		return nil, fmt.Errorf("sheet (SheetGateway) は必須です")
	}
	if builder == nil {
		return nil, fmt.Errorf("builder (PromptBuilder) は必須です")
	}
	if imgGen == nil {
		return nil, fmt.Errorf("imgGen (generator.ImageGenerator) は必須です")
	}
	if sink == nil {
		return nil, fmt.Errorf("sink (StorageSink) は必須です")
	}

	p := &Pipeline{
		sheet:   sheet,
		builder: builder,
		imgGen:  imgGen,
		sink:    sink,
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run はシートの全行を1パスで処理し、集計を返します。
// タイトルが空の行は副作用なしでスキップします。行ローカルな失敗は
// RowResult に記録して続行し、戻り値のエラーにはしません。
func (p *Pipeline) Run(ctx context.Context, sheetID string) (domain.Summary, error) {
	rows, err := p.sheet.ReadPoses(ctx, sheetID)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("シートの読み込みに失敗しました: %w", err)
	}

	slog.Info("シートからポーズ行を取得しました", "sheet_id", sheetID, "rows", len(rows))

	summary := domain.Summary{Total: len(rows)}
	for i, row := range rows {
		if !row.HasTitle() {
			summary.Skipped++
			continue
		}

		slog.Info("ポーズを処理します", "index", i+1, "total", len(rows), "title", row.Title)

		result := p.processRow(ctx, sheetID, i, row)
		if result.Succeeded() {
			summary.Processed++
			slog.Info("ポーズの処理が完了しました", "title", row.Title, "url", result.URL)
		} else {
			summary.Failed++
			slog.Error("ポーズの処理に失敗しました", "title", row.Title, "error", result.Err)
		}
		summary.Results = append(summary.Results, result)
	}

	slog.Info("バッチ処理が完了しました",
		"processed", summary.Processed,
		"failed", summary.Failed,
		"skipped", summary.Skipped)
	return summary, nil
}

// processRow は1行分のプロンプト構築・生成・保存・セル更新を行います。
// 失敗は戻り値の RowResult.Err に畳み込まれ、呼び出し元へは伝播しません。
func (p *Pipeline) processRow(ctx context.Context, sheetID string, index int, row domain.PoseRow) domain.RowResult {
	result := domain.RowResult{Index: index, Title: row.Title}

	if err := p.limiter.Wait(ctx); err != nil {
		result.Err = err
		return result
	}

	genPrompt := p.builder.Build(row)
	slog.Info("プロンプトを構築しました", "title", row.Title, "prompt", genPrompt)

	asset, err := p.imgGen.Generate(ctx, genPrompt)
	if err != nil {
		result.Err = fmt.Errorf("画像生成に失敗しました: %w", err)
		return result
	}

	// プロバイダが PNG 以外を返した場合に備えて正規化する。失敗時は元データを使う。
	if normalized, err := imgutil.EnsurePNG(asset.Data); err == nil {
		asset.Data = normalized
	}
	asset.MimeType = "image/png"
	asset.Filename = row.Filename()

	publicURL, err := p.sink.Store(ctx, asset.Data, asset.Filename)
	if err != nil {
		result.Err = fmt.Errorf("画像の保存に失敗しました: %w", err)
		return result
	}

	if p.archiver != nil {
		// 控え保存の失敗は行の成否に影響させない
		if err := p.archiver.Save(ctx, *asset); err != nil {
			slog.Warn("アーカイブ保存に失敗しました", "filename", asset.Filename, "error", err)
		}
	}

	if err := p.sheet.WriteImageCell(ctx, sheetID, index, publicURL); err != nil {
		result.Err = fmt.Errorf("セル更新に失敗しました: %w", err)
		return result
	}

	result.URL = publicURL
	return result
}
