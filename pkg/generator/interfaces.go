package generator

import (
	"context"

	"github.com/shouni/yoga-sheet-kit/pkg/domain"
)

// ImageGenerator はプロンプトから画像を生成する統合窓口です。
// 3つのプロバイダ実装（openai / ideogram / stability）がこれを満たします。
type ImageGenerator interface {
	// Generate は生成画像のバイナリを返します。失敗は errors.go の型で分類されます。
	Generate(ctx context.Context, prompt string) (*domain.ImageAsset, error)
}
