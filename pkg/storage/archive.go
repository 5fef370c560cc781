package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/shouni/yoga-sheet-kit/pkg/domain"
)

// Archiver は生成画像の控えをリモートストレージへ書き出します。
// Drive への公開アップロードとは別に、成果物をバッチ実行者の手元にも残すための層です。
type Archiver struct {
	writer  remoteio.OutputWriter
	baseURL string
}

// NewArchiver は Archiver を初期化します。baseURL は書き出し先ディレクトリのURLです。
func NewArchiver(writer remoteio.OutputWriter, baseURL string) (*Archiver, error) {
	if writer == nil {
		return nil, fmt.Errorf("writer (remoteio.OutputWriter) は必須です")
	}
	if baseURL == "" {
		return nil, fmt.Errorf("アーカイブ先URLは必須です")
	}
	return &Archiver{
		writer:  writer,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Save はアセットをファイル名付きで書き出します。
func (a *Archiver) Save(ctx context.Context, asset domain.ImageAsset) error {
	dest := a.baseURL + "/" + asset.Filename
	if err := a.writer.Write(ctx, dest, bytes.NewReader(asset.Data), asset.MimeType); err != nil {
		return fmt.Errorf("アーカイブの書き出しに失敗しました (%s): %w", dest, err)
	}
	slog.Info("生成画像をアーカイブしました", "dest", dest)
	return nil
}
