package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Writer は remoteio.OutputWriter 互換のローカルファイルシステム実装です。
// file:// スキームおよび素のパスを書き出し先として受け付けます。
type Writer struct{}

// New は新しい Writer を返します。
func New() *Writer {
	return &Writer{}
}

// Write は dest のパスへ内容を書き出します。親ディレクトリは必要に応じて作成します。
// mimeType はローカル書き出しでは使用しません。
func (w *Writer) Write(ctx context.Context, dest string, r io.Reader, mimeType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := strings.TrimPrefix(dest, "file://")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ディレクトリ作成に失敗しました (%s): %w", filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ファイル作成に失敗しました (%s): %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("書き込みに失敗しました (%s): %w", path, err)
	}
	return nil
}
