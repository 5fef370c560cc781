package prompt

import (
	"fmt"
	"strings"

	"github.com/shouni/yoga-sheet-kit/pkg/domain"
	"github.com/shouni/yoga-sheet-kit/pkg/utils"
)

// Builder は PoseRow から画像生成用の自然言語プロンプトを構築します。
// 純粋関数のみで構成され、欠けた属性は文面から自然に省かれます。
type Builder struct{}

// NewBuilder は新しい Builder を返します。
func NewBuilder() *Builder {
	return &Builder{}
}

// Build はスタイル・タイトル・背景色・テーマを固定順で結合したプロンプトを返します。
// 同一の行に対して常に同一の文字列を返し、失敗しません。
func (b *Builder) Build(row domain.PoseRow) string {
	phrase := fmt.Sprintf("%s %s yoga pose, %s background. %s",
		row.Style, row.Title, row.Background, row.Theme)

	// 欠損フィールドのプレースホルダ痕跡を除去してから空白を正規化する
	phrase = strings.ReplaceAll(phrase, "None", "")
	return utils.CollapseSpaces(phrase)
}
