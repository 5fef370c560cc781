package domain

// RowResult はバッチ実行における1行分の処理結果です。
type RowResult struct {
	Index int    // ヘッダーを除いた 0 始まりのデータ行位置
	Title string
	URL   string // 保存に成功した場合の公開URL
	Err   error  // 行ローカルな失敗。nil なら成功
}

// Succeeded は行の処理が最後まで完了したかどうかを返します。
func (r RowResult) Succeeded() bool {
	return r.Err == nil
}

// Summary はバッチ全体の集計です。
type Summary struct {
	Total     int // シートから取得した全データ行数
	Skipped   int // タイトル欠落によりスキップした行数
	Processed int // 画像の生成・保存・セル更新まで完了した行数
	Failed    int // 行ローカルな失敗で打ち切った行数
	Results   []RowResult
}
