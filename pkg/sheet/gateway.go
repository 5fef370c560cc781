package sheet

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/sheets/v4"

	"github.com/shouni/yoga-sheet-kit/pkg/domain"
)

const (
	// DefaultWorksheet は読み書き対象のワークシート名です。
	DefaultWorksheet = "Sheet1"

	// データ列は A〜E。E列は画像フォーミュラ用に予約されています。
	readColumns = "A1:E"
	imageColumn = "E"

	// imageFitMode は =IMAGE() の表示モード（3: 原寸）です。
	imageFitMode = 3
)

// GoogleSheetGateway は Google Sheets API への薄いラッパーです。
// ヘッダー行を列名として解釈し、PoseRow の列へ変換します。
type GoogleSheetGateway struct {
	svc       *sheets.Service
	worksheet string
}

// NewGoogleSheetGateway は GoogleSheetGateway を初期化します。
func NewGoogleSheetGateway(svc *sheets.Service, worksheet string) (*GoogleSheetGateway, error) {
	if svc == nil {
		return nil, fmt.Errorf("sheets サービスは必須です")
	}
	if worksheet == "" {
		worksheet = DefaultWorksheet
	}
	return &GoogleSheetGateway{svc: svc, worksheet: worksheet}, nil
}

// ReadPoses はシートの全データ行を PoseRow として返します。
// 1行目はヘッダーとして扱い、短い行は空文字で埋めます。
// 値が1行もない場合は空スライスを返します（エラーにはしません）。
func (g *GoogleSheetGateway) ReadPoses(ctx context.Context, sheetID string) ([]domain.PoseRow, error) {
	readRange := fmt.Sprintf("%s!%s", g.worksheet, readColumns)

	vr, err := g.svc.Spreadsheets.Values.Get(sheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("シートの値取得に失敗しました (%s): %w", readRange, err)
	}

	if len(vr.Values) == 0 {
		slog.Warn("シートにデータが見つかりませんでした", "sheet_id", sheetID)
		return nil, nil
	}

	return posesFromValues(vr.Values), nil
}

// posesFromValues はヘッダー行付きの値範囲を PoseRow のリストに変換します。
func posesFromValues(values [][]any) []domain.PoseRow {
	headers := make([]string, len(values[0]))
	for i, h := range values[0] {
		headers[i] = fmt.Sprint(h)
	}

	rows := make([]domain.PoseRow, 0, len(values)-1)
	for _, raw := range values[1:] {
		record := make(map[string]string, len(headers))
		for i, header := range headers {
			// 短い行はヘッダー幅まで空文字で埋める
			if i < len(raw) {
				record[header] = fmt.Sprint(raw[i])
			} else {
				record[header] = ""
			}
		}
		rows = append(rows, domain.NewPoseRow(record))
	}
	return rows
}

// WriteImageCell はデータ行 dataIndex (ヘッダー除外・0始まり) に対応する
// E列のセルへ画像表示フォーミュラを書き込みます。
// ヘッダーが1行目を占めるため、シート上の行番号は dataIndex + 2 になります。
func (g *GoogleSheetGateway) WriteImageCell(ctx context.Context, sheetID string, dataIndex int, imageURL string) error {
	rangeName := cellRange(g.worksheet, dataIndex)
	body := &sheets.ValueRange{
		Values: [][]any{{imageFormula(imageURL)}},
	}

	_, err := g.svc.Spreadsheets.Values.Update(sheetID, rangeName, body).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("セル %s の更新に失敗しました: %w", rangeName, err)
	}

	slog.Info("セルに画像フォーミュラを書き込みました", "range", rangeName)
	return nil
}

// cellRange はデータ行位置からシートの A1 形式レンジを導出します。
func cellRange(worksheet string, dataIndex int) string {
	return fmt.Sprintf("%s!%s%d", worksheet, imageColumn, dataIndex+2)
}

// imageFormula は公開URLをセル内表示するフォーミュラを構築します。
func imageFormula(imageURL string) string {
	return fmt.Sprintf(`=IMAGE("%s", %d)`, imageURL, imageFitMode)
}
