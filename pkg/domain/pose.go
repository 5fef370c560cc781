package domain

import (
	"strings"

	"github.com/shouni/yoga-sheet-kit/pkg/utils"
)

// シートのヘッダー行で使用される列名です。
const (
	HeaderTitle      = "Content Title"
	HeaderStyle      = "Image Style"
	HeaderBackground = "Background Color"
	HeaderTheme      = "Theme Description"
)

// PoseRow はシートから読み込んだヨガポーズ1行分の属性を保持します。
// Title が空の行は処理対象外です。
type PoseRow struct {
	Title      string
	Style      string
	Background string
	Theme      string
}

// NewPoseRow はヘッダー名→値のマップから PoseRow を構築します。
// 未知の列は無視し、欠けている列は空文字として扱います。
func NewPoseRow(record map[string]string) PoseRow {
	return PoseRow{
		Title:      record[HeaderTitle],
		Style:      record[HeaderStyle],
		Background: record[HeaderBackground],
		Theme:      record[HeaderTheme],
	}
}

// HasTitle は画像生成の対象となる行かどうかを返します。
func (r PoseRow) HasTitle() bool {
	return strings.TrimSpace(r.Title) != ""
}

// Filename はアップロード時のファイル名を導出します。
// タイトルを小文字化し、空白をアンダースコアに置換した上で
// "yoga_" プレフィックスと ".png" サフィックスを付与します。
func (r PoseRow) Filename() string {
	return "yoga_" + utils.Slugify(r.Title) + ".png"
}

// ImageAsset は生成された画像バイナリとその保存名です。
// 生成に成功した行ごとに1つだけ作られ、保存後は破棄されます。
type ImageAsset struct {
	Data     []byte
	MimeType string
	Filename string
}
