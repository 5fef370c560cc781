package utils

import "strings"

// CollapseSpaces は連続する空白類を半角スペース1つに畳み、前後の空白を除去します。
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Slugify はファイル名向けに文字列を正規化します。
// 小文字化し、空白をアンダースコアに置換します。
func Slugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}
