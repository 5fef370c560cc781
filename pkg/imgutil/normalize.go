package imgutil

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/http"
)

// EnsurePNG は画像データを PNG 形式に正規化します。
// すでに PNG の場合は入力をそのまま返し、それ以外（JPEG, GIF等）は再エンコードします。
// image.Decode がサポートするフォーマットに対応しています。
func EnsurePNG(data []byte) ([]byte, error) {
	if http.DetectContentType(data) == "image/png" {
		return data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
