package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

const cacheKeyPublicURL = "drive_url:"

// Cacher はアップロード済みURLのキャッシュ操作を抽象化するインターフェースです。
// (go-cache 互換)
type Cacher interface {
	Get(key string) (any, bool)
	Set(key string, value any, d time.Duration)
}

// DriveSink は画像バイナリを Google Drive に保存し、公開URLを返します。
// 保存したオブジェクトには anyone/reader の公開権限が付与され、
// このシステムからは削除されません。
type DriveSink struct {
	svc        *drive.Service
	cache      Cacher
	expiration time.Duration
}

// NewDriveSink は依存関係を注入して DriveSink を初期化します。
// cache は nil を許容します（キャッシュなし動作）。
func NewDriveSink(svc *drive.Service, cache Cacher, cacheTTL time.Duration) (*DriveSink, error) {
	if svc == nil {
		return nil, fmt.Errorf("drive サービスは必須です")
	}
	return &DriveSink{
		svc:        svc,
		cache:      cache,
		expiration: cacheTTL,
	}, nil
}

// Store はバイナリを image/png としてアップロードし、公開読み取り権限を付与した上で
// セル埋め込みに使える直接コンテンツURLを返します。
// 同一ファイル名の保存結果は TTL の範囲でキャッシュされ、再アップロードを省きます。
func (s *DriveSink) Store(ctx context.Context, data []byte, filename string) (string, error) {
	cacheKey := cacheKeyPublicURL + filename
	if s.cache != nil {
		if val, ok := s.cache.Get(cacheKey); ok {
			if cached, ok := val.(string); ok {
				return cached, nil
			}
		}
	}

	meta := &drive.File{
		Name:     filename,
		MimeType: "image/png",
	}

	file, err := s.svc.Files.Create(meta).
		Media(bytes.NewReader(data), googleapi.ContentType("image/png")).
		Fields("id, webContentLink").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("ファイルのアップロードに失敗しました (%s): %w", filename, err)
	}

	// 公開読み取り権限の付与。以後このオブジェクトは誰でも閲覧可能になります。
	_, err = s.svc.Permissions.Create(file.Id, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("公開権限の付与に失敗しました (%s): %w", file.Id, err)
	}

	publicURL := stripDownloadParam(file.WebContentLink)
	slog.Info("画像を公開URLとして保存しました", "filename", filename, "url", publicURL)

	if s.cache != nil {
		s.cache.Set(cacheKey, publicURL, s.expiration)
	}
	return publicURL, nil
}

// stripDownloadParam は webContentLink から強制ダウンロード用のクエリを取り除き、
// =IMAGE() のようなインライン参照で使える形にします。
func stripDownloadParam(link string) string {
	if link == "" {
		return link
	}

	u, err := url.Parse(link)
	if err != nil {
		// パースできないリンクは素朴な置換にフォールバックする
		return strings.ReplaceAll(link, "&export=download", "")
	}

	q := u.Query()
	if q.Has("export") {
		q.Del("export")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
