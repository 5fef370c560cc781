package workflow

import (
	"context"

	"github.com/shouni/yoga-sheet-kit/pkg/domain"
)

// mockSheet は SheetGateway のテスト用モックなのだ。
type mockSheet struct {
	rows    []domain.PoseRow
	readErr error

	writes []struct {
		Index int
		URL   string
	}
	writeErr error
}

func (m *mockSheet) ReadPoses(ctx context.Context, sheetID string) ([]domain.PoseRow, error) {
	return m.rows, m.readErr
}

func (m *mockSheet) WriteImageCell(ctx context.Context, sheetID string, dataIndex int, imageURL string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes = append(m.writes, struct {
		Index int
		URL   string
	}{dataIndex, imageURL})
	return nil
}

// mockGenerator は generator.ImageGenerator のテスト用モックなのだ。
type mockGenerator struct {
	calls        int
	lastPrompt   string
	generateFunc func(ctx context.Context, prompt string) (*domain.ImageAsset, error)
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (*domain.ImageAsset, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.generateFunc != nil {
		return m.generateFunc(ctx, prompt)
	}
	return &domain.ImageAsset{Data: []byte("fake-png-bytes"), MimeType: "image/png"}, nil
}

// mockSink は StorageSink のテスト用モックなのだ。
type mockSink struct {
	calls        int
	lastFilename string
	lastData     []byte
	url          string
	err          error
}

func (m *mockSink) Store(ctx context.Context, data []byte, filename string) (string, error) {
	m.calls++
	m.lastFilename = filename
	m.lastData = data
	return m.url, m.err
}

// mockArchiver は ArtifactArchiver のテスト用モックなのだ。
type mockArchiver struct {
	saved []domain.ImageAsset
	err   error
}

func (m *mockArchiver) Save(ctx context.Context, asset domain.ImageAsset) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, asset)
	return nil
}
