package export

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adw777/sql-chat/internal/execute"
)

func sampleResult() execute.Result {
	return execute.Result{
		Columns:  []string{"hash", "number"},
		Rows:     [][]any{{"0xa", int64(2)}, {nil, int64(1)}},
		RowCount: 2,
	}
}

func TestResultPath(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	got := ResultPath("/tmp/exports", "csv", now)
	want := filepath.Join("/tmp/exports", "sqlchat_results_20250314_150926.csv")
	if got != want {
		t.Fatalf("ResultPath() = %q, want %q", got, want)
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteCSV(path, sampleResult()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open exported file: %v", err)
	}
	defer func() { _ = file.Close() }()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want header + 2 rows", len(records))
	}
	if records[0][0] != "hash" || records[0][1] != "number" {
		t.Fatalf("header = %v", records[0])
	}
	if records[2][0] != "" {
		t.Fatalf("nil value should export as empty cell, got %q", records[2][0])
	}
}

func TestWriteCSVRefusesEmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	err := WriteCSV(path, execute.Result{Columns: []string{"hash"}})
	if !errors.Is(err, ErrNoRows) {
		t.Fatalf("WriteCSV() error = %v, want ErrNoRows", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatal("no file may be created for an empty result")
	}
}

func TestWriteParquetRefusesEmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.parquet")
	err := WriteParquet(path, execute.Result{Columns: []string{"hash"}})
	if !errors.Is(err, ErrNoRows) {
		t.Fatalf("WriteParquet() error = %v, want ErrNoRows", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatal("no file may be created for an empty result")
	}
}

func TestWriteParquetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.parquet")
	if err := WriteParquet(path, sampleResult()); err != nil {
		t.Fatalf("WriteParquet() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat exported file: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("parquet export should not be empty")
	}
}

type fakeUploader struct {
	bucket      string
	key         string
	contentType string
	localPath   string
	err         error
}

func (f *fakeUploader) Put(_ context.Context, bucket, key, contentType, localPath string) error {
	f.bucket, f.key, f.contentType, f.localPath = bucket, key, contentType, localPath
	return f.err
}

func TestArchiveUploadFile(t *testing.T) {
	up := &fakeUploader{}
	archive, err := NewArchiveWithUploader("sqlchat-exports", "/results/", up)
	if err != nil {
		t.Fatalf("NewArchiveWithUploader() error = %v", err)
	}

	local := filepath.Join(t.TempDir(), "sqlchat_results_20250314_150926.csv")
	if err := os.WriteFile(local, []byte("hash\n0xa\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := archive.UploadFile(context.Background(), local); err != nil {
		t.Fatalf("UploadFile() error = %v", err)
	}
	if up.bucket != "sqlchat-exports" {
		t.Fatalf("bucket = %q", up.bucket)
	}
	if up.key != "results/sqlchat_results_20250314_150926.csv" {
		t.Fatalf("key = %q", up.key)
	}
	if up.contentType != "text/csv" {
		t.Fatalf("contentType = %q", up.contentType)
	}
}

func TestArchiveUploadError(t *testing.T) {
	up := &fakeUploader{err: errors.New("bucket unreachable")}
	archive, err := NewArchiveWithUploader("sqlchat-exports", "", up)
	if err != nil {
		t.Fatalf("NewArchiveWithUploader() error = %v", err)
	}
	if err := archive.UploadFile(context.Background(), "x.parquet"); err == nil {
		t.Fatal("UploadFile() should propagate uploader errors")
	}
}
