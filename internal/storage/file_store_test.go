package storage

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func makeFileHeader(t *testing.T, filename, contentType, content string) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	partHeader := make(textproto.MIMEHeader)
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="document"; filename=%q`, filename))
	partHeader.Set("Content-Type", contentType)
	part, err := writer.CreatePart(partHeader)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	reader := multipart.NewReader(&body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("failed to read multipart form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	headers := form.File["document"]
	if len(headers) != 1 {
		t.Fatalf("expected 1 file header, got %d", len(headers))
	}
	return headers[0]
}

func TestLocalFileStore_Save(t *testing.T) {
	store, err := NewLocalFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}

	tests := []struct {
		name        string
		filename    string
		contentType string
		content     string
		field       string
		wantErr     error
	}{
		{
			name:        "accepts pdf",
			filename:    "john-resume.pdf",
			contentType: "application/pdf",
			content:     "resume body",
			field:       "resume",
		},
		{
			name:        "accepts docx",
			filename:    "statement.docx",
			contentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			content:     "sop body",
			field:       "sop",
		},
		{
			name:        "uppercase extension is normalized",
			filename:    "LETTER.PDF",
			contentType: "application/pdf",
			content:     "letter body",
			field:       "recommendationLetter",
		},
		{
			name:        "declared type parameters are ignored",
			filename:    "resume.doc",
			contentType: "application/msword; charset=binary",
			content:     "doc body",
			field:       "resume",
		},
		{
			name:        "rejects executable",
			filename:    "malware.exe",
			contentType: "application/x-msdownload",
			content:     "nope",
			field:       "resume",
			wantErr:     ErrUnsupportedType,
		},
		{
			name:        "rejects missing extension",
			filename:    "resume",
			contentType: "application/pdf",
			content:     "no ext",
			field:       "resume",
			wantErr:     ErrUnsupportedType,
		},
		{
			name:        "rejects disallowed declared type behind a pdf name",
			filename:    "resume.pdf",
			contentType: "application/x-msdownload",
			content:     "nope",
			field:       "resume",
			wantErr:     ErrUnsupportedType,
		},
		{
			name:        "rejects missing declared type",
			filename:    "resume.pdf",
			contentType: "",
			content:     "nope",
			field:       "resume",
			wantErr:     ErrUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := makeFileHeader(t, tt.filename, tt.contentType, tt.content)

			stored, err := store.Save(header, tt.field)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Save() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Save() unexpected error: %v", err)
			}

			if !strings.Contains(stored, tt.field) {
				t.Errorf("stored name %q should contain field %q", stored, tt.field)
			}
			if stored == tt.filename {
				t.Errorf("stored name should not be the client filename")
			}

			path, err := store.Path(stored)
			if err != nil {
				t.Fatalf("Path() unexpected error: %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("stored file not readable: %v", err)
			}
			if string(data) != tt.content {
				t.Errorf("stored content = %q, want %q", data, tt.content)
			}
		})
	}
}

func TestLocalFileStore_SaveRejectsOversize(t *testing.T) {
	store, err := NewLocalFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}

	header := makeFileHeader(t, "big.pdf", "application/pdf", "x")
	header.Size = MaxFileSize + 1

	if _, err := store.Save(header, "resume"); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("Save() error = %v, want %v", err, ErrFileTooLarge)
	}
}

func TestLocalFileStore_Remove(t *testing.T) {
	store, err := NewLocalFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}

	header := makeFileHeader(t, "resume.pdf", "application/pdf", "body")
	stored, err := store.Save(header, "resume")
	if err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	if err := store.Remove(stored); err != nil {
		t.Fatalf("Remove() unexpected error: %v", err)
	}

	path, _ := store.Path(stored)
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("file should be gone after Remove, stat err = %v", err)
	}

	// Removing twice is fine
	if err := store.Remove(stored); err != nil {
		t.Errorf("Remove() on missing file should not error, got %v", err)
	}
}

func TestLocalFileStore_PathRejectsTraversal(t *testing.T) {
	store, err := NewLocalFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}

	for _, name := range []string{"../etc/passwd", "a/b.pdf", string(filepath.Separator) + "abs.pdf"} {
		if _, err := store.Path(name); err == nil {
			t.Errorf("Path(%q) should be rejected", name)
		}
	}
}
