package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/slideforge/slideforge-backend/internal/services"
)

func multipartFile(t *testing.T, fileName, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write part: %v", err)
	}
	mw.Close()

	return &buf, mw.FormDataContentType()
}

func TestNormalizeHandler_TextUpload(t *testing.T) {
	h := NewDocumentHandler(services.NewNormalizer(nil))

	body, contentType := multipartFile(t, "notes.txt", "text/plain", []byte("plain body"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/normalize", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	h.Normalize(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["type"] != "text" {
		t.Errorf("expected text variant, got %q", resp["type"])
	}
	if resp["textContent"] != "plain body" {
		t.Errorf("expected content passthrough, got %q", resp["textContent"])
	}
}

func TestNormalizeHandler_PDFUpload(t *testing.T) {
	h := NewDocumentHandler(services.NewNormalizer(nil))
	original := []byte("%PDF-1.4 content")

	body, contentType := multipartFile(t, "deck.pdf", "application/pdf", original)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/normalize", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	h.Normalize(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["type"] != "file" || resp["mimeType"] != "application/pdf" {
		t.Errorf("expected pdf file variant, got %v", resp)
	}

	decoded, err := base64.StdEncoding.DecodeString(resp["fileData"])
	if err != nil {
		t.Fatalf("fileData is not base64: %v", err)
	}
	if !bytes.Equal(decoded, original) {
		t.Error("fileData does not round-trip the original bytes")
	}
}

func TestNormalizeHandler_NoFile(t *testing.T) {
	h := NewDocumentHandler(services.NewNormalizer(nil))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("other", "value")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/normalize", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rr := httptest.NewRecorder()
	h.Normalize(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}

func TestNormalizeHandler_OversizedDeclaredLength(t *testing.T) {
	h := NewDocumentHandler(services.NewNormalizer(nil))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/normalize?lang=zh", strings.NewReader(""))
	req.ContentLength = services.MaxUploadBytes + 1

	rr := httptest.NewRecorder()
	h.Normalize(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "文件过大") {
		t.Errorf("expected localized Chinese message, got %s", rr.Body.String())
	}
}

func TestDocumentHandler_CurrentAndClear(t *testing.T) {
	h := NewDocumentHandler(services.NewNormalizer(nil))

	// fresh session starts as empty text
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/current", nil)
	rr := httptest.NewRecorder()
	h.Current(rr, req)

	var resp map[string]string
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp["type"] != "text" || resp["textContent"] != "" {
		t.Fatalf("expected empty text state, got %v", resp)
	}

	// upload installs the file as current
	body, contentType := multipartFile(t, "deck.pdf", "application/pdf", []byte("%PDF-1.4"))
	upload := httptest.NewRequest(http.MethodPost, "/api/v1/documents/normalize", body)
	upload.Header.Set("Content-Type", contentType)
	h.Normalize(httptest.NewRecorder(), upload)

	rr = httptest.NewRecorder()
	h.Current(rr, httptest.NewRequest(http.MethodGet, "/api/v1/documents/current", nil))
	resp = map[string]string{}
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp["type"] != "file" {
		t.Fatalf("expected file state after upload, got %v", resp)
	}

	// clear resets back to empty text
	rr = httptest.NewRecorder()
	h.Clear(rr, httptest.NewRequest(http.MethodDelete, "/api/v1/documents/current", nil))
	resp = map[string]string{}
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp["type"] != "text" || resp["textContent"] != "" {
		t.Fatalf("expected reset to empty text, got %v", resp)
	}
}

func TestDocumentHandler_SessionsAreIsolated(t *testing.T) {
	h := NewDocumentHandler(services.NewNormalizer(nil))

	body, contentType := multipartFile(t, "a.txt", "text/plain", []byte("session a"))
	upload := httptest.NewRequest(http.MethodPost, "/api/v1/documents/normalize", body)
	upload.Header.Set("Content-Type", contentType)
	upload.Header.Set("X-Session-ID", "a")
	h.Normalize(httptest.NewRecorder(), upload)

	other := httptest.NewRequest(http.MethodGet, "/api/v1/documents/current", nil)
	other.Header.Set("X-Session-ID", "b")
	rr := httptest.NewRecorder()
	h.Current(rr, other)

	var resp map[string]string
	json.NewDecoder(rr.Body).Decode(&resp)
	if resp["textContent"] != "" {
		t.Errorf("session b should not see session a's upload, got %v", resp)
	}
}

func TestNormalizeHandler_DocxWithoutExtractor(t *testing.T) {
	h := NewDocumentHandler(services.NewNormalizer(nil))

	body, contentType := multipartFile(t, "report.docx", "", []byte("zip bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/normalize", body)
	req.Header.Set("Content-Type", contentType)

	rr := httptest.NewRecorder()
	h.Normalize(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "EXTRACTION_FAILED") {
		t.Errorf("expected extraction failure code, got %s", rr.Body.String())
	}
}
