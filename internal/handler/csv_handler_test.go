package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/thumbgrab/thumbnail-service-go/internal/ingest"
	"github.com/thumbgrab/thumbnail-service-go/internal/models"
)

func uploadCSV(t *testing.T, handler *CSVHandler, filename, contentType, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/v1/csv", &buf)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	handler.Upload(c)
	return w
}

func TestCSVHandler_Upload(t *testing.T) {
	handler := NewCSVHandler(ingest.New(0))

	content := "url,title,folder\n" +
		"https://youtu.be/" + testVideoID + ",Test Video,Music\n" +
		"not-a-url,Broken,\n" +
		"https://youtu.be/" + testVideoID + ",Dupe,Music\n"
	w := uploadCSV(t, handler, "videos.csv", "text/csv", content)

	if w.Code != http.StatusOK {
		t.Fatalf("Upload() status = %d, want %d, body %s", w.Code, http.StatusOK, w.Body.String())
	}

	var result models.ParseResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if result.RawCount != 3 {
		t.Errorf("rawCount = %d, want 3", result.RawCount)
	}
	if result.ValidCount != 1 {
		t.Errorf("validCount = %d, want 1", result.ValidCount)
	}
	if result.InvalidCount != 1 {
		t.Errorf("invalidCount = %d, want 1", result.InvalidCount)
	}
	if len(result.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(result.Rows))
	}
	if result.Rows[0].Status != models.RowStatusValid {
		t.Errorf("row 0 status = %q, want valid", result.Rows[0].Status)
	}
	if result.Rows[2].Status != models.RowStatusDuplicate {
		t.Errorf("row 2 status = %q, want duplicate", result.Rows[2].Status)
	}
}

func TestCSVHandler_Upload_WrongExtension(t *testing.T) {
	handler := NewCSVHandler(ingest.New(0))

	w := uploadCSV(t, handler, "videos.xlsx", "text/csv", "url\nhttps://youtu.be/"+testVideoID+"\n")

	if w.Code != http.StatusBadRequest {
		t.Errorf("Upload() status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if !strings.Contains(w.Body.String(), ".csv") {
		t.Errorf("Upload() body = %s, want .csv rejection message", w.Body.String())
	}
}

func TestCSVHandler_Upload_WrongContentType(t *testing.T) {
	handler := NewCSVHandler(ingest.New(0))

	w := uploadCSV(t, handler, "videos.csv", "application/pdf", "url\n")

	if w.Code != http.StatusBadRequest {
		t.Errorf("Upload() status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCSVHandler_Upload_MissingFile(t *testing.T) {
	handler := NewCSVHandler(ingest.New(0))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/v1/csv", nil)
	handler.Upload(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Upload() status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCSVHandler_Upload_EmptyFile(t *testing.T) {
	handler := NewCSVHandler(ingest.New(0))

	w := uploadCSV(t, handler, "empty.csv", "text/csv", "")

	if w.Code != http.StatusBadRequest {
		t.Errorf("Upload() status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCSVHandler_Upload_TooManyRows(t *testing.T) {
	handler := NewCSVHandler(ingest.New(2))

	content := "https://youtu.be/aaaaaaaaaaa\nhttps://youtu.be/bbbbbbbbbbb\nhttps://youtu.be/ccccccccccc\n"
	w := uploadCSV(t, handler, "big.csv", "text/csv", content)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Upload() status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
