package assets

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"printframe/stores/memory"
)

func upload(t *testing.T, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	HandleUpload(memory.NewStore()).ServeHTTP(rec, req)
	return rec
}

func TestHandleUpload(t *testing.T) {
	rec := upload(t, "/assets?name=logo.png", []byte("png-bytes"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["uri"] == "" {
		t.Error("upload returned no uri")
	}
}

func TestHandleUpload_MissingName(t *testing.T) {
	rec := upload(t, "/assets", []byte("png-bytes"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleUpload_EmptyBody(t *testing.T) {
	rec := upload(t, "/assets?name=logo.png", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleUpload_TooLarge(t *testing.T) {
	rec := upload(t, "/assets?name=huge.png", []byte(strings.Repeat("x", maxUploadBytes+1)))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestHandleGet_RoundTrip(t *testing.T) {
	store := memory.NewStore()
	artwork := []byte("png-bytes")

	req := httptest.NewRequest(http.MethodPost, "/assets?name=logo.png", bytes.NewReader(artwork))
	rec := httptest.NewRecorder()
	HandleUpload(store).ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	req = httptest.NewRequest(http.MethodGet, "/assets?uri="+url.QueryEscape(resp["uri"]), nil)
	rec = httptest.NewRecorder()
	HandleGet(store).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !bytes.Equal(rec.Body.Bytes(), artwork) {
		t.Error("retrieved asset differs from the upload")
	}
}

func TestHandleGet_MissingURI(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/assets", nil)
	rec := httptest.NewRecorder()
	HandleGet(memory.NewStore()).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleGet_UnknownURI(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/assets?uri="+url.QueryEscape("mem://assets/anonymous/ghost"), nil)
	rec := httptest.NewRecorder()
	HandleGet(memory.NewStore()).ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
