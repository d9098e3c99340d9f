package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackzampolin/fraglab/internal/segment"
	"github.com/jackzampolin/fraglab/internal/wire"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeJSON(w, http.StatusOK, map[string]string{"service": "jpeg-fragments"})
	}))
	defer srv.Close()

	h, err := NewClient(srv.URL + "/api/").Health(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if h.Service != "jpeg-fragments" {
		t.Errorf("unexpected service %q", h.Service)
	}
}

func TestHealth_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Health(context.Background())
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestSetBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"service": "moved"})
	}))
	defer srv.Close()

	c := NewClient("http://127.0.0.1:1/api")
	c.SetBaseURL(srv.URL + "/")
	if c.BaseURL() != srv.URL {
		t.Errorf("expected trimmed base url %s, got %s", srv.URL, c.BaseURL())
	}
	if _, err := c.Health(context.Background()); err != nil {
		t.Errorf("expected the new target to answer: %v", err)
	}

	c.SetBaseURL("")
	if c.BaseURL() != DefaultBaseURL {
		t.Errorf("expected default base url, got %s", c.BaseURL())
	}
}

func TestWaitReady(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "starting"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"service": "ok"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if err := c.WaitReady(context.Background(), time.Second, 10*time.Millisecond); err != nil {
		t.Fatalf("WaitReady: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 health calls, got %d", calls.Load())
	}
}

func TestWaitReady_GivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "down"})
	}))
	defer srv.Close()

	err := NewClient(srv.URL).WaitReady(context.Background(), 30*time.Millisecond, 10*time.Millisecond)
	if !errors.Is(err, ErrServiceError) {
		t.Errorf("expected ErrServiceError, got %v", err)
	}
}

func TestAnalyzeCustom(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze-custom" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if r.FormValue("fragment") != "true" {
			t.Errorf("expected fragment=true, got %q", r.FormValue("fragment"))
		}
		if err := wire.ValidateJSON([]byte(r.FormValue("structure"))); err != nil {
			t.Errorf("structure did not validate: %v", err)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		data, _ := io.ReadAll(f)
		if hdr.Filename != "cat.jpg" || string(data) != "jpegbytes" {
			t.Errorf("unexpected upload %s %q", hdr.Filename, data)
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"results": []map[string]any{{
				"filename":       "cat.jpg",
				"totalFragments": 2,
				"fragmentComparisons": []map[string]any{
					{"actualFragmentNumber": 1, "startAccuracy": "100.00%", "endAccuracy": "Not Detected"},
				},
			}},
		})
	}))
	defer srv.Close()

	m := segment.NewModel()
	m.Initialize(9, 4)
	m.InsertFiller(segment.VariantRandom, 1)

	resp, err := NewClient(srv.URL).AnalyzeCustom(context.Background(), File{Name: "cat.jpg", Data: []byte("jpegbytes")}, wire.FromModel(m))
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 1 || resp.Results[0].TotalFragments != 2 {
		t.Fatalf("unexpected results %+v", resp.Results)
	}
	c := resp.Results[0].FragmentComparisons[0]
	if !c.StartAccuracy.Detected || c.StartAccuracy.Value != 100 || c.EndAccuracy.Detected {
		t.Errorf("unexpected accuracies %+v", c)
	}
}

func TestAnalyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(1 << 20)
		if n := len(r.MultipartForm.File["files"]); n != 2 {
			t.Errorf("expected 2 files, got %d", n)
		}
		if r.FormValue("fragment") != "false" || r.FormValue("insertionSize") != "8" {
			t.Errorf("unexpected fields fragment=%q insertionSize=%q", r.FormValue("fragment"), r.FormValue("insertionSize"))
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "totalImages": 2, "results": []any{}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.Analyze(context.Background(), AnalyzeRequest{
		Files:           []File{{Name: "a.jpg", Data: []byte("a")}, {Name: "b.jpg", Data: []byte("b")}},
		InsertionSizeKB: 8,
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.TotalImages != 2 {
		t.Errorf("expected 2 images, got %d", resp.TotalImages)
	}

	if _, err := c.Analyze(context.Background(), AnalyzeRequest{}); !errors.Is(err, segment.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for no files, got %v", err)
	}
}

func TestReanalyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Filenames []string `json:"filenames"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if len(body.Filenames) != 1 || body.Filenames[0] != "a_fragmented.jpg" {
			t.Errorf("unexpected filenames %v", body.Filenames)
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "results": []any{}})
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).Reanalyze(context.Background(), []string{"a_fragmented.jpg"}); err != nil {
		t.Fatal(err)
	}
}

func TestServiceErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		wantMsg string
	}{
		{"success false", http.StatusOK, map[string]any{"success": false, "error": "No filenames provided"}, "No filenames provided"},
		{"bad status", http.StatusBadRequest, map[string]any{"success": false, "error": "bad upload"}, "bad upload"},
		{"plain text", http.StatusInternalServerError, "oops", "oops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL).Reanalyze(context.Background(), []string{"x"})
			if !errors.Is(err, ErrServiceError) {
				t.Fatalf("expected ErrServiceError, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected message %q in %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestJPEGInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, JPEGInfo{Success: true, EntropyStart: 623, EntropyEnd: 40000, HeaderEndBlock: 0, SafeNoiseStartBlock: 1})
	}))
	defer srv.Close()

	info, err := NewClient(srv.URL).JPEGInfo(context.Background(), File{Name: "a.jpg", Data: []byte{0xff, 0xd8}})
	if err != nil {
		t.Fatal(err)
	}
	if info.EntropyStart != 623 || info.SafeNoiseStartBlock != 1 {
		t.Errorf("unexpected info %+v", info)
	}
}
