package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	_ "github.com/jackzampolin/fraglab/docs/swagger"
	"github.com/jackzampolin/fraglab/internal/analysis"
	"github.com/jackzampolin/fraglab/internal/api"
	"github.com/jackzampolin/fraglab/internal/composer"
	"github.com/jackzampolin/fraglab/internal/reconcile"
	"github.com/jackzampolin/fraglab/internal/reorder"
	"github.com/jackzampolin/fraglab/internal/runs"
	"github.com/jackzampolin/fraglab/internal/segment"
	"github.com/jackzampolin/fraglab/internal/svcctx"
	"github.com/jackzampolin/fraglab/internal/wire"
)

type stubAnalyzer struct {
	err     error
	results []reconcile.PerImageResult
}

func (a *stubAnalyzer) respond() (*analysis.Response, error) {
	if a.err != nil {
		return nil, a.err
	}
	return &analysis.Response{Success: true, Results: a.results}, nil
}

func (a *stubAnalyzer) Analyze(ctx context.Context, req analysis.AnalyzeRequest) (*analysis.Response, error) {
	return a.respond()
}

func (a *stubAnalyzer) AnalyzeCustom(ctx context.Context, f analysis.File, s wire.Structure) (*analysis.Response, error) {
	return a.respond()
}

func (a *stubAnalyzer) Reanalyze(ctx context.Context, filenames []string) (*analysis.Response, error) {
	return a.respond()
}

func (a *stubAnalyzer) JPEGInfo(ctx context.Context, f analysis.File) (*analysis.JPEGInfo, error) {
	if a.err != nil {
		return nil, a.err
	}
	return &analysis.JPEGInfo{Success: true, EntropyStart: 2, EntropyEnd: int64(len(f.Data))}, nil
}

type testEnv struct {
	handler http.Handler
	session *composer.Session
	store   *runs.Store
}

func newTestEnv(t *testing.T, analyzer composer.Analyzer) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := runs.NewStore(filepath.Join(t.TempDir(), "runs"))
	session := composer.New(composer.Config{ChunkSize: 4, FillerSize: 2}, analyzer,
		composer.WithStore(store), composer.WithLogger(logger))

	reg := api.NewRegistry()
	for _, ep := range All(Config{}) {
		reg.Register(ep)
	}
	mux := http.NewServeMux()
	reg.RegisterRoutes(mux, func(next http.HandlerFunc) http.HandlerFunc { return next })

	services := &svcctx.Services{Session: session, RunStore: store, Logger: logger}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r.WithContext(svcctx.WithServices(r.Context(), services)))
	})
	return &testEnv{handler: handler, session: session, store: store}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder, want int) T {
	t.Helper()
	var v T
	if rec.Code != want {
		t.Fatalf("status = %d, want %d: %s", rec.Code, want, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return v
}

func loadSource(t *testing.T, env *testEnv, size int) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cat.jpg")
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
	rec := env.do(t, http.MethodPost, "/api/source", LoadSourceRequest{Path: path})
	resp := decodeBody[StructureResponse](t, rec, http.StatusOK)
	if resp.Source != "cat.jpg" {
		t.Fatalf("unexpected source %q", resp.Source)
	}
}

func sourceOrder(resp StructureResponse) []string {
	var out []string
	for _, sv := range resp.Segments {
		out = append(out, sv.Key.String())
	}
	return out
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{segment.ErrInvalidInput, http.StatusBadRequest},
		{fmt.Errorf("move: %w", segment.ErrIndexOutOfRange), http.StatusBadRequest},
		{segment.ErrNotFound, http.StatusNotFound},
		{runs.ErrNotFound, http.StatusNotFound},
		{composer.ErrNoSource, http.StatusConflict},
		{composer.ErrSubmissionPending, http.StatusConflict},
		{reorder.ErrGestureActive, http.StatusConflict},
		{fmt.Errorf("%w: dial tcp", analysis.ErrServiceUnavailable), http.StatusServiceUnavailable},
		{analysis.ErrServiceError, http.StatusBadGateway},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestStructureEditing(t *testing.T) {
	env := newTestEnv(t, &stubAnalyzer{})

	t.Run("reset_without_source", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/structure/reset", nil)
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
		}
	})

	loadSource(t, env, 12)

	t.Run("insert_filler", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/structure/fillers", InsertFillerRequest{Variant: "zeros", Index: 1})
		resp := decodeBody[InsertFillerResponse](t, rec, http.StatusCreated)
		if resp.Inserted.FillerID == nil || *resp.Inserted.FillerID != 1 || resp.Inserted.Size != 2 {
			t.Errorf("unexpected inserted filler %+v", resp.Inserted)
		}
		want := []string{"chunk#0", "filler#1", "chunk#1", "chunk#2"}
		if diff := cmp.Diff(want, sourceOrder(resp.StructureResponse)); diff != "" {
			t.Errorf("order (-want +got):\n%s", diff)
		}
		if len(resp.GroundTruth) != 2 {
			t.Errorf("expected 2 ground-truth fragments, got %+v", resp.GroundTruth)
		}
	})

	t.Run("insert_unknown_variant", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/structure/fillers", InsertFillerRequest{Variant: "plaid"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("move", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/structure/move", MoveRequest{From: 3, To: 0, Side: "before"})
		resp := decodeBody[StructureResponse](t, rec, http.StatusOK)
		want := []string{"chunk#2", "chunk#0", "filler#1", "chunk#1"}
		if diff := cmp.Diff(want, sourceOrder(resp)); diff != "" {
			t.Errorf("order (-want +got):\n%s", diff)
		}
	})

	t.Run("move_out_of_range", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/structure/move", MoveRequest{From: 9, To: 0})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("move_bad_side", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/structure/move", MoveRequest{From: 0, To: 1, Side: "above"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("unknown_field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/structure/move", bytes.NewBufferString(`{"form":1}`))
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("remove_filler", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/structure/fillers/1", nil)
		resp := decodeBody[StructureResponse](t, rec, http.StatusOK)
		if len(resp.Segments) != 3 {
			t.Errorf("expected 3 segments after removal, got %d", len(resp.Segments))
		}

		if rec := env.do(t, http.MethodDelete, "/api/structure/fillers/1", nil); rec.Code != http.StatusNotFound {
			t.Errorf("second removal status = %d, want %d", rec.Code, http.StatusNotFound)
		}
		if rec := env.do(t, http.MethodDelete, "/api/structure/fillers/abc", nil); rec.Code != http.StatusBadRequest {
			t.Errorf("bad id status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("reset", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/structure/reset", nil)
		resp := decodeBody[StructureResponse](t, rec, http.StatusOK)
		want := []string{"chunk#0", "chunk#1", "chunk#2"}
		if diff := cmp.Diff(want, sourceOrder(resp)); diff != "" {
			t.Errorf("order (-want +got):\n%s", diff)
		}
	})

	t.Run("clear_source", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/source", nil)
		resp := decodeBody[StructureResponse](t, rec, http.StatusOK)
		if resp.Source != "" || len(resp.Segments) != 0 {
			t.Errorf("expected empty composition, got %+v", resp)
		}
	})
}

func TestDrop(t *testing.T) {
	env := newTestEnv(t, &stubAnalyzer{})
	loadSource(t, env, 12)

	random := segment.VariantRandom
	target := segment.ChunkKey(1)
	rec := env.do(t, http.MethodPost, "/api/structure/drop", composer.DropRequest{Variant: &random, Target: &target, Side: "after"})
	resp := decodeBody[DropResponse](t, rec, http.StatusOK)
	if !resp.Applied || resp.Index != 2 || resp.Inserted == nil {
		t.Fatalf("unexpected drop result %+v", resp)
	}
	if used := resp.Palette[0].Used; len(used) != 1 || used[0] != *resp.Inserted {
		t.Errorf("expected palette marker for filler %d, got %v", *resp.Inserted, used)
	}

	key := segment.ChunkKey(0)
	rec = env.do(t, http.MethodPost, "/api/structure/drop", composer.DropRequest{Key: &key, Tail: true})
	resp = decodeBody[DropResponse](t, rec, http.StatusOK)
	want := []string{"chunk#1", "filler#1", "chunk#2", "chunk#0"}
	if diff := cmp.Diff(want, sourceOrder(resp.StructureResponse)); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}

	rec = env.do(t, http.MethodPost, "/api/structure/drop", composer.DropRequest{Key: &key})
	resp = decodeBody[DropResponse](t, rec, http.StatusOK)
	if resp.Applied {
		t.Error("drop without a target should not apply")
	}

	missing := segment.FillerKey(42)
	if rec := env.do(t, http.MethodPost, "/api/structure/drop", composer.DropRequest{Key: &missing, Tail: true}); rec.Code != http.StatusNotFound {
		t.Errorf("missing key status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if rec := env.do(t, http.MethodPost, "/api/structure/drop", composer.DropRequest{}); rec.Code != http.StatusBadRequest {
		t.Errorf("empty gesture status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSubmitAndRuns(t *testing.T) {
	analyzer := &stubAnalyzer{results: []reconcile.PerImageResult{{
		Filename:         "cat.jpg",
		FragmentedImage:  "out/cat_fragmented.jpg",
		TotalFragments:   1,
		MatchedFragments: 1,
		FragmentComparisons: []reconcile.Comparison{
			{ActualFragmentNumber: 1, StartAccuracy: reconcile.Percent(97), EndAccuracy: reconcile.Percent(80)},
		},
	}}}
	env := newTestEnv(t, analyzer)

	if rec := env.do(t, http.MethodPost, "/api/submit", nil); rec.Code != http.StatusConflict {
		t.Errorf("submit without source status = %d, want %d", rec.Code, http.StatusConflict)
	}

	loadSource(t, env, 8)
	report := decodeBody[runs.Report](t, env.do(t, http.MethodPost, "/api/submit", nil), http.StatusOK)
	if len(report.Images) != 1 {
		t.Fatalf("expected one reconciled image, got %+v", report.Images)
	}
	rec := report.Images[0].Records[0]
	if rec.StartClass != reconcile.ClassHigh || rec.EndClass != reconcile.ClassLow {
		t.Errorf("unexpected classes %s/%s", rec.StartClass, rec.EndClass)
	}

	list := decodeBody[ListRunsResponse](t, env.do(t, http.MethodGet, "/api/runs", nil), http.StatusOK)
	if list.Total != 1 || list.Runs[0].ID != report.ID {
		t.Errorf("unexpected run list %+v", list)
	}

	got := decodeBody[runs.Report](t, env.do(t, http.MethodGet, "/api/runs/"+report.ID, nil), http.StatusOK)
	if got.Summary.TotalMatchedFragments != 1 {
		t.Errorf("unexpected stored summary %+v", got.Summary)
	}
	if rec := env.do(t, http.MethodGet, "/api/runs/not-a-run", nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing run status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	re := decodeBody[runs.Report](t, env.do(t, http.MethodPost, "/api/reanalyze", nil), http.StatusOK)
	if diff := cmp.Diff([]string{"cat_fragmented.jpg"}, re.Source); diff != "" {
		t.Errorf("reanalyze source (-want +got):\n%s", diff)
	}

	info := decodeBody[analysis.JPEGInfo](t, env.do(t, http.MethodPost, "/api/jpeg-info", nil), http.StatusOK)
	if info.EntropyEnd != 8 {
		t.Errorf("unexpected jpeg info %+v", info)
	}
}

func TestSubmit_ServiceErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unreachable", fmt.Errorf("%w: connection refused", analysis.ErrServiceUnavailable), http.StatusServiceUnavailable},
		{"failure", fmt.Errorf("%w (500): boom", analysis.ErrServiceError), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, &stubAnalyzer{err: tt.err})
			loadSource(t, env, 8)

			rec := env.do(t, http.MethodPost, "/api/submit", nil)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if env.session.Pending() {
				t.Error("guard should be released after failure")
			}
		})
	}
}

func TestMissingSession(t *testing.T) {
	mux := http.NewServeMux()
	reg := api.NewRegistry()
	for _, ep := range All(Config{}) {
		reg.Register(ep)
	}
	reg.RegisterRoutes(mux, func(next http.HandlerFunc) http.HandlerFunc { return next })

	for _, path := range []string{"/api/structure", "/api/runs"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s status = %d, want %d", path, rec.Code, http.StatusServiceUnavailable)
		}
	}
}

func TestSwagger(t *testing.T) {
	env := newTestEnv(t, &stubAnalyzer{})
	rec := env.do(t, http.MethodGet, "/swagger.json", nil)
	doc := decodeBody[map[string]any](t, rec, http.StatusOK)
	paths, _ := doc["paths"].(map[string]any)
	if _, ok := paths["/api/structure/drop"]; !ok {
		t.Errorf("expected drop route in swagger paths, got %d paths", len(paths))
	}
}

func TestBuildCommands(t *testing.T) {
	reg := api.NewRegistry()
	for _, ep := range All(Config{}) {
		reg.Register(ep)
	}
	root := reg.BuildCommands(func() string { return "http://localhost:8090" })

	for _, path := range [][]string{
		{"health"},
		{"submit"},
		{"source", "upload"},
		{"structure", "drop"},
		{"fillers", "add"},
		{"runs", "get"},
	} {
		cmd, _, err := root.Find(path)
		if err != nil || cmd == root {
			t.Errorf("command %v not found", path)
		}
	}
}
