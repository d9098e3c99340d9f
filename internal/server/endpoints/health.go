package endpoints

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/fraglab/internal/api"
	"github.com/jackzampolin/fraglab/internal/svcctx"
	"github.com/jackzampolin/fraglab/version"
)

// analysisProbeTimeout bounds the service probe made by /status.
const analysisProbeTimeout = 2 * time.Second

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status string `json:"status"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

var _ api.Endpoint = (*HealthEndpoint)(nil)

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Health check
//	@Description	Returns ok when the HTTP server is responding
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health [get]
func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			return nil
		},
	}
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server      string            `json:"server"`
	Version     string            `json:"version"`
	Analysis    AnalysisStatus    `json:"analysis"`
	Composition CompositionStatus `json:"composition"`
}

// AnalysisStatus shows whether the Analysis Service answers.
type AnalysisStatus struct {
	URL       string `json:"url"`
	Reachable bool   `json:"reachable"`
	Service   string `json:"service,omitempty"`
	Error     string `json:"error,omitempty"`
}

// CompositionStatus summarizes the live editing session.
type CompositionStatus struct {
	Source     string `json:"source,omitempty"`
	Segments   int    `json:"segments"`
	Fillers    int    `json:"fillers"`
	TotalBytes int64  `json:"totalBytes"`
	Pending    bool   `json:"pending"`
	LatestRun  string `json:"latestRun,omitempty"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct{}

var _ api.Endpoint = (*StatusEndpoint)(nil)

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Server status
//	@Description	Reports Analysis Service reachability and the live composition
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Router			/status [get]
func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Server:  "running",
		Version: version.GitRelease,
	}

	if client := svcctx.AnalysisFrom(r.Context()); client != nil {
		resp.Analysis.URL = client.BaseURL()
		ctx, cancel := context.WithTimeout(r.Context(), analysisProbeTimeout)
		h, err := client.Health(ctx)
		cancel()
		if err != nil {
			resp.Analysis.Error = err.Error()
		} else {
			resp.Analysis.Reachable = true
			resp.Analysis.Service = h.Service
		}
	} else {
		resp.Analysis.Error = "not_initialized"
	}

	if session := svcctx.SessionFrom(r.Context()); session != nil {
		v := session.View()
		resp.Composition = CompositionStatus{
			Source:     v.Source,
			Segments:   len(v.Sequence),
			TotalBytes: v.TotalBytes,
			Pending:    v.Pending,
			LatestRun:  v.LatestRun,
		}
		for _, seg := range v.Sequence {
			if seg.IsFiller() {
				resp.Composition.Fillers++
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
