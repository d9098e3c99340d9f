package endpoints

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/fraglab/internal/api"
	"github.com/jackzampolin/fraglab/internal/runs"
	"github.com/jackzampolin/fraglab/internal/stats"
	"github.com/jackzampolin/fraglab/internal/svcctx"
)

// RunSummary is one entry of the run listing.
type RunSummary struct {
	ID        string           `json:"id"`
	Kind      runs.Kind        `json:"kind"`
	CreatedAt time.Time        `json:"createdAt"`
	Source    []string         `json:"source,omitempty"`
	Summary   stats.RunSummary `json:"summary"`
}

// ListRunsResponse is the response for listing runs.
type ListRunsResponse struct {
	Runs  []RunSummary `json:"runs"`
	Total int          `json:"total"`
}

// ListRunsEndpoint handles GET /api/runs.
type ListRunsEndpoint struct{}

var _ api.Endpoint = (*ListRunsEndpoint)(nil)

func (e *ListRunsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/runs", e.handler
}

func (e *ListRunsEndpoint) RequiresInit() bool { return true }

func (e *ListRunsEndpoint) Group() string { return "runs" }

// handler godoc
//
//	@Summary		List runs
//	@Description	Lists saved analysis runs, newest first
//	@Tags			runs
//	@Produce		json
//	@Success		200	{object}	ListRunsResponse
//	@Failure		500	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/runs [get]
func (e *ListRunsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.RunStoreFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "run store not initialized")
		return
	}

	reports, err := store.List()
	if err != nil {
		writeErr(w, err)
		return
	}

	resp := ListRunsResponse{Runs: make([]RunSummary, 0, len(reports))}
	for _, rep := range reports {
		resp.Runs = append(resp.Runs, RunSummary{
			ID:        rep.ID,
			Kind:      rep.Kind,
			CreatedAt: rep.CreatedAt,
			Source:    rep.Source,
			Summary:   rep.Summary,
		})
	}
	resp.Total = len(resp.Runs)
	writeJSON(w, http.StatusOK, resp)
}

func (e *ListRunsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ListRunsResponse
			if err := client.Get(cmd.Context(), "/api/runs", &resp); err != nil {
				return err
			}
			if api.GetOutputFormat() == api.OutputFormatJSON {
				return api.Output(resp)
			}
			for _, run := range resp.Runs {
				fmt.Printf("%s  %-14s  %s  images=%d matched=%d start=%s end=%s\n",
					run.ID, run.Kind, run.CreatedAt.Local().Format(time.DateTime),
					run.Summary.TotalImages, run.Summary.TotalMatchedFragments,
					run.Summary.AvgAllStartAccuracy, run.Summary.AvgAllEndAccuracy)
			}
			return nil
		},
	}
}

// GetRunEndpoint handles GET /api/runs/{id}.
type GetRunEndpoint struct{}

var _ api.Endpoint = (*GetRunEndpoint)(nil)

func (e *GetRunEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/runs/{id}", e.handler
}

func (e *GetRunEndpoint) RequiresInit() bool { return true }

func (e *GetRunEndpoint) Group() string { return "runs" }

// handler godoc
//
//	@Summary		Get run by ID
//	@Description	Returns a saved run with its reconciliation and summary
//	@Tags			runs
//	@Produce		json
//	@Param			id	path		string	true	"Run ID"
//	@Success		200	{object}	runs.Report
//	@Failure		404	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/runs/{id} [get]
func (e *GetRunEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.RunStoreFrom(r.Context())
	if store == nil {
		writeError(w, http.StatusServiceUnavailable, "run store not initialized")
		return
	}

	report, err := store.Load(r.PathValue("id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (e *GetRunEndpoint) Command(getServerURL func() string) *cobra.Command {
	var summaryOnly bool
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var report runs.Report
			if err := client.Get(cmd.Context(), "/api/runs/"+args[0], &report); err != nil {
				return err
			}
			return outputReport(&report, summaryOnly)
		},
	}
	cmd.Flags().BoolVar(&summaryOnly, "summary", false, "Print only the run summary")
	return cmd
}
