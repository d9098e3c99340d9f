package endpoints

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/fraglab/internal/analysis"
	"github.com/jackzampolin/fraglab/internal/api"
	"github.com/jackzampolin/fraglab/internal/runs"
)

// outputReport prints a run, or only its summary when summaryOnly is set.
func outputReport(r *runs.Report, summaryOnly bool) error {
	if summaryOnly {
		return api.Output(struct {
			ID      string `json:"id"`
			Kind    string `json:"kind"`
			Summary any    `json:"summary"`
		}{r.ID, string(r.Kind), r.Summary})
	}
	return api.Output(r)
}

// SubmitEndpoint handles POST /api/submit.
type SubmitEndpoint struct{}

var _ api.Endpoint = (*SubmitEndpoint)(nil)

func (e *SubmitEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/submit", e.handler
}

func (e *SubmitEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Submit the composition
//	@Description	Sends the source file and the live structure to the Analysis Service and returns the reconciled run
//	@Tags			analysis
//	@Produce		json
//	@Success		200	{object}	runs.Report
//	@Failure		400	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Failure		502	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/submit [post]
func (e *SubmitEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	report, err := s.Submit(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (e *SubmitEndpoint) Command(getServerURL func() string) *cobra.Command {
	var summaryOnly bool
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit the composition for analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var report runs.Report
			if err := client.Post(cmd.Context(), "/api/submit", nil, &report); err != nil {
				return err
			}
			return outputReport(&report, summaryOnly)
		},
	}
	cmd.Flags().BoolVar(&summaryOnly, "summary", false, "Print only the run summary")
	return cmd
}

// AnalyzeEndpoint handles POST /api/analyze with multipart files.
type AnalyzeEndpoint struct{}

var _ api.Endpoint = (*AnalyzeEndpoint)(nil)

func (e *AnalyzeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/analyze", e.handler
}

func (e *AnalyzeEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Batch analysis
//	@Description	Forwards uploaded files to the Analysis Service for fragmentation and detection
//	@Tags			analysis
//	@Accept			mpfd
//	@Produce		json
//	@Param			files			formData	file	true	"Images"
//	@Param			fragment		formData	bool	false	"Fragment before detection"
//	@Param			insertionSize	formData	int		false	"Filler size class in KB"
//	@Success		200				{object}	runs.Report
//	@Failure		400				{object}	ErrorResponse
//	@Failure		409				{object}	ErrorResponse
//	@Failure		502				{object}	ErrorResponse
//	@Failure		503				{object}	ErrorResponse
//	@Router			/api/analyze [post]
func (e *AnalyzeEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	req := analysis.AnalyzeRequest{Fragment: r.FormValue("fragment") == "true"}
	if v := r.FormValue("insertionSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "insertionSize must be a non-negative integer")
			return
		}
		req.InsertionSizeKB = n
	}
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to open %s: %v", fh.Filename, err))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read %s: %v", fh.Filename, err))
			return
		}
		req.Files = append(req.Files, analysis.File{Name: fh.Filename, Data: data})
	}

	report, err := s.Analyze(r.Context(), req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (e *AnalyzeEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		fragment      bool
		insertionSize int
		summaryOnly   bool
	)
	cmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Run batch fragmentation and detection on local files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			fields := map[string]string{
				"fragment":      strconv.FormatBool(fragment),
				"insertionSize": strconv.Itoa(insertionSize),
			}
			var report runs.Report
			if err := client.Upload(cmd.Context(), "/api/analyze", "files", args, fields, &report); err != nil {
				return err
			}
			return outputReport(&report, summaryOnly)
		},
	}
	cmd.Flags().BoolVar(&fragment, "fragment", true, "Fragment the files before detection")
	cmd.Flags().IntVar(&insertionSize, "insertion-size", 0, "Filler size class in KB (0 lets the service choose)")
	cmd.Flags().BoolVar(&summaryOnly, "summary", false, "Print only the run summary")
	return cmd
}

// ReanalyzeRequest names fragmented files already known to the service.
type ReanalyzeRequest struct {
	Filenames []string `json:"filenames,omitempty"`
}

// ReanalyzeEndpoint handles POST /api/reanalyze.
type ReanalyzeEndpoint struct{}

var _ api.Endpoint = (*ReanalyzeEndpoint)(nil)

func (e *ReanalyzeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/reanalyze", e.handler
}

func (e *ReanalyzeEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Rerun detection
//	@Description	Reruns detection on fragmented files. With no filenames the files of the latest run are used
//	@Tags			analysis
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ReanalyzeRequest	false	"Files"
//	@Success		200		{object}	runs.Report
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/reanalyze [post]
func (e *ReanalyzeEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	var req ReanalyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	report, err := s.Reanalyze(r.Context(), req.Filenames)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (e *ReanalyzeEndpoint) Command(getServerURL func() string) *cobra.Command {
	var summaryOnly bool
	cmd := &cobra.Command{
		Use:   "reanalyze [filename]...",
		Short: "Rerun detection on fragmented files (default: the latest run)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var report runs.Report
			if err := client.Post(cmd.Context(), "/api/reanalyze", ReanalyzeRequest{Filenames: args}, &report); err != nil {
				return err
			}
			return outputReport(&report, summaryOnly)
		},
	}
	cmd.Flags().BoolVar(&summaryOnly, "summary", false, "Print only the run summary")
	return cmd
}

// JPEGInfoEndpoint handles POST /api/jpeg-info.
type JPEGInfoEndpoint struct{}

var _ api.Endpoint = (*JPEGInfoEndpoint)(nil)

func (e *JPEGInfoEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/jpeg-info", e.handler
}

func (e *JPEGInfoEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Entropy region of the source
//	@Description	Asks the Analysis Service where the entropy-coded data of the loaded source lies
//	@Tags			analysis
//	@Produce		json
//	@Success		200	{object}	analysis.JPEGInfo
//	@Failure		409	{object}	ErrorResponse
//	@Failure		502	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/jpeg-info [post]
func (e *JPEGInfoEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	info, err := s.JPEGInfo(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (e *JPEGInfoEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "jpeg-info",
		Short: "Show the entropy-coded region of the loaded source",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var info analysis.JPEGInfo
			if err := client.Post(cmd.Context(), "/api/jpeg-info", nil, &info); err != nil {
				return err
			}
			return api.Output(info)
		},
	}
}
