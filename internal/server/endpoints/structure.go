package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/fraglab/internal/api"
	"github.com/jackzampolin/fraglab/internal/composer"
	"github.com/jackzampolin/fraglab/internal/segment"
)

// SegmentView is one segment of the live sequence with its drag key.
type SegmentView struct {
	Index       int         `json:"index"`
	Key         segment.Key `json:"key"`
	SourceIndex *int        `json:"sourceIndex,omitempty"`
	FillerID    *int        `json:"fillerId,omitempty"`
	Variant     string      `json:"variant,omitempty"`
	Size        int64       `json:"size"`
}

// StructureResponse is the live composition.
type StructureResponse struct {
	composer.View
	Segments []SegmentView `json:"segments"`
}

func newStructureResponse(v composer.View) StructureResponse {
	resp := StructureResponse{View: v, Segments: make([]SegmentView, 0, len(v.Sequence))}
	for i, seg := range v.Sequence {
		sv := SegmentView{Index: i, Key: seg.Key(), Size: seg.Size}
		if seg.IsFiller() {
			id := seg.FillerID
			sv.FillerID = &id
			sv.Variant = string(seg.Variant)
		} else {
			idx := seg.SourceIndex
			sv.SourceIndex = &idx
		}
		resp.Segments = append(resp.Segments, sv)
	}
	return resp
}

// writeStructure answers with the session's current composition.
func writeStructure(w http.ResponseWriter, status int, s *composer.Session) {
	writeJSON(w, status, newStructureResponse(s.View()))
}

// GetStructureEndpoint handles GET /api/structure.
type GetStructureEndpoint struct{}

var _ api.Endpoint = (*GetStructureEndpoint)(nil)

func (e *GetStructureEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/structure", e.handler
}

func (e *GetStructureEndpoint) RequiresInit() bool { return true }

func (e *GetStructureEndpoint) Group() string { return "structure" }

// handler godoc
//
//	@Summary		Get the composition
//	@Description	Returns the live sequence, its wire form, the ground truth and the palette
//	@Tags			structure
//	@Produce		json
//	@Success		200	{object}	StructureResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/structure [get]
func (e *GetStructureEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	writeStructure(w, http.StatusOK, s)
}

func (e *GetStructureEndpoint) Command(getServerURL func() string) *cobra.Command {
	var wireOnly bool
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show the live composition",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StructureResponse
			if err := client.Get(cmd.Context(), "/api/structure", &resp); err != nil {
				return err
			}
			if wireOnly {
				return api.Output(resp.Structure)
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().BoolVar(&wireOnly, "wire", false, "Print only the structure sent to the Analysis Service")
	return cmd
}

// ResetStructureEndpoint handles POST /api/structure/reset.
type ResetStructureEndpoint struct{}

var _ api.Endpoint = (*ResetStructureEndpoint)(nil)

func (e *ResetStructureEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/structure/reset", e.handler
}

func (e *ResetStructureEndpoint) RequiresInit() bool { return true }

func (e *ResetStructureEndpoint) Group() string { return "structure" }

// handler godoc
//
//	@Summary		Reset the composition
//	@Description	Drops every filler and restores ascending chunk order
//	@Tags			structure
//	@Produce		json
//	@Success		200	{object}	StructureResponse
//	@Failure		409	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/structure/reset [post]
func (e *ResetStructureEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	if err := s.ResetStructure(); err != nil {
		writeErr(w, err)
		return
	}
	writeStructure(w, http.StatusOK, s)
}

func (e *ResetStructureEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Drop all fillers and restore chunk order",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StructureResponse
			if err := client.Post(cmd.Context(), "/api/structure/reset", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp.Segments)
		},
	}
}
