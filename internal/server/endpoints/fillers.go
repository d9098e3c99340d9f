package endpoints

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/fraglab/internal/api"
	"github.com/jackzampolin/fraglab/internal/segment"
)

// InsertFillerRequest places a filler of the given variant at index.
type InsertFillerRequest struct {
	Variant string `json:"variant,omitempty"`
	Index   int    `json:"index"`
}

// InsertFillerResponse is the composition plus the inserted filler.
type InsertFillerResponse struct {
	Inserted SegmentView `json:"inserted"`
	StructureResponse
}

// InsertFillerEndpoint handles POST /api/structure/fillers.
type InsertFillerEndpoint struct{}

var _ api.Endpoint = (*InsertFillerEndpoint)(nil)

func (e *InsertFillerEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/structure/fillers", e.handler
}

func (e *InsertFillerEndpoint) RequiresInit() bool { return true }

func (e *InsertFillerEndpoint) Group() string { return "fillers" }

// handler godoc
//
//	@Summary		Insert a filler
//	@Description	Inserts a filler at index, clamped to the sequence bounds. An empty variant uses the configured default
//	@Tags			structure
//	@Accept			json
//	@Produce		json
//	@Param			request	body		InsertFillerRequest	true	"Filler"
//	@Success		201		{object}	InsertFillerResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/structure/fillers [post]
func (e *InsertFillerEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req InsertFillerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	var variant segment.Variant
	if req.Variant != "" {
		v, err := segment.ParseVariant(req.Variant)
		if err != nil {
			writeErr(w, err)
			return
		}
		variant = v
	}

	seg, err := s.InsertFiller(variant, req.Index)
	if err != nil {
		writeErr(w, err)
		return
	}

	resp := InsertFillerResponse{StructureResponse: newStructureResponse(s.View())}
	for _, sv := range resp.Segments {
		if sv.Key == seg.Key() {
			resp.Inserted = sv
			break
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (e *InsertFillerEndpoint) Command(getServerURL func() string) *cobra.Command {
	var req InsertFillerRequest
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Insert a filler",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp InsertFillerResponse
			if err := client.Post(cmd.Context(), "/api/structure/fillers", req, &resp); err != nil {
				return err
			}
			fmt.Printf("Inserted filler %d (%s) at %d\n", *resp.Inserted.FillerID, resp.Inserted.Variant, resp.Inserted.Index)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Variant, "variant", "", "Filler variant: random, zeros or jpeg")
	cmd.Flags().IntVar(&req.Index, "index", 0, "Insertion index (clamped to the sequence)")
	return cmd
}

// RemoveFillerEndpoint handles DELETE /api/structure/fillers/{id}.
type RemoveFillerEndpoint struct{}

var _ api.Endpoint = (*RemoveFillerEndpoint)(nil)

func (e *RemoveFillerEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/structure/fillers/{id}", e.handler
}

func (e *RemoveFillerEndpoint) RequiresInit() bool { return true }

func (e *RemoveFillerEndpoint) Group() string { return "fillers" }

// handler godoc
//
//	@Summary		Remove a filler
//	@Description	Removes the filler with the given id
//	@Tags			structure
//	@Produce		json
//	@Param			id	path		int	true	"Filler ID"
//	@Success		200	{object}	StructureResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/structure/fillers/{id} [delete]
func (e *RemoveFillerEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "filler id must be an integer")
		return
	}
	if err := s.RemoveFiller(id); err != nil {
		writeErr(w, err)
		return
	}
	writeStructure(w, http.StatusOK, s)
}

func (e *RemoveFillerEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a filler",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			if err := client.Delete(cmd.Context(), "/api/structure/fillers/"+args[0], nil); err != nil {
				return err
			}
			fmt.Printf("Removed filler %s\n", args[0])
			return nil
		},
	}
}

// ClearFillersEndpoint handles DELETE /api/structure/fillers.
type ClearFillersEndpoint struct{}

var _ api.Endpoint = (*ClearFillersEndpoint)(nil)

func (e *ClearFillersEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/structure/fillers", e.handler
}

func (e *ClearFillersEndpoint) RequiresInit() bool { return true }

func (e *ClearFillersEndpoint) Group() string { return "fillers" }

// handler godoc
//
//	@Summary		Clear fillers
//	@Description	Removes every filler and keeps the chunk order
//	@Tags			structure
//	@Produce		json
//	@Success		200	{object}	StructureResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/structure/fillers [delete]
func (e *ClearFillersEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	s.ClearFillers()
	writeStructure(w, http.StatusOK, s)
}

func (e *ClearFillersEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every filler",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			if err := client.Delete(cmd.Context(), "/api/structure/fillers", nil); err != nil {
				return err
			}
			fmt.Println("Fillers cleared")
			return nil
		},
	}
}
