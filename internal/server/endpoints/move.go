package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/fraglab/internal/api"
	"github.com/jackzampolin/fraglab/internal/composer"
	"github.com/jackzampolin/fraglab/internal/reorder"
	"github.com/jackzampolin/fraglab/internal/segment"
)

// MoveRequest relocates the segment at From to the given side of the
// segment at To.
type MoveRequest struct {
	From int    `json:"from"`
	To   int    `json:"to"`
	Side string `json:"side,omitempty"`
}

// MoveEndpoint handles POST /api/structure/move.
type MoveEndpoint struct{}

var _ api.Endpoint = (*MoveEndpoint)(nil)

func (e *MoveEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/structure/move", e.handler
}

func (e *MoveEndpoint) RequiresInit() bool { return true }

func (e *MoveEndpoint) Group() string { return "structure" }

// handler godoc
//
//	@Summary		Move a segment
//	@Description	Moves the segment at from before or after the segment at to
//	@Tags			structure
//	@Accept			json
//	@Produce		json
//	@Param			request	body		MoveRequest	true	"Move"
//	@Success		200		{object}	StructureResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/structure/move [post]
func (e *MoveEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req MoveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	side, err := segment.ParseSide(req.Side)
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := s.Move(req.From, req.To, side); err != nil {
		writeErr(w, err)
		return
	}
	writeStructure(w, http.StatusOK, s)
}

func (e *MoveEndpoint) Command(getServerURL func() string) *cobra.Command {
	var req MoveRequest
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move a segment next to another",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StructureResponse
			if err := client.Post(cmd.Context(), "/api/structure/move", req, &resp); err != nil {
				return err
			}
			return api.Output(resp.Segments)
		},
	}
	cmd.Flags().IntVar(&req.From, "from", 0, "Index of the segment to move")
	cmd.Flags().IntVar(&req.To, "to", 0, "Index of the target segment")
	cmd.Flags().StringVar(&req.Side, "side", "before", "Side of the target: before or after")
	return cmd
}

// DropResponse is the gesture outcome plus the composition.
type DropResponse struct {
	Applied  bool `json:"applied"`
	Index    int  `json:"index"`
	Inserted *int `json:"insertedFillerId,omitempty"`
	StructureResponse
}

// DropEndpoint handles POST /api/structure/drop.
type DropEndpoint struct{}

var _ api.Endpoint = (*DropEndpoint)(nil)

func (e *DropEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/structure/drop", e.handler
}

func (e *DropEndpoint) RequiresInit() bool { return true }

func (e *DropEndpoint) Group() string { return "structure" }

// handler godoc
//
//	@Summary		Drop a dragged item
//	@Description	Runs one drag gesture: a segment key or a palette variant dropped beside a target segment, at the tail, or nowhere
//	@Tags			structure
//	@Accept			json
//	@Produce		json
//	@Param			request	body		composer.DropRequest	true	"Gesture"
//	@Success		200		{object}	DropResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/structure/drop [post]
func (e *DropEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req composer.DropRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	res, err := s.Drop(req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newDropResponse(res, s))
}

func newDropResponse(res reorder.Result, s *composer.Session) DropResponse {
	resp := DropResponse{
		Applied:           res.Applied,
		Index:             res.Index,
		StructureResponse: newStructureResponse(s.View()),
	}
	if res.Inserted != nil {
		id := res.Inserted.FillerID
		resp.Inserted = &id
	}
	return resp
}

func (e *DropEndpoint) Command(getServerURL func() string) *cobra.Command {
	var (
		chunk, filler, onChunk, onFiller int
		variant, side                    string
		tail                             bool
	)
	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Drag a segment or palette filler onto a target",
		Long: `Drop performs one drag gesture.

Drag source: --chunk N, --filler ID or --variant NAME (a new palette filler).
Drop target: --on-chunk N or --on-filler ID with --side, or --tail.

Examples:
  fraglab api structure drop --chunk 4 --on-chunk 0 --side before
  fraglab api structure drop --variant zeros --on-chunk 2 --side after
  fraglab api structure drop --filler 1 --tail`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req composer.DropRequest
			flags := cmd.Flags()
			switch {
			case flags.Changed("chunk"):
				k := segment.ChunkKey(chunk)
				req.Key = &k
			case flags.Changed("filler"):
				k := segment.FillerKey(filler)
				req.Key = &k
			}
			if flags.Changed("variant") {
				v := segment.Variant(variant)
				req.Variant = &v
			}
			switch {
			case flags.Changed("on-chunk"):
				k := segment.ChunkKey(onChunk)
				req.Target = &k
			case flags.Changed("on-filler"):
				k := segment.FillerKey(onFiller)
				req.Target = &k
			}
			req.Side = side
			req.Tail = tail

			client := api.NewClient(getServerURL())
			var resp DropResponse
			if err := client.Post(cmd.Context(), "/api/structure/drop", req, &resp); err != nil {
				return err
			}
			return api.Output(resp.Segments)
		},
	}
	cmd.Flags().IntVar(&chunk, "chunk", 0, "Drag the source chunk with this index")
	cmd.Flags().IntVar(&filler, "filler", 0, "Drag the filler with this id")
	cmd.Flags().StringVar(&variant, "variant", "", "Drag a new filler of this variant from the palette")
	cmd.Flags().IntVar(&onChunk, "on-chunk", 0, "Drop beside the source chunk with this index")
	cmd.Flags().IntVar(&onFiller, "on-filler", 0, "Drop beside the filler with this id")
	cmd.Flags().StringVar(&side, "side", "before", "Side of the target: before or after")
	cmd.Flags().BoolVar(&tail, "tail", false, "Drop after the last segment")
	return cmd
}
