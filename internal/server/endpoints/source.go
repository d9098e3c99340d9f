package endpoints

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/fraglab/internal/api"
	"github.com/jackzampolin/fraglab/internal/svcctx"
)

// maxUpload caps uploaded source and batch files.
const maxUpload = 64 << 20

// LoadSourceRequest names a file readable by the server.
type LoadSourceRequest struct {
	Path string `json:"path"`
}

// LoadSourceEndpoint handles POST /api/source.
type LoadSourceEndpoint struct{}

var _ api.Endpoint = (*LoadSourceEndpoint)(nil)

func (e *LoadSourceEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/source", e.handler
}

func (e *LoadSourceEndpoint) RequiresInit() bool { return true }

func (e *LoadSourceEndpoint) Group() string { return "source" }

// handler godoc
//
//	@Summary		Load a source file
//	@Description	Reads a file from the server's filesystem and splits it into chunks
//	@Tags			source
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoadSourceRequest	true	"File path"
//	@Success		200		{object}	StructureResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/source [post]
func (e *LoadSourceEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	var req LoadSourceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	data, err := os.ReadFile(req.Path)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read %s: %v", req.Path, err))
		return
	}
	if err := s.Load(filepath.Base(req.Path), data); err != nil {
		writeErr(w, err)
		return
	}
	writeStructure(w, http.StatusOK, s)
}

func (e *LoadSourceEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "load <path>",
		Short: "Load a file the server can read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			client := api.NewClient(getServerURL())
			var resp StructureResponse
			if err := client.Post(cmd.Context(), "/api/source", LoadSourceRequest{Path: path}, &resp); err != nil {
				return err
			}
			fmt.Printf("Loaded %s: %d bytes in %d chunks\n", resp.Source, resp.SourceBytes, len(resp.Segments))
			return nil
		},
	}
}

// UploadSourceEndpoint handles POST /api/source/upload with a multipart file.
type UploadSourceEndpoint struct{}

var _ api.Endpoint = (*UploadSourceEndpoint)(nil)

func (e *UploadSourceEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/source/upload", e.handler
}

func (e *UploadSourceEndpoint) RequiresInit() bool { return true }

func (e *UploadSourceEndpoint) Group() string { return "source" }

// handler godoc
//
//	@Summary		Upload a source file
//	@Description	Uploads a file, keeps a copy under the home uploads directory and loads it
//	@Tags			source
//	@Accept			mpfd
//	@Produce		json
//	@Param			file	formData	file	true	"Source file"
//	@Success		200		{object}	StructureResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/source/upload [post]
func (e *UploadSourceEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	f, fh, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read upload: %v", err))
		return
	}

	if err := s.Load(filepath.Base(fh.Filename), data); err != nil {
		writeErr(w, err)
		return
	}

	if h := svcctx.HomeFrom(r.Context()); h != nil {
		if err := os.WriteFile(h.UploadPath(fh.Filename), data, 0o644); err != nil {
			svcctx.LoggerFrom(r.Context()).Warn("failed to keep upload", "file", fh.Filename, "error", err)
		}
	}
	writeStructure(w, http.StatusOK, s)
}

func (e *UploadSourceEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a local file and load it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StructureResponse
			if err := client.Upload(cmd.Context(), "/api/source/upload", "file", args, nil, &resp); err != nil {
				return err
			}
			fmt.Printf("Loaded %s: %d bytes in %d chunks\n", resp.Source, resp.SourceBytes, len(resp.Segments))
			return nil
		},
	}
}

// ClearSourceEndpoint handles DELETE /api/source.
type ClearSourceEndpoint struct{}

var _ api.Endpoint = (*ClearSourceEndpoint)(nil)

func (e *ClearSourceEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/source", e.handler
}

func (e *ClearSourceEndpoint) RequiresInit() bool { return true }

func (e *ClearSourceEndpoint) Group() string { return "source" }

// handler godoc
//
//	@Summary		Clear the source file
//	@Description	Drops the loaded file and empties the composition
//	@Tags			source
//	@Produce		json
//	@Success		200	{object}	StructureResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/source [delete]
func (e *ClearSourceEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	s, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	s.Clear()
	writeStructure(w, http.StatusOK, s)
}

func (e *ClearSourceEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Unload the source file",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			if err := client.Delete(cmd.Context(), "/api/source", nil); err != nil {
				return err
			}
			fmt.Println("Source cleared")
			return nil
		},
	}
}
