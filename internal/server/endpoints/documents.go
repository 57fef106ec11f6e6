package endpoints

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lectorapp/lector/internal/analyze"
	"github.com/lectorapp/lector/internal/api"
	"github.com/lectorapp/lector/internal/document"
	"github.com/lectorapp/lector/internal/events"
	"github.com/lectorapp/lector/internal/extract"
	"github.com/lectorapp/lector/internal/segment"
	"github.com/lectorapp/lector/internal/svcctx"
)

// maxUploadBytes bounds multipart document uploads.
const maxUploadBytes = 64 << 20

// UploadDocumentRequest is the JSON body for text uploads.
type UploadDocumentRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// DocumentResponse represents a document in API responses.
type DocumentResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Sentences []document.Sentence `json:"sentences,omitempty"`
	Count     int                 `json:"sentence_count"`
	Report    document.Report     `json:"report"`
}

// ListDocumentsResponse contains the list of loaded documents.
type ListDocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

func documentResponse(doc *document.Document, includeSentences bool) DocumentResponse {
	resp := DocumentResponse{
		ID:     doc.ID,
		Name:   doc.Name,
		Count:  len(doc.Sentences),
		Report: doc.Report,
	}
	if includeSentences {
		resp.Sentences = doc.Sentences
	}
	return resp
}

// UploadDocumentEndpoint handles POST /api/documents.
// It accepts either a multipart upload (field "file") or a JSON body with
// raw text, runs the extract -> segment -> analyze pipeline, stores the
// result, and loads it into the playback controller.
type UploadDocumentEndpoint struct {
	Hub *events.Hub
}

func (e *UploadDocumentEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/documents", e.handler
}

func (e *UploadDocumentEndpoint) RequiresInit() bool { return true }

func (e *UploadDocumentEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	store := svcctx.DocumentsFrom(ctx)
	ctrl := svcctx.ControllerFrom(ctx)
	logger := svcctx.LoggerFrom(ctx)

	var name, raw string
	var err error

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		name, raw, err = readMultipart(r)
	} else {
		name, raw, err = readJSONText(r)
	}
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, extract.ErrUnsupportedInput) {
			status = http.StatusUnsupportedMediaType
		}
		writeError(w, status, err.Error())
		return
	}

	sentences := segment.Segment(raw)
	if len(sentences) <= 1 && len(raw) > 200 && logger != nil {
		logger.Info("degenerate segmentation", "document", name, "sentences", len(sentences))
	}
	report := analyze.Analyze(raw, sentences)

	doc := &document.Document{
		Name:      name,
		RawText:   raw,
		Sentences: sentences,
		Report:    report,
	}
	store.Add(doc)

	ctrl.Load(doc.Sentences)
	if e.Hub != nil {
		e.Hub.ReportReady(doc.Report)
	}
	if logger != nil {
		logger.Info("document loaded",
			"id", doc.ID, "name", doc.Name,
			"sentences", len(doc.Sentences), "score", report.Score)
	}

	writeJSON(w, http.StatusCreated, documentResponse(doc, true))
}

func readMultipart(r *http.Request) (name, raw string, err error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", "", err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", "", err
	}
	raw, err = extract.FromBytes(header.Filename, data)
	return header.Filename, raw, err
}

func readJSONText(r *http.Request) (name, raw string, err error) {
	var req UploadDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", "", err
	}
	if strings.TrimSpace(req.Text) == "" {
		return "", "", extract.ErrEmptyDocument
	}
	if req.Name == "" {
		req.Name = "untitled"
	}
	return req.Name, req.Text, nil
}

func (e *UploadDocumentEndpoint) Command(getServerURL func() string) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document for reading",
		Long: `Upload a document to the server. The file is extracted locally
(txt, md, or pdf) and its text is sent for segmentation and analysis.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := extract.Text(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = filepath.Base(args[0])
			}
			client := api.NewClient(getServerURL())
			var resp DocumentResponse
			req := UploadDocumentRequest{Name: name, Text: raw}
			if err := client.Post(cmd.Context(), "/api/documents", req, &resp); err != nil {
				return err
			}
			// Sentences are bulky; the summary is what the CLI user wants.
			resp.Sentences = nil
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Document name (default: file name)")
	return cmd
}

// ListDocumentsEndpoint handles GET /api/documents.
type ListDocumentsEndpoint struct{}

func (e *ListDocumentsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/documents", e.handler
}

func (e *ListDocumentsEndpoint) RequiresInit() bool { return true }

func (e *ListDocumentsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.DocumentsFrom(r.Context())

	docs := store.List()
	resp := ListDocumentsResponse{Documents: make([]DocumentResponse, len(docs))}
	for i, doc := range docs {
		resp.Documents[i] = documentResponse(doc, false)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *ListDocumentsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List loaded documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ListDocumentsResponse
			if err := client.Get(cmd.Context(), "/api/documents", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// GetDocumentEndpoint handles GET /api/documents/{id}.
type GetDocumentEndpoint struct{}

func (e *GetDocumentEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/documents/{id}", e.handler
}

func (e *GetDocumentEndpoint) RequiresInit() bool { return true }

func (e *GetDocumentEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.DocumentsFrom(r.Context())

	doc, err := store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, documentResponse(doc, true))
}

func (e *GetDocumentEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a document with its sentences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp DocumentResponse
			if err := client.Get(cmd.Context(), "/api/documents/"+args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// GetReportEndpoint handles GET /api/documents/{id}/report.
type GetReportEndpoint struct{}

func (e *GetReportEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/documents/{id}/report", e.handler
}

func (e *GetReportEndpoint) RequiresInit() bool { return true }

func (e *GetReportEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store := svcctx.DocumentsFrom(r.Context())

	doc, err := store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc.Report)
}

func (e *GetReportEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "report <id>",
		Short: "Get a document's accessibility report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp document.Report
			if err := client.Get(cmd.Context(), "/api/documents/"+args[0]+"/report", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
