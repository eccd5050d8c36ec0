package httpapi

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/core/domain"
	"github.com/hama12121212/RAG-system-that-provides-an-answer-about-a-PDF/internal/logger"
)

// Response messages.
const (
	msgUploaded = "PDFs uploaded and processed successfully."
	msgReset    = "Database reset successfully."
)

// uploadFormField is the multipart field holding the uploaded files.
const uploadFormField = "files"

type uploadResponse struct {
	Message  string                   `json:"message"`
	Added    int                      `json:"added"`
	Failures []domain.DocumentFailure `json:"failures"`
}

type queryRequest struct {
	QueryText string `json:"query_text" form:"query_text"`
}

// uploadPDF saves the uploaded files to a request-scoped temporary
// directory, ingests them and removes the directory on every exit path.
func (s *Server) uploadPDF(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			messageError(c, http.StatusRequestEntityTooLarge,
				fmt.Errorf("upload exceeds %d MB", s.settings.MaxUploadMB))
			return
		}
		messageError(c, http.StatusBadRequest, fmt.Errorf("read multipart form: %w", err))
		return
	}
	defer func() { _ = form.RemoveAll() }()

	headers := form.File[uploadFormField]
	if len(headers) == 0 {
		messageError(c, http.StatusBadRequest,
			domain.NewValidationError(uploadFormField, "at least one file is required"))
		return
	}

	tmpDir, err := os.MkdirTemp("", "pdfrag-upload-*")
	if err != nil {
		messageError(c, http.StatusInternalServerError, fmt.Errorf("create temp dir: %w", err))
		return
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			logger.Warn("remove upload dir %s: %v", tmpDir, err)
		}
	}()

	files := make([]domain.SourceFile, 0, len(headers))
	for i, fh := range headers {
		file, err := saveUpload(c, fh, tmpDir, i)
		if err != nil {
			messageError(c, http.StatusInternalServerError, err)
			return
		}
		files = append(files, file)
	}

	report, err := s.deps.Ingest.Ingest(c.Request.Context(), files)
	if err != nil {
		// Chunks committed before the failure stay indexed; a retry adds
		// only the rest.
		body := gin.H{"message": "Error: " + err.Error()}
		if report != nil {
			body["added"] = report.Added
		}
		c.JSON(statusFor(err), body)
		return
	}

	failures := report.Failures
	if failures == nil {
		failures = []domain.DocumentFailure{}
	}
	c.JSON(http.StatusOK, uploadResponse{
		Message:  msgUploaded,
		Added:    report.Added,
		Failures: failures,
	})
}

// saveUpload writes one uploaded file under dir. The index prefix keeps
// files with the same name apart; the source name stays the original one.
func saveUpload(c *gin.Context, fh *multipart.FileHeader, dir string, i int) (domain.SourceFile, error) {
	name := filepath.Base(fh.Filename)
	if name == "." || name == string(filepath.Separator) {
		name = fmt.Sprintf("upload-%d", i)
	}

	path := filepath.Join(dir, fmt.Sprintf("%03d_%s", i, name))
	if err := c.SaveUploadedFile(fh, path); err != nil {
		return domain.SourceFile{}, fmt.Errorf("save %s: %w", name, err)
	}

	return domain.SourceFile{
		Name:     name,
		Path:     path,
		MIMEType: fh.Header.Get("Content-Type"),
	}, nil
}

func (s *Server) resetDB(c *gin.Context) {
	if err := s.deps.Index.Reset(c.Request.Context()); err != nil {
		messageError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgReset})
}

// queryPDF accepts query_text as a query parameter, a form field or a
// JSON body, in that order.
func (s *Server) queryPDF(c *gin.Context) {
	queryText := c.Query("query_text")
	if queryText == "" {
		var req queryRequest
		if strings.HasPrefix(c.ContentType(), "application/json") {
			if err := c.ShouldBindJSON(&req); err != nil {
				detailError(c, http.StatusBadRequest, fmt.Errorf("decode body: %w", err))
				return
			}
		} else {
			req.QueryText = c.PostForm("query_text")
		}
		queryText = req.QueryText
	}

	answer, err := s.deps.Query.Answer(c.Request.Context(), queryText)
	if err != nil {
		detailError(c, statusFor(err), err)
		return
	}
	if answer.Sources == nil {
		answer.Sources = []string{}
	}
	c.JSON(http.StatusOK, answer)
}

func (s *Server) health(c *gin.Context) {
	stats, err := s.deps.Index.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"entries": stats.Entries,
		"backend": stats.Backend,
	})
}

// statusFor maps the error taxonomy to a status code: invalid input is the
// caller's fault, everything else is ours.
func statusFor(err error) int {
	if errors.Is(err, domain.ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func messageError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"message": "Error: " + err.Error()})
}

func detailError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"detail": "Error processing query: " + err.Error()})
}
