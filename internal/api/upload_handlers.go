package api

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/alertdash/alertdash-server/internal/archive"
	domainerrors "github.com/alertdash/alertdash-server/internal/errors"
	"github.com/alertdash/alertdash-server/internal/http/response"
)

// ArchiveResponse summarises a freshly extracted archive.
type ArchiveResponse struct {
	ID          string    `json:"id"`
	ExtractedAt time.Time `json:"extracted_at"`
	Entries     int       `json:"entries"`
	Bytes       int64     `json:"bytes"`
	Filename    string    `json:"filename"`
}

// withExtendedTimeout wraps a handler to extend read/write timeouts for large uploads.
// This MUST be called before any body reading occurs.
func withExtendedTimeout(next http.HandlerFunc, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := http.NewResponseController(w)
		deadline := time.Now().Add(timeout)
		// Recorders and some wrapped writers do not support deadlines; the
		// server defaults still apply then.
		_ = rc.SetReadDeadline(deadline)
		_ = rc.SetWriteDeadline(deadline)
		next(w, r)
	}
}

// handleUploadArchive extracts a multipart archive upload and returns its summary.
// POST /api/v1/archives
// This is a chi handler (not Huma) because Huma doesn't easily support multipart forms.
func (s *Server) handleUploadArchive(w http.ResponseWriter, r *http.Request) {
	ext, filename, err := s.receiveArchive(w, r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, ArchiveResponse{
		ID:          ext.ID,
		ExtractedAt: ext.ExtractedAt,
		Entries:     ext.Entries,
		Bytes:       ext.Bytes,
		Filename:    filename,
	}, s.logger)
}

// handleUploadForm handles the dashboard upload form and redirects back to the page.
// POST /upload
func (s *Server) handleUploadForm(w http.ResponseWriter, r *http.Request) {
	if _, _, err := s.receiveArchive(w, r); err != nil {
		s.renderDashboard(w, r, err)
		return
	}

	target := "/"
	if v := r.URL.Query().Get("variant"); v != "" {
		target += "?" + url.Values{"variant": {v}}.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// receiveArchive reads the archive field of a multipart request and replaces the
// current extraction with it.
func (s *Server) receiveArchive(w http.ResponseWriter, r *http.Request) (*archive.Extraction, string, error) {
	limit := s.opts.MaxUploadBytes
	if r.ContentLength > limit {
		return nil, "", tooLarge(limit)
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, "", tooLarge(limit)
		}
		return nil, "", domainerrors.Wrap(err, domainerrors.CodeValidation, "expected a multipart/form-data upload")
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", domainerrors.Validationf("multipart field %q is required", UploadField)
		}
		return nil, "", domainerrors.Wrap(err, domainerrors.CodeValidation, "failed to read uploaded file")
	}
	defer file.Close()

	ext, err := s.reports.Load(r.Context(), file, header.Size)
	if err != nil {
		s.logger.Warn("Archive upload rejected",
			"filename", header.Filename,
			"size", header.Size,
			"error", err,
		)
		return nil, "", err
	}

	s.logger.Info("Archive uploaded",
		"extraction_id", ext.ID,
		"filename", header.Filename,
		"size", header.Size,
		"ip", getClientIP(r),
	)
	return ext, header.Filename, nil
}

func tooLarge(limit int64) error {
	return domainerrors.ErrTooLarge.WithDetails(map[string]int64{"limit_bytes": limit})
}
