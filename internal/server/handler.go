package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/alnah/go-audit2pdf"
)

// Response bodies for failed requests.
type errorResponse struct {
	Error    string                 `json:"error"`
	MaxBytes int64                  `json:"maxBytes,omitempty"`
	Details  []audit2pdf.FieldError `json:"details,omitempty"`
	Detail   string                 `json:"detail,omitempty"`
}

const (
	msgTooLarge    = "Request body too large"
	msgInvalidJSON = "Invalid JSON body"
	msgInvalidData = "Invalid audit data."
	msgPDFFailed   = "PDF generation failed"
)

type pdfHandler struct {
	generator    *audit2pdf.Generator
	maxBodyBytes int64
}

// GeneratePDF turns an audit report body into a PDF attachment.
func (h *pdfHandler) GeneratePDF(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	log := zerolog.Ctx(ctx)

	body, err := io.ReadAll(io.LimitReader(req.Body, h.maxBodyBytes+1))
	if err != nil {
		log.Warn().Err(err).Msg("reading request body")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidJSON})
		return
	}
	if int64(len(body)) > h.maxBodyBytes {
		log.Warn().Int64("max_bytes", h.maxBodyBytes).Msg("request body too large")
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: msgTooLarge, MaxBytes: h.maxBodyBytes})
		return
	}

	report, err := h.generator.Parse(ctx, body)
	if err != nil {
		status, resp := statusFor(err)
		log.Info().Err(err).Int("status", status).Msg("rejected report")
		writeJSON(w, status, resp)
		return
	}

	pdf, err := h.generator.PDF(ctx, report)
	if err != nil {
		status, resp := statusFor(err)
		log.Error().Err(err).Str("domain", report.Domain).Msg("PDF generation failed")
		writeJSON(w, status, resp)
		return
	}

	log.Info().
		Str("domain", report.Domain).
		Int("issues", report.IssueCount()).
		Int("pdf_bytes", len(pdf)).
		Msg("PDF generated")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", audit2pdf.ContentDisposition(report.Domain))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, bytes.NewReader(pdf)); err != nil {
		log.Warn().Err(err).Msg("writing PDF response")
	}
}

// statusFor maps a pipeline error to a status and body. Anything that is
// not a client mistake is reported as a generation failure.
func statusFor(err error) (int, errorResponse) {
	var verr *audit2pdf.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, errorResponse{Error: msgInvalidData, Details: verr.Details}
	case errors.Is(err, audit2pdf.ErrInvalidJSON):
		return http.StatusBadRequest, errorResponse{Error: msgInvalidJSON}
	default:
		return http.StatusInternalServerError, errorResponse{Error: msgPDFFailed, Detail: err.Error()}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
