package statement

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"

	"github.com/zombor/statement-import/internal/importer"
)

// writeJSON encodes v as the response body
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("Error encoding response")
	}
}

// writeError writes an error message as a JSON body
func (s *Server) writeError(w http.ResponseWriter, message string, status int) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// importStatus maps an import failure to an HTTP status
func importStatus(err error) int {
	if errors.Is(err, importer.ErrNoParser) {
		return http.StatusUnsupportedMediaType
	}
	return http.StatusUnprocessableEntity
}

// handleIndex serves the HTML interface
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// handleImport imports an uploaded statement
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		s.log.Error().Err(err).Msg("Error parsing multipart form")
		errorMsg := "Error parsing form"
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			errorMsg = fmt.Sprintf("File is too large. Maximum size is %d MB.", s.maxUploadBytes>>20)
		}
		s.writeError(w, errorMsg, http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		s.log.Error().Err(err).Msg("Error getting file from form")
		errorMsg := "No file provided"
		if errors.Is(err, http.ErrMissingFile) {
			errorMsg = "No file was selected. Please choose a spreadsheet or PDF statement."
		}
		s.writeError(w, errorMsg, http.StatusBadRequest)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		s.log.Error().Err(err).Str("filename", header.Filename).Msg("Error reading file data")
		s.writeError(w, "Error reading file. Please try again.", http.StatusInternalServerError)
		return
	}

	// Browsers send application/octet-stream for types they do not know
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(data).String()
	}

	result, err := s.service.Import(r.Context(), importer.File{
		Name:     header.Filename,
		MIMEType: contentType,
		Size:     header.Size,
		Data:     data,
	})
	if err != nil {
		s.writeError(w, err.Error(), importStatus(err))
		return
	}

	s.writeJSON(w, http.StatusCreated, result)
}

// handleListTransactions returns the transactions of the latest import
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.service.Transactions())
}

// handleSummary returns the count, total and first rows of the latest import
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.service.Summary())
}

// handleDetect classifies a file by name and MIME type without importing it
func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	fileType := importer.DetectFileType(query.Get("name"), query.Get("type"))
	s.writeJSON(w, http.StatusOK, map[string]string{
		"type": string(fileType),
	})
}
