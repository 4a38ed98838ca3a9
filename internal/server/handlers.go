package server

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/stateworks/go-implied/internal/store"
	"github.com/stateworks/go-implied/pkg/implication"
	"github.com/stateworks/go-implied/pkg/model"
	"github.com/stateworks/go-implied/pkg/suggest"
	"github.com/stateworks/go-implied/pkg/uispec"
)

type addFieldRequest struct {
	FilePath     string `json:"filePath"`
	FieldName    string `json:"fieldName"`
	InitialValue any    `json:"initialValue"`
	FieldType    string `json:"fieldType"`
}

type deleteFieldRequest struct {
	FilePath  string `json:"filePath"`
	FieldName string `json:"fieldName"`
}

type updateContextRequest struct {
	FilePath       string         `json:"filePath"`
	ContextUpdates map[string]any `json:"contextUpdates"`
	RemovedFields  []string       `json:"removedFields"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List()
	if err != nil {
		s.storeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"implications": names})
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"context": doc.Context})
}

func (s *Server) handleSuggestedFields(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadParam(w, r)
	if !ok {
		return
	}

	specName := strings.TrimSpace(r.URL.Query().Get("spec"))
	if specName == "" {
		writeError(w, http.StatusBadRequest, "MISSING_SPEC", "spec query parameter is required")
		return
	}
	spec, err := s.loadSpec(specName)
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, http.StatusNotFound, "SPEC_NOT_FOUND", "unknown UI spec: "+specName)
			return
		}
		s.log.Error("load spec", zap.String("spec", specName), zap.Error(err))
		writeError(w, http.StatusBadRequest, "SPEC_INVALID", err.Error())
		return
	}

	missing := suggest.Reconcile(spec.Suggestions(), doc.Context)
	type suggestedField struct {
		suggest.SuggestedField
		Confidence suggest.Confidence `json:"confidence"`
	}
	out := make([]suggestedField, 0, len(missing))
	for _, field := range missing {
		out = append(out, suggestedField{SuggestedField: field, Confidence: field.Confidence()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"missingFromContext": out})
}

func (s *Server) handleAddField(w http.ResponseWriter, r *http.Request) {
	var req addFieldRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_PAYLOAD", err.Error())
		return
	}
	declared := model.ValueType(req.FieldType)
	if req.FieldType == "" {
		declared = model.TypeNull
	}
	if err := s.store.AddField(req.FilePath, req.FieldName, req.InitialValue, declared); err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleDeleteField(w http.ResponseWriter, r *http.Request) {
	var req deleteFieldRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_PAYLOAD", err.Error())
		return
	}
	if err := s.store.DeleteField(req.FilePath, req.FieldName); err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleUpdateContext(w http.ResponseWriter, r *http.Request) {
	var req updateContextRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_PAYLOAD", err.Error())
		return
	}
	if err := s.store.UpdateContext(req.FilePath, req.ContextUpdates, req.RemovedFields); err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// loadParam loads the implication named by the file query parameter, writing
// the error response itself when that fails.
func (s *Server) loadParam(w http.ResponseWriter, r *http.Request) (*implication.Document, bool) {
	name := strings.TrimSpace(r.URL.Query().Get("file"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "MISSING_FILE", "file query parameter is required")
		return nil, false
	}
	loaded, err := s.store.Load(name)
	if err != nil {
		s.storeError(w, err)
		return nil, false
	}
	return loaded, true
}

func (s *Server) loadSpec(name string) (*uispec.Spec, error) {
	base := filepath.Base(name)
	path := filepath.Join(s.specDir, base)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return uispec.Parse(data, base)
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	var validationErr *model.ValidationError
	var schemaErr *store.SchemaError
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, store.ErrInvalidName):
		writeError(w, http.StatusBadRequest, "INVALID_NAME", err.Error())
	case errors.Is(err, store.ErrFieldExists):
		writeError(w, http.StatusConflict, "FIELD_EXISTS", err.Error())
	case errors.Is(err, store.ErrFieldMissing):
		writeError(w, http.StatusNotFound, "FIELD_MISSING", err.Error())
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Error())
	case errors.As(err, &schemaErr):
		writeError(w, http.StatusUnprocessableEntity, "SCHEMA_ERROR", schemaErr.Error())
	default:
		s.log.Error("store failure", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
