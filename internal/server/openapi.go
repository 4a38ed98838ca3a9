package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	_ "embed"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openapiYAML []byte

var (
	contractOnce sync.Once
	contractDoc  *openapi3.T
	contractErr  error
)

// validateContract loads and validates the embedded OpenAPI document once.
// A server that cannot describe its own API refuses to start.
func validateContract(ctx context.Context) error {
	contractOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(openapiYAML)
		if err != nil {
			contractErr = fmt.Errorf("server: load openapi contract: %w", err)
			return
		}
		if err := doc.Validate(ctx); err != nil {
			contractErr = fmt.Errorf("server: invalid openapi contract: %w", err)
			return
		}
		contractDoc = doc
	})
	return contractErr
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	data, err := contractDoc.MarshalJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "contract serialization failed")
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
