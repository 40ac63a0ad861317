package model

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed landing_page.schema.json
var landingPageSchemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

// ErrInvalidDocument is wrapped by every schema violation.
var ErrInvalidDocument = errors.New("invalid landing page document")

func landingPageSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(landingPageSchemaJSON))
	})
	return schema, schemaErr
}

// ValidateDocumentJSON checks a serialized document against the landing page
// schema. Element types are not restricted so foreign data still loads.
func ValidateDocumentJSON(b []byte) error {
	s, err := landingPageSchema()
	if err != nil {
		return fmt.Errorf("load landing page schema: %w", err)
	}
	res, err := s.Validate(gojsonschema.NewBytesLoader(b))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
}
