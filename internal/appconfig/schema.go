// internal/appconfig/schema.go
package appconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidConfig is returned when a configuration document does not match
// the schema.
var ErrInvalidConfig = errors.New("invalid configuration")

// Schema describes config/config.json. Unknown keys are rejected so typos in
// key names surface instead of silently falling back to defaults.
func Schema() map[string]any {
	str := map[string]any{"type": "string"}
	return map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"debug":          map[string]any{"type": "boolean"},
			"logFile":        str,
			"trainingLog":    map[string]any{"type": "string", "minLength": 1},
			"trainingLogCPS": map[string]any{"type": "string", "minLength": 1},
			"finalResults":   map[string]any{"type": "string", "minLength": 1},
			"defaultMetrics": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string", "minLength": 1},
				"uniqueItems": true,
			},
			"listenAddr":  str,
			"readTimeout": map[string]any{"type": "integer", "minimum": 0},
		},
	}
}

// Validate checks a raw configuration document against Schema.
func Validate(raw []byte) error {
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(Schema()), gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, ", "))
}
