package report

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrSchemaViolation indicates a JSON document that does not match the
// report schema.
var ErrSchemaViolation = errors.New("report does not match schema")

//go:generate go run ../../tools/schemagen -o schema/report.schema.json

//go:embed schema/report.schema.json
var reportSchema []byte

// Schema returns the JSON schema of structured reports.
func Schema() []byte {
	return reportSchema
}

// ValidateJSON checks data against the report schema.
func ValidateJSON(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(reportSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("validate report: %w", err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}

	return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(problems, "; "))
}
