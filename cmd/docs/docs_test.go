package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

type openAPIDoc struct {
	BasePath    string                                `json:"basePath"`
	Paths       map[string]map[string]json.RawMessage `json:"paths"`
	Definitions map[string]json.RawMessage            `json:"definitions"`
}

func TestSwaggerDoc_DescribesRoutes(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc openAPIDoc
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, "/api/v1", doc.BasePath)
	for path, method := range map[string]string{
		"/accounts":                           "post",
		"/journal-entries/{id}/reverse":       "post",
		"/fiscal-periods/{id}/close":          "post",
		"/fiscal-years/{year}/close":          "post",
		"/reports/balance-sheet":              "get",
		"/reports/package":                    "get",
		"/exchange-rates/convert":             "post",
		"/postings/invoice":                   "post",
		"/journal-entries/by-number/{number}": "get",
	} {
		require.Contains(t, doc.Paths, path)
		assert.Contains(t, doc.Paths[path], method, "%s %s", method, path)
	}
	assert.Contains(t, doc.Definitions, "domain.StatementPackage")
	assert.Contains(t, doc.Definitions, "handlers.ErrorResponse")
}
