package schema

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Name string  `json:"name" validate:"required,max=10"`
	Note *string `json:"note" validate:"omitempty,max=5"`
}

func newBodyRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	return httptest.NewRequest(http.MethodPost, "/v1/lists", strings.NewReader(body))
}

func TestUnmarshalBody(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		payload, errs, err := UnmarshalBody[testPayload](newBodyRequest(t, `{"name":"groceries"}`))
		require.NoError(t, err)
		require.Empty(t, errs)
		assert.Equal(t, "groceries", payload.Name)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, errs, err := UnmarshalBody[testPayload](newBodyRequest(t, `{"name":`))
		require.NoError(t, err)
		require.Len(t, errs, 1)
		assert.Equal(t, "validation.requestBody.invalidJSON", errs[0].Type)
	})

	t.Run("wrong parameter type", func(t *testing.T) {
		_, errs, err := UnmarshalBody[testPayload](newBodyRequest(t, `{"name":42}`))
		require.NoError(t, err)
		require.Len(t, errs, 1)
		assert.Equal(t, "validation.requestBody.parameter.invalidType", errs[0].Type)
		assert.Equal(t, "name", errs[0].Details["parameter"])
	})

	t.Run("missing required parameter", func(t *testing.T) {
		_, errs, err := UnmarshalBody[testPayload](newBodyRequest(t, `{}`))
		require.NoError(t, err)
		require.Len(t, errs, 1)
		assert.Equal(t, "validation.requestBody.parameter.missing", errs[0].Type)
		assert.Equal(t, "name", errs[0].Details["parameter"])
	})

	t.Run("failed validation rule", func(t *testing.T) {
		_, errs, err := UnmarshalBody[testPayload](newBodyRequest(t, `{"name":"groceries","note":"this note is too long"}`))
		require.NoError(t, err)
		require.Len(t, errs, 1)
		assert.Equal(t, "validation.requestBody.parameter.failedRule", errs[0].Type)
		assert.Equal(t, "note", errs[0].Details["parameter"])
		assert.Equal(t, "max", errs[0].Details["rule"])
	})
}
