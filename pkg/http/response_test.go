package http

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "tourbook/pkg/errors"
	"tourbook/pkg/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryMapFlattensFirstValue(t *testing.T) {
	req := httptest.NewRequest(stdhttp.MethodGet, "/tours?searchTerm=beach&page=2&page=9", nil)
	m := QueryMap(req)

	assert.Equal(t, "beach", m["searchTerm"])
	assert.Equal(t, "2", m["page"])
}

func TestWriteErrorRendersAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteError(rec, apperrors.NotFoundWithID("Tour", "t1")))

	assert.Equal(t, stdhttp.StatusNotFound, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Tour not found", body.Error)
	assert.Equal(t, "t1", body.Details["id"])
}

func TestWriteErrorHidesUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteError(rec, assert.AnError))

	assert.Equal(t, stdhttp.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestWritePaginatedShape(t *testing.T) {
	rec := httptest.NewRecorder()
	meta := query.Meta{Page: 3, Limit: 10, Total: 25, TotalPage: 3}
	require.NoError(t, WritePaginated(rec, []string{"a", "b"}, meta))

	var body struct {
		Data []string   `json:"data"`
		Meta query.Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"a", "b"}, body.Data)
	assert.Equal(t, meta, body.Meta)
}

func TestReadJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(stdhttp.MethodPost, "/", strings.NewReader(`{"bogus":1}`))

	var dst struct {
		Name string `json:"name"`
	}
	err := ReadJSON(req, &dst)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.AsAppError(err).Code)
}

func TestReadJSONDecodes(t *testing.T) {
	req := httptest.NewRequest(stdhttp.MethodPost, "/", strings.NewReader(`{"name":"Sajek"}`))

	var dst struct {
		Name string `json:"name"`
	}
	require.NoError(t, ReadJSON(req, &dst))
	assert.Equal(t, "Sajek", dst.Name)
}
