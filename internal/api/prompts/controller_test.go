package prompts_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hbomb79/Snatch/internal/api"
	"github.com/hbomb79/Snatch/internal/api/prompts"
	"github.com/hbomb79/Snatch/internal/prompt"
	"github.com/hbomb79/Snatch/internal/record"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer() *echo.Echo {
	service := prompt.NewService(record.NewMemoryStore[prompt.Prompt]())
	controller := prompts.New(validator.New(), service)

	server := echo.New()
	server.HTTPErrorHandler = api.HTTPErrorHandler
	controller.SetRoutes(server.Group("/prompts"))

	return server
}

func perform(server *echo.Echo, method string, path string, body string) *httptest.ResponseRecorder {
	var request *http.Request
	if body == "" {
		request = httptest.NewRequest(method, path, nil)
	} else {
		request = httptest.NewRequest(method, path, strings.NewReader(body))
		request.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, request)

	return recorder
}

func Test_Create_ThenList(t *testing.T) {
	server := newServer()

	recorder := perform(server, http.MethodPost, "/prompts/", `{"name": "Greeting", "text": "write a friendly greeting"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created prompt.Prompt
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))
	assert.Equal(t, "Greeting", created.Name)
	assert.Equal(t, "write a friendly greeting", created.Text)

	recorder = perform(server, http.MethodGet, "/prompts/", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var listed []prompt.Prompt
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.Id, listed[0].Id)
}

func Test_Create_MissingFields(t *testing.T) {
	server := newServer()

	recorder := perform(server, http.MethodPost, "/prompts/", `{"name": "only a name"}`)
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Contains(t, body["detail"], "Text")
}

func Test_Delete(t *testing.T) {
	server := newServer()

	recorder := perform(server, http.MethodPost, "/prompts/", `{"name": "Doomed", "text": "text"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created prompt.Prompt
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))

	recorder = perform(server, http.MethodDelete, "/prompts/"+created.Id.String()+"/", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status": "deleted"}`, recorder.Body.String())

	recorder = perform(server, http.MethodGet, "/prompts/", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `[]`, recorder.Body.String())
}

func Test_Delete_UnknownId(t *testing.T) {
	server := newServer()

	recorder := perform(server, http.MethodDelete, "/prompts/"+uuid.NewString()+"/", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status": "deleted"}`, recorder.Body.String())
}
