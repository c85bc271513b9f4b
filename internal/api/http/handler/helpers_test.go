package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	httpctx "github.com/dtroode/vidtube-server/internal/api/http/context"
	"github.com/dtroode/vidtube-server/internal/model"
)

type envelope struct {
	StatusCode int               `json:"statusCode"`
	Data       json.RawMessage   `json:"data"`
	Message    string            `json:"message"`
	Success    bool              `json:"success"`
	Errors     map[string]string `json:"errors"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func testOptions(t *testing.T) Options {
	t.Helper()
	return Options{MaxUploadBytes: 1 << 20, UploadTempDir: t.TempDir(), CookieSecure: true}
}

var contextManager = httpctx.NewManager()

func signedIn(r *http.Request, user model.PublicUser) *http.Request {
	return r.WithContext(contextManager.SetUserToContext(r.Context(), user))
}

func testUser() model.PublicUser {
	return model.PublicUser{ID: uuid.New(), Username: "ana", Email: "a@x.com", Fullname: "Ana"}
}

type formFile struct {
	field    string
	filename string
	content  []byte
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = io.Copy(part, bytes.NewReader(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	var body bytes.Buffer
	require.NoError(t, json.NewEncoder(&body).Encode(payload))
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

