package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/vidtube-server/internal/model"
	"github.com/dtroode/vidtube-server/internal/testutil"
)

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, testutil.MakeNoopLogger(), http.StatusOK, map[string]string{"k": "v"}, "done")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"statusCode":200,"data":{"k":"v"},"message":"done","success":true}`, rec.Body.String())
}

func TestError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "api error",
			err:    model.NewErrFieldRequired("Email"),
			status: http.StatusBadRequest,
			body:   `{"statusCode":400,"message":"Email is required","success":false}`,
		},
		{
			name:   "wrapped api error",
			err:    fmt.Errorf("outer: %w", model.NewErrRefreshTokenExpired()),
			status: http.StatusUnauthorized,
			body:   `{"statusCode":401,"message":"Refresh token is expired or used","success":false}`,
		},
		{
			name:   "field details",
			err:    model.NewErrFieldValidation(map[string]string{"password": "This field is required"}),
			status: http.StatusBadRequest,
			body:   `{"statusCode":400,"message":"Invalid request","success":false,"errors":{"password":"This field is required"}}`,
		},
		{
			name:   "body too large",
			err:    &http.MaxBytesError{Limit: 10},
			status: http.StatusRequestEntityTooLarge,
			body:   `{"statusCode":413,"message":"Request body is too large","success":false}`,
		},
		{
			name:   "unexpected error hides details",
			err:    errors.New("pq: connection refused"),
			status: http.StatusInternalServerError,
			body:   `{"statusCode":500,"message":"Something went wrong","success":false}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, testutil.MakeNoopLogger(), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestJSON_EncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, testutil.MakeNoopLogger(), http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
}
