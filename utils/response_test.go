package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mapleleafu/snakearena/snakearena-backend/models"
	"github.com/mapleleafu/snakearena/snakearena-backend/responses"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) models.ApiResponse {
	t.Helper()
	var resp models.ApiResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return resp
}

func TestHandleErrorUsesAPIErrorStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	err := fmt.Errorf("handshake: %w", responses.ConflictError{Msg: "taken"})
	HandleError(rec, err)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if resp := decode(t, rec); resp.Success || resp.Error != "taken" {
		t.Fatalf("unexpected body %+v", resp)
	}
}

func TestHandleErrorHidesUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, errors.New("db password is hunter2"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if resp := decode(t, rec); resp.Error != "Internal Server Error" {
		t.Fatalf("expected a generic message, got %+v", resp)
	}
}

func TestHandleSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleSuccess(rec, models.SuccessResponse(map[string]int{"ticks": 3}))

	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	resp := decode(t, rec)
	data, ok := resp.Data.(map[string]interface{})
	if !resp.Success || !ok || data["ticks"] != float64(3) {
		t.Fatalf("unexpected body %+v", resp)
	}
}
