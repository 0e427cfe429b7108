package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"scoutbot/internal/handlers/mocks"
	"scoutbot/internal/scout"
)

func TestAliasHandler_Records(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockScoutService(ctrl)
	mockService.EXPECT().
		RecordAlias(gomock.Any(), "Jokić, Nikola", "Nikola Jokic").
		Return(nil)

	handler := NewAliasHandler(mockService)

	body, _ := json.Marshal(AliasRequest{Queried: "Jokić, Nikola", Canonical: "Nikola Jokic"})
	req := authedRequest(http.MethodPost, "/api/alias", body, "user-1")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("AliasHandler status = %v, want %v", w.Code, http.StatusOK)
	}

	var resp AliasResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "recorded" {
		t.Errorf("AliasHandler status field = %q, want %q", resp.Status, "recorded")
	}
}

func TestAliasHandler_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockScoutService(ctrl)
	mockService.EXPECT().
		RecordAlias(gomock.Any(), "", "Nikola Jokic").
		Return(&scout.ValidationError{Field: "queried", Message: "queried name is required"})

	handler := NewAliasHandler(mockService)

	body, _ := json.Marshal(AliasRequest{Canonical: "Nikola Jokic"})
	req := authedRequest(http.MethodPost, "/api/alias", body, "user-1")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("AliasHandler status = %v, want %v", w.Code, http.StatusBadRequest)
	}
}

func TestAliasHandler_InvalidBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := NewAliasHandler(mocks.NewMockScoutService(ctrl))

	req := authedRequest(http.MethodPost, "/api/alias", []byte("not json"), "user-1")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("AliasHandler status = %v, want %v", w.Code, http.StatusBadRequest)
	}
}
