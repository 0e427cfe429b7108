package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"scoutbot/internal/contextutil"
	"scoutbot/internal/handlers/mocks"
	"scoutbot/internal/ledger"
	"scoutbot/internal/scout"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func authedRequest(method, path string, body []byte, userID string) *http.Request {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	return req.WithContext(contextutil.WithUserID(req.Context(), userID))
}

func TestScoutHandler_Report(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockScoutService(ctrl)
	mockService.EXPECT().
		Resolve(gomock.Any(), scout.Request{
			UserID: "user-1",
			Player: "Nikola Jokic",
			Team:   "Denver Nuggets",
			League: "NBA",
		}).
		Return(&scout.Result{
			Report: &scout.ReportPayload{
				ID:         7,
				PlayerName: "Nikola Jokic",
				Markdown:   "# Scouting Report",
			},
			Balance: 2,
		}, nil)

	handler := NewScoutHandler(mockService)

	body, _ := json.Marshal(ScoutRequest{Player: "Nikola Jokic", Team: "Denver Nuggets", League: "NBA"})
	req := authedRequest(http.MethodPost, "/api/scout", body, "user-1")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("ScoutHandler status = %v, want %v, body %s", w.Code, http.StatusOK, w.Body.String())
	}

	var result scout.Result
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Report == nil || result.Report.ID != 7 {
		t.Errorf("ScoutHandler report = %+v, want id 7", result.Report)
	}
	if result.Suggestion != nil {
		t.Error("ScoutHandler should not return a suggestion")
	}
	if result.Balance != 2 {
		t.Errorf("ScoutHandler balance = %d, want 2", result.Balance)
	}
}

func TestScoutHandler_Suggestion(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockScoutService(ctrl)
	mockService.EXPECT().
		Resolve(gomock.Any(), gomock.Any()).
		Return(&scout.Result{
			Suggestion: &suggestionFixture,
			Balance:    3,
		}, nil)

	handler := NewScoutHandler(mockService)

	body, _ := json.Marshal(ScoutRequest{Player: "Nicola Jokic"})
	req := authedRequest(http.MethodPost, "/api/scout", body, "user-1")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("ScoutHandler status = %v, want %v", w.Code, http.StatusOK)
	}

	var result scout.Result
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Suggestion == nil || result.Suggestion.ReportID != 7 {
		t.Errorf("ScoutHandler suggestion = %+v, want report id 7", result.Suggestion)
	}
	if result.Report != nil {
		t.Error("ScoutHandler should not return a report alongside a suggestion")
	}
}

// suggestionFixture is shared by the scout and suggestion handler tests.
var suggestionFixture = scout.SuggestionPayload{
	ReportID:   7,
	PlayerName: "Nikola Jokic",
	Team:       "Denver Nuggets",
	Score:      91,
}

func TestScoutHandler_InvalidBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockScoutService(ctrl)

	handler := NewScoutHandler(mockService)

	req := authedRequest(http.MethodPost, "/api/scout", []byte("{not json"), "user-1")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("ScoutHandler status = %v, want %v", w.Code, http.StatusBadRequest)
	}
}

func TestScoutHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantError  string
	}{
		{
			name:       "validation error",
			serviceErr: &scout.ValidationError{Field: "player", Message: "player is required"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Validation error: player is required",
		},
		{
			name:       "subject not found",
			serviceErr: scout.ErrSubjectNotFound,
			wantStatus: http.StatusBadRequest,
			wantError:  scout.ErrSubjectNotFound.Error(),
		},
		{
			name:       "insufficient credits",
			serviceErr: ledger.ErrInsufficientCredits,
			wantStatus: http.StatusPaymentRequired,
			wantError:  "Insufficient credits",
		},
		{
			name:       "internal error",
			serviceErr: errors.New("db exploded"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to resolve player query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockScoutService(ctrl)
			mockService.EXPECT().
				Resolve(gomock.Any(), gomock.Any()).
				Return(nil, tt.serviceErr)

			handler := NewScoutHandler(mockService)

			body, _ := json.Marshal(ScoutRequest{Player: "Someone"})
			req := authedRequest(http.MethodPost, "/api/scout", body, "user-1")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("ScoutHandler status = %v, want %v", w.Code, tt.wantStatus)
			}

			var errResp ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if errResp.Error != tt.wantError {
				t.Errorf("ScoutHandler error = %q, want %q", errResp.Error, tt.wantError)
			}
		})
	}
}

func TestScoutHandler_ForwardsUserID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var gotUser string
	mockService := mocks.NewMockScoutService(ctrl)
	mockService.EXPECT().
		Resolve(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req scout.Request) (*scout.Result, error) {
			gotUser = req.UserID
			return &scout.Result{Balance: 3}, nil
		})

	handler := NewScoutHandler(mockService)

	body, _ := json.Marshal(ScoutRequest{Player: "Someone"})
	req := authedRequest(http.MethodPost, "/api/scout", body, "user-xyz")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if gotUser != "user-xyz" {
		t.Errorf("ScoutHandler user id = %q, want %q", gotUser, "user-xyz")
	}
}
