package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

// userRequest прогоняет запрос через router, чтобы mux.Vars заполнились
func userRequest(handler *UserHandler, method, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/users", handler.GetUsers).Methods("GET")
	router.HandleFunc("/api/v1/users/{id}", handler.GetUser).Methods("GET")
	router.HandleFunc("/api/v1/users/{id}/traded", handler.GetTraded).Methods("GET")
	router.HandleFunc("/api/v1/stats", handler.GetStats).Methods("GET")

	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUserHandler_GetUsers(t *testing.T) {
	t.Run("returns users without api keys", func(t *testing.T) {
		mockSvc := NewMockUserService()
		mockSvc.AddUser(1, true, 250.5)
		mockSvc.AddUser(2, false, 0)
		handler := NewUserHandler(mockSvc)

		w := userRequest(handler, http.MethodGet, "/api/v1/users")

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
		}

		var response ListUsersResponse
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response.Total != 2 {
			t.Errorf("expected total 2, got %d", response.Total)
		}
	})

	t.Run("returns 500 on service error", func(t *testing.T) {
		mockSvc := NewMockUserService()
		mockSvc.listErr = errors.New("db connection lost")
		handler := NewUserHandler(mockSvc)

		w := userRequest(handler, http.MethodGet, "/api/v1/users")

		if w.Code != http.StatusInternalServerError {
			t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}
	})
}

func TestUserHandler_GetUser(t *testing.T) {
	t.Run("returns summary", func(t *testing.T) {
		mockSvc := NewMockUserService()
		mockSvc.AddUser(42, true, 1000)
		handler := NewUserHandler(mockSvc)

		w := userRequest(handler, http.MethodGet, "/api/v1/users/42")

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
		}

		var summary struct {
			UserID      int64   `json:"user_id"`
			Subscribed  bool    `json:"subscribed"`
			TotalTraded float64 `json:"total_traded"`
		}
		if err := json.NewDecoder(w.Body).Decode(&summary); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if summary.UserID != 42 || !summary.Subscribed || summary.TotalTraded != 1000 {
			t.Errorf("unexpected summary: %+v", summary)
		}
	})

	t.Run("returns 404 for unknown user", func(t *testing.T) {
		handler := NewUserHandler(NewMockUserService())

		w := userRequest(handler, http.MethodGet, "/api/v1/users/99")

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
		}
	})

	t.Run("returns 400 for invalid id", func(t *testing.T) {
		handler := NewUserHandler(NewMockUserService())

		w := userRequest(handler, http.MethodGet, "/api/v1/users/abc")

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
	})
}

func TestUserHandler_GetTraded(t *testing.T) {
	t.Run("returns traded volume", func(t *testing.T) {
		mockSvc := NewMockUserService()
		mockSvc.AddUser(7, true, 333.25)
		handler := NewUserHandler(mockSvc)

		w := userRequest(handler, http.MethodGet, "/api/v1/users/7/traded")

		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
		}

		var response TradedResponse
		if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response.TotalTraded != 333.25 {
			t.Errorf("expected 333.25, got %f", response.TotalTraded)
		}
	})

	t.Run("returns 404 for unknown user", func(t *testing.T) {
		handler := NewUserHandler(NewMockUserService())

		w := userRequest(handler, http.MethodGet, "/api/v1/users/99/traded")

		if w.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
		}
	})
}

func TestUserHandler_GetStats(t *testing.T) {
	mockSvc := NewMockUserService()
	mockSvc.AddUser(1, true, 0)
	mockSvc.AddUser(2, true, 0)
	mockSvc.AddUser(3, false, 0)
	handler := NewUserHandler(mockSvc)

	w := userRequest(handler, http.MethodGet, "/api/v1/stats")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response StatsResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.TotalUsers != 3 {
		t.Errorf("expected 3 users, got %d", response.TotalUsers)
	}
}
