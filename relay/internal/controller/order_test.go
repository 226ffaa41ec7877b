package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipetrenko/cardshop/internal/config"
	"github.com/ipetrenko/cardshop/relay/internal/service"
)

func relayRouter(t *testing.T, telegram *httptest.Server) *mux.Router {
	t.Helper()
	cfg := config.Telegram{}
	if telegram != nil {
		cfg = config.Telegram{BotToken: "123:abc", ChatID: "-1001", ApiURL: telegram.URL}
	}
	router := mux.NewRouter()
	AttachOrderController(router, service.NewTelegramNotifier(cfg, "BYN"))
	return router
}

func orderBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"name":  "Ivan",
		"phone": "+375291234567",
		"items": []map[string]interface{}{
			{"title": "Spider-Man", "quantity": 1, "price": 2499},
		},
		"total":    2499,
		"discount": 800,
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestRelayOrderSuccess(t *testing.T) {
	telegram := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"ok": true})
		}),
	)
	defer telegram.Close()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/orders", orderBody(t))
	relayRouter(t, telegram).ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	resp := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
}

func TestRelayOrderMissingCredentials(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/orders", orderBody(t))
	relayRouter(t, nil).ServeHTTP(w, r)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	resp := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "failed sending order notification", resp["error"],
		"missing credentials must be indistinguishable from a generic relay fault")
}

func TestRelayOrderChannelRejection(t *testing.T) {
	telegram := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"ok":          false,
				"description": "Bad Request: chat not found",
			})
		}),
	)
	defer telegram.Close()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/orders", orderBody(t))
	relayRouter(t, telegram).ServeHTTP(w, r)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	resp := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "chat not found")
}

func TestRelayOrderInvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: "{"},
		{name: "missing contact", body: `{"items":[{"title":"x","quantity":1,"price":1}],"total":1,"discount":0}`},
		{name: "empty items", body: `{"name":"Ivan","phone":"+375","items":[],"total":0,"discount":0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(tt.body))
			relayRouter(t, nil).ServeHTTP(w, r)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
