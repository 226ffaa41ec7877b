package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipetrenko/cardshop/order"
	"github.com/ipetrenko/cardshop/shop/internal/service"
	"github.com/ipetrenko/cardshop/shop/internal/session"
)

type catalogProduct struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	ImageURL      string `json:"imageUrl"`
	Category      string `json:"category"`
	Rarity        string `json:"rarity"`
	UnitPrice     int64  `json:"unitPrice"`
	OriginalPrice *int64 `json:"originalPrice,omitempty"`
}

func newCatalogServer(t *testing.T, products map[string]catalogProduct) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.URL.Path[len("/products/"):]
			product, ok := products[id]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Header().Add("Content-Type", "application/json")
			err := json.NewEncoder(w).Encode(map[string]interface{}{
				"data": map[string]interface{}{"product": product},
			})
			require.NoError(t, err)
		}),
	)
	t.Cleanup(server.Close)
	return server
}

func newShopRouter(catalogURL, relayURL string) *mux.Router {
	store := session.NewStore(order.NewGateway(relayURL), time.Hour)
	router := mux.NewRouter()
	router.Use(session.Middleware(store))
	AttachCartController(router, service.NewCatalogClient(catalogURL))
	AttachCheckoutController(router)
	return router
}

// client keeps the session cookie across requests like a browser would.
type client struct {
	t      *testing.T
	router *mux.Router
	cookie *http.Cookie
}

func newClient(t *testing.T, router *mux.Router) *client {
	return &client{t: t, router: router}
}

func (t *client) do(method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t.t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if t.cookie != nil {
		req.AddCookie(t.cookie)
	}
	recorder := httptest.NewRecorder()
	t.router.ServeHTTP(recorder, req)
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == session.CookieName {
			t.cookie = cookie
		}
	}
	resBody := map[string]interface{}{}
	require.NoError(t.t, json.NewDecoder(recorder.Body).Decode(&resBody))
	return recorder, resBody
}

func cartFromBody(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	crt, ok := data["cart"].(map[string]interface{})
	require.True(t, ok)
	return crt
}

func checkoutFromBody(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	chk, ok := data["checkout"].(map[string]interface{})
	require.True(t, ok)
	return chk
}

func TestCartItemLifecycle(t *testing.T) {
	original := int64(1299)
	productId := uuid.NewString()
	catalog := newCatalogServer(t, map[string]catalogProduct{
		productId: {
			ID:            productId,
			Title:         "Charizard Holo",
			Category:      "pokemon",
			Rarity:        "holo-rare",
			UnitPrice:     999,
			OriginalPrice: &original,
		},
	})
	shop := newClient(t, newShopRouter(catalog.URL, "http://relay.invalid"))

	recorder, body := shop.do(http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Zero(t, cartFromBody(t, body)["itemCount"])

	recorder, body = shop.do(
		http.MethodPost,
		"/cart/items",
		map[string]interface{}{"productId": productId, "quantity": 2},
	)
	require.Equal(t, http.StatusOK, recorder.Code)
	crt := cartFromBody(t, body)
	assert.Equal(t, float64(2), crt["itemCount"])
	assert.Equal(t, float64(1998), crt["subtotal"])
	assert.Equal(t, float64(1998), crt["totalPrice"])
	assert.Equal(t, float64(600), crt["totalDiscount"])

	// Same product again merges into the existing line.
	recorder, body = shop.do(
		http.MethodPost,
		"/cart/items",
		map[string]interface{}{"productId": productId, "quantity": 1},
	)
	require.Equal(t, http.StatusOK, recorder.Code)
	crt = cartFromBody(t, body)
	items, ok := crt["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, float64(3), crt["itemCount"])

	recorder, body = shop.do(
		http.MethodPatch,
		fmt.Sprintf("/cart/items/%s", productId),
		map[string]interface{}{"quantity": 0},
	)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Zero(t, cartFromBody(t, body)["itemCount"])
}

func TestAddCartItemUnknownProduct(t *testing.T) {
	catalog := newCatalogServer(t, map[string]catalogProduct{})
	shop := newClient(t, newShopRouter(catalog.URL, "http://relay.invalid"))

	recorder, body := shop.do(
		http.MethodPost,
		"/cart/items",
		map[string]interface{}{"productId": uuid.NewString(), "quantity": 1},
	)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "failed", body["status"])
}

func TestAddCartItemInvalidBody(t *testing.T) {
	catalog := newCatalogServer(t, map[string]catalogProduct{})
	shop := newClient(t, newShopRouter(catalog.URL, "http://relay.invalid"))

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{name: "missing productId", body: map[string]interface{}{"quantity": 1}},
		{name: "not a uuid", body: map[string]interface{}{"productId": "abc", "quantity": 1}},
		{
			name: "zero quantity",
			body: map[string]interface{}{"productId": uuid.NewString(), "quantity": 0},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			recorder, body := shop.do(http.MethodPost, "/cart/items", test.body)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Equal(t, "failed", body["status"])
		})
	}
}

func TestCheckoutFlowDeliversOrder(t *testing.T) {
	productId := uuid.NewString()
	catalog := newCatalogServer(t, map[string]catalogProduct{
		productId: {ID: productId, Title: "Pikachu Promo", UnitPrice: 499},
	})

	var relayed order.Submission
	relay := httptest.NewServer(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&relayed))
			w.Header().Add("Content-Type", "application/json")
			_, err := w.Write([]byte(`{"success":true}`))
			require.NoError(t, err)
		}),
	)
	t.Cleanup(relay.Close)

	shop := newClient(t, newShopRouter(catalog.URL, relay.URL+"/orders"))

	recorder, _ := shop.do(
		http.MethodPost,
		"/cart/items",
		map[string]interface{}{"productId": productId, "quantity": 3},
	)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder, body := shop.do(http.MethodPost, "/checkout/proceed", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "contact-form", checkoutFromBody(t, body)["state"])

	recorder, _ = shop.do(
		http.MethodPut,
		"/checkout/contact",
		map[string]interface{}{"name": "Ivan", "phone": "+375291112233"},
	)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder, body = shop.do(http.MethodPost, "/checkout/confirm", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	chk := checkoutFromBody(t, body)
	assert.Equal(t, "browsing", chk["state"])
	crt, ok := chk["cart"].(map[string]interface{})
	require.True(t, ok)
	assert.Zero(t, crt["itemCount"])

	assert.Equal(t, "Ivan", relayed.Name)
	assert.Equal(t, "+375291112233", relayed.Phone)
	require.Len(t, relayed.Items, 1)
	assert.Equal(t, int64(1497), relayed.Total)
}

func TestCheckoutProceedEmptyCart(t *testing.T) {
	catalog := newCatalogServer(t, map[string]catalogProduct{})
	shop := newClient(t, newShopRouter(catalog.URL, "http://relay.invalid"))

	recorder, body := shop.do(http.MethodPost, "/checkout/proceed", nil)
	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.Equal(t, "failed", body["status"])
}

func TestCheckoutConfirmRelayDownKeepsContactForm(t *testing.T) {
	productId := uuid.NewString()
	catalog := newCatalogServer(t, map[string]catalogProduct{
		productId: {ID: productId, Title: "Blastoise", UnitPrice: 750},
	})
	relay := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	relay.Close()

	shop := newClient(t, newShopRouter(catalog.URL, relay.URL+"/orders"))

	recorder, _ := shop.do(
		http.MethodPost,
		"/cart/items",
		map[string]interface{}{"productId": productId, "quantity": 1},
	)
	require.Equal(t, http.StatusOK, recorder.Code)
	recorder, _ = shop.do(http.MethodPost, "/checkout/proceed", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	recorder, _ = shop.do(
		http.MethodPut,
		"/checkout/contact",
		map[string]interface{}{"name": "Olga", "phone": "+375440000000"},
	)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder, body := shop.do(http.MethodPost, "/checkout/confirm", nil)
	assert.Equal(t, http.StatusBadGateway, recorder.Code)
	assert.Equal(t, "could not send order, please try again", body["message"])

	// Fields and cart survive the failure so the customer can retry.
	recorder, body = shop.do(http.MethodGet, "/checkout", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	chk := checkoutFromBody(t, body)
	assert.Equal(t, "contact-form", chk["state"])
	contact, ok := chk["contact"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Olga", contact["name"])
	crt, ok := chk["cart"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), crt["itemCount"])
}

func TestCheckoutConfirmWithoutContact(t *testing.T) {
	productId := uuid.NewString()
	catalog := newCatalogServer(t, map[string]catalogProduct{
		productId: {ID: productId, Title: "Mewtwo", UnitPrice: 1200},
	})
	shop := newClient(t, newShopRouter(catalog.URL, "http://relay.invalid"))

	recorder, _ := shop.do(
		http.MethodPost,
		"/cart/items",
		map[string]interface{}{"productId": productId, "quantity": 1},
	)
	require.Equal(t, http.StatusOK, recorder.Code)
	recorder, _ = shop.do(http.MethodPost, "/checkout/proceed", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder, body := shop.do(http.MethodPost, "/checkout/confirm", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "failed", body["status"])
}
