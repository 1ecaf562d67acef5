package itemsapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/items-grid/internal/domain"
	"github.com/jhoicas/items-grid/internal/domain/entity"
	"github.com/jhoicas/items-grid/internal/infrastructure/itemsapi"
)

type captured struct {
	method string
	path   string
	auth   string
	raw    string
	body   map[string]any
}

// serve levanta un servidor que registra la petición y responde status/body.
func serve(t *testing.T, status int, body string) (*itemsapi.Client, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.EscapedPath()
		got.auth = r.Header.Get("Authorization")
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			got.raw = string(raw)
			_ = json.Unmarshal(raw, &got.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	c := itemsapi.NewClient(itemsapi.Config{URL: srv.URL + "/items/", Token: "tok"}, nil)
	return c, got
}

func TestClient_FetchAll(t *testing.T) {
	c, got := serve(t, http.StatusOK, `[
		{"id": "a1", "name": "TV", "category": "Electronics", "price": 299.99},
		{"id": 7, "name": "Pan", "category": "Food", "price": 2}
	]`)

	items, err := c.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/items", got.path, "la barra final de la URL se normaliza")
	assert.Equal(t, "Bearer tok", got.auth)

	require.Len(t, items, 2)
	assert.Equal(t, "a1", items[0].ID)
	assert.Equal(t, entity.Category("Electronics"), items[0].Category)
	assert.True(t, decimal.RequireFromString("299.99").Equal(items[0].Price))
	assert.Equal(t, "7", items[1].ID, "los IDs numéricos se aceptan como texto")
}

func TestClient_Create(t *testing.T) {
	c, got := serve(t, http.StatusCreated, `{"id": "srv-1", "name": "Widget", "category": "Toys", "price": 9.99}`)

	item, err := c.Create(context.Background(), entity.Item{Name: "Widget", Category: "Toys", Price: decimal.RequireFromString("9.99")})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/items", got.path)
	assert.Equal(t, "Widget", got.body["name"])
	assert.Equal(t, 9.99, got.body["price"])
	_, hasID := got.body["id"]
	assert.False(t, hasID, "el cuerpo de creación no lleva id")

	assert.Equal(t, "srv-1", item.ID)
}

// El precio viaja como número JSON sin pasar por float64.
func TestClient_PrecioSinPerdidaDePrecision(t *testing.T) {
	c, got := serve(t, http.StatusCreated, `{"id": "srv-2", "name": "Caro", "category": "Toys", "price": 12345678901234567.89}`)

	price := decimal.RequireFromString("12345678901234567.89")
	item, err := c.Create(context.Background(), entity.Item{Name: "Caro", Category: "Toys", Price: price})
	require.NoError(t, err)
	assert.Contains(t, got.raw, `"price":12345678901234567.89`)
	assert.True(t, price.Equal(item.Price), "el precio canónico conserva todos los dígitos")
}

func TestClient_FetchAll_DescartaItemsSinID(t *testing.T) {
	c, _ := serve(t, http.StatusOK, `[
		{"id": null, "name": "huérfano", "category": "Food", "price": 1},
		{"name": "sin campo id"},
		{"id": "ok", "name": "Pan", "category": "Food", "price": "2.50"}
	]`)

	items, err := c.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1, "sólo los ítems con id llegan al grid")
	assert.Equal(t, "ok", items[0].ID)
	assert.True(t, decimal.RequireFromString("2.5").Equal(items[0].Price), "el precio también se acepta como string")
}

func TestClient_CreateSinID_EsFallo(t *testing.T) {
	c, _ := serve(t, http.StatusCreated, `{"name": "Widget"}`)
	_, err := c.Create(context.Background(), entity.Item{Name: "Widget"})
	assert.ErrorIs(t, err, domain.ErrNetworkFailure)
}

func TestClient_Update(t *testing.T) {
	c, got := serve(t, http.StatusOK, `{"name": "Gadget", "category": "Electronics", "price": 12.5}`)

	item, err := c.Update(context.Background(), "id con espacio", entity.Item{Name: "Gadget", Category: "Electronics", Price: decimal.RequireFromString("12.5")})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, got.method)
	assert.Equal(t, "/items/id%20con%20espacio", got.path)
	assert.Equal(t, "id con espacio", item.ID, "si la respuesta no trae id se conserva el enviado")
	assert.Equal(t, "Gadget", item.Name)
}

func TestClient_Delete(t *testing.T) {
	c, got := serve(t, http.StatusOK, `{}`)
	require.NoError(t, c.Delete(context.Background(), "srv-1"))
	assert.Equal(t, http.MethodDelete, got.method)
	assert.Equal(t, "/items/srv-1", got.path)
}

func TestClient_StatusDeError(t *testing.T) {
	c, _ := serve(t, http.StatusInternalServerError, `{"code":"INTERNAL"}`)

	err := c.Delete(context.Background(), "srv-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetworkFailure)

	var netErr *itemsapi.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, http.StatusInternalServerError, netErr.Status)
	assert.Equal(t, "delete", netErr.Op)
}

func TestClient_RespuestaMalformada(t *testing.T) {
	c, _ := serve(t, http.StatusOK, `{no-json`)
	_, err := c.FetchAll(context.Background())
	assert.ErrorIs(t, err, domain.ErrNetworkFailure)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	c := itemsapi.NewClient(itemsapi.Config{URL: srv.URL + "/items", Timeout: 20 * time.Millisecond}, nil)
	_, err := c.FetchAll(context.Background())
	assert.ErrorIs(t, err, domain.ErrNetworkFailure)
}

func TestClient_ServidorCaido(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := itemsapi.NewClient(itemsapi.Config{URL: url + "/items"}, nil)
	_, err := c.FetchAll(context.Background())
	assert.ErrorIs(t, err, domain.ErrNetworkFailure)
}
