// Package itemsapi implementa ports.ItemsGateway sobre el recurso REST /items.
package itemsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/items-grid/internal/application/dto"
	"github.com/jhoicas/items-grid/internal/application/ports"
	"github.com/jhoicas/items-grid/internal/domain"
	"github.com/jhoicas/items-grid/internal/domain/entity"
	"github.com/jhoicas/items-grid/pkg/logger"
)

var _ ports.ItemsGateway = (*Client)(nil)

// NetworkError fallo de una llamada al recurso remoto: no se pudo completar la petición
// (Status == 0) o el servidor respondió con un estado de error. Satisface
// errors.Is(err, domain.ErrNetworkFailure).
type NetworkError struct {
	Op     string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("items %s: estado %d", e.Op, e.Status)
	}
	return fmt.Sprintf("items %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, domain.ErrNetworkFailure).
func (e *NetworkError) Is(target error) bool { return target == domain.ErrNetworkFailure }

// Config configuración del cliente.
type Config struct {
	URL     string        // URL de la colección, ej. http://localhost:3000/items
	Timeout time.Duration // por petición; 0 -> 10s
	Token   string        // Bearer opcional
}

// Client adaptador HTTP del recurso de ítems. No reintenta.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	log     *logger.Logger
}

// NewClient construye el cliente.
func NewClient(cfg Config, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		token:   cfg.Token,
		client:  &http.Client{Timeout: timeout},
		log:     log.Named("itemsapi"),
	}
}

// FetchAll GET /items.
func (c *Client) FetchAll(ctx context.Context) ([]entity.Item, error) {
	var out []itemResponse
	if err := c.do(ctx, "fetch", http.MethodGet, c.baseURL, nil, &out); err != nil {
		return nil, err
	}
	items := make([]entity.Item, 0, len(out))
	for i, r := range out {
		if r.ID == "" {
			// Sin id la fila no podría actualizarse ni borrarse en el servidor.
			c.log.Warn().Int("index", i).Str("name", r.Name).Msg("ítem sin id descartado")
			continue
		}
		items = append(items, toItem(r))
	}
	c.log.Debug().Int("items", len(items)).Msg("colección recibida")
	return items, nil
}

// Create POST /items.
func (c *Client) Create(ctx context.Context, fields entity.Item) (entity.Item, error) {
	var out itemResponse
	if err := c.do(ctx, "create", http.MethodPost, c.baseURL, toPayload(fields), &out); err != nil {
		return entity.Item{}, err
	}
	if out.ID == "" {
		c.log.Error().Msg("respuesta de creación sin id")
		return entity.Item{}, &NetworkError{Op: "create", Err: fmt.Errorf("respuesta sin id")}
	}
	return toItem(out), nil
}

// Update PUT /items/{id}.
func (c *Client) Update(ctx context.Context, id string, fields entity.Item) (entity.Item, error) {
	var out itemResponse
	if err := c.do(ctx, "update", http.MethodPut, c.itemURL(id), toPayload(fields), &out); err != nil {
		return entity.Item{}, err
	}
	item := toItem(out)
	if item.ID == "" {
		item.ID = id
	}
	return item, nil
}

// Delete DELETE /items/{id}.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, c.itemURL(id), nil, nil)
}

func (c *Client) itemURL(id string) string {
	return c.baseURL + "/" + url.PathEscape(id)
}

// do ejecuta la petición; cualquier fallo se devuelve como *NetworkError.
func (c *Client) do(ctx context.Context, op, method, target string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &NetworkError{Op: op, Err: fmt.Errorf("serializar cuerpo: %w", err)}
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("crear petición: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.log.Debug().Str("op", op).Str("method", method).Str("url", target).Msg("petición")
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("op", op).Str("url", target).Msg("no se pudo completar la petición")
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		c.log.Warn().Str("op", op).Int("status", resp.StatusCode).Bytes("body", detail).Msg("respuesta de error")
		return &NetworkError{Op: op, Status: resp.StatusCode}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.Error().Err(err).Str("op", op).Msg("decodificar respuesta")
		return &NetworkError{Op: op, Err: fmt.Errorf("decodificar respuesta: %w", err)}
	}
	return nil
}

// itemPayload cuerpo de POST/PUT. El precio viaja como número JSON con todos sus dígitos.
type itemPayload struct {
	Name     string      `json:"name"`
	Category string      `json:"category"`
	Price    json.Number `json:"price"`
}

// itemResponse ítem devuelto por el servidor; el precio se acepta como número, string o null.
type itemResponse struct {
	ID       dto.ItemID      `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

func toPayload(it entity.Item) itemPayload {
	return itemPayload{
		Name:     it.Name,
		Category: string(it.Category),
		Price:    json.Number(it.Price.String()),
	}
}

func toItem(r itemResponse) entity.Item {
	return entity.Item{
		ID:       string(r.ID),
		Name:     r.Name,
		Category: entity.Category(r.Category),
		Price:    r.Price,
	}
}
