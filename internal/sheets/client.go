package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"qrmenu-backend/internal/models"
)

// Kayıt deposu: Google Apps Script arkasındaki spreadsheet.
// Tüm cevaplar {success, data} zarfı içinde döner. Transaction yok,
// push yok; tek paylaşılan kaynak bu uç nokta.

var (
	ErrNotFound = errors.New("kayıt sheet'te bulunamadı")
	ErrRemote   = errors.New("kayıt deposu isteği başarısız")
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) get(ctx context.Context, action string, params url.Values) (json.RawMessage, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("action", action)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("HTTP isteği oluşturulamadı: %w", err)
	}

	return c.do(req, action)
}

// postForm: Apps Script tarafı yazma işlemlerini form-encoded
// "action=X&data=<json>" şeklinde bekliyor (orijinal sheet makrosunun kontratı)
func (c *Client) postForm(ctx context.Context, action string, data interface{}) (json.RawMessage, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("veri serileştirilemedi: %w", err)
	}

	form := url.Values{}
	form.Set("action", action)
	form.Set("data", string(payload))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("HTTP isteği oluşturulamadı: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req, action)
}

// postJSON: hızlı istek ucu JSON gövde kabul ediyor, action query'de taşınıyor
func (c *Client) postJSON(ctx context.Context, action string, body interface{}) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("veri serileştirilemedi: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"?action="+url.QueryEscape(action), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("HTTP isteği oluşturulamadı: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, action)
}

func (c *Client) do(req *http.Request, action string) (json.RawMessage, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRemote, action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: HTTP %d", ErrRemote, action, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: gövde okunamadı: %v", ErrRemote, action, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %s: zarf çözülemedi: %v", ErrRemote, action, err)
	}
	if !env.Success {
		if env.Error != "" {
			return nil, fmt.Errorf("%w: %s: %s", ErrRemote, action, env.Error)
		}
		return nil, fmt.Errorf("%w: %s: success=false", ErrRemote, action)
	}

	return env.Data, nil
}

// --- Okuma ---

func (c *Client) FetchMenu(ctx context.Context) ([]models.MenuItem, error) {
	data, err := c.get(ctx, "getMenu", nil)
	if err != nil {
		return nil, err
	}
	var items []models.MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: getMenu: veri çözülemedi: %v", ErrRemote, err)
	}
	return items, nil
}

func (c *Client) FetchOrders(ctx context.Context) ([]models.Order, error) {
	data, err := c.get(ctx, "getOrders", nil)
	if err != nil {
		return nil, err
	}
	var orders []models.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("%w: getOrders: veri çözülemedi: %v", ErrRemote, err)
	}
	return orders, nil
}

func (c *Client) FetchQuickRequests(ctx context.Context) ([]models.QuickRequest, error) {
	data, err := c.get(ctx, "getQuickRequests", nil)
	if err != nil {
		return nil, err
	}
	var reqs []models.QuickRequest
	if err := json.Unmarshal(data, &reqs); err != nil {
		return nil, fmt.Errorf("%w: getQuickRequests: veri çözülemedi: %v", ErrRemote, err)
	}
	return reqs, nil
}

// --- Yazma ---

func (c *Client) AddOrder(ctx context.Context, o models.Order) error {
	_, err := c.postForm(ctx, "addOrder", o)
	return err
}

func (c *Client) AddQuickRequest(ctx context.Context, r models.QuickRequest) error {
	_, err := c.postJSON(ctx, "addQuickRequest", r)
	return err
}

type statusUpdate struct {
	OrderID   string             `json:"orderId,omitempty"`
	RequestID string             `json:"requestId,omitempty"`
	Status    models.OrderStatus `json:"status"`
}

// Tek alan güncellemesi: sheet tarafında kilitlenme imkanı olmadığı için
// yazmalar satır ekleme ya da tek hücre update olacak şekilde tutuluyor
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status models.OrderStatus) error {
	_, err := c.postForm(ctx, "updateOrder", statusUpdate{OrderID: orderID, Status: status})
	return err
}

func (c *Client) UpdateQuickRequestStatus(ctx context.Context, requestID string, status models.OrderStatus) error {
	_, err := c.postForm(ctx, "updateQuickRequest", statusUpdate{RequestID: requestID, Status: status})
	return err
}

type deleteRow struct {
	Sheet string `json:"sheet"`
	Row   int    `json:"row"`
}

// DeleteOrder: sheet'in gerçek primary key'i yok, silme satır numarasıyla
// yapılıyor. Güncel satırlar çekilip id taranıyor; ilk satır başlık olduğu
// için bulunan index'e 2 ekleniyor. Arada başka istemci satır sildiyse
// yanlış satırı silme riski var, o yüzden tarama her seferinde taze yapılır.
func (c *Client) DeleteOrder(ctx context.Context, orderID string) error {
	orders, err := c.FetchOrders(ctx)
	if err != nil {
		return err
	}
	for i, o := range orders {
		if o.OrderID == orderID {
			_, err := c.postForm(ctx, "deleteRow", deleteRow{Sheet: "Orders", Row: i + 2})
			return err
		}
	}
	return fmt.Errorf("%w: order %s", ErrNotFound, orderID)
}

func (c *Client) DeleteQuickRequest(ctx context.Context, requestID string) error {
	reqs, err := c.FetchQuickRequests(ctx)
	if err != nil {
		return err
	}
	for i, r := range reqs {
		if r.RequestID == requestID {
			_, err := c.postForm(ctx, "deleteRow", deleteRow{Sheet: "QuickRequests", Row: i + 2})
			return err
		}
	}
	return fmt.Errorf("%w: quick request %s", ErrNotFound, requestID)
}

// --- Menü yazmaları (admin) ---

func (c *Client) AddMenuItem(ctx context.Context, item models.MenuItem) error {
	_, err := c.postForm(ctx, "addMenuItem", item)
	return err
}

func (c *Client) UpdateMenuItem(ctx context.Context, item models.MenuItem) error {
	_, err := c.postForm(ctx, "updateMenuItem", item)
	return err
}

func (c *Client) DeleteMenuItem(ctx context.Context, itemID string) error {
	_, err := c.postForm(ctx, "deleteMenuItem", map[string]string{"id": itemID})
	return err
}
