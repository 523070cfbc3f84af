package routes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopswift/storefront/catalog"
	"github.com/shopswift/storefront/controllers"
	"github.com/shopswift/storefront/middleware"
	"github.com/shopswift/storefront/routes"
	"github.com/shopswift/storefront/services"
	"github.com/shopswift/storefront/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newServer(t *testing.T) *gin.Engine {
	t.Helper()
	cat, err := catalog.Load("")
	require.NoError(t, err)

	storefront := services.NewStorefrontService(session.NewMemoryStore(), cat, nil, nil, nil, zap.NewNop(),
		services.WithClock(func() time.Time { return time.UnixMilli(1700000123456) }))
	identity := middleware.Identity(middleware.IdentityConfig{CookieMaxAge: time.Hour})

	r := gin.New()
	routes.RegisterProductRoutes(r, controllers.NewProductController(services.NewCatalogService(cat)))
	routes.RegisterCartRoutes(r, controllers.NewCartController(storefront), identity)
	routes.RegisterCheckoutRoutes(r, controllers.NewCheckoutController(storefront), identity)
	routes.RegisterOrderRoutes(r, controllers.NewOrderController(storefront), identity)
	return r
}

type client struct {
	t      *testing.T
	r      http.Handler
	cookie *http.Cookie
}

func (c *client) do(method, path string, body interface{}) (int, map[string]interface{}) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			c.cookie = ck
		}
	}

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w.Code, resp
}

func TestCheckoutJourney(t *testing.T) {
	c := &client{t: t, r: newServer(t)}

	code, resp := c.do(http.MethodPost, "/cart/items", map[string]interface{}{"product_id": "1", "size": "m"})
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, c.cookie, "anonymous session cookie issued")

	code, resp = c.do(http.MethodPost, "/cart/items", map[string]interface{}{"product_id": "3", "quantity": 2})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(3), resp["item_count"])
	assert.Equal(t, "59.99", resp["totals"].(map[string]interface{})["total"])

	code, resp = c.do(http.MethodPost, "/checkout/payment", map[string]interface{}{})
	assert.Equal(t, http.StatusConflict, code)

	code, resp = c.do(http.MethodPost, "/checkout/shipping", map[string]interface{}{
		"first_name": "Ana", "last_name": "García", "email": "ana@example",
		"phone": "600123123", "address": "Calle Mayor 1", "city": "Madrid",
		"state": "Madrid", "postal_code": "28013",
	})
	require.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "Invalid email address", resp["fields"].(map[string]interface{})["email"])
	assert.Equal(t, "Madrid", resp["values"].(map[string]interface{})["city"])

	code, resp = c.do(http.MethodPost, "/checkout/shipping", map[string]interface{}{
		"first_name": "Ana", "last_name": "García", "email": "ana@example.com",
		"phone": "600123123", "address": "Calle Mayor 1", "city": "Madrid",
		"state": "Madrid", "postal_code": "28013", "shipping_method": "express",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "payment", resp["step"])

	code, resp = c.do(http.MethodPost, "/checkout/payment", map[string]interface{}{
		"card_name": "Ana García", "card_number": "4111-1111-1111-1111", "expiry_date": "12/30", "cvv": "123",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "confirmation", resp["step"])
	assert.Equal(t, "ORD-123456", resp["order"].(map[string]interface{})["order_id"])
	assert.Equal(t, "2023-11-16T22:15:23.456Z", resp["order"].(map[string]interface{})["estimated_delivery"])
	assert.Equal(t, "70.49", resp["totals"].(map[string]interface{})["total"])

	code, _ = c.do(http.MethodPost, "/checkout/finish", nil)
	require.Equal(t, http.StatusOK, code)

	code, resp = c.do(http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), resp["item_count"])

	code, _ = c.do(http.MethodGet, "/orders", nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestSessionsDoNotLeak(t *testing.T) {
	r := newServer(t)
	a := &client{t: t, r: r}
	b := &client{t: t, r: r}

	code, _ := a.do(http.MethodPost, "/cart/items", map[string]interface{}{"product_id": "1"})
	require.Equal(t, http.StatusOK, code)

	code, resp := b.do(http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), resp["item_count"])
}

func TestCatalogRoutes(t *testing.T) {
	c := &client{t: t, r: newServer(t)}

	code, resp := c.do(http.MethodGet, "/products?category=all", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(10), resp["total"])
	assert.Nil(t, c.cookie, "catalog browsing does not open a session")

	code, _ = c.do(http.MethodGet, "/categories", nil)
	assert.Equal(t, http.StatusOK, code)
}
