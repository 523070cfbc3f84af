package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/shopswift/storefront/awsclient"
	"github.com/shopswift/storefront/cart"
	"github.com/shopswift/storefront/catalog"
	"github.com/shopswift/storefront/checkout"
	"github.com/shopswift/storefront/events"
	"github.com/shopswift/storefront/logger"
	"github.com/shopswift/storefront/models"
	"github.com/shopswift/storefront/repository"
	"github.com/shopswift/storefront/session"
)

// StorefrontService owns every shopper's cart and checkout flow.
type StorefrontService interface {
	GetCart(ctx context.Context, who Shopper) (*CartView, *ServiceError)
	AddItem(ctx context.Context, who Shopper, req AddItemRequest) (*CartView, *ServiceError)
	RemoveItem(ctx context.Context, who Shopper, productID string) (*CartView, *ServiceError)
	UpdateItem(ctx context.Context, who Shopper, productID string, quantity int) (*CartView, *ServiceError)
	ClearCart(ctx context.Context, who Shopper) (*CartView, *ServiceError)
	CartTotals(ctx context.Context, who Shopper) (models.Totals, *ServiceError)

	GetCheckout(ctx context.Context, who Shopper) (*CheckoutView, *ServiceError)
	SubmitShipping(ctx context.Context, who Shopper, info models.ShippingInfo) (*CheckoutView, *ServiceError)
	SubmitPayment(ctx context.Context, who Shopper, info models.PaymentInfo) (*CheckoutView, *ServiceError)
	BackToShipping(ctx context.Context, who Shopper) (*CheckoutView, *ServiceError)
	FinishCheckout(ctx context.Context, who Shopper) (*CheckoutView, *ServiceError)

	ListOrders(ctx context.Context, who Shopper) ([]models.OrderRecord, *ServiceError)
	GetOrder(ctx context.Context, who Shopper, orderNumber string) (*models.OrderRecord, *ServiceError)
}

// Option customizes a StorefrontService.
type Option func(*storefrontServiceImpl)

// WithClock replaces time.Now, which drives card expiry and order ids.
func WithClock(now func() time.Time) Option {
	return func(s *storefrontServiceImpl) { s.now = now }
}

type storefrontServiceImpl struct {
	store     session.Store
	catalog   catalog.Catalog
	orders    repository.OrderRepository
	publisher events.Publisher
	metrics   awsclient.MetricsRecorder
	logger    *zap.Logger
	locks     *keyedMutex
	now       func() time.Time
}

// NewStorefrontService wires the service. orders may be nil when no archive
// is configured; publisher and metrics fall back to no-ops.
func NewStorefrontService(
	store session.Store,
	cat catalog.Catalog,
	orders repository.OrderRepository,
	publisher events.Publisher,
	metrics awsclient.MetricsRecorder,
	logger *zap.Logger,
	opts ...Option,
) StorefrontService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if metrics == nil {
		metrics = awsclient.NewMetricsClientWithAPI(nil, "", false)
	}
	s := &storefrontServiceImpl{
		store:     store,
		catalog:   cat,
		orders:    orders,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		locks:     newKeyedMutex(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// load returns the shopper's session, creating a fresh one when absent.
func (s *storefrontServiceImpl) load(ctx context.Context, who Shopper) (*session.Session, *ServiceError) {
	sess, err := s.store.Get(ctx, who.SessionKey)
	if err != nil {
		logger.For(ctx, s.logger).Error("Failed to load session", zap.String("session", who.SessionKey), zap.Error(err))
		return nil, errInternal("Failed to load session")
	}
	if sess == nil {
		sess = session.New(who.SessionKey, who.UserID)
	}
	return sess, nil
}

// update runs fn against the shopper's session under the session lock and
// saves the result. fn returning an error leaves the stored session as is.
func (s *storefrontServiceImpl) update(ctx context.Context, who Shopper, fn func(*session.Session) *ServiceError) (*session.Session, *ServiceError) {
	unlock, err := s.locks.Lock(ctx, who.SessionKey)
	if err != nil {
		logger.For(ctx, s.logger).Warn("Gave up waiting for session", zap.String("session", who.SessionKey), zap.Error(err))
		return nil, errUnavailable("Session is busy, try again")
	}
	defer unlock()

	sess, serr := s.load(ctx, who)
	if serr != nil {
		return nil, serr
	}
	if serr := fn(sess); serr != nil {
		return nil, serr
	}
	if err := s.store.Save(ctx, sess); err != nil {
		logger.For(ctx, s.logger).Error("Failed to save session", zap.String("session", who.SessionKey), zap.Error(err))
		return nil, errInternal("Failed to save session")
	}
	return sess, nil
}

func (s *storefrontServiceImpl) GetCart(ctx context.Context, who Shopper) (*CartView, *ServiceError) {
	sess, serr := s.load(ctx, who)
	if serr != nil {
		return nil, serr
	}
	return newCartView(sess.Cart), nil
}

func (s *storefrontServiceImpl) AddItem(ctx context.Context, who Shopper, req AddItemRequest) (*CartView, *ServiceError) {
	product, ok := s.catalog.Get(ctx, req.ProductID)
	if !ok {
		return nil, errNotFound("Product not found")
	}
	if !product.InStock {
		return nil, errConflict("Product is out of stock")
	}

	sess, serr := s.update(ctx, who, func(sess *session.Session) *ServiceError {
		sess.Cart = cart.Add(sess.Cart, product, models.Variant{Color: req.Color, Size: req.Size}, req.Quantity)
		return nil
	})
	if serr != nil {
		return nil, serr
	}

	_ = s.metrics.RecordCount(ctx, awsclient.MetricCartItemsAdded, map[string]string{"Category": product.Category})
	return newCartView(sess.Cart), nil
}

func (s *storefrontServiceImpl) RemoveItem(ctx context.Context, who Shopper, productID string) (*CartView, *ServiceError) {
	sess, serr := s.update(ctx, who, func(sess *session.Session) *ServiceError {
		sess.Cart = cart.Remove(sess.Cart, productID)
		return nil
	})
	if serr != nil {
		return nil, serr
	}
	return newCartView(sess.Cart), nil
}

func (s *storefrontServiceImpl) UpdateItem(ctx context.Context, who Shopper, productID string, quantity int) (*CartView, *ServiceError) {
	sess, serr := s.update(ctx, who, func(sess *session.Session) *ServiceError {
		sess.Cart = cart.UpdateQuantity(sess.Cart, productID, quantity)
		return nil
	})
	if serr != nil {
		return nil, serr
	}
	return newCartView(sess.Cart), nil
}

func (s *storefrontServiceImpl) ClearCart(ctx context.Context, who Shopper) (*CartView, *ServiceError) {
	sess, serr := s.update(ctx, who, func(sess *session.Session) *ServiceError {
		sess.Cart = models.Cart{}
		return nil
	})
	if serr != nil {
		return nil, serr
	}
	return newCartView(sess.Cart), nil
}

func (s *storefrontServiceImpl) CartTotals(ctx context.Context, who Shopper) (models.Totals, *ServiceError) {
	view, serr := s.GetCart(ctx, who)
	if serr != nil {
		return models.Totals{}, serr
	}
	return view.Totals, nil
}

func (s *storefrontServiceImpl) GetCheckout(ctx context.Context, who Shopper) (*CheckoutView, *ServiceError) {
	sess, serr := s.load(ctx, who)
	if serr != nil {
		return nil, serr
	}
	return newCheckoutView(sess.Checkout, sess.Cart), nil
}

// flowError maps a rejected transition to its HTTP form.
func flowError(err error) *ServiceError {
	switch {
	case errors.Is(err, checkout.ErrStepOutOfOrder):
		return errConflict("Checkout step out of order")
	case errors.Is(err, checkout.ErrEmptyCart):
		return errConflict("Cart is empty")
	default:
		return errInternal(err.Error())
	}
}

func (s *storefrontServiceImpl) SubmitShipping(ctx context.Context, who Shopper, info models.ShippingInfo) (*CheckoutView, *ServiceError) {
	sess, serr := s.update(ctx, who, func(sess *session.Session) *ServiceError {
		next, fields, err := sess.Checkout.SubmitShipping(info)
		if err != nil {
			return flowError(err)
		}
		if !fields.OK() {
			s.recordValidationFailure(ctx, checkout.StepShipping)
			return errValidation(fields, info)
		}
		sess.Checkout = next
		return nil
	})
	if serr != nil {
		return nil, serr
	}
	return newCheckoutView(sess.Checkout, sess.Cart), nil
}

func (s *storefrontServiceImpl) SubmitPayment(ctx context.Context, who Shopper, info models.PaymentInfo) (*CheckoutView, *ServiceError) {
	sess, serr := s.update(ctx, who, func(sess *session.Session) *ServiceError {
		next, fields, err := sess.Checkout.SubmitPayment(info, sess.Cart, s.now())
		if err != nil {
			return flowError(err)
		}
		if !fields.OK() {
			s.recordValidationFailure(ctx, checkout.StepPayment)
			return errValidation(fields, checkout.NormalizePayment(info))
		}
		sess.Checkout = next
		return nil
	})
	if serr != nil {
		return nil, serr
	}

	s.orderPlaced(ctx, who, sess)
	return newCheckoutView(sess.Checkout, sess.Cart), nil
}

func (s *storefrontServiceImpl) BackToShipping(ctx context.Context, who Shopper) (*CheckoutView, *ServiceError) {
	sess, serr := s.update(ctx, who, func(sess *session.Session) *ServiceError {
		next, err := sess.Checkout.Back()
		if err != nil {
			return flowError(err)
		}
		sess.Checkout = next
		return nil
	})
	if serr != nil {
		return nil, serr
	}
	return newCheckoutView(sess.Checkout, sess.Cart), nil
}

// FinishCheckout acknowledges the confirmation: the ordered lines leave the
// cart and a fresh flow starts. Lines added after confirmation stay.
func (s *storefrontServiceImpl) FinishCheckout(ctx context.Context, who Shopper) (*CheckoutView, *ServiceError) {
	sess, serr := s.update(ctx, who, func(sess *session.Session) *ServiceError {
		placed := sess.Checkout.Cart
		next, err := sess.Checkout.Finish()
		if err != nil {
			return flowError(err)
		}
		sess.Checkout = next
		sess.Cart = cart.Subtract(sess.Cart, placed)
		return nil
	})
	if serr != nil {
		return nil, serr
	}
	return newCheckoutView(sess.Checkout, sess.Cart), nil
}

func (s *storefrontServiceImpl) recordValidationFailure(ctx context.Context, step checkout.Step) {
	_ = s.metrics.RecordCount(ctx, awsclient.MetricValidationFailed, map[string]string{"Step": string(step)})
}

// orderPlaced archives and announces a confirmed order. Both are best
// effort: the shopper's confirmation stands whatever happens here.
func (s *storefrontServiceImpl) orderPlaced(ctx context.Context, who Shopper, sess *session.Session) {
	flow := sess.Checkout
	if flow.Order == nil || flow.Totals == nil {
		return
	}
	log := logger.For(ctx, s.logger).With(
		zap.String("order_id", flow.Order.OrderID),
		zap.String("session", who.SessionKey),
	)

	_ = s.metrics.RecordCount(ctx, awsclient.MetricCartCheckouts, nil)
	_ = s.metrics.RecordCount(ctx, awsclient.MetricOrdersCreated, map[string]string{
		"ShippingMethod": string(flow.Shipping.ShippingMethod),
	})

	if s.orders != nil {
		if err := s.orders.Create(ctx, newOrderRecord(who, flow)); err != nil {
			log.Warn("Failed to archive order", zap.Error(err))
			_ = s.metrics.RecordCount(ctx, awsclient.MetricOrderArchiveFails, nil)
		}
	}

	err := events.PublishOrderPlaced(ctx, s.publisher, models.OrderPlacedEvent{
		OrderID:        flow.Order.OrderID,
		SessionID:      who.SessionKey,
		UserID:         who.UserID,
		Email:          flow.Shipping.Email,
		ShippingMethod: flow.Shipping.ShippingMethod,
		Items:          flow.Cart,
		Total:          flow.Totals.Rounded().Total,
		DeliveryBy:     flow.Order.EstimatedDelivery,
		Timestamp:      flow.Order.OrderDate,
	})
	if err != nil {
		log.Warn("Failed to publish order event", zap.Error(err))
		_ = s.metrics.RecordCount(ctx, awsclient.MetricEventPublishFails, nil)
	}

	log.Info("Order placed", zap.String("total", flow.Totals.Rounded().Total.StringFixed(2)))
}

func newOrderRecord(who Shopper, flow checkout.Flow) *models.OrderRecord {
	totals := flow.Totals.Rounded()
	address, _ := json.Marshal(flow.Shipping)

	lines := make([]models.OrderLineRecord, 0, len(flow.Cart))
	for _, item := range flow.Cart {
		lines = append(lines, models.OrderLineRecord{
			ProductID: item.ID,
			Name:      item.Name,
			Color:     item.Color,
			Size:      item.Size,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
		})
	}

	return &models.OrderRecord{
		OrderNumber:    flow.Order.OrderID,
		SessionID:      who.SessionKey,
		UserID:         who.UserID,
		Email:          flow.Shipping.Email,
		ShippingMethod: string(flow.Shipping.ShippingMethod),
		Subtotal:       totals.Subtotal,
		Shipping:       totals.Shipping,
		Tax:            totals.Tax,
		Total:          totals.Total,
		AddressJSON:    string(address),
		PlacedAt:       flow.Order.OrderDate,
		DeliveryBy:     flow.Order.EstimatedDelivery,
		Lines:          lines,
	}
}

func (s *storefrontServiceImpl) ListOrders(ctx context.Context, who Shopper) ([]models.OrderRecord, *ServiceError) {
	if s.orders == nil {
		return nil, errUnavailable("Order history is not available")
	}
	orders, err := s.orders.FindBySession(ctx, who.SessionKey, 20)
	if err != nil {
		logger.For(ctx, s.logger).Error("Failed to list orders", zap.Error(err))
		return nil, errInternal("Failed to list orders")
	}
	if orders == nil {
		orders = []models.OrderRecord{}
	}
	return orders, nil
}

func (s *storefrontServiceImpl) GetOrder(ctx context.Context, who Shopper, orderNumber string) (*models.OrderRecord, *ServiceError) {
	if s.orders == nil {
		return nil, errUnavailable("Order history is not available")
	}
	order, err := s.orders.FindByOrderNumber(ctx, who.SessionKey, orderNumber)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, errNotFound("Order not found")
	}
	if err != nil {
		logger.For(ctx, s.logger).Error("Failed to fetch order", zap.Error(err))
		return nil, errInternal("Failed to fetch order")
	}
	return order, nil
}
