package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderRecord is the archived copy of a confirmed checkout, persisted in Postgres.
type OrderRecord struct {
	ID             uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber    string            `gorm:"type:varchar(32);not null;uniqueIndex:idx_session_order" json:"order_number"`
	SessionID      string            `gorm:"type:varchar(160);not null;uniqueIndex:idx_session_order" json:"session_id"`
	UserID         string            `gorm:"type:varchar(128);index" json:"user_id,omitempty"`
	Email          string            `gorm:"type:varchar(256);not null" json:"email"`
	ShippingMethod string            `gorm:"type:varchar(16);not null" json:"shipping_method"`
	Subtotal       decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Shipping       decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"shipping"`
	Tax            decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"tax"`
	Total          decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"total"`
	AddressJSON    string            `gorm:"type:jsonb" json:"-"`
	PlacedAt       time.Time         `gorm:"not null" json:"placed_at"`
	DeliveryBy     time.Time         `gorm:"not null" json:"estimated_delivery"`
	CreatedAt      time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt    `gorm:"index" json:"-"`
	Lines          []OrderLineRecord `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines"`
}

// OrderLineRecord is one cart line of an archived order.
type OrderLineRecord struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID string          `gorm:"type:varchar(64);not null" json:"product_id"`
	Name      string          `gorm:"type:varchar(256);not null" json:"name"`
	Color     string          `gorm:"type:varchar(32)" json:"color,omitempty"`
	Size      string          `gorm:"type:varchar(16)" json:"size,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
}

// OrderPlacedEvent is published when a checkout reaches confirmation.
type OrderPlacedEvent struct {
	EventType      string          `json:"event_type"`
	OrderID        string          `json:"order_id"`
	SessionID      string          `json:"session_id"`
	UserID         string          `json:"user_id,omitempty"`
	Email          string          `json:"email"`
	ShippingMethod ShippingMethod  `json:"shipping_method"`
	Items          []CartItem      `json:"items"`
	Total          decimal.Decimal `json:"total"`
	DeliveryBy     time.Time       `json:"estimated_delivery"`
	Timestamp      time.Time       `json:"timestamp"`
}

func (OrderRecord) TableName() string { return "orders" }

func (OrderLineRecord) TableName() string { return "order_lines" }
