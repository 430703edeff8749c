package models

import "github.com/google/uuid"

const (
	OrderPending   = "PENDING"
	OrderConfirmed = "CONFIRMED"
	OrderShipped   = "SHIPPED"
	OrderDelivered = "DELIVERED"
	OrderCancelled = "CANCELLED"
)

var OrderStatuses = []string{OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled}

type Book struct {
	Base
	Title       string `gorm:"not null"  json:"title"`
	Author      string `json:"author"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	ISBN        string `gorm:"index"     json:"isbn,omitempty"`
	Price       int64  `gorm:"not null"  json:"price"`
	Stock       int    `gorm:"not null"  json:"stock"`
	Image       string `json:"image,omitempty"`
}

// Cart belongs to exactly one user and is created on first use.
type Cart struct {
	Base
	UserID uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	Items  []CartItem `gorm:"foreignKey:CartID"              json:"items"`
}

type CartItem struct {
	Base
	CartID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_book;not null" json:"cartId"`
	BookID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_book;not null" json:"bookId"`
	Book     *Book     `gorm:"foreignKey:BookID"                            json:"book,omitempty"`
	Quantity int       `gorm:"default:1;check:quantity>0"                   json:"quantity"`
}

type Order struct {
	Base
	UserID          uuid.UUID   `gorm:"type:uuid;index;not null" json:"userId"`
	Status          string      `gorm:"not null;index"           json:"status"`
	Total           int64       `gorm:"not null"                 json:"total"`
	ShippingAddress string      `json:"shippingAddress"`
	Phone           string      `json:"phone"`
	Items           []OrderItem `gorm:"foreignKey:OrderID"       json:"items"`
}

type OrderItem struct {
	Base
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null" json:"orderId"`
	BookID    uuid.UUID `gorm:"type:uuid;not null"       json:"bookId"`
	Title     string    `json:"title"`
	Quantity  int       `gorm:"not null"                 json:"quantity"`
	UnitPrice int64     `gorm:"not null"                 json:"unitPrice"`
	LineTotal int64     `gorm:"not null"                 json:"lineTotal"`
}
