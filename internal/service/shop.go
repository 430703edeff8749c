package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/med_clinic/internal/es"
	"github.com/Skotchmaster/med_clinic/internal/logging"
	"github.com/Skotchmaster/med_clinic/internal/models"
	"github.com/Skotchmaster/med_clinic/internal/mykafka"
	"github.com/Skotchmaster/med_clinic/internal/repo"
)

type ShopService struct {
	Repo    *repo.GormRepo
	Indexer Indexer
	Events  mykafka.Publisher
}

type BookInput struct {
	Title       *string
	Author      *string
	Description *string
	ISBN        *string
	Price       *int64
	Stock       *int
	Image       *string
}

// CartView is a cart with its items and the sum of their line totals.
type CartView struct {
	ID     uuid.UUID         `json:"id"`
	UserID uuid.UUID         `json:"userId"`
	Items  []models.CartItem `json:"items"`
	Total  int64             `json:"total"`
}

type CheckoutInput struct {
	ShippingAddress string
	Phone           string
}

type CartEvent struct {
	Type     string    `json:"type"`
	UserID   uuid.UUID `json:"userId"`
	BookID   uuid.UUID `json:"bookId"`
	Quantity int       `json:"quantity"`
	At       time.Time `json:"at"`
}

type OrderEvent struct {
	Type    string    `json:"type"`
	OrderID uuid.UUID `json:"orderId"`
	UserID  uuid.UUID `json:"userId"`
	Status  string    `json:"status"`
	Total   int64     `json:"total"`
	At      time.Time `json:"at"`
}

type BookDocument struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	ISBN        string `json:"isbn,omitempty"`
	Price       int64  `json:"price"`
}

func (s *ShopService) ListBooks(ctx context.Context, query string, offset, limit int) (int64, []models.Book, error) {
	return s.Repo.ListBooks(ctx, strings.TrimSpace(query), offset, limit)
}

func (s *ShopService) GetBook(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	b, err := s.Repo.GetBook(ctx, id)
	if err != nil {
		return nil, notFound(err, "book")
	}
	return b, nil
}

func (s *ShopService) CreateBook(ctx context.Context, in BookInput) (*models.Book, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, fmt.Errorf("title is required: %w", ErrValidation)
	}
	if in.Price == nil {
		return nil, fmt.Errorf("price is required: %w", ErrValidation)
	}
	b := &models.Book{}
	if err := applyBookInput(b, in); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateBook(ctx, b); err != nil {
		return nil, err
	}
	s.indexBook(ctx, b)
	return b, nil
}

func (s *ShopService) UpdateBook(ctx context.Context, id uuid.UUID, in BookInput) (*models.Book, error) {
	b, err := s.Repo.GetBook(ctx, id)
	if err != nil {
		return nil, notFound(err, "book")
	}
	if err := applyBookInput(b, in); err != nil {
		return nil, err
	}
	if b.Title == "" {
		return nil, fmt.Errorf("title cannot be empty: %w", ErrValidation)
	}
	if err := s.Repo.SaveBook(ctx, b); err != nil {
		return nil, err
	}
	s.indexBook(ctx, b)
	return b, nil
}

func (s *ShopService) DeleteBook(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteBook(ctx, id); err != nil {
		return notFound(err, "book")
	}
	if s.Indexer != nil {
		if err := s.Indexer.Delete(ctx, es.IndexBooks, id.String()); err != nil {
			logging.FromContext(ctx).Error("book_unindex_failed", "book_id", id, "error", err)
		}
	}
	return nil
}

func (s *ShopService) indexBook(ctx context.Context, b *models.Book) {
	if s.Indexer == nil {
		return
	}
	doc := BookDocument{
		ID:          b.ID.String(),
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		ISBN:        b.ISBN,
		Price:       b.Price,
	}
	if err := s.Indexer.Index(ctx, es.IndexBooks, b.ID.String(), doc); err != nil {
		logging.FromContext(ctx).Error("book_index_failed", "book_id", b.ID, "error", err)
	}
}

func (s *ShopService) Cart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	cart, err := s.Repo.CartFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.CartItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	return newCartView(cart, items), nil
}

// AddToCart upserts a cart row: repeating a book raises its quantity.
func (s *ShopService) AddToCart(ctx context.Context, userID, bookID uuid.UUID, qty int) (*models.CartItem, error) {
	if bookID == uuid.Nil {
		return nil, fmt.Errorf("bookId is required: %w", ErrValidation)
	}
	if qty == 0 {
		qty = 1
	}
	if qty < 0 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}
	book, err := s.Repo.GetBook(ctx, bookID)
	if err != nil {
		return nil, notFound(err, "book")
	}

	cart, err := s.Repo.CartFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	item := &models.CartItem{CartID: cart.ID, BookID: bookID, Quantity: qty}
	if err := s.Repo.AddCartItem(ctx, item); err != nil {
		return nil, err
	}
	item.Book = book

	publish(ctx, s.Events, mykafka.TopicCart, userID.String(), CartEvent{
		Type: "cart_item_added", UserID: userID, BookID: bookID, Quantity: item.Quantity, At: time.Now().UTC(),
	})
	return item, nil
}

func (s *ShopService) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, qty int) (*models.CartItem, error) {
	if qty < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}
	cart, err := s.Repo.CartFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	item, err := s.Repo.SetCartItemQuantity(ctx, cart.ID, itemID, qty)
	if err != nil {
		return nil, notFound(err, "cart item")
	}
	return item, nil
}

func (s *ShopService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	cart, err := s.Repo.CartFor(ctx, userID)
	if err != nil {
		return err
	}
	return notFound(s.Repo.DeleteCartItem(ctx, cart.ID, itemID), "cart item")
}

func (s *ShopService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.Repo.CartFor(ctx, userID)
	if err != nil {
		return err
	}
	return s.Repo.ClearCart(ctx, cart.ID)
}

// Checkout turns the cart into a PENDING order at current prices, taking stock
// and emptying the cart in the same transaction.
func (s *ShopService) Checkout(ctx context.Context, userID uuid.UUID, in CheckoutInput) (*models.Order, error) {
	in.ShippingAddress = strings.TrimSpace(in.ShippingAddress)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.ShippingAddress == "" || in.Phone == "" {
		return nil, fmt.Errorf("shippingAddress and phone are required: %w", ErrValidation)
	}

	var order *models.Order
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		cart, err := tx.CartFor(ctx, userID)
		if err != nil {
			return err
		}
		items, err := tx.CartItems(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("cart is empty: %w", ErrValidation)
		}

		order = &models.Order{
			UserID:          userID,
			Status:          models.OrderPending,
			ShippingAddress: in.ShippingAddress,
			Phone:           in.Phone,
		}
		for _, it := range items {
			if it.Book == nil {
				return fmt.Errorf("book %s no longer exists: %w", it.BookID, ErrConflict)
			}
			if err := tx.DecrementStock(ctx, it.BookID, it.Quantity); err != nil {
				if errors.Is(err, repo.ErrInsufficientStock) {
					return fmt.Errorf("not enough stock for %q: %w", it.Book.Title, ErrConflict)
				}
				return err
			}
			line := it.Book.Price * int64(it.Quantity)
			order.Items = append(order.Items, models.OrderItem{
				BookID:    it.BookID,
				Title:     it.Book.Title,
				Quantity:  it.Quantity,
				UnitPrice: it.Book.Price,
				LineTotal: line,
			})
			order.Total += line
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		return tx.ClearCart(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, mykafka.TopicOrders, userID.String(), OrderEvent{
		Type: "order_created", OrderID: order.ID, UserID: userID, Status: order.Status, Total: order.Total, At: time.Now().UTC(),
	})
	return order, nil
}

// ListOrders shows admins every order and everyone else their own.
func (s *ShopService) ListOrders(ctx context.Context, actor Actor, status string, offset, limit int) (int64, []models.Order, error) {
	if status != "" && !slices.Contains(models.OrderStatuses, status) {
		return 0, nil, fmt.Errorf("unknown status %q: %w", status, ErrValidation)
	}
	f := repo.OrderFilter{Status: status}
	if !actor.IsAdmin() {
		f.UserID = &actor.ID
	}
	return s.Repo.ListOrders(ctx, f, offset, limit)
}

func (s *ShopService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error) {
	if !slices.Contains(models.OrderStatuses, status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, ErrValidation)
	}
	if err := s.Repo.UpdateOrderStatus(ctx, id, status); err != nil {
		return nil, notFound(err, "order")
	}
	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	publish(ctx, s.Events, mykafka.TopicOrders, o.UserID.String(), OrderEvent{
		Type: "order_status_changed", OrderID: o.ID, UserID: o.UserID, Status: o.Status, Total: o.Total, At: time.Now().UTC(),
	})
	return o, nil
}

func newCartView(cart *models.Cart, items []models.CartItem) *CartView {
	v := &CartView{ID: cart.ID, UserID: cart.UserID, Items: items}
	for _, it := range items {
		if it.Book != nil {
			v.Total += it.Book.Price * int64(it.Quantity)
		}
	}
	return v
}

func applyBookInput(b *models.Book, in BookInput) error {
	if in.Price != nil && *in.Price < 0 {
		return fmt.Errorf("price cannot be negative: %w", ErrValidation)
	}
	if in.Stock != nil && *in.Stock < 0 {
		return fmt.Errorf("stock cannot be negative: %w", ErrValidation)
	}
	if in.Title != nil {
		b.Title = strings.TrimSpace(*in.Title)
	}
	if in.Author != nil {
		b.Author = *in.Author
	}
	if in.Description != nil {
		b.Description = *in.Description
	}
	if in.ISBN != nil {
		b.ISBN = *in.ISBN
	}
	if in.Price != nil {
		b.Price = *in.Price
	}
	if in.Stock != nil {
		b.Stock = *in.Stock
	}
	if in.Image != nil {
		b.Image = *in.Image
	}
	return nil
}
