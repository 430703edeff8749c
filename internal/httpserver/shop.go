package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/med_clinic/internal/logging"
	"github.com/Skotchmaster/med_clinic/internal/revalidate"
	"github.com/Skotchmaster/med_clinic/internal/service"
	"github.com/Skotchmaster/med_clinic/internal/transport"
)

type ShopHTTP struct {
	Svc   *service.ShopService
	Cache *revalidate.Revalidator
}

func (h *ShopHTTP) ListBooks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.list")

	p := pageOf(c)
	total, books, err := h.Svc.ListBooks(ctx, c.QueryParam("q"), p.Offset, p.Limit)
	if err != nil {
		return fail(l, "book_list_error", err)
	}
	return c.JSON(http.StatusOK, transport.Paged(books, p.Meta(total)))
}

func (h *ShopHTTP) GetBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.get")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "book_get_error", "id is not a uuid", err)
	}
	b, err := h.Svc.GetBook(ctx, id)
	if err != nil {
		return fail(l, "book_get_error", err)
	}
	return c.JSON(http.StatusOK, transport.OK(b))
}

func (h *ShopHTTP) CreateBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.create")

	var req transport.BookRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "book_create_error", "invalid body", err)
	}
	b, err := h.Svc.CreateBook(ctx, service.BookInput(req))
	if err != nil {
		return fail(l, "book_create_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.BookChanged)

	l.Info("book_create_success", "book_id", b.ID)
	return c.JSON(http.StatusCreated, transport.OK(b))
}

func (h *ShopHTTP) UpdateBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.update")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "book_update_error", "id is not a uuid", err)
	}
	var req transport.BookRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "book_update_error", "invalid body", err)
	}
	b, err := h.Svc.UpdateBook(ctx, id, service.BookInput(req))
	if err != nil {
		return fail(l, "book_update_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.BookChanged)

	l.Info("book_update_success", "book_id", b.ID)
	return c.JSON(http.StatusOK, transport.OK(b))
}

func (h *ShopHTTP) DeleteBook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "book.delete")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "book_delete_error", "id is not a uuid", err)
	}
	if err := h.Svc.DeleteBook(ctx, id); err != nil {
		return fail(l, "book_delete_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.BookChanged)

	l.Info("book_delete_success", "book_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *ShopHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	cart, err := h.Svc.Cart(ctx, actorOf(c).ID)
	if err != nil {
		return fail(l, "cart_get_error", err)
	}
	return c.JSON(http.StatusOK, transport.OK(cart))
}

func (h *ShopHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "cart_add_error", "invalid body", err)
	}
	item, err := h.Svc.AddToCart(ctx, actorOf(c).ID, req.BookID, req.Quantity)
	if err != nil {
		return fail(l, "cart_add_error", err)
	}

	l.Info("cart_add_success", "book_id", req.BookID, "quantity", item.Quantity)
	return c.JSON(http.StatusOK, transport.OK(item))
}

func (h *ShopHTTP) SetQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.set_quantity")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "cart_set_quantity_error", "id is not a uuid", err)
	}
	var req transport.CartQuantityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "cart_set_quantity_error", "invalid body", err)
	}
	item, err := h.Svc.SetQuantity(ctx, actorOf(c).ID, id, req.Quantity)
	if err != nil {
		return fail(l, "cart_set_quantity_error", err)
	}
	return c.JSON(http.StatusOK, transport.OK(item))
}

func (h *ShopHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "cart_remove_error", "id is not a uuid", err)
	}
	if err := h.Svc.RemoveItem(ctx, actorOf(c).ID, id); err != nil {
		return fail(l, "cart_remove_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ShopHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	if err := h.Svc.ClearCart(ctx, actorOf(c).ID); err != nil {
		return fail(l, "cart_clear_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ShopHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "checkout_error", "invalid body", err)
	}
	order, err := h.Svc.Checkout(ctx, actorOf(c).ID, service.CheckoutInput(req))
	if err != nil {
		return fail(l, "checkout_error", err)
	}
	h.Cache.Revalidate(ctx, revalidate.StockChanged)

	l.Info("checkout_success", "order_id", order.ID, "total", order.Total)
	return c.JSON(http.StatusCreated, transport.OK(order))
}

func (h *ShopHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	p := pageOf(c)
	total, orders, err := h.Svc.ListOrders(ctx, actorOf(c), c.QueryParam("status"), p.Offset, p.Limit)
	if err != nil {
		return fail(l, "order_list_error", err)
	}
	return c.JSON(http.StatusOK, transport.Paged(orders, p.Meta(total)))
}

func (h *ShopHTTP) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := idParam(c)
	if err != nil {
		return badRequest(l, "order_status_error", "id is not a uuid", err)
	}
	var req transport.StatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "order_status_error", "invalid body", err)
	}
	order, err := h.Svc.UpdateOrderStatus(ctx, id, req.Status)
	if err != nil {
		return fail(l, "order_status_error", err)
	}

	l.Info("order_status_success", "order_id", id, "status", order.Status)
	return c.JSON(http.StatusOK, transport.OK(order))
}
