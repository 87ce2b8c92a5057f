package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/trailhead/internal/core/domain"
)

// ListBooksHandler returns every book, paginated.
func ListBooksHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		books, err := deps.Books.List(c.UserContext())
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(paginate(c, books))
	}
}

// GetBookHandler returns a book by ID.
func GetBookHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid book id")
		}
		b, err := deps.Books.GetByID(c.UserContext(), id)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(b)
	}
}

// BooksByCategoryHandler lists books in a category.
func BooksByCategoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		books, err := deps.Books.ListByCategory(c.UserContext(), c.Params("category"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(paginate(c, books))
	}
}

// GetCartHandler returns the caller's cart, creating an empty one on first use.
func GetCartHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		view, err := deps.Carts.View(c.UserContext(), principal(c).UserID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(view)
	}
}

type cartItemRequest struct {
	BookID   int64 `json:"bookId"`
	Quantity *int  `json:"quantity"`
}

// AddCartItemHandler adds a book to the cart; quantity defaults to 1.
func AddCartItemHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req cartItemRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid cart item data")
		}
		if req.BookID <= 0 {
			return errBadRequest(c, "bookId is required")
		}
		qty := 1
		if req.Quantity != nil {
			qty = *req.Quantity
		}
		item, err := deps.Carts.AddItem(c.UserContext(), principal(c).UserID, req.BookID, qty)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

// UpdateCartItemHandler changes the quantity of a cart line.
func UpdateCartItemHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid cart item id")
		}
		var req cartItemRequest
		if err := c.BodyParser(&req); err != nil || req.Quantity == nil {
			return errBadRequest(c, "quantity is required")
		}
		item, err := deps.Carts.UpdateItem(c.UserContext(), principal(c).UserID, id, *req.Quantity)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(item)
	}
}

// RemoveCartItemHandler deletes a cart line.
func RemoveCartItemHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid cart item id")
		}
		if err := deps.Carts.RemoveItem(c.UserContext(), principal(c).UserID, id); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ClearCartHandler empties the caller's cart.
func ClearCartHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Carts.Clear(c.UserContext(), principal(c).UserID); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// CheckoutHandler turns the cart into an order.
func CheckoutHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		receipt, err := deps.Orders.Checkout(c.UserContext(), principal(c).UserID)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(receipt)
	}
}

// ListOrdersHandler returns the caller's orders, newest first.
func ListOrdersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orders, err := deps.Orders.List(c.UserContext(), principal(c).UserID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(paginate(c, orders))
	}
}

// GetOrderHandler returns one of the caller's orders with its lines.
func GetOrderHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid order id")
		}
		order, err := deps.Orders.Get(c.UserContext(), principal(c).UserID, id)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(order)
	}
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatusHandler moves an order through its lifecycle.
func UpdateOrderStatusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid order id")
		}
		var req statusRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid status data")
		}
		order, err := deps.Orders.UpdateStatus(c.UserContext(), id, domain.OrderStatus(req.Status))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(order)
	}
}
