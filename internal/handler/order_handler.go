package handler

import (
	"go-grocery-delivery/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// AssignRequest is the body of the assign endpoint. Without deliveryPersonId the caller takes the order.
type AssignRequest struct {
	DeliveryPersonID *uuid.UUID `json:"deliveryPersonId"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

// PlaceOrder handles order creation
// POST /api/orders
func (h *OrderHandler) PlaceOrder(c *fiber.Ctx) error {
	var req service.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.PlaceOrder(c.UserContext(), actorFrom(c), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Order placed successfully", "order": order})
}

// GetOrders lists the orders visible to the caller
// GET /api/orders
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders(c.UserContext(), actorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// GET /api/orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	order, err := h.service.GetOrder(c.UserContext(), actorFrom(c), orderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// AssignDelivery handles delivery assignment. Responds 404 for an unknown
// order or assignee and 400 when the assignee is not a delivery partner.
// PUT /api/orders/:id/assign
// PUT /api/orders/assign/:id
func (h *OrderHandler) AssignDelivery(c *fiber.Ctx) error {
	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req AssignRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
		}
	}

	order, err := h.service.AssignDelivery(c.UserContext(), actorFrom(c), orderID, req.DeliveryPersonID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Order assigned successfully", "order": order})
}

// UpdateStatus handles status changes
// PUT /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid order ID"})
	}

	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.UpdateStatus(c.UserContext(), actorFrom(c), orderID, req.Status)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Order status updated successfully", "order": order})
}
