package router

import (
	"ticket_manager/handler"
	"ticket_manager/middleware"
	"ticket_manager/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api", logger.New())
	v1 := api.Group("/v1", logger.New())

	auth := v1.Group("/auth")
	auth.Post("/register", validate.RegisterClient(), handler.RegisterClient)
	auth.Post("/login", handler.ClientLogin)
	auth.Get("/me", middleware.Protected(), handler.Me)

	event := v1.Group("/events", logger.New())
	event.Get("/", handler.GetEvents)
	event.Post("/", middleware.Protected(), validate.CreateEvent(), handler.CreateEvent)
	event.Get("/:eventId/availability", validate.GetById("eventId"), handler.GetEventAvailability)
	event.Get("/:eventId/ticket-types", validate.GetById("eventId"), handler.GetTicketTypes)
	event.Post("/:eventId/ticket-types", middleware.Protected(), validate.GetById("eventId"), validate.CreateTicketType(), handler.CreateTicketType)
	event.Get("/:slug", handler.GetEventBySlug)
	event.Get("/:id/live", websocket.New(handler.AvailabilityWebsocket))

	order := v1.Group("/orders", logger.New())
	order.Get("/", middleware.Protected(), handler.GetMyOrders)
	order.Post("/", middleware.Protected(), validate.CreateOrder(), handler.CreateOrder)
	order.Get("/:orderCode", middleware.Protected(), handler.GetOrderDetail)
	order.Post("/:orderId/confirm", middleware.Protected(), validate.GetById("orderId"), handler.ConfirmOrder)
	order.Post("/:orderId/cancel", middleware.Protected(), validate.GetById("orderId"), handler.CancelOrder)
	order.Post("/:orderId/void", middleware.Protected(), validate.GetById("orderId"), handler.VoidOrder)
	order.Post("/:orderId/discount/promo", middleware.Protected(), validate.GetById("orderId"), validate.ApplyPromo(), handler.ApplyPromoDiscount)
	order.Post("/:orderId/discount/points", middleware.Protected(), validate.GetById("orderId"), handler.ApplyRedemptionDiscount)

	ticket := v1.Group("/tickets", logger.New())
	ticket.Get("/", middleware.Protected(), handler.GetMyTickets)
	ticket.Get("/code/:ticketCode", middleware.Protected(), handler.GetTicketByCode)
	ticket.Get("/:ticketId/qr", middleware.Protected(), validate.GetById("ticketId"), handler.GetTicketQRCode)
	ticket.Patch("/:ticketId/attendee", middleware.Protected(), validate.GetById("ticketId"), validate.AssignAttendee(), handler.AssignAttendee)

	transfer := v1.Group("/transfers", logger.New())
	transfer.Post("/:ticketId/verify", middleware.Protected(), validate.GetById("ticketId"), validate.Transfer(), handler.VerifyTransfer)
	transfer.Post("/:ticketId", middleware.Protected(), validate.GetById("ticketId"), validate.Transfer(), handler.ExecuteTransfer)
	transfer.Get("/:ticketId/history", middleware.Protected(), validate.GetById("ticketId"), handler.GetTransferHistory)
}
