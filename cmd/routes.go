package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"

	"postlinkBack/internal/models"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RolePublisher))
	adminAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleAdmin))

	mux := pat.New()

	// Publishers
	mux.Post("/publisher/sign_up", standardMiddleware.ThenFunc(app.publisherHandler.SignUp))
	mux.Post("/publisher/sign_in", standardMiddleware.ThenFunc(app.publisherHandler.SignIn))
	mux.Get("/publisher/me", authMiddleware.ThenFunc(app.publisherHandler.GetProfile))
	mux.Get("/publisher/dashboard", authMiddleware.ThenFunc(app.publisherHandler.GetDashboard))
	mux.Post("/publisher/fcm_token", authMiddleware.ThenFunc(app.publisherHandler.SaveFCMToken))
	mux.Get("/publisher", adminAuthMiddleware.ThenFunc(app.publisherHandler.GetPublishers))
	mux.Get("/publisher/:id", adminAuthMiddleware.ThenFunc(app.publisherHandler.GetPublisherByID))
	mux.Del("/publisher/:id", adminAuthMiddleware.ThenFunc(app.publisherHandler.Deactivate))
	mux.Post("/publisher/:id/reconcile", adminAuthMiddleware.ThenFunc(app.publisherHandler.ReconcileCounters))
	mux.Get("/publisher/:id/invoices", adminAuthMiddleware.ThenFunc(app.paymentHandler.GetInvoicesByPublisher))

	// Websites
	mux.Post("/website", authMiddleware.ThenFunc(app.websiteHandler.SubmitWebsite))
	mux.Get("/website/my", authMiddleware.ThenFunc(app.websiteHandler.GetMyWebsites))
	mux.Get("/website/status/:status", adminAuthMiddleware.ThenFunc(app.websiteHandler.GetWebsitesByStatus))
	mux.Get("/website/:id", authMiddleware.ThenFunc(app.websiteHandler.GetWebsiteByID))
	mux.Del("/website/:id", authMiddleware.ThenFunc(app.websiteHandler.DeleteWebsite))
	mux.Post("/website/:id/counter_offer", authMiddleware.ThenFunc(app.websiteHandler.SendCounterOffer))
	mux.Post("/website/:id/counter_offer/respond", authMiddleware.ThenFunc(app.websiteHandler.RespondToCounterOffer))
	mux.Post("/website/:id/counter_offer/accept", adminAuthMiddleware.ThenFunc(app.websiteHandler.AcceptPublisherCounterOffer))
	mux.Post("/website/:id/verify", adminAuthMiddleware.ThenFunc(app.websiteHandler.VerifyWebsite))
	mux.Put("/website/:id/status", adminAuthMiddleware.ThenFunc(app.websiteHandler.UpdateWebsiteStatus))

	// Orders
	mux.Post("/order", adminAuthMiddleware.ThenFunc(app.orderHandler.CreateOrder))
	mux.Get("/order/my", authMiddleware.ThenFunc(app.orderHandler.GetMyOrders))
	mux.Get("/order/:id", authMiddleware.ThenFunc(app.orderHandler.GetOrderByID))
	mux.Post("/order/:id/approve", authMiddleware.ThenFunc(app.orderHandler.ApproveTopic))
	mux.Post("/order/:id/submit", authMiddleware.ThenFunc(app.orderHandler.SubmitURL))
	mux.Put("/order/:id/status", adminAuthMiddleware.ThenFunc(app.orderHandler.UpdateOrderStatus))
	mux.Post("/order/:id/attachment", adminAuthMiddleware.ThenFunc(app.orderHandler.UploadAttachment))

	// Invoices
	mux.Post("/invoice", adminAuthMiddleware.ThenFunc(app.paymentHandler.GenerateInvoice))
	mux.Post("/invoice/manual", adminAuthMiddleware.ThenFunc(app.paymentHandler.CreateManualPayment))
	mux.Post("/invoice/run_scheduled", adminAuthMiddleware.ThenFunc(app.paymentHandler.RunScheduled))
	mux.Get("/invoice/my", authMiddleware.ThenFunc(app.paymentHandler.GetMyInvoices))
	mux.Get("/invoice/:id", authMiddleware.ThenFunc(app.paymentHandler.GetInvoiceByID))
	mux.Put("/invoice/:id/status", adminAuthMiddleware.ThenFunc(app.paymentHandler.UpdateInvoiceStatus))

	// Support tickets
	mux.Post("/ticket", authMiddleware.ThenFunc(app.ticketHandler.CreateTicket))
	mux.Get("/ticket/my", authMiddleware.ThenFunc(app.ticketHandler.GetMyTickets))

	// Admin notification feed
	mux.Get("/ws/notifications", http.HandlerFunc(app.WebSocketHandler))

	return mux
}
