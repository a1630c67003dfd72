package helper

import (
	"context"
	"encoding/json"
	"log"
	"net/smtp"
	"ticket_manager/config"
	"ticket_manager/database"
	"ticket_manager/utils"

	"github.com/jordan-wright/email"
)

const (
	NotifyOrderConfirmed    = "ORDER_CONFIRMED"
	NotifyOrderCancelled    = "ORDER_CANCELLED"
	NotifyOrderExpired      = "ORDER_EXPIRED"
	NotifyTicketTransferred = "TICKET_TRANSFERRED"
)

type Notification struct {
	Type       string  `json:"type"`
	Email      string  `json:"email,omitempty"`
	OrderCode  string  `json:"orderCode,omitempty"`
	TicketCode string  `json:"ticketCode,omitempty"`
	Amount     float64 `json:"amount,omitempty"`
}

var notifyCh = make(chan Notification, 256)

// Notify hands a domain notification to the background worker. It never
// blocks and never fails the caller's transaction: a full channel drops the
// notification with a log line.
func Notify(n Notification) {
	select {
	case notifyCh <- n:
	default:
		log.Printf("Notification channel full, dropped %s for %s", n.Type, n.OrderCode)
	}
}

func StartNotificationWorker() {
	go func() {
		for n := range notifyCh {
			dispatch(n)
		}
	}()
	log.Println("Notification worker started")
}

func dispatch(n Notification) {
	publishNotification(n)

	if n.Email == "" {
		return
	}
	switch n.Type {
	case NotifyOrderConfirmed:
		utils.SendOrderEmail(n.Email, "order_confirmation.html", utils.OrderEmailData{
			OrderCode: n.OrderCode,
			Total:     n.Amount,
		})
	case NotifyOrderCancelled, NotifyOrderExpired:
		utils.SendOrderEmail(n.Email, "order_cancelled.html", utils.OrderEmailData{
			OrderCode: n.OrderCode,
			Total:     n.Amount,
		})
	case NotifyTicketTransferred:
		sendTransferEmail(n)
	}
}

// publishNotification mirrors every notification onto a redis channel for
// external consumers. Best effort only.
func publishNotification(n Notification) {
	if database.Redis == nil {
		return
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return
	}
	if err := database.Redis.Publish(context.Background(), "notifications", payload).Err(); err != nil {
		log.Printf("Notification publish failed: %v", err)
	}
}

// Transfer mail is a short plain-text message, no template needed.
func sendTransferEmail(n Notification) {
	host := config.Config("SMTP_HOST")
	if host == "" {
		return
	}

	e := email.NewEmail()
	e.From = config.ConfigOr("SMTP_FROM", "TicketManager <no-reply@ticketmanager.local>")
	e.To = []string{n.Email}
	e.Subject = "A ticket was transferred to you"
	e.Text = []byte("Ticket " + n.TicketCode + " is now registered under your account.")

	addr := host + ":" + config.ConfigOr("SMTP_PORT", "587")
	auth := smtp.PlainAuth("", config.Config("SMTP_USERNAME"), config.Config("SMTP_PASSWORD"), host)
	if err := e.Send(addr, auth); err != nil {
		log.Printf("Transfer email to %s failed: %v", n.Email, err)
	}
}
