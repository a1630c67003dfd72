package utils

import (
	"bytes"
	"html/template"
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// OrderEmailData feeds the order email templates.
type OrderEmailData struct {
	OrderCode  string
	EventName  string
	Lines      []string
	Total      float64
	DetailLink string
}

// SendOrderEmail renders the named template and sends it asynchronously so a
// mail outage never delays or fails the calling transaction.
func SendOrderEmail(to string, templateName string, data OrderEmailData) {
	go func() {
		tmpl, err := template.ParseFiles("templates/" + templateName)
		if err != nil {
			log.Printf("Email template %s load failed: %v", templateName, err)
			return
		}

		var body bytes.Buffer
		if err := tmpl.Execute(&body, data); err != nil {
			log.Printf("Email template %s render failed: %v", templateName, err)
			return
		}

		host := os.Getenv("SMTP_HOST")
		if host == "" {
			return
		}
		port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
		if port == 0 {
			port = 587
		}

		m := gomail.NewMessage()
		m.SetHeader("From", os.Getenv("SMTP_FROM"))
		m.SetHeader("To", to)
		m.SetHeader("Subject", "Order "+data.OrderCode)
		m.SetBody("text/html", body.String())

		d := gomail.NewDialer(host, port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"))
		if err := d.DialAndSend(m); err != nil {
			log.Printf("Email to %s failed: %v", to, err)
		}
	}()
}
