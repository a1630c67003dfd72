package helper

import (
	"log"
	"ticket_manager/database"
	"ticket_manager/model"
	"time"

	"github.com/robfig/cron/v3"
)

var saleWindowScheduler *cron.Cron

func StartSaleWindowScheduler() {
	saleWindowScheduler = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	_, err := saleWindowScheduler.AddFunc("*/5 * * * *", closeExpiredSaleWindows)
	if err != nil {
		log.Printf("Sale window scheduler init failed: %v", err)
		return
	}

	saleWindowScheduler.Start()
	log.Println("Sale window scheduler started (every 5 minutes)")
}

// closeExpiredSaleWindows deactivates ticket types whose sale window ended.
// CreateOrder also checks the window, so this is only a catalog tidy-up.
func closeExpiredSaleWindows() {
	now := time.Now()
	result := database.DB.Model(&model.TicketType{}).
		Where("is_active = ? AND sale_end < ?", true, now).
		Update("is_active", false)

	if result.Error != nil {
		log.Printf("Sale window sweep failed: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Closed sales on %d ticket types", result.RowsAffected)
	}
}

func StopSaleWindowScheduler() {
	if saleWindowScheduler != nil {
		saleWindowScheduler.Stop()
		log.Println("Sale window scheduler stopped")
	}
}
