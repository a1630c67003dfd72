package helper

import (
	"fmt"
	"log"
	"ticket_manager/database"
	"ticket_manager/model"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

var eventScheduler gocron.Scheduler

func GenerateUniqueEventSlug(tx *gorm.DB, name string) string {
	base := slug.Make(name)
	result := base
	i := 1

	for {
		var count int64
		tx.Model(&model.Event{}).
			Where("slug = ?", result).
			Count(&count)

		if count == 0 {
			break
		}
		result = fmt.Sprintf("%s-%d", base, i)
		i++
	}

	return result
}

// AutoUpdateEventStatus rolls events through UPCOMING -> ONGOING -> ENDED
// based on their scheduled times.
func AutoUpdateEventStatus() {
	db := database.DB
	now := time.Now()

	res := db.Model(&model.Event{}).
		Where("status = ? AND start_time <= ?", model.EventUpcoming, now).
		Update("status", model.EventOngoing)
	if res.Error != nil {
		log.Printf("Event status scan failed: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("Marked %d events ONGOING", res.RowsAffected)
	}

	res = db.Model(&model.Event{}).
		Where("status = ? AND end_time < ?", model.EventOngoing, now).
		Update("status", model.EventEnded)
	if res.Error != nil {
		log.Printf("Event status scan failed: %v", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("Marked %d events ENDED", res.RowsAffected)
	}
}

func StartEventStatusScheduler() {
	s, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal(err)
	}

	eventScheduler = s

	_, err = s.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(AutoUpdateEventStatus),
	)
	if err != nil {
		log.Fatal(err)
	}

	s.Start()
	log.Println("Event status scheduler started (every 30 minutes)")
}

func StopEventStatusScheduler() {
	if eventScheduler != nil {
		eventScheduler.Shutdown()
		log.Println("Event status scheduler stopped")
	}
}
