package service

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
)

// CalendarService собирает подписной iCalendar-фид подразделения:
// одно VEVENT на каждое неотменённое занятие
type CalendarService struct {
	tx          TxManager
	bookingRepo BookingRepository
	logger      *zap.Logger
}

func NewCalendarService(tx TxManager, bookingRepo BookingRepository, logger *zap.Logger) *CalendarService {
	return &CalendarService{
		tx:          tx,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Feed сериализует календарь подразделения в text/calendar.
// Временные метки абсолютные (UTC), зону отображения выбирает клиент
func (s *CalendarService) Feed(ctx context.Context, businessID string) (string, error) {
	bookings, err := s.bookingRepo.ListForCalendar(ctx, s.tx.DB(), businessID)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//tangent-erp//bookings//EN")
	cal.SetName(fmt.Sprintf("Bookings (%s)", businessID))

	now := time.Now().UTC()
	for _, b := range bookings {
		event := cal.AddEvent(b.ID.String())
		event.SetDtStampTime(now)
		event.SetStartAt(b.StartTime.UTC())
		event.SetEndAt(b.EndTime.UTC())

		title := "Lesson"
		if b.Student != nil && b.Student.Name != "" {
			title = b.Student.Name
		}
		event.SetSummary(title)

		if b.Location != "" {
			event.SetLocation(b.Location)
		}

		description := b.Notes
		if b.MeetingURL != "" {
			if description != "" {
				description += "\n"
			}
			description += b.MeetingURL
			event.SetURL(b.MeetingURL)
		}
		if description != "" {
			event.SetDescription(description)
		}
	}

	s.logger.Debug("Calendar feed built",
		zap.String("business_id", businessID),
		zap.Int("events", len(bookings)),
	)

	return cal.Serialize(), nil
}
