// services/reminder_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"groompro-backend/models"
	"groompro-backend/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSSender delivers a text message and returns the provider's message id.
type SMSSender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

type twilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSender sends through the Twilio Messages API.
func NewTwilioSender(accountSID, authToken, from string) SMSSender {
	return &twilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

func (t *twilioSender) Send(_ context.Context, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

type ReminderService struct {
	appts    AppointmentRepository
	logs     ReminderLogRepository
	sender   SMSSender
	loc      *time.Location
	schedule string
	sent     *prometheus.CounterVec
	now      func() time.Time
	cron     *cron.Cron

	// mu serialises batches so the cron run and a manual trigger cannot both
	// pass the HasSent check for the same appointment.
	mu sync.Mutex
}

func NewReminderService(appts AppointmentRepository, logs ReminderLogRepository, sender SMSSender, loc *time.Location, schedule string, sent *prometheus.CounterVec) *ReminderService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReminderService{
		appts:    appts,
		logs:     logs,
		sender:   sender,
		loc:      loc,
		schedule: schedule,
		sent:     sent,
		now:      time.Now,
	}
}

// StartScheduler registers the daily run and starts cron in its own goroutine.
func (s *ReminderService) StartScheduler() error {
	s.cron = cron.New(cron.WithLocation(s.loc))
	if _, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := s.SendDailyReminders(ctx); err != nil {
			logrus.WithError(err).Error("Daily reminder run failed")
		}
	}); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	logrus.WithField("schedule", s.schedule).Info("Reminder scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running job.
func (s *ReminderService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// SendDailyReminders texts the owners of tomorrow's scheduled or confirmed
// appointments. Appointments that already have a sent reminder are skipped.
// It returns the number of messages delivered.
func (s *ReminderService) SendDailyReminders(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := utils.BeginningOfDay(s.now().In(s.loc))
	from := today.AddDate(0, 0, 1)
	to := from.AddDate(0, 0, 1)

	appts, err := s.appts.List(ctx, AppointmentFilter{
		From:     &from,
		To:       &to,
		Statuses: []models.AppointmentStatus{models.StatusScheduled, models.StatusConfirmed},
	})
	if err != nil {
		return 0, fmt.Errorf("load tomorrow's appointments: %w", err)
	}

	delivered := 0
	for i := range appts {
		if ok := s.remind(ctx, &appts[i]); ok {
			delivered++
		}
	}
	logrus.WithFields(logrus.Fields{
		"appointments": len(appts),
		"delivered":    delivered,
	}).Info("Daily reminder processing completed")
	return delivered, nil
}

func (s *ReminderService) remind(ctx context.Context, appt *models.Appointment) bool {
	log := logrus.WithField("appointment_id", appt.ID)

	if appt.User == nil || appt.User.Phone == "" {
		log.Debug("No phone number on file, skipping reminder")
		return false
	}
	already, err := s.logs.HasSent(ctx, appt.ID)
	if err != nil {
		log.WithError(err).Warn("Failed to check reminder log")
		return false
	}
	if already {
		return false
	}

	message := reminderMessage(appt, s.loc, s.now())
	status, errorMsg := models.ReminderSent, ""
	sid, err := s.sender.Send(ctx, utils.NormalizePhone(appt.User.Phone), message)
	if err != nil {
		status, errorMsg = models.ReminderFailed, err.Error()
		log.WithError(err).Warn("Failed to send reminder")
	} else {
		log.WithField("sid", sid).Info("Reminder sent")
	}
	if s.sent != nil {
		s.sent.WithLabelValues(status).Inc()
	}

	entry := &models.ReminderLog{
		AppointmentID: appt.ID,
		UserID:        appt.UserID,
		Channel:       "sms",
		Message:       message,
		Status:        status,
		ErrorMessage:  errorMsg,
		SentAt:        s.now(),
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		log.WithError(err).Error("Failed to log reminder")
	}
	return status == models.ReminderSent
}

func reminderMessage(appt *models.Appointment, loc *time.Location, now time.Time) string {
	petName := "your pet"
	if appt.Pet != nil && appt.Pet.Name != "" {
		petName = appt.Pet.Name
	}
	owner := ""
	if appt.User != nil && appt.User.FirstName != "" {
		owner = " " + appt.User.FirstName
	}
	at := appt.ScheduledAt.In(loc)
	return fmt.Sprintf("Hi%s! Reminder: %s has a grooming appointment %s at %s. Reply or call us to reschedule.",
		owner, petName, lowerFirst(utils.RelativeDay(now.In(loc), at)), at.Format("3:04 PM"))
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
