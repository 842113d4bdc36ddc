package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"groompro-backend/clover"
	"groompro-backend/models"
	"groompro-backend/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultDuration = 60

// BusinessHours configure scheduling windows in the shop's timezone.
type BusinessHours struct {
	Open        string
	Close       string
	SlotMinutes int
	Location    *time.Location
}

type AppointmentService struct {
	appts AppointmentRepository
	pets  PetRepository
	pos   PointOfSale
	hours BusinessHours
}

func NewAppointmentService(appts AppointmentRepository, pets PetRepository, pos PointOfSale, hours BusinessHours) *AppointmentService {
	if hours.Location == nil {
		hours.Location = time.UTC
	}
	return &AppointmentService{appts: appts, pets: pets, pos: pos, hours: hours}
}

// ListQuery holds the optional listing filters.
type ListQuery struct {
	Date   string
	Status string
}

// List returns the appointments the actor may see: all for admins, assigned ones
// for employees, own ones for clients.
func (s *AppointmentService) List(ctx context.Context, actor models.User, q ListQuery) ([]models.Appointment, error) {
	var filter AppointmentFilter

	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleEmployee:
		if actor.CloverEmployeeID == nil || *actor.CloverEmployeeID == "" {
			return []models.Appointment{}, nil
		}
		filter.EmployeeID = actor.CloverEmployeeID
	case models.RoleClient:
		filter.UserID = &actor.ID
	default:
		return nil, ErrForbidden
	}

	if q.Date != "" {
		from, err := parseDay(q.Date, s.hours.Location)
		if err != nil {
			return nil, err
		}
		to := from.AddDate(0, 0, 1)
		filter.From, filter.To = &from, &to
	}
	if q.Status != "" {
		status := models.AppointmentStatus(q.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, q.Status)
		}
		filter.Statuses = []models.AppointmentStatus{status}
	}

	appts, err := s.appts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

// Get returns one appointment with pet and customer, if the actor may see it.
func (s *AppointmentService) Get(ctx context.Context, actor models.User, id uuid.UUID) (*models.Appointment, error) {
	appt, err := s.appts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, appt) {
		return nil, ErrNotFound
	}
	return appt, nil
}

func canView(actor models.User, appt *models.Appointment) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleClient:
		return appt.UserID == actor.ID
	case models.RoleEmployee:
		return actor.CloverEmployeeID != nil && *actor.CloverEmployeeID == appt.EmployeeID
	}
	return false
}

type CreateAppointmentInput struct {
	PetID          uuid.UUID `json:"pet_id" binding:"required"`
	ServiceItemIDs []string  `json:"service_item_ids" binding:"required"`
	ScheduledAt    time.Time `json:"scheduled_at" binding:"required"`
	EmployeeID     string    `json:"employee_id"`
	Duration       int       `json:"duration"`
	Notes          string    `json:"notes"`
}

// Create books an appointment and opens a matching Clover order. If the row
// cannot be inserted the order is deleted again.
func (s *AppointmentService) Create(ctx context.Context, actor models.User, in CreateAppointmentInput) (*models.Appointment, error) {
	if len(in.ServiceItemIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}
	if in.ScheduledAt.IsZero() {
		return nil, fmt.Errorf("%w: scheduled_at is required", ErrInvalidInput)
	}
	if in.Duration < 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	if in.Duration == 0 {
		in.Duration = defaultDuration
	}

	pet, err := s.pets.FindByID(ctx, in.PetID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown pet", ErrInvalidInput)
		}
		return nil, err
	}
	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleClient:
		if pet.UserID != actor.ID {
			return nil, ErrForbidden
		}
	default:
		return nil, ErrForbidden
	}

	if s.pos == nil || !s.pos.Enabled() {
		return nil, fmt.Errorf("%w: point of sale is not configured", ErrUnavailable)
	}
	items, err := s.resolveItems(ctx, in.ServiceItemIDs)
	if err != nil {
		return nil, err
	}

	appt := &models.Appointment{
		ID:          uuid.New(),
		UserID:      pet.UserID,
		PetID:       pet.ID,
		Status:      models.StatusScheduled,
		ScheduledAt: in.ScheduledAt.UTC(),
		EmployeeID:  strings.TrimSpace(in.EmployeeID),
		Duration:    in.Duration,
		Notes:       strings.TrimSpace(in.Notes),
	}
	for _, it := range items {
		appt.ServiceItemIDs = append(appt.ServiceItemIDs, it.ID)
		appt.ServiceNames = append(appt.ServiceNames, it.Name)
		appt.TotalPrice += it.Price
	}

	order, err := s.openOrder(ctx, appt, pet)
	if err != nil {
		return nil, err
	}
	appt.OrderID = &order.ID

	if err := s.appts.Create(ctx, appt); err != nil {
		s.discardOrder(ctx, order.ID)
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"appointment_id": appt.ID,
		"order_id":       order.ID,
		"user_id":        appt.UserID,
	}).Info("Appointment created")

	created, err := s.appts.FindByID(ctx, appt.ID)
	if err != nil {
		return appt, nil
	}
	return created, nil
}

func (s *AppointmentService) resolveItems(ctx context.Context, ids []string) ([]clover.Item, error) {
	catalog, err := s.pos.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("load services: %w", err)
	}
	byID := make(map[string]clover.Item, len(catalog))
	for _, it := range catalog {
		byID[it.ID] = it
	}

	out := make([]clover.Item, 0, len(ids))
	for _, id := range ids {
		it, ok := byID[id]
		if !ok {
			// The cached catalog may predate the item.
			fresh, err := s.pos.Item(ctx, id)
			if clover.IsNotFound(err) {
				return nil, fmt.Errorf("%w: unknown service %q", ErrInvalidInput, id)
			}
			if err != nil {
				return nil, fmt.Errorf("load service %s: %w", id, err)
			}
			it = *fresh
			byID[id] = it
		}
		out = append(out, it)
	}
	return out, nil
}

func (s *AppointmentService) openOrder(ctx context.Context, appt *models.Appointment, pet *models.Pet) (*clover.Order, error) {
	order, err := s.pos.CreateOrder(ctx, clover.OrderParams{
		Title:      orderTitle(pet, appt.ScheduledAt.In(s.hours.Location)),
		Note:       appt.Notes,
		EmployeeID: appt.EmployeeID,
	})
	if err != nil {
		return nil, fmt.Errorf("open order: %w", err)
	}
	for _, itemID := range appt.ServiceItemIDs {
		if err := s.pos.AddLineItem(ctx, order.ID, itemID); err != nil {
			s.discardOrder(ctx, order.ID)
			return nil, fmt.Errorf("open order: %w", err)
		}
	}
	return order, nil
}

func orderTitle(pet *models.Pet, at time.Time) string {
	return fmt.Sprintf("%s grooming %s", pet.Name, at.Format("Jan 2 15:04"))
}

func (s *AppointmentService) discardOrder(ctx context.Context, orderID string) {
	if err := s.pos.DeleteOrder(context.WithoutCancel(ctx), orderID); err != nil {
		logrus.WithFields(logrus.Fields{
			"order_id": orderID,
			"error":    err.Error(),
		}).Error("Failed to delete orphaned Clover order")
	}
}

// AppointmentPatch lists the fields an admin may change. Nil fields are left alone.
type AppointmentPatch struct {
	Status      *models.AppointmentStatus `json:"status"`
	ScheduledAt *time.Time                `json:"scheduled_at"`
	EmployeeID  *string                   `json:"employee_id"`
	Duration    *int                      `json:"duration"`
	Notes       *string                   `json:"notes"`
}

func (p AppointmentPatch) updates() (map[string]any, error) {
	updates := map[string]any{}
	if p.Status != nil {
		if !p.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *p.Status)
		}
		updates["status"] = *p.Status
	}
	if p.ScheduledAt != nil {
		if p.ScheduledAt.IsZero() {
			return nil, fmt.Errorf("%w: scheduled_at cannot be empty", ErrInvalidInput)
		}
		updates["scheduled_at"] = p.ScheduledAt.UTC()
	}
	if p.EmployeeID != nil {
		updates["employee_id"] = strings.TrimSpace(*p.EmployeeID)
	}
	if p.Duration != nil {
		if *p.Duration <= 0 {
			return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
		}
		updates["duration"] = *p.Duration
	}
	if p.Notes != nil {
		updates["notes"] = strings.TrimSpace(*p.Notes)
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	return updates, nil
}

// Update applies patch to exactly the appointment with id and returns it. Employee,
// note and cancellation changes are pushed to the Clover order best-effort.
func (s *AppointmentService) Update(ctx context.Context, id uuid.UUID, patch AppointmentPatch) (*models.Appointment, error) {
	updates, err := patch.updates()
	if err != nil {
		return nil, err
	}

	appt, err := s.appts.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}

	if appt.OrderID != nil && s.pos != nil && s.pos.Enabled() {
		params := clover.OrderParams{}
		if patch.EmployeeID != nil {
			params.EmployeeID = appt.EmployeeID
			params.ClearEmployee = appt.EmployeeID == ""
		}
		if patch.Notes != nil || patch.Status != nil {
			params.Note = orderNote(appt)
			params.ClearNote = params.Note == ""
		}
		if params != (clover.OrderParams{}) {
			if _, err := s.pos.UpdateOrder(ctx, *appt.OrderID, params); err != nil {
				logrus.WithFields(logrus.Fields{
					"appointment_id": id,
					"order_id":       *appt.OrderID,
					"error":          err.Error(),
				}).Warn("Failed to sync appointment to Clover order")
			}
		}
	}
	return appt, nil
}

// orderNote is the Clover order note for appt; cancelled orders keep a CANCELLED prefix.
func orderNote(appt *models.Appointment) string {
	if appt.Status == models.StatusCancelled {
		return strings.TrimSpace("CANCELLED " + appt.Notes)
	}
	return appt.Notes
}

// Delete removes exactly the appointment with id and its Clover order, best-effort.
func (s *AppointmentService) Delete(ctx context.Context, id uuid.UUID) error {
	appt, err := s.appts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.appts.Delete(ctx, id); err != nil {
		return err
	}
	if appt.OrderID != nil && s.pos != nil && s.pos.Enabled() {
		s.discardOrder(ctx, *appt.OrderID)
	}
	return nil
}

// Availability lists the free slots for a groomer on date (YYYY-MM-DD).
func (s *AppointmentService) Availability(ctx context.Context, employeeID, date string) ([]clover.Window, error) {
	if strings.TrimSpace(employeeID) == "" {
		return nil, fmt.Errorf("%w: employee_id is required", ErrInvalidInput)
	}
	day, err := parseDay(date, s.hours.Location)
	if err != nil {
		return nil, err
	}
	if s.pos == nil || !s.pos.Enabled() {
		return nil, fmt.Errorf("%w: point of sale is not configured", ErrUnavailable)
	}

	to := day.AddDate(0, 0, 1)
	booked, err := s.appts.List(ctx, AppointmentFilter{EmployeeID: &employeeID, From: &day, To: &to})
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	var windows []clover.Window
	for _, a := range booked {
		if a.Status.Blocking() {
			windows = append(windows, clover.Window{Start: a.ScheduledAt, End: a.EndsAt()})
		}
	}

	return s.pos.Availability(ctx, employeeID, day, clover.Hours{
		Open:        s.hours.Open,
		Close:       s.hours.Close,
		SlotMinutes: s.hours.SlotMinutes,
		Location:    s.hours.Location,
	}, windows)
}

func parseDay(date string, loc *time.Location) (time.Time, error) {
	day, err := utils.ParseDay(date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return day, nil
}
