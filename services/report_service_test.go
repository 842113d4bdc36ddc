package services

import (
	"context"
	"testing"
	"time"

	"groompro-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportSummary(t *testing.T) {
	now := time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC)
	ada := &models.User{ID: uuid.New(), FirstName: "Ada", LastName: "Lovelace"}
	bob := &models.User{ID: uuid.New(), FirstName: "Bob"}

	booked := func(u *models.User, at time.Time, status models.AppointmentStatus, cents int64, services ...string) models.Appointment {
		a := apptAt(u.ID, "E1", at, status)
		a.User, a.Pet = u, &models.Pet{Name: "Rex"}
		a.TotalPrice = cents
		a.ServiceNames = services
		return a
	}

	appts := newFakeAppts(
		booked(ada, time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC), models.StatusCompleted, 10000, "Bath"),
		booked(ada, time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC), models.StatusCompleted, 15000, "Bath", "Nail Trim"),
		booked(bob, time.Date(2025, 6, 5, 10, 0, 0, 0, time.UTC), models.StatusCancelled, 9999, "Bath"),
		booked(bob, time.Date(2025, 6, 10, 14, 30, 0, 0, time.UTC), models.StatusScheduled, 5000, "Bath"),
		booked(ada, time.Date(2025, 6, 20, 11, 0, 0, 0, time.UTC), models.StatusScheduled, 3000, "Haircut"),
		booked(bob, time.Date(2025, 7, 1, 11, 0, 0, 0, time.UTC), models.StatusScheduled, 7000, "Bath"),
	)

	svc := NewReportService(appts, time.UTC)
	svc.now = func() time.Time { return now }

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(23000), summary.CurrentMonthRevenue)
	assert.Equal(t, int64(10000), summary.LastMonthRevenue)
	assert.InDelta(t, 130.0, summary.MonthGrowth, 0.001)
	assert.Equal(t, 4, summary.CurrentMonthAppointments)
	assert.Equal(t, 2, summary.StatusCounts[models.StatusScheduled])
	assert.Equal(t, 1, summary.StatusCounts[models.StatusCancelled])

	assert.Equal(t, []ServiceSummary{{"Bath", 2}, {"Haircut", 1}, {"Nail Trim", 1}}, summary.TopServices)
	require.Len(t, summary.TopCustomers, 2)
	assert.Equal(t, CustomerSummary{Name: "Ada Lovelace", Visits: 2, Spent: 18000}, summary.TopCustomers[0])

	require.Len(t, summary.Upcoming, 1)
	assert.Equal(t, "Tomorrow", summary.Upcoming[0].Day)
	assert.Equal(t, "2:30 PM", summary.Upcoming[0].Time)
	assert.Equal(t, "Bob", summary.Upcoming[0].Customer)
}

func TestGrowthPercentage(t *testing.T) {
	assert.Zero(t, growthPercentage(0, 0))
	assert.Equal(t, 100.0, growthPercentage(500, 0))
	assert.Equal(t, -50.0, growthPercentage(50, 100))
}
