package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"groompro-backend/models"
	"groompro-backend/utils"
)

const (
	topListLimit  = 4
	upcomingLimit = 7
)

// ReportSummary is the admin overview: revenue, growth and what's coming up.
type ReportSummary struct {
	CurrentMonthRevenue      int64                            `json:"current_month_revenue"` // cents
	LastMonthRevenue         int64                            `json:"last_month_revenue"`
	MonthGrowth              float64                          `json:"month_growth"`
	CurrentMonthAppointments int                              `json:"current_month_appointments"`
	StatusCounts             map[models.AppointmentStatus]int `json:"status_counts"`
	TopServices              []ServiceSummary                 `json:"top_services"`
	TopCustomers             []CustomerSummary                `json:"top_customers"`
	Upcoming                 []UpcomingAppointment            `json:"upcoming"`
}

type ServiceSummary struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type CustomerSummary struct {
	Name   string `json:"name"`
	Visits int    `json:"visits"`
	Spent  int64  `json:"spent"`
}

type UpcomingAppointment struct {
	ID       string `json:"id"`
	Pet      string `json:"pet"`
	Customer string `json:"customer"`
	Time     string `json:"time"`
	Day      string `json:"day"` // "Today", "Tomorrow", "in 3 days"
}

type ReportService struct {
	appts AppointmentRepository
	loc   *time.Location
	now   func() time.Time
}

func NewReportService(appts AppointmentRepository, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{appts: appts, loc: loc, now: time.Now}
}

// Summary covers the current and previous calendar month plus the next seven days.
func (s *ReportService) Summary(ctx context.Context) (*ReportSummary, error) {
	now := s.now().In(s.loc)
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	from := firstOfMonth.AddDate(0, -1, 0)
	to := firstOfMonth.AddDate(0, 1, 0)
	if horizon := utils.BeginningOfDay(now).AddDate(0, 0, upcomingLimit); horizon.After(to) {
		to = horizon
	}

	appts, err := s.appts.List(ctx, AppointmentFilter{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("load appointments for report: %w", err)
	}

	summary := &ReportSummary{StatusCounts: map[models.AppointmentStatus]int{}}
	services := map[string]int{}
	customers := map[string]*CustomerSummary{}
	nextMonth := firstOfMonth.AddDate(0, 1, 0)

	for _, a := range appts {
		at := a.ScheduledAt.In(s.loc)
		switch {
		case at.Before(firstOfMonth):
			if a.Status.Blocking() {
				summary.LastMonthRevenue += a.TotalPrice
			}
		case at.Before(nextMonth):
			summary.CurrentMonthAppointments++
			summary.StatusCounts[a.Status]++
			if !a.Status.Blocking() {
				break
			}
			summary.CurrentMonthRevenue += a.TotalPrice
			for _, name := range a.ServiceNames {
				services[name]++
			}
			if a.User != nil {
				name := a.User.FullName()
				c, ok := customers[name]
				if !ok {
					c = &CustomerSummary{Name: name}
					customers[name] = c
				}
				c.Visits++
				c.Spent += a.TotalPrice
			}
		}

		if !at.Before(now) && a.Status.Blocking() && len(summary.Upcoming) < upcomingLimit &&
			utils.DaysBetween(now, at) < upcomingLimit {
			summary.Upcoming = append(summary.Upcoming, upcoming(a, now, s.loc))
		}
	}

	summary.MonthGrowth = growthPercentage(summary.CurrentMonthRevenue, summary.LastMonthRevenue)
	summary.TopServices = topServices(services)
	summary.TopCustomers = topCustomers(customers)
	return summary, nil
}

func upcoming(a models.Appointment, now time.Time, loc *time.Location) UpcomingAppointment {
	u := UpcomingAppointment{
		ID:   a.ID.String(),
		Time: a.ScheduledAt.In(loc).Format("3:04 PM"),
		Day:  utils.RelativeDay(now, a.ScheduledAt.In(loc)),
	}
	if a.Pet != nil {
		u.Pet = a.Pet.Name
	}
	if a.User != nil {
		u.Customer = a.User.FullName()
	}
	return u
}

func growthPercentage(current, previous int64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return float64(current-previous) / float64(previous) * 100
}

func topServices(counts map[string]int) []ServiceSummary {
	out := make([]ServiceSummary, 0, len(counts))
	for name, n := range counts {
		out = append(out, ServiceSummary{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > topListLimit {
		out = out[:topListLimit]
	}
	return out
}

func topCustomers(byName map[string]*CustomerSummary) []CustomerSummary {
	out := make([]CustomerSummary, 0, len(byName))
	for _, c := range byName {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Spent != out[j].Spent {
			return out[i].Spent > out[j].Spent
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > topListLimit {
		out = out[:topListLimit]
	}
	return out
}
