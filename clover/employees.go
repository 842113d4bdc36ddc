package clover

import (
	"context"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// GroomerCustomID marks employees that take grooming appointments.
const GroomerCustomID = "GROOMER"

const employeesCacheKey = "employees"

type Employee struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Nickname string `json:"nickname,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
	CustomID string `json:"custom_id,omitempty"`
}

// Employees lists every merchant employee.
func (c *Client) Employees(ctx context.Context) ([]Employee, error) {
	raw, err := c.cachedGet(ctx, employeesCacheKey, "/employees", url.Values{"limit": {"1000"}})
	if err != nil {
		return nil, err
	}

	var out []Employee
	gjson.GetBytes(raw, "elements").ForEach(func(_, e gjson.Result) bool {
		if e.Get("deletedTime").Exists() {
			return true
		}
		out = append(out, Employee{
			ID:       e.Get("id").String(),
			Name:     e.Get("name").String(),
			Nickname: e.Get("nickname").String(),
			Email:    e.Get("email").String(),
			Role:     e.Get("role").String(),
			CustomID: e.Get("customId").String(),
		})
		return true
	})
	return out, nil
}

// Groomers returns the employees whose customId is GROOMER.
func (c *Client) Groomers(ctx context.Context) ([]Employee, error) {
	all, err := c.Employees(ctx)
	if err != nil {
		return nil, err
	}
	groomers := make([]Employee, 0, len(all))
	for _, e := range all {
		if strings.EqualFold(strings.TrimSpace(e.CustomID), GroomerCustomID) {
			groomers = append(groomers, e)
		}
	}
	return groomers, nil
}
