package clover

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
)

type Order struct {
	ID         string `json:"id"`
	State      string `json:"state"`
	Title      string `json:"title,omitempty"`
	Note       string `json:"note,omitempty"`
	Total      int64  `json:"total"`
	EmployeeID string `json:"employee_id,omitempty"`
}

// OrderParams describes an order to open or update. Empty fields are not sent
// unless the matching Clear flag is set.
type OrderParams struct {
	Title      string
	Note       string
	EmployeeID string
	State      string

	ClearNote     bool
	ClearEmployee bool
}

func (p OrderParams) body() map[string]any {
	body := map[string]any{}
	if p.Title != "" {
		body["title"] = p.Title
	}
	if p.Note != "" {
		body["note"] = p.Note
	} else if p.ClearNote {
		body["note"] = ""
	}
	if p.State != "" {
		body["state"] = p.State
	}
	if p.EmployeeID != "" {
		body["employee"] = map[string]string{"id": p.EmployeeID}
	} else if p.ClearEmployee {
		body["employee"] = nil
	}
	return body
}

func parseOrder(raw []byte) *Order {
	r := gjson.ParseBytes(raw)
	return &Order{
		ID:         r.Get("id").String(),
		State:      r.Get("state").String(),
		Title:      r.Get("title").String(),
		Note:       r.Get("note").String(),
		Total:      r.Get("total").Int(),
		EmployeeID: r.Get("employee.id").String(),
	}
}

// CreateOrder opens a new order.
func (c *Client) CreateOrder(ctx context.Context, p OrderParams) (*Order, error) {
	if p.State == "" {
		p.State = "open"
	}
	raw, err := c.send(ctx, http.MethodPost, "/orders", p.body())
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	order := parseOrder(raw)
	if order.ID == "" {
		return nil, errors.New("create order: response missing id")
	}
	return order, nil
}

// AddLineItem adds an inventory item to an order.
func (c *Client) AddLineItem(ctx context.Context, orderID, itemID string) error {
	path := "/orders/" + url.PathEscape(orderID) + "/line_items"
	body := map[string]any{"item": map[string]string{"id": itemID}}
	if _, err := c.send(ctx, http.MethodPost, path, body); err != nil {
		return fmt.Errorf("add line item %s: %w", itemID, err)
	}
	return nil
}

// UpdateOrder changes the order's title, note, state or employee.
func (c *Client) UpdateOrder(ctx context.Context, orderID string, p OrderParams) (*Order, error) {
	raw, err := c.send(ctx, http.MethodPost, "/orders/"+url.PathEscape(orderID), p.body())
	if err != nil {
		return nil, fmt.Errorf("update order %s: %w", orderID, err)
	}
	return parseOrder(raw), nil
}

// DeleteOrder removes an order. A missing order is not an error.
func (c *Client) DeleteOrder(ctx context.Context, orderID string) error {
	if _, err := c.send(ctx, http.MethodDelete, "/orders/"+url.PathEscape(orderID), nil); err != nil && !IsNotFound(err) {
		return fmt.Errorf("delete order %s: %w", orderID, err)
	}
	return nil
}
