package clover

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderLifecycle(t *testing.T) {
	var lineItems []string
	var deleted bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v3/merchants/M1/orders":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "open", body["state"])
			assert.Equal(t, map[string]any{"id": "e1"}, body["employee"])
			_, _ = io.WriteString(w, `{"id":"O1","state":"open","title":"Rex","employee":{"id":"e1"}}`)
		case r.Method == http.MethodPost && r.URL.Path == "/v3/merchants/M1/orders/O1/line_items":
			var body struct {
				Item struct {
					ID string `json:"id"`
				} `json:"item"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			lineItems = append(lineItems, body.Item.ID)
			_, _ = io.WriteString(w, `{"id":"L1"}`)
		case r.Method == http.MethodPost && r.URL.Path == "/v3/merchants/M1/orders/O1":
			_, _ = io.WriteString(w, `{"id":"O1","state":"open","note":"cancelled"}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/v3/merchants/M1/orders/O1":
			deleted = true
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	order, err := c.CreateOrder(ctx, OrderParams{Title: "Rex", EmployeeID: "e1"})
	require.NoError(t, err)
	assert.Equal(t, "O1", order.ID)
	assert.Equal(t, "e1", order.EmployeeID)

	require.NoError(t, c.AddLineItem(ctx, order.ID, "i1"))
	require.NoError(t, c.AddLineItem(ctx, order.ID, "i2"))
	assert.Equal(t, []string{"i1", "i2"}, lineItems)

	updated, err := c.UpdateOrder(ctx, order.ID, OrderParams{Note: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", updated.Note)

	require.NoError(t, c.DeleteOrder(ctx, order.ID))
	assert.True(t, deleted)
}

func TestDeleteOrder_MissingIsNotAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	assert.NoError(t, c.DeleteOrder(context.Background(), "gone"))
}

func TestCreateOrder_MissingID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})
	_, err := c.CreateOrder(context.Background(), OrderParams{})
	assert.Error(t, err)
}

func TestOrderParamsBody(t *testing.T) {
	assert.Equal(t, map[string]any{}, OrderParams{}.body())

	body := OrderParams{Note: "hi", EmployeeID: "e1"}.body()
	assert.Equal(t, "hi", body["note"])
	assert.Equal(t, map[string]string{"id": "e1"}, body["employee"])

	body = OrderParams{ClearNote: true, ClearEmployee: true}.body()
	require.Contains(t, body, "note")
	assert.Equal(t, "", body["note"])
	require.Contains(t, body, "employee")
	assert.Nil(t, body["employee"])

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"note":"","employee":null}`, string(raw))
}
