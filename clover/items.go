package clover

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

const itemsCacheKey = "items"

// Item is an inventory item sold as a grooming service. Price is in cents.
type Item struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Price      int64    `json:"price"`
	PriceType  string   `json:"price_type,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Hidden     bool     `json:"hidden,omitempty"`
}

// Items returns the priced items sorted by name. Items without a price are left out.
func (c *Client) Items(ctx context.Context) ([]Item, error) {
	raw, err := c.cachedGet(ctx, itemsCacheKey, "/items", url.Values{"expand": {"categories"}, "limit": {"1000"}})
	if err != nil {
		return nil, err
	}
	return parseItems(raw), nil
}

// Item looks one item up by id. A miss drops the cached catalog and retries
// once against Clover, so items added since the last fetch are found.
func (c *Client) Item(ctx context.Context, id string) (*Item, error) {
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			c.invalidate(ctx, itemsCacheKey)
		}
		items, err := c.Items(ctx)
		if err != nil {
			return nil, err
		}
		for i := range items {
			if items[i].ID == id {
				return &items[i], nil
			}
		}
		if c.cache == nil {
			break
		}
	}
	return nil, &APIError{StatusCode: http.StatusNotFound, Message: "item " + id + " not found"}
}

func parseItems(raw []byte) []Item {
	out := []Item{}
	gjson.GetBytes(raw, "elements").ForEach(func(_, e gjson.Result) bool {
		price := e.Get("price")
		if !price.Exists() || price.Type == gjson.Null {
			return true
		}
		item := Item{
			ID:        e.Get("id").String(),
			Name:      e.Get("name").String(),
			Price:     price.Int(),
			PriceType: e.Get("priceType").String(),
			Hidden:    e.Get("hidden").Bool(),
		}
		e.Get("categories.elements.#.name").ForEach(func(_, n gjson.Result) bool {
			item.Categories = append(item.Categories, n.String())
			return true
		})
		out = append(out, item)
		return true
	})

	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}
