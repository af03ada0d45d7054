package mapper

import (
	"time"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalogue/domain"
	"github.com/Apurer/go-gin-storefront/internal/shared/query"
)

// Item is the HTTP representation of a catalogue item.
type Item struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Currency    string   `json:"currency"`
	Left        int      `json:"left"`
	InStock     bool     `json:"inStock"`
	Fabric      string   `json:"fabric,omitempty"`
	Images      []string `json:"images"`
	CoverImage  string   `json:"coverImage,omitempty"`
	InCart      bool     `json:"inCart"`
}

// Page is a revealed slice of the filtered catalogue plus query status.
type Page struct {
	Status    string     `json:"status"`
	FetchedAt *time.Time `json:"fetchedAt,omitempty"`
	Query     string     `json:"query"`
	Items     []Item     `json:"items"`
	Total     int        `json:"total"`
	Visible   int        `json:"visible"`
	Remaining int        `json:"remaining"`
}

// FromDomain maps a catalogue item into its transport shape.
func FromDomain(item domain.Item) Item {
	images := item.Images
	if images == nil {
		images = []string{}
	}
	return Item{
		ID:          item.ID,
		Name:        item.Name,
		Category:    item.Category,
		Title:       item.Title(),
		Description: item.Description,
		Price:       item.Price.String(),
		Currency:    item.Currency,
		Left:        item.Left,
		InStock:     item.InStock(),
		Fabric:      item.Tags.Fabric,
		Images:      images,
		CoverImage:  item.CoverImage(),
	}
}

// FromPage maps a page; inCart marks lines already in the owner's cart.
func FromPage(page domain.Page, q string, meta query.Result[domain.Cache], inCart func(int64) bool) Page {
	items := make([]Item, 0, len(page.Items))
	for _, it := range page.Items {
		out := FromDomain(it)
		if inCart != nil {
			out.InCart = inCart(it.ID)
		}
		items = append(items, out)
	}
	resp := Page{
		Status:    string(meta.Status),
		Query:     q,
		Items:     items,
		Total:     page.Total,
		Visible:   page.Visible,
		Remaining: page.Remaining,
	}
	if meta.HasData() {
		at := meta.Metadata.FetchedAt
		resp.FetchedAt = &at
	}
	return resp
}
