// Package catalog serves the canned trend and recommendation lists.
package catalog

import "strings"

// DefaultRegion is used when the requested region is blank or has no list.
const DefaultRegion = "TR"

var trends = map[string][]string{
	"TR": {"Çiçek Buketi", "AirPods Pro", "Dyson Süpürge", "Otel İstanbul"},
	"DE": {"iPhone 15", "Dyson V15", "Hotel Berlin", "Nike Air Max"},
	"US": {"MacBook Air", "AirPods Pro", "Hotel NYC", "Nintendo Switch"},
}

// Trends returns a copy of the trend list for region.
func Trends(region string) []string {
	items, ok := trends[strings.ToUpper(strings.TrimSpace(region))]
	if !ok {
		items = trends[DefaultRegion]
	}
	return append([]string(nil), items...)
}

// Item is a recommended product.
type Item struct {
	Title string `json:"title"`
	Site  string `json:"site"`
}

// DefaultLast is the item recommendations are derived from when none is given.
const DefaultLast = "iPhone"

// Recommendations derives accessory suggestions from the last viewed item.
func Recommendations(last string) []Item {
	if last == "" {
		last = DefaultLast
	}
	return []Item{
		{Title: last + " Case", Site: "Amazon"},
		{Title: last + " Charger", Site: "Hepsiburada"},
		{Title: last + " Screen Protector", Site: "Trendyol"},
	}
}
