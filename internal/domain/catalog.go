package domain

import "strings"

// CatalogItem is a single orderable menu position. The menu is a
// process-lifetime constant; items are never added or removed at runtime.
type CatalogItem struct {
	Name        string
	Price       float64
	Emoji       string
	Category    string
	Description string
}

var Menu = []CatalogItem{
	{Name: "Pizza", Price: 12.99, Emoji: "🍕", Category: "Italian", Description: "Classic cheese pizza with tomato sauce"},
	{Name: "Burger", Price: 8.99, Emoji: "🍔", Category: "American", Description: "Juicy beef burger with lettuce and tomato"},
	{Name: "Pasta", Price: 10.99, Emoji: "🍝", Category: "Italian", Description: "Creamy Alfredo pasta with parmesan"},
	{Name: "Salad", Price: 7.99, Emoji: "🥗", Category: "Healthy", Description: "Fresh garden salad with vinaigrette"},
	{Name: "Sandwich", Price: 6.99, Emoji: "🥪", Category: "American", Description: "Turkey and cheese sandwich"},
	{Name: "Sushi", Price: 15.99, Emoji: "🍣", Category: "Japanese", Description: "Fresh salmon and tuna rolls"},
	{Name: "Taco", Price: 9.99, Emoji: "🌮", Category: "Mexican", Description: "Beef tacos with salsa and cheese"},
	{Name: "Ramen", Price: 11.99, Emoji: "🍜", Category: "Japanese", Description: "Hot ramen noodles with broth"},
}

// FindItem looks an item up by its exact name.
func FindItem(name string) (CatalogItem, bool) {
	for _, item := range Menu {
		if item.Name == name {
			return item, true
		}
	}
	return CatalogItem{}, false
}

// PriceOf returns the price of the named item, or 0 when the name is not on
// the menu. Callers render totals at every intermediate state, so an
// unselected or unknown item must not be an error.
func PriceOf(name string) float64 {
	item, _ := FindItem(name)
	return item.Price
}

// SearchMenu filters the menu by a case-insensitive substring match on item
// name or category. An empty term returns the whole menu.
func SearchMenu(term string) []CatalogItem {
	if term == "" {
		return Menu
	}

	needle := strings.ToLower(term)
	var matched []CatalogItem
	for _, item := range Menu {
		if strings.Contains(strings.ToLower(item.Name), needle) ||
			strings.Contains(strings.ToLower(item.Category), needle) {
			matched = append(matched, item)
		}
	}
	return matched
}
