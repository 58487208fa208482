package model

import "time"

// OtherCategoryName labels costs whose category cannot be resolved.
const OtherCategoryName = "Other"

// DefaultCategoryNames is the ordered list seeded when no category exists.
var DefaultCategoryNames = []string{
	"Transportation (Home → Destination)",
	"Transportation (Destination → Home)",
	"Breakfast",
	"Lunch",
	"Dinner",
	"Hotel Rent",
	"Extra Food",
	"Extra Transportation",
	"Cigarettes",
	"Drinks",
}

// Category groups expenses.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultCategories builds the seed set. Creation times increase strictly
// so that listing by creation order keeps the seed order.
func DefaultCategories(now time.Time, newID func() string) []*Category {
	categories := make([]*Category, len(DefaultCategoryNames))
	for i, name := range DefaultCategoryNames {
		ts := now.Add(time.Duration(i) * time.Microsecond)
		categories[i] = &Category{
			ID:        newID(),
			Name:      name,
			IsDefault: true,
			CreatedAt: ts,
			UpdatedAt: ts,
		}
	}
	return categories
}
