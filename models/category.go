package models

import "strings"

// Category is one entry of the predefined post category registry. Categories
// are code-defined, not stored; posts reference them by Value.
type Category struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// PredefinedCategories lists every category a post may carry.
var PredefinedCategories = []Category{
	// Life & lifestyle
	{Value: "travel", Label: "Travel", Icon: "✈️"},
	{Value: "food", Label: "Food", Icon: "🍽️"},
	{Value: "fitness", Label: "Fitness", Icon: "💪"},
	{Value: "lifestyle", Label: "Lifestyle", Icon: "🌟"},
	{Value: "fashion", Label: "Fashion", Icon: "👗"},
	{Value: "beauty", Label: "Beauty", Icon: "💄"},
	{Value: "home", Label: "Home & Decor", Icon: "🏠"},
	{Value: "pets", Label: "Pets", Icon: "🐾"},
	{Value: "family", Label: "Family", Icon: "👨‍👩‍👧‍👦"},
	{Value: "relationships", Label: "Relationships", Icon: "💕"},

	// Work & education
	{Value: "work", Label: "Work", Icon: "💼"},
	{Value: "business", Label: "Business", Icon: "📈"},
	{Value: "education", Label: "Education", Icon: "📚"},
	{Value: "study", Label: "Study", Icon: "✏️"},
	{Value: "productivity", Label: "Productivity", Icon: "⚡"},
	{Value: "coding", Label: "Coding", Icon: "💻"},
	{Value: "design", Label: "Design", Icon: "🎨"},

	// Entertainment & hobbies
	{Value: "music", Label: "Music", Icon: "🎵"},
	{Value: "movies", Label: "Movies & TV", Icon: "🎬"},
	{Value: "books", Label: "Books", Icon: "📖"},
	{Value: "gaming", Label: "Gaming", Icon: "🎮"},
	{Value: "photography", Label: "Photography", Icon: "📸"},
	{Value: "art", Label: "Art", Icon: "🖼️"},
	{Value: "crafts", Label: "Crafts & DIY", Icon: "🔨"},
	{Value: "gardening", Label: "Gardening", Icon: "🌱"},
	{Value: "cooking", Label: "Cooking", Icon: "👨‍🍳"},

	// Sports & activities
	{Value: "sports", Label: "Sports", Icon: "⚽"},
	{Value: "running", Label: "Running", Icon: "🏃"},
	{Value: "cycling", Label: "Cycling", Icon: "🚴"},
	{Value: "gym", Label: "Gym", Icon: "🏋️"},
	{Value: "yoga", Label: "Yoga", Icon: "🧘"},
	{Value: "swimming", Label: "Swimming", Icon: "🏊"},
	{Value: "hiking", Label: "Hiking", Icon: "🥾"},
	{Value: "adventure", Label: "Adventure", Icon: "🏔️"},

	// Health & wellness
	{Value: "health", Label: "Health", Icon: "🏥"},
	{Value: "mental-health", Label: "Mental Health", Icon: "🧠"},
	{Value: "meditation", Label: "Meditation", Icon: "🕯️"},
	{Value: "wellness", Label: "Wellness", Icon: "🌸"},
	{Value: "nutrition", Label: "Nutrition", Icon: "🥗"},
	{Value: "skincare", Label: "Skincare", Icon: "✨"},

	// Social & events
	{Value: "social", Label: "Social", Icon: "👥"},
	{Value: "events", Label: "Events", Icon: "🎉"},
	{Value: "parties", Label: "Parties", Icon: "🥳"},
	{Value: "celebrations", Label: "Celebrations", Icon: "🎊"},
	{Value: "dates", Label: "Dates", Icon: "💑"},
	{Value: "friends", Label: "Friends", Icon: "👫"},

	// Nature & environment
	{Value: "nature", Label: "Nature", Icon: "🌿"},
	{Value: "wildlife", Label: "Wildlife", Icon: "🦋"},
	{Value: "environment", Label: "Environment", Icon: "🌍"},
	{Value: "sustainability", Label: "Sustainability", Icon: "♻️"},
	{Value: "beach", Label: "Beach", Icon: "🏖️"},
	{Value: "mountains", Label: "Mountains", Icon: "⛰️"},

	// Special occasions
	{Value: "birthday", Label: "Birthday", Icon: "🎂"},
	{Value: "anniversary", Label: "Anniversary", Icon: "💒"},
	{Value: "holiday", Label: "Holiday", Icon: "🎁"},
	{Value: "vacation", Label: "Vacation", Icon: "🌴"},
	{Value: "weekend", Label: "Weekend", Icon: "🏖️"},

	// Food moments
	{Value: "breakfast", Label: "Breakfast", Icon: "🥞"},
	{Value: "lunch", Label: "Lunch", Icon: "🥙"},
	{Value: "dinner", Label: "Dinner", Icon: "🍝"},
	{Value: "dessert", Label: "Dessert", Icon: "🍰"},
	{Value: "drinks", Label: "Drinks", Icon: "🥤"},
	{Value: "coffee", Label: "Coffee", Icon: "☕"},
	{Value: "restaurant", Label: "Restaurant", Icon: "🍽️"},
	{Value: "street-food", Label: "Street Food", Icon: "🌮"},

	// Transport
	{Value: "car", Label: "Car", Icon: "🚗"},
	{Value: "bike", Label: "Bike", Icon: "🚲"},
	{Value: "public-transport", Label: "Public Transport", Icon: "🚌"},
	{Value: "flight", Label: "Flight", Icon: "✈️"},

	// Technology
	{Value: "tech", Label: "Technology", Icon: "💻"},
	{Value: "gadgets", Label: "Gadgets", Icon: "📱"},
	{Value: "apps", Label: "Apps", Icon: "📲"},
	{Value: "ai", Label: "AI", Icon: "🤖"},

	// Shopping
	{Value: "shopping", Label: "Shopping", Icon: "🛍️"},
	{Value: "online-shopping", Label: "Online Shopping", Icon: "💳"},
	{Value: "deals", Label: "Deals", Icon: "💰"},

	// Miscellaneous
	{Value: "weather", Label: "Weather", Icon: "🌤️"},
	{Value: "news", Label: "News", Icon: "📰"},
	{Value: "memories", Label: "Memories", Icon: "📝"},
	{Value: "goals", Label: "Goals", Icon: "🎯"},
	{Value: "achievements", Label: "Achievements", Icon: "🏆"},
	{Value: "random", Label: "Random", Icon: "🎲"},
	{Value: "other", Label: "Other", Icon: "📌"},
}

// DefaultCategory is assigned when a post omits its category.
const DefaultCategory = "other"

// ValidCategory reports whether value names a predefined category.
func ValidCategory(value string) bool {
	for _, c := range PredefinedCategories {
		if c.Value == value {
			return true
		}
	}
	return false
}

// SearchCategories filters the registry by a case-insensitive substring match
// on value or label. An empty query returns the whole registry.
func SearchCategories(query string) []Category {
	if query == "" {
		return PredefinedCategories
	}
	q := strings.ToLower(query)
	res := make([]Category, 0, len(PredefinedCategories))
	for _, c := range PredefinedCategories {
		if strings.Contains(strings.ToLower(c.Label), q) || strings.Contains(strings.ToLower(c.Value), q) {
			res = append(res, c)
		}
	}
	return res
}

// CategoryIcon returns the icon for a category value, or the fallback pin.
func CategoryIcon(value string) string {
	for _, c := range PredefinedCategories {
		if c.Value == value {
			return c.Icon
		}
	}
	return "📌"
}

// CategoryLabel returns the label for a category value, or the value itself.
func CategoryLabel(value string) string {
	for _, c := range PredefinedCategories {
		if c.Value == value {
			return c.Label
		}
	}
	return value
}
