package memory

import (
	"time"

	"github.com/samirrijal/trailhead/internal/core/domain"
)

// SeedCategories returns the built-in activity categories.
func SeedCategories() []domain.Category {
	return []domain.Category{
		{Name: "Hiking", Icon: "directions_walk"},
		{Name: "Cycling", Icon: "pedal_bike"},
		{Name: "Kayaking", Icon: "waves"},
		{Name: "Camping", Icon: "park"},
		{Name: "Climbing", Icon: "filter_drama"},
		{Name: "Fishing", Icon: "directions_boat"},
	}
}

func day(now time.Time, offset, hour, minute int) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+offset, hour, minute, 0, 0, now.Location())
}

// SeedActivities returns the Seattle-area sample activities, scheduled relative to now.
func SeedActivities(now time.Time) []domain.Activity {
	return []domain.Activity{
		{
			Title:        "Guided Nature Walk",
			Description:  "Join our expert guide for a family-friendly nature walk through the beautiful trails of Carkeek Park. Learn about local flora and fauna while enjoying scenic views of Puget Sound and the Olympic Mountains.",
			ImageURL:     "https://images.unsplash.com/photo-1552521218-13b2354c0c86?auto=format&fit=crop&w=600&h=400&q=80",
			Location:     "Carkeek Park, Seattle",
			Point:        &domain.GeoPoint{Lat: 47.7129, Lon: -122.3779},
			StartDate:    day(now, 7, 10, 0),
			EndDate:      day(now, 7, 12, 0),
			BudgetLevel:  domain.BudgetLow,
			Price:        "$5/person",
			Category:     "Hiking",
			Tags:         []string{"Family-friendly", "Beginner", "Wildlife", "Educational"},
			HostName:     "Sarah Johnson",
			HostTitle:    "Naturalist & Trail Guide",
			HostImageURL: "https://images.unsplash.com/photo-1573496359142-b8d87734a5a2?auto=format&fit=crop&w=100&q=80",
			Requirements: []string{"Comfortable walking shoes", "Water bottle", "Weather-appropriate clothing", "Camera (optional)", "Binoculars (optional)"},
			IsFeatured:   true,
		},
		{
			Title:        "Sunset Kayaking",
			Description:  "Experience Seattle from the water with our guided sunset kayaking tour. All equipment and basic instruction provided. Paddle through the calm waters of Elliott Bay while watching the sunset over the Olympic Mountains.",
			ImageURL:     "https://images.unsplash.com/photo-1623166856835-83bff6d3a611?auto=format&fit=crop&w=600&h=400&q=80",
			Location:     "Alki Beach, Seattle",
			Point:        &domain.GeoPoint{Lat: 47.5812, Lon: -122.4061},
			StartDate:    day(now, 6, 19, 0),
			EndDate:      day(now, 6, 21, 0),
			BudgetLevel:  domain.BudgetMedium,
			Price:        "$45/person",
			Category:     "Kayaking",
			Tags:         []string{"Water Sports", "Equipment Provided", "Scenic", "Sunset"},
			HostName:     "Mike Davis",
			HostTitle:    "Kayak Instructor & Guide",
			HostImageURL: "https://images.unsplash.com/photo-1506794778202-cad84cf45f1d?auto=format&fit=crop&w=100&q=80",
			Requirements: []string{"Water bottle", "Clothes that can get wet", "Sunscreen", "Sunglasses with strap"},
		},
		{
			Title:        "Rock Climbing Workshop",
			Description:  "Learn rock climbing fundamentals from professional instructors in this hands-on workshop. All skill levels welcome.",
			ImageURL:     "https://images.unsplash.com/photo-1527021239703-d2dc2299399e?auto=format&fit=crop&w=600&h=400&q=80",
			Location:     "Vertical World, Seattle",
			Point:        &domain.GeoPoint{Lat: 47.6615, Lon: -122.3794},
			StartDate:    day(now, 8, 13, 0),
			EndDate:      day(now, 8, 16, 0),
			BudgetLevel:  domain.BudgetHigh,
			Price:        "$75/person",
			Category:     "Climbing",
			Tags:         []string{"Indoor", "Professional Instructors", "All Levels", "Equipment Provided"},
			HostName:     "Alex Chen",
			HostTitle:    "Certified Climbing Instructor",
			HostImageURL: "https://images.unsplash.com/photo-1542327897-d73f4005b533?auto=format&fit=crop&w=100&q=80",
			Requirements: []string{"Athletic clothing", "Water bottle", "Snacks", "Towel"},
		},
		{
			Title:        "Waterfall Hike",
			Description:  "Explore the beautiful waterfalls of Discovery Park on this beginner-friendly hike. Perfect for nature enthusiasts and photographers.",
			ImageURL:     "https://images.unsplash.com/photo-1551632811-561732d1e306?auto=format&fit=crop&w=600&h=400&q=80",
			Location:     "Discovery Park, Seattle",
			Point:        &domain.GeoPoint{Lat: 47.6614, Lon: -122.4055},
			StartDate:    day(now, 5, 8, 0),
			EndDate:      day(now, 5, 11, 0),
			BudgetLevel:  domain.BudgetLow,
			Price:        "Free",
			Category:     "Hiking",
			Tags:         []string{"Waterfall", "Photography", "Nature", "Beginner-friendly"},
			HostName:     "Emma Wilson",
			HostTitle:    "Park Ranger",
			HostImageURL: "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?auto=format&fit=crop&w=100&q=80",
			Requirements: []string{"Hiking shoes", "Water bottle", "Camera", "Snacks"},
			IsFeatured:   true,
		},
		{
			Title:        "Mountain Biking Adventure",
			Description:  "Hit the trails on this mountain biking adventure at Tiger Mountain. Suitable for intermediate riders with some experience.",
			ImageURL:     "https://images.unsplash.com/photo-1544845894-20b3d88ff624?auto=format&fit=crop&w=600&h=400&q=80",
			Location:     "Tiger Mountain, Issaquah",
			Point:        &domain.GeoPoint{Lat: 47.4924, Lon: -121.9452},
			StartDate:    day(now, 6, 9, 30),
			EndDate:      day(now, 6, 13, 0),
			BudgetLevel:  domain.BudgetMedium,
			Price:        "$35/person",
			Category:     "Cycling",
			Tags:         []string{"Mountain Biking", "Intermediate", "Forest Trails", "Equipment Rental Available"},
			HostName:     "Jason Martinez",
			HostTitle:    "Mountain Bike Instructor",
			HostImageURL: "https://images.unsplash.com/photo-1568602471122-7832951cc4c5?auto=format&fit=crop&w=100&q=80",
			Requirements: []string{"Mountain bike (rentals available)", "Helmet", "Water bottle", "Athletic clothing"},
			IsFeatured:   true,
		},
		{
			Title:        "Overnight Camping Trip",
			Description:  "Escape the city for an overnight camping experience at Mount Rainier National Park. Learn essential wilderness skills and enjoy stargazing far from city lights.",
			ImageURL:     "https://images.unsplash.com/photo-1504280390367-361c6d9f38f4?auto=format&fit=crop&w=600&h=400&q=80",
			Location:     "Mount Rainier National Park",
			Point:        &domain.GeoPoint{Lat: 46.8800, Lon: -121.7269},
			StartDate:    day(now, 14, 10, 0),
			EndDate:      day(now, 15, 12, 0),
			BudgetLevel:  domain.BudgetMedium,
			Price:        "$50/person",
			Category:     "Camping",
			Tags:         []string{"Overnight", "Stargazing", "Wilderness Skills", "Campfire Cooking"},
			HostName:     "Robert Lee",
			HostTitle:    "Wilderness Guide",
			HostImageURL: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?auto=format&fit=crop&w=100&q=80",
			Requirements: []string{"Tent (rentals available)", "Sleeping bag", "Warm clothing", "Headlamp", "Food supplies"},
		},
	}
}

// SeedBooks returns the sample bookstore catalog.
func SeedBooks() []domain.Book {
	return []domain.Book{
		{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Description: "A story of wealth, love, and tragedy set in the Roaring Twenties.", CoverImage: "https://images.unsplash.com/photo-1544947950-fa07a98d237f?auto=format&fit=crop&w=800&q=80", Price: "12.99", ISBN: "9780743273565", Category: "Fiction", PublishedDate: "1925", StockQuantity: 15},
		{Title: "To Kill a Mockingbird", Author: "Harper Lee", Description: "A story of racial injustice and moral growth seen through the eyes of a young girl.", CoverImage: "https://images.unsplash.com/photo-1543002588-bfa74002ed7e?auto=format&fit=crop&w=800&q=80", Price: "14.99", ISBN: "9780061120084", Category: "Fiction", PublishedDate: "1960", StockQuantity: 20},
		{Title: "1984", Author: "George Orwell", Description: "A dystopian novel set in a totalitarian society where surveillance is omnipresent.", CoverImage: "https://images.unsplash.com/photo-1532012197267-da84d127e765?auto=format&fit=crop&w=800&q=80", Price: "11.99", ISBN: "9780451524935", Category: "Science Fiction", PublishedDate: "1949", StockQuantity: 18},
		{Title: "Pride and Prejudice", Author: "Jane Austen", Description: "Elizabeth Bennet learns the error of making hasty judgments.", CoverImage: "https://images.unsplash.com/photo-1544947950-fa07a98d237f?auto=format&fit=crop&w=800&q=80", Price: "9.99", ISBN: "9780141439518", Category: "Romance", PublishedDate: "1813", StockQuantity: 25},
		{Title: "The Hobbit", Author: "J.R.R. Tolkien", Description: "Bilbo Baggins embarks on a quest to reclaim a treasure stolen by a dragon.", CoverImage: "https://images.unsplash.com/photo-1515098506762-79e1384e9d8e?auto=format&fit=crop&w=800&q=80", Price: "13.99", ISBN: "9780547928227", Category: "Fantasy", PublishedDate: "1937", StockQuantity: 30},
		{Title: "Harry Potter and the Philosopher's Stone", Author: "J.K. Rowling", Description: "A young wizard begins his studies at Hogwarts School of Witchcraft and Wizardry.", CoverImage: "https://images.unsplash.com/photo-1551269901-5c5e14c25df7?auto=format&fit=crop&w=800&q=80", Price: "15.99", ISBN: "9781408855652", Category: "Fantasy", PublishedDate: "1997", StockQuantity: 50},
		{Title: "The Da Vinci Code", Author: "Dan Brown", Description: "Robert Langdon and Sophie Neveu investigate a murder in the Louvre.", CoverImage: "https://images.unsplash.com/photo-1479894720049-067d8b88ffb4?auto=format&fit=crop&w=800&q=80", Price: "12.99", ISBN: "9780307474278", Category: "Mystery", PublishedDate: "2003", StockQuantity: 22},
		{Title: "The Alchemist", Author: "Paulo Coelho", Description: "An Andalusian shepherd sets out on a journey of self-discovery.", CoverImage: "https://images.unsplash.com/photo-1544947950-fa07a98d237f?auto=format&fit=crop&w=800&q=80", Price: "10.99", ISBN: "9780062315007", Category: "Fiction", PublishedDate: "1988", StockQuantity: 35},
	}
}
