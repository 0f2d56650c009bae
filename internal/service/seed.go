package service

import (
	"context"
	"fmt"

	"github.com/nsxzhou1114/restaurant-api/internal/dto"
	"github.com/nsxzhou1114/restaurant-api/internal/model"
	"github.com/nsxzhou1114/restaurant-api/internal/policy"
)

// SeedPassword password of every demo account
const SeedPassword = "password123"

type seedRestaurant struct {
	name, description, location, owner, category string
}

type seedReview struct {
	user, restaurant string
	rating           int
	comment          string
}

var (
	seedUsers = []struct {
		username string
		role     model.Role
	}{
		{"admin_test", model.RoleAdmin},
		{"jane_reviewer", model.RoleUser},
		{"mike_reviewer", model.RoleUser},
		{"owner_sarah", model.RoleRestaurantOwner},
		{"owner_john", model.RoleRestaurantOwner},
		{"emily_reviewer", model.RoleUser},
	}

	seedCategories = []string{"Italian", "Japanese", "Mexican", "Chinese", "French", "Indian", "Thai", "American"}

	seedRestaurants = []seedRestaurant{
		{"La Bella Italia", "Authentic Italian cuisine with homemade pasta and wood-fired pizza", "123 Main St, Downtown", "owner_sarah", "Italian"},
		{"Sakura Sushi", "Premium Japanese sushi and sashimi with fresh daily imports", "456 Oak Ave, Midtown", "owner_sarah", "Japanese"},
		{"El Mariachi", "Vibrant Mexican restaurant with traditional recipes and margaritas", "789 Pine Rd, Uptown", "owner_john", "Mexican"},
		{"Golden Dragon", "Exquisite Chinese cuisine with Sichuan and Cantonese specialties", "321 Elm St, Westside", "owner_john", "Chinese"},
		{"Le Petit Bistro", "Cozy French bistro with classic Parisian atmosphere", "654 Birch Ln, Eastside", "owner_sarah", "French"},
	}

	seedReviews = []seedReview{
		{"jane_reviewer", "La Bella Italia", 5, "Absolutely delicious! The pasta was perfectly al dente and the sauce was authentic."},
		{"mike_reviewer", "Sakura Sushi", 4, "Great sushi quality, but service was a bit slow today."},
		{"emily_reviewer", "El Mariachi", 5, "Fantastic Mexican food! The tacos were incredible."},
		{"jane_reviewer", "Golden Dragon", 4, "Delicious Chinese cuisine with generous portions."},
		{"mike_reviewer", "Le Petit Bistro", 5, "Authentic French bistro experience. Loved the ambiance!"},
		{"emily_reviewer", "La Bella Italia", 3, "Good food but a bit pricey for the portion size."},
	}

	seedFavorites = [][2]string{
		{"jane_reviewer", "La Bella Italia"},
		{"jane_reviewer", "Le Petit Bistro"},
		{"mike_reviewer", "Sakura Sushi"},
		{"emily_reviewer", "El Mariachi"},
		{"emily_reviewer", "Le Petit Bistro"},
	}
)

// SeedSummary rows written by Seed
type SeedSummary struct {
	Users, Categories, Restaurants, Reviews, Favorites int
}

// Seed fills an empty database with demo data through the regular services,
// so reviews emit their notifications as they would over the API
func (s *Services) Seed(ctx context.Context) (*SeedSummary, error) {
	summary := &SeedSummary{}
	actors := map[string]policy.Actor{}
	for _, u := range seedUsers {
		user, err := s.Users.CreateUser(ctx, u.username, u.username+"@example.com", SeedPassword, u.role)
		if err != nil {
			return nil, fmt.Errorf("seed user %s: %w", u.username, err)
		}
		actors[u.username] = policy.Actor{ID: user.ID, Role: user.Role}
		summary.Users++
	}
	admin := actors["admin_test"]

	categories := map[string]uint{}
	for _, name := range seedCategories {
		c, err := s.Categories.Create(ctx, admin, &dto.CategoryCreateRequest{Name: name})
		if err != nil {
			return nil, fmt.Errorf("seed category %s: %w", name, err)
		}
		categories[name] = c.ID
		summary.Categories++
	}

	restaurants := map[string]uint{}
	for _, r := range seedRestaurants {
		created, err := s.Restaurants.Create(ctx, actors[r.owner], &dto.RestaurantCreateRequest{
			Name:        r.name,
			Description: r.description,
			Location:    r.location,
			ImageURL:    "https://via.placeholder.com/400x300",
			CategoryIDs: []uint{categories[r.category]},
		})
		if err != nil {
			return nil, fmt.Errorf("seed restaurant %s: %w", r.name, err)
		}
		restaurants[r.name] = created.ID
		summary.Restaurants++
	}

	for _, r := range seedReviews {
		_, err := s.Reviews.Create(ctx, actors[r.user], restaurants[r.restaurant], &dto.ReviewCreateRequest{Rating: r.rating, Comment: r.comment})
		if err != nil {
			return nil, fmt.Errorf("seed review by %s: %w", r.user, err)
		}
		summary.Reviews++
	}

	for _, fav := range seedFavorites {
		if err := s.Favorites.Add(ctx, actors[fav[0]], restaurants[fav[1]]); err != nil {
			return nil, fmt.Errorf("seed favorite %s/%s: %w", fav[0], fav[1], err)
		}
		summary.Favorites++
	}
	return summary, nil
}
