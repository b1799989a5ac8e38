package storage

import (
	"context"
	"log"

	"food-ordering-api/models"
	"food-ordering-api/pricing"

	"golang.org/x/crypto/bcrypt"
)

func cents(s string) pricing.Cents {
	c, err := pricing.ParseCents(s)
	if err != nil {
		panic("seed: bad amount " + s)
	}
	return c
}

// Seed loads the sample catalog and a bootstrap admin account on first run.
// It is a no-op once any restaurant exists.
func (s *GormStore) Seed(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Restaurant{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	restaurants := []models.Restaurant{
		{
			Name:         "Burger Palace",
			Description:  "Delicious gourmet burgers and fries",
			Cuisine:      "American",
			Image:        "https://images.unsplash.com/photo-1586190848861-99aa4a171e90",
			Rating:       4.8,
			DeliveryTime: "25-35 min",
			DeliveryFee:  cents("3.99"),
			IsActive:     true,
		},
		{
			Name:         "Mario's Pizzeria",
			Description:  "Authentic Italian pizza and pasta",
			Cuisine:      "Italian",
			Image:        "https://images.unsplash.com/photo-1513104890138-7c749659a591",
			Rating:       4.9,
			DeliveryTime: "20-30 min",
			DeliveryFee:  cents("2.99"),
			IsActive:     true,
		},
		{
			Name:         "Green Garden Cafe",
			Description:  "Fresh healthy salads and bowls",
			Cuisine:      "Healthy",
			Image:        "https://images.unsplash.com/photo-1546069901-ba9599a7e63c",
			Rating:       4.7,
			DeliveryTime: "15-25 min",
			DeliveryFee:  cents("4.99"),
			IsActive:     true,
		},
		{
			Name:         "Tokyo Sushi Bar",
			Description:  "Premium sushi and Japanese cuisine",
			Cuisine:      "Japanese",
			Image:        "https://images.unsplash.com/photo-1579584425555-c3ce17fd4351",
			Rating:       4.6,
			DeliveryTime: "30-40 min",
			DeliveryFee:  cents("5.99"),
			IsActive:     true,
		},
	}
	if err := s.db.WithContext(ctx).Create(&restaurants).Error; err != nil {
		return err
	}

	menuItems := []models.MenuItem{
		{RestaurantID: restaurants[0].ID, Name: "Classic Burger", Description: "Beef patty, lettuce, tomato, cheese, and special sauce", Price: cents("12.99"), Category: "Burgers", IsAvailable: true},
		{RestaurantID: restaurants[0].ID, Name: "BBQ Bacon Burger", Description: "BBQ sauce, bacon, onion rings, and cheddar cheese", Price: cents("15.99"), Category: "Burgers", IsAvailable: true},
		{RestaurantID: restaurants[1].ID, Name: "Margherita Pizza", Description: "Fresh mozzarella, tomato sauce, basil, olive oil", Price: cents("18.99"), Category: "Pizza", IsAvailable: true},
		{RestaurantID: restaurants[1].ID, Name: "Pepperoni Pizza", Description: "Pepperoni, mozzarella cheese, tomato sauce", Price: cents("21.99"), Category: "Pizza", IsAvailable: true},
		{RestaurantID: restaurants[1].ID, Name: "Caesar Salad", Description: "Romaine lettuce, parmesan cheese, croutons, caesar dressing", Price: cents("12.99"), Category: "Salads", IsAvailable: true},
		{RestaurantID: restaurants[2].ID, Name: "Buddha Bowl", Description: "Quinoa, avocado, roasted vegetables, tahini dressing", Price: cents("14.99"), Category: "Bowls", IsAvailable: true},
		{RestaurantID: restaurants[2].ID, Name: "Green Smoothie", Description: "Spinach, banana, mango, coconut water", Price: cents("8.99"), Category: "Beverages", IsAvailable: true},
		{RestaurantID: restaurants[3].ID, Name: "Salmon Roll", Description: "Fresh salmon, avocado, cucumber", Price: cents("16.99"), Category: "Sushi", IsAvailable: true},
	}
	if err := s.db.WithContext(ctx).Create(&menuItems).Error; err != nil {
		return err
	}

	// Bootstrap admin account
	var admin models.User
	if s.db.WithContext(ctx).Where("role = ?", models.RoleAdmin).First(&admin).RowsAffected == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin1234"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin = models.User{
			Username:     "admin",
			Email:        "admin@foodordering.local",
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
		}
		if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
			return err
		}
	}

	log.Println("Seeded sample catalog and admin account")
	return nil
}
