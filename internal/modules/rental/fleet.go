package rental

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// sampleFleet returns the cars installed by SeedCars.
func sampleFleet() []*Car {
	return []*Car{
		{
			ID:           uuid.New(),
			Name:         "BMW 3 Series",
			Category:     CategoryLuxury,
			ImageURL:     "https://images.unsplash.com/photo-1555215695-3004980ad54e?w=400&h=250&fit=crop",
			Price:        decimal.NewFromInt(2500),
			Seats:        5,
			Transmission: "Automatic",
			Fuel:         "Petrol",
			Features:     []string{"GPS Navigation", "Leather Seats", "Sunroof"},
			Description:  "Luxury sedan for business and comfort.",
			Active:       true,
		},
		{
			ID:           uuid.New(),
			Name:         "Toyota Fortuner",
			Category:     CategorySUV,
			ImageURL:     "https://images.unsplash.com/photo-1555215695-3004980ad54e?w=4898&h=3265&fit=crop",
			Price:        decimal.NewFromInt(3500),
			Seats:        7,
			Transmission: "Automatic",
			Fuel:         "Diesel",
			Features:     []string{"4WD", "Hill Assist", "Cruise Control"},
			Description:  "Spacious SUV for family trips.",
			Active:       true,
		},
		{
			ID:           uuid.New(),
			Name:         "Maruti Swift",
			Category:     CategoryCompact,
			ImageURL:     "https://images.unsplash.com/photo-1502877338535-766e1452684a?w=400&h=250&fit=crop",
			Price:        decimal.NewFromInt(1200),
			Seats:        5,
			Transmission: "Manual",
			Fuel:         "Petrol",
			Features:     []string{"AC", "Power Steering", "Music System"},
			Description:  "Economical car for city commuting.",
			Active:       true,
		},
	}
}
