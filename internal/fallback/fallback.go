// Package fallback holds the static placeholder datasets shown before any
// real fetch has succeeded. The values mirror the platform's Mumbai seed
// data so a disconnected demo still looks plausible. Once a page has seen
// live data these datasets are never shown again for that page instance.
package fallback

import "github.com/shahnoor-exe/ladle/internal/annapurna"

// Impact returns placeholder platform-wide impact aggregates.
func Impact() annapurna.ImpactStats {
	return annapurna.ImpactStats{
		TotalKGSaved:        12480,
		TotalMealsServed:    41600,
		TotalCO2SavedKG:     31200,
		TotalWaterSavedL:    12480000,
		TotalMoneySavedINR:  1872000,
		ActiveRestaurants:   10,
		ActiveNGOs:          8,
		ActiveDrivers:       6,
		AvgDeliveryTimeMins: 28,
		ActiveOrders:        4,
		TodayKGSaved:        86,
		TodayMeals:          290,
		PendingOrders:       2,
		DeliveredToday:      5,
		TopRestaurant:       "Grand Bhoj Thali",
		TopNGO:              "Feeding India (Zomato)",
		SuccessRate:         92.5,
	}
}

// Leaderboard returns a placeholder contributor ranking.
func Leaderboard() []annapurna.LeaderboardEntry {
	return []annapurna.LeaderboardEntry{
		{Rank: 1, ID: 10, Name: "Grand Bhoj Thali", Value: 2150, Metric: "kg_saved"},
		{Rank: 2, ID: 1, Name: "Taj Palace Kitchen", Value: 1980, Metric: "kg_saved"},
		{Rank: 3, ID: 6, Name: "Hotel Saffron", Value: 1720, Metric: "kg_saved"},
		{Rank: 4, ID: 3, Name: "Mumbai Masala House", Value: 1485, Metric: "kg_saved"},
		{Rank: 5, ID: 4, Name: "Royal Biryani Centre", Value: 1310, Metric: "kg_saved"},
	}
}

// Orders returns placeholder orders in a spread of states.
func Orders() []annapurna.Order {
	return []annapurna.Order{
		{
			ID: 101, Status: annapurna.StatusInTransit,
			FoodDescription: "Veg biryani and dal from lunch buffet",
			FoodCategory:    "rice", QuantityKG: 18, Servings: 60,
			RestaurantName: "Royal Biryani Centre", NGOName: "Roti Bank Mumbai",
			DriverName: "Ramesh Yadav", DistanceKM: 6.2, ETAMinutes: 22,
			PickupLat: 18.9552, PickupLng: 72.8371, DropoffLat: 19.0233, DropoffLng: 72.8388,
		},
		{
			ID: 102, Status: annapurna.StatusAssigned,
			FoodDescription: "Assorted curries and rotis",
			FoodCategory:    "curry", QuantityKG: 9, Servings: 30,
			RestaurantName: "Spice Garden", NGOName: "Robin Hood Army Mumbai",
			DriverName: "Suresh Patil", DistanceKM: 3.8, ETAMinutes: 15,
		},
		{
			ID: 103, Status: annapurna.StatusPending,
			FoodDescription: "Evening snacks and sweets",
			FoodCategory:    "snacks", QuantityKG: 5, Servings: 25,
			RestaurantName: "Dosa Plaza Express",
		},
		{
			ID: 104, Status: annapurna.StatusDelivered,
			FoodDescription: "South Indian thali surplus",
			FoodCategory:    "mixed", QuantityKG: 12, Servings: 40,
			RestaurantName: "Green Leaf Restaurant", NGOName: "Akshaya Patra Foundation",
			DriverName: "Vijay Kumar", DistanceKM: 4.5,
		},
	}
}

// ActiveJobs returns placeholder in-flight deliveries for the live map.
func ActiveJobs() []annapurna.ActiveJob {
	return []annapurna.ActiveJob{
		{
			ID: 101, Status: annapurna.StatusInTransit,
			FoodDescription: "Veg biryani and dal from lunch buffet",
			FoodCategory:    "rice", QuantityKG: 18, Servings: 60,
			Pickup:  annapurna.MapPoint{Name: "Royal Biryani Centre", Lat: 18.9552, Lng: 72.8371},
			Dropoff: annapurna.MapPoint{Name: "Roti Bank Mumbai", Lat: 19.0233, Lng: 72.8388},
			Driver:  &annapurna.JobDriver{Name: "Ramesh Yadav", Lat: 18.99, Lng: 72.838, Vehicle: "bike"},
			ETAMinutes: 22, DistanceKM: 6.2,
		},
		{
			ID: 102, Status: annapurna.StatusAssigned,
			FoodDescription: "Assorted curries and rotis",
			FoodCategory:    "curry", QuantityKG: 9, Servings: 30,
			Pickup:  annapurna.MapPoint{Name: "Spice Garden", Lat: 19.0596, Lng: 72.8295},
			Dropoff: annapurna.MapPoint{Name: "Robin Hood Army Mumbai", Lat: 19.0650, Lng: 72.8646},
			Driver:  &annapurna.JobDriver{Name: "Suresh Patil", Lat: 19.0596, Lng: 72.8295, Vehicle: "auto"},
			ETAMinutes: 15, DistanceKM: 3.8,
		},
	}
}
