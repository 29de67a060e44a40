package annapurna

import "time"

// Status enumerates the lifecycle of a surplus order. The ordering matters to
// dashboards; the three terminal values never transition further.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAssigned  Status = "assigned"
	StatusPickedUp  Status = "picked_up"
	StatusInTransit Status = "in_transit"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// Terminal reports whether no further status transitions can occur. Pollers
// use this to decide when to stop watching an order.
func (s Status) Terminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// Known reports whether s is one of the statuses the API can emit.
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusPickedUp, StatusInTransit,
		StatusDelivered, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// User mirrors the /auth responses.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	AvatarURL string `json:"avatar_url"`
	CreatedAt string `json:"created_at"`
}

// Token mirrors the login/register response payload.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        User   `json:"user"`
}

// RegisterRequest is the /auth/register body.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
}

// Order mirrors the surplus request resource, the platform's core order.
type Order struct {
	ID                int64   `json:"id"`
	RestaurantID      int64   `json:"restaurant_id"`
	NGOID             int64   `json:"ngo_id"`
	DriverID          int64   `json:"driver_id"`
	FoodDescription   string  `json:"food_description"`
	FoodCategory      string  `json:"food_category"`
	QuantityKG        float64 `json:"quantity_kg"`
	Servings          int     `json:"servings"`
	Status            Status  `json:"status"`
	TemperatureOK     bool    `json:"temperature_ok"`
	TempSafetyAlert   bool    `json:"temp_safety_alert"`
	QualityRating     int     `json:"quality_rating"`
	PickupLat         float64 `json:"pickup_lat"`
	PickupLng         float64 `json:"pickup_lng"`
	DropoffLat        float64 `json:"dropoff_lat"`
	DropoffLng        float64 `json:"dropoff_lng"`
	DistanceKM        float64 `json:"distance_km"`
	ETAMinutes        int     `json:"eta_minutes"`
	DriverPayment     float64 `json:"driver_payment"`
	PaymentStatus     string  `json:"payment_status"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
	RestaurantName    string  `json:"restaurant_name"`
	NGOName           string  `json:"ngo_name"`
	DriverName        string  `json:"driver_name"`
	PredictedQuantity float64 `json:"predicted_quantity_kg"`
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (o Order) ParsedCreatedAt() time.Time { return parseTime(o.CreatedAt) }

// ParsedUpdatedAt returns the parsed UpdatedAt timestamp.
func (o Order) ParsedUpdatedAt() time.Time { return parseTime(o.UpdatedAt) }

// CreateOrderRequest is the POST /surplus body.
type CreateOrderRequest struct {
	FoodDescription    string   `json:"food_description"`
	FoodCategory       string   `json:"food_category"`
	QuantityKG         float64  `json:"quantity_kg"`
	Servings           int      `json:"servings,omitempty"`
	ExpiryHours        int      `json:"expiry_hours"`
	TemperatureCelsius *float64 `json:"temperature_celsius,omitempty"`
	FoodCondition      string   `json:"food_condition"`
	DonorLat           *float64 `json:"donor_lat,omitempty"`
	DonorLng           *float64 `json:"donor_lng,omitempty"`
}

// OrderQuery filters GET /surplus.
type OrderQuery struct {
	Status Status
	Limit  int
}

// ImpactStats mirrors /impact/dashboard.
type ImpactStats struct {
	TotalKGSaved         float64 `json:"total_kg_saved"`
	TotalMealsServed     int     `json:"total_meals_served"`
	TotalCO2SavedKG      float64 `json:"total_co2_saved_kg"`
	TotalWaterSavedL     float64 `json:"total_water_saved_liters"`
	TotalMoneySavedINR   float64 `json:"total_money_saved_inr"`
	ActiveRestaurants    int     `json:"active_restaurants"`
	ActiveNGOs           int     `json:"active_ngos"`
	ActiveDrivers        int     `json:"active_drivers"`
	AvgDeliveryTimeMins  float64 `json:"avg_delivery_time_mins"`
	ActiveOrders         int     `json:"active_orders"`
	TodayKGSaved         float64 `json:"today_kg_saved"`
	TodayMeals           int     `json:"today_meals"`
	PendingOrders        int     `json:"pending_orders"`
	DeliveredToday       int     `json:"delivered_today"`
	TopRestaurant        string  `json:"top_restaurant"`
	TopNGO               string  `json:"top_ngo"`
	SuccessRate          float64 `json:"success_rate"`
	AvgResponseTimeMins  float64 `json:"avg_response_time_mins"`
}

// LeaderboardEntry mirrors /impact/leaderboard rows.
type LeaderboardEntry struct {
	Rank   int     `json:"rank"`
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Metric string  `json:"metric"`
}

// Notification mirrors /notifications rows.
type Notification struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	IsRead      bool   `json:"is_read"`
	ReferenceID int64  `json:"reference_id"`
	CreatedAt   string `json:"created_at"`
}

// MapPoint is a named coordinate inside an ActiveJob.
type MapPoint struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// JobDriver carries the assigned driver's last known position.
type JobDriver struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Vehicle string  `json:"vehicle"`
}

// ActiveJob mirrors /tracking/active-jobs entries for the live map.
type ActiveJob struct {
	ID              int64      `json:"id"`
	Status          Status     `json:"status"`
	FoodDescription string     `json:"food_description"`
	FoodCategory    string     `json:"food_category"`
	QuantityKG      float64    `json:"quantity_kg"`
	Servings        int        `json:"servings"`
	Pickup          MapPoint   `json:"pickup"`
	Dropoff         MapPoint   `json:"dropoff"`
	Driver          *JobDriver `json:"driver"`
	ETAMinutes      int        `json:"eta_minutes"`
	DistanceKM      float64    `json:"distance_km"`
	CreatedAt       string     `json:"created_at"`
}

// NetworkLocation is one pin in the /tracking/all-locations map overlay.
// Which optional fields are set depends on the kind of entity.
type NetworkLocation struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name,omitempty"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Cuisine  string  `json:"cuisine,omitempty"`
	Capacity float64 `json:"capacity_kg,omitempty"`
	Vehicle  string  `json:"vehicle,omitempty"`
	Rating   float64 `json:"rating,omitempty"`
}

// NetworkMap mirrors /tracking/all-locations: every restaurant, NGO, and
// online driver in the network.
type NetworkMap struct {
	Restaurants []NetworkLocation `json:"restaurants"`
	NGOs        []NetworkLocation `json:"ngos"`
	Drivers     []NetworkLocation `json:"drivers"`
}

// PredictionRequest is the /ml/predict-surplus body.
type PredictionRequest struct {
	RestaurantID int64   `json:"restaurant_id,omitempty"`
	DayOfWeek    int     `json:"day_of_week"`
	GuestCount   int     `json:"guest_count"`
	EventType    string  `json:"event_type"`
	Weather      string  `json:"weather"`
	CuisineType  string  `json:"cuisine_type,omitempty"`
	TimeOfDay    *int    `json:"time_of_day,omitempty"`
	BaseSurplus  float64 `json:"base_surplus_kg,omitempty"`
}

// Prediction mirrors /ml/predict-surplus responses.
type Prediction struct {
	PredictedKG       float64            `json:"predicted_kg"`
	Confidence        float64            `json:"confidence"`
	CategoryBreakdown map[string]float64 `json:"category_breakdown"`
	Recommendation    string             `json:"recommendation"`
	ModelVersion      string             `json:"model_version"`
}

// Health mirrors the /health payload.
type Health struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

const annapurnaTimestampLayout = "2006-01-02T15:04:05"

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	// The API emits naive ISO timestamps in some payloads.
	if t, err := time.ParseInLocation(annapurnaTimestampLayout, value, time.UTC); err == nil {
		return t
	}
	return time.Time{}
}
