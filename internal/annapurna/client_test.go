package annapurna

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
)

type staticTokens struct {
	mu    sync.Mutex
	token string
}

func (s *staticTokens) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *staticTokens) set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func TestParseBaseURL_NormalizesAndRejectsEmpty(t *testing.T) {
	if _, err := parseBaseURL("  "); err == nil {
		t.Fatalf("parseBaseURL accepted empty input, want error")
	}

	u, err := parseBaseURL("example.com:8000/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_FetchesEndpointsAndEncodesQueries(t *testing.T) {
	t.Parallel()

	var gotOrdersQuery url.Values
	var gotLeaderboardQuery url.Values
	var gotUserAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/v1/surplus/42":
			_ = json.NewEncoder(w).Encode(Order{ID: 42, Status: StatusAssigned})
		case "/api/v1/surplus":
			gotOrdersQuery = r.URL.Query()
			_ = json.NewEncoder(w).Encode([]Order{{ID: 1, Status: StatusPending}})
		case "/api/v1/impact/dashboard":
			_ = json.NewEncoder(w).Encode(ImpactStats{TotalKGSaved: 1234.5, ActiveOrders: 7})
		case "/api/v1/impact/leaderboard":
			gotLeaderboardQuery = r.URL.Query()
			_ = json.NewEncoder(w).Encode([]LeaderboardEntry{{Rank: 1, Name: "Tandoor House"}})
		case "/api/v1/tracking/active-jobs":
			_ = json.NewEncoder(w).Encode([]ActiveJob{{ID: 9, Status: StatusInTransit}})
		case "/api/v1/tracking/all-locations":
			_ = json.NewEncoder(w).Encode(NetworkMap{
				Restaurants: []NetworkLocation{{ID: 1, Name: "Spice Garden", Lat: 19.05, Lng: 72.82}},
				Drivers:     []NetworkLocation{{ID: 3, Vehicle: "bike"}},
			})
		case "/health":
			_ = json.NewEncoder(w).Encode(Health{Status: "healthy"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	order, err := c.Order(ctx, 42)
	if err != nil {
		t.Fatalf("Order returned error: %v", err)
	}
	if order.ID != 42 || order.Status != StatusAssigned {
		t.Fatalf("Order payload = %#v, want id=42 status=assigned", order)
	}

	orders, err := c.Orders(ctx, OrderQuery{Status: StatusPending, Limit: 13})
	if err != nil {
		t.Fatalf("Orders returned error: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != 1 {
		t.Fatalf("Orders = %#v, want 1 item id=1", orders)
	}
	if gotOrdersQuery.Get("status") != "pending" || gotOrdersQuery.Get("limit") != "13" {
		t.Fatalf("Orders query = %v, want status=pending limit=13", gotOrdersQuery)
	}

	stats, err := c.ImpactDashboard(ctx)
	if err != nil {
		t.Fatalf("ImpactDashboard returned error: %v", err)
	}
	if stats.TotalKGSaved != 1234.5 || stats.ActiveOrders != 7 {
		t.Fatalf("ImpactDashboard payload = %#v", stats)
	}

	_, err = c.Leaderboard(ctx, "kg_saved", 5)
	if err != nil {
		t.Fatalf("Leaderboard returned error: %v", err)
	}
	if gotLeaderboardQuery.Get("metric") != "kg_saved" || gotLeaderboardQuery.Get("limit") != "5" {
		t.Fatalf("Leaderboard query = %v, want metric+limit encoded", gotLeaderboardQuery)
	}

	jobs, err := c.ActiveJobs(ctx)
	if err != nil {
		t.Fatalf("ActiveJobs returned error: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Status != StatusInTransit {
		t.Fatalf("ActiveJobs = %#v, want 1 in_transit job", jobs)
	}

	network, err := c.AllLocations(ctx)
	if err != nil {
		t.Fatalf("AllLocations returned error: %v", err)
	}
	if len(network.Restaurants) != 1 || network.Restaurants[0].Name != "Spice Garden" {
		t.Fatalf("AllLocations restaurants = %#v", network.Restaurants)
	}
	if len(network.Drivers) != 1 || len(network.NGOs) != 0 {
		t.Fatalf("AllLocations drivers/ngos = %#v / %#v", network.Drivers, network.NGOs)
	}

	if _, err := c.CheckHealth(ctx); err != nil {
		t.Fatalf("CheckHealth returned error: %v", err)
	}

	if gotUserAgent == "" || !strings.HasPrefix(gotUserAgent, "ladle/") {
		t.Fatalf("User-Agent = %q, want ladle/*", gotUserAgent)
	}
}

func TestClient_ReadsTokenAtCallTime(t *testing.T) {
	t.Parallel()

	var gotAuth []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]Order{})
	}))
	t.Cleanup(server.Close)

	tokens := &staticTokens{}
	c, err := NewClient(server.URL, tokens)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx := context.Background()
	if _, err := c.MyOrders(ctx); err != nil {
		t.Fatalf("MyOrders returned error: %v", err)
	}
	tokens.set("tok-1")
	if _, err := c.MyOrders(ctx); err != nil {
		t.Fatalf("MyOrders returned error: %v", err)
	}
	tokens.set("")
	if _, err := c.MyOrders(ctx); err != nil {
		t.Fatalf("MyOrders returned error: %v", err)
	}

	want := []string{"", "Bearer tok-1", ""}
	if len(gotAuth) != len(want) {
		t.Fatalf("got %d requests, want %d", len(gotAuth), len(want))
	}
	for i := range want {
		if gotAuth[i] != want[i] {
			t.Fatalf("request %d Authorization = %q, want %q", i, gotAuth[i], want[i])
		}
	}
}

func TestClient_PostsJSONBodies(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Order{ID: 77, Status: StatusPending})
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	order, err := c.CreateOrder(context.Background(), CreateOrderRequest{
		FoodDescription: "veg biryani",
		FoodCategory:    "rice",
		QuantityKG:      12,
		ExpiryHours:     3,
		FoodCondition:   "cooked",
	})
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}
	if order.ID != 77 {
		t.Fatalf("CreateOrder id = %d, want 77", order.ID)
	}
	if gotContentType != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", gotContentType)
	}
	if gotBody["food_description"] != "veg biryani" || gotBody["quantity_kg"] != float64(12) {
		t.Fatalf("request body = %v", gotBody)
	}
}

func TestClient_NormalizesErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/surplus/1":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail": "Request not found", "code": "not_found"}`))
		case "/api/v1/surplus/my-orders":
			http.Error(w, "token expired", http.StatusUnauthorized)
		case "/api/v1/impact/dashboard":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	_, err = c.Order(ctx, 1)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Order error = %v, want *APIError", err)
	}
	if apiErr.Status != 404 || apiErr.Detail != "Request not found" || apiErr.Code != "not_found" {
		t.Fatalf("APIError = %#v, want decoded detail body", apiErr)
	}
	if apiErr.Unauthorized() {
		t.Fatalf("Unauthorized() = true for 404")
	}

	_, err = c.MyOrders(ctx)
	if !errors.As(err, &apiErr) {
		t.Fatalf("MyOrders error = %v, want *APIError", err)
	}
	if !apiErr.Unauthorized() {
		t.Fatalf("Unauthorized() = false for 401")
	}
	if apiErr.Detail != "token expired" {
		t.Fatalf("Detail = %q, want raw body fallback", apiErr.Detail)
	}

	_, err = c.ImpactDashboard(ctx)
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("ImpactDashboard error = %v, want decode response error", err)
	}
}

func TestClient_UpdateOrderStatusRejectsUnknown(t *testing.T) {
	c, err := NewClient("127.0.0.1:1", nil)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.UpdateOrderStatus(context.Background(), 5, Status("teleported"), ""); err == nil {
		t.Fatalf("UpdateOrderStatus accepted unknown status, want error")
	}
}
