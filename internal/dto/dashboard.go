package dto

// DashboardSummary is the admin landing-page aggregate.
type DashboardSummary struct {
	Days              []DashboardDay `json:"days"`
	TotalCapacity     int            `json:"total_capacity"`
	TotalBooked       int            `json:"total_booked"`
	TotalAvailable    int            `json:"total_available"`
	OccupancyPercent  float64        `json:"occupancy_percent"`
	EstimatedRevenue  int64          `json:"estimated_revenue_cents"`
	ActiveTanks       int            `json:"active_tanks"`
	UpcomingDaysCount int            `json:"upcoming_days_count"`
}

// DashboardDay is one day's capacity line on the dashboard.
type DashboardDay struct {
	Date           string `json:"date"`
	Status         string `json:"status"`
	TotalSlots     int    `json:"total_slots"`
	TotalBooked    int    `json:"total_booked"`
	AvailableSlots int    `json:"available_slots"`
}
