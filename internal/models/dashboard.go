package models

import "time"

// DashboardStats is the pure reduction over the three collections shown on
// the admin dashboard. TotalRevenue is the catalog-price sum, not collected
// revenue.
type DashboardStats struct {
	TotalCourses          int     `json:"total_courses"`
	TotalRegistrations    int     `json:"total_registrations"`
	PendingRegistrations  int     `json:"pending_registrations"`
	ApprovedRegistrations int     `json:"approved_registrations"`
	TotalContacts         int     `json:"total_contacts"`
	NewContacts           int     `json:"new_contacts"`
	TotalRevenue          float64 `json:"total_revenue"`
	TotalEnrolled         int     `json:"total_enrolled"`
}

// SystemMetrics is a lightweight snapshot of process health counters.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
