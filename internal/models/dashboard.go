package models

// DashboardStats holds the entity counts shown on the landing page.
type DashboardStats struct {
	Students int `db:"students" json:"students"`
	Courses  int `db:"courses" json:"courses"`
	News     int `db:"news" json:"news"`
}

// DashboardSummary is the landing page payload: counts, the latest news and
// the viewer's schedule slice.
type DashboardSummary struct {
	Role       UserRole         `json:"role"`
	Username   string           `json:"username"`
	Stats      DashboardStats   `json:"stats"`
	LatestNews []News           `json:"latest_news"`
	Schedules  []ScheduleDetail `json:"schedules"`
}
