// ABOUTME: Wire types for the carebridge backend's aggregate resources
// ABOUTME: PatientRecord bundles profile, goals, and dashboard for one user

package api

import "github.com/openhealth/carebridge/internal/session"

// Profile is the patient's editable profile block
type Profile struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Age         int    `json:"age"`
	Allergies   string `json:"allergies"`
	Medications string `json:"medications"`
}

// GoalEntry is one day's tracked goals. Date is a natural key: the goals
// array holds at most one entry per date.
type GoalEntry struct {
	Date  string  `json:"date"` // ISO date, e.g. "2024-01-01"
	Steps int     `json:"steps"`
	Water float64 `json:"water"` // liters
	Sleep float64 `json:"sleep"` // hours
}

// DailyGoals is the dashboard's snapshot of the current goal targets
type DailyGoals struct {
	Steps int     `json:"steps"`
	Water float64 `json:"water"`
	Sleep float64 `json:"sleep"`
}

// Reminder is a dated dashboard reminder
type Reminder struct {
	Title string `json:"title"`
	Date  string `json:"date"`
}

// Dashboard is the read-optimized block shown on the patient dashboard
type Dashboard struct {
	Goals     DailyGoals `json:"goals"`
	Reminders []Reminder `json:"reminders"`
	HealthTip string     `json:"healthTip"`
}

// PatientRecord is the aggregate resource: the single server-side record
// bundling everything for one patient. It is fetched and written wholesale.
type PatientRecord struct {
	Profile   Profile     `json:"profile"`
	Goals     []GoalEntry `json:"goals"`
	Dashboard Dashboard   `json:"dashboard"`
}

// ProviderPatient is one row in a provider's patient roster
type ProviderPatient struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// ProviderOverview is the provider's aggregate view
type ProviderOverview struct {
	Patients []ProviderPatient `json:"patients"`
}

// UserRecord is a row in the backend users collection
type UserRecord struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Password string       `json:"password,omitempty"`
	Role     session.Role `json:"role"`
}

// NewUser is the registration payload
type NewUser struct {
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Role     session.Role `json:"role"`
}
