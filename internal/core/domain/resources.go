package domain

import "strings"

// InventoryItem is a kit tracked by the backend inventory collection.
type InventoryItem struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	KitID        string `json:"kit_id"`
	Model        string `json:"model,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
	Category     string `json:"category"`
	Quantity     int    `json:"quantity"`
	Status       string `json:"status"`
	State        string `json:"state,omitempty"`
	District     string `json:"district,omitempty"`
	Institution  string `json:"institution,omitempty"`
	QRCode       string `json:"qr_code,omitempty"`
	Description  string `json:"description,omitempty"`
	BatchID      *int   `json:"batch_id,omitempty"`
	LastUpdated  string `json:"last_updated,omitempty"`
}

// Location joins state, district and institution with " - ", skipping blanks.
func (i InventoryItem) Location() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{i.State, i.District, i.Institution} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " - ")
}

// Training is a scheduled training session.
type Training struct {
	ID                int    `json:"id"`
	Title             string `json:"title"`
	Instructor        string `json:"instructor"`
	Date              string `json:"date"`
	ParticipantsCount int    `json:"participants_count"`
	Status            string `json:"status"`
	NDUMappingID      string `json:"ndu_mapping_id,omitempty"`
}

// ContentItem is a digital content asset (videos and manuals).
type ContentItem struct {
	ID                 int    `json:"id"`
	Title              string `json:"title"`
	Category           string `json:"category"`
	DurationMinutes    int    `json:"duration_minutes"`
	Tags               string `json:"tags"`
	NDUReferenceID     string `json:"ndu_reference_id,omitempty"`
	HasSafetyChecklist bool   `json:"has_safety_checklist"`
	HasTroubleshooting bool   `json:"has_troubleshooting"`
	HasAssessmentCues  bool   `json:"has_assessment_cues"`
	QualityChecked     bool   `json:"quality_checked"`
	ApprovalStatus     string `json:"approval_status,omitempty"`
}

// Account is a user record managed by the backend. Backend roles are kept as
// plain strings since the backend knows more roles than the console does.
type Account struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	FullName string `json:"full_name,omitempty"`
	IsActive bool   `json:"is_active"`
}

// NewAccount carries the fields needed to create a backend user.
type NewAccount struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	FullName string `json:"full_name,omitempty"`
}

// AuditEntry is one line of the dashboard's recent activity feed.
type AuditEntry struct {
	Action string `json:"action"`
	User   string `json:"user"`
	Time   string `json:"time"`
}

// DashboardStats are the aggregate counters shown on the dashboard.
type DashboardStats struct {
	Inventory        int          `json:"inventory"`
	Batches          int          `json:"batches"`
	ContentTotal     int          `json:"content_total"`
	ContentPractical int          `json:"content_practical"`
	ContentPedagogy  int          `json:"content_pedagogy"`
	PendingSyncs     int          `json:"pending_syncs"`
	UserRole         string       `json:"user_role,omitempty"`
	RecentLogs       []AuditEntry `json:"recent_logs"`
}

// Utilization reports how many kits are allocated to training batches.
type Utilization struct {
	UtilizationRate   float64 `json:"utilization_rate"`
	AllocatedKits     int     `json:"allocated_kits"`
	TotalKits         int     `json:"total_kits"`
	CorrelationStatus string  `json:"correlation_status,omitempty"`
}

// SyncKind names a resource collection that can be pushed to the national
// digital university (NDU) integration.
type SyncKind string

const (
	SyncContent  SyncKind = "content"
	SyncTraining SyncKind = "training"
)
