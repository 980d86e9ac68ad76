package handler

// --- Request types ---

type loginForm struct {
	Username string `form:"username" json:"username" validate:"required,max=64"`
	Password string `form:"password" json:"password" validate:"required,max=128"`
}

type inventoryForm struct {
	Name         string `form:"name"          validate:"required,max=200"`
	KitID        string `form:"kit_id"        validate:"required,max=64"`
	Model        string `form:"model"         validate:"max=100"`
	SerialNumber string `form:"serial_number" validate:"max=100"`
	Category     string `form:"category"      validate:"required,max=100"`
	Quantity     int    `form:"quantity"      validate:"gte=0"`
	Status       string `form:"status"        validate:"required,oneof=Available Allocated Maintenance"`
	State        string `form:"state"         validate:"max=100"`
	District     string `form:"district"      validate:"max=100"`
	Institution  string `form:"institution"   validate:"max=200"`
	Description  string `form:"description"   validate:"max=2000"`
}

type trainingForm struct {
	Title             string `form:"title"              validate:"required,max=200"`
	Instructor        string `form:"instructor"         validate:"required,max=200"`
	Date              string `form:"date"               validate:"required,datetime=2006-01-02"`
	ParticipantsCount int    `form:"participants_count" validate:"gte=0"`
}

type contentForm struct {
	Title              string `form:"title"                validate:"required,max=200"`
	Category           string `form:"category"             validate:"required,oneof=Practical Pedagogy"`
	DurationMinutes    int    `form:"duration_minutes"     validate:"gt=0"`
	Tags               string `form:"tags"                 validate:"max=500"`
	HasSafetyChecklist bool   `form:"has_safety_checklist"`
	HasTroubleshooting bool   `form:"has_troubleshooting"`
	HasAssessmentCues  bool   `form:"has_assessment_cues"`
	QualityChecked     bool   `form:"quality_checked"`
}

type userForm struct {
	Username string `form:"username"  validate:"required,min=3,max=64"`
	Password string `form:"password"  validate:"required,min=8,max=128"`
	Role     string `form:"role"      validate:"required,oneof=ADMIN SUPER_ADMIN"`
	FullName string `form:"full_name" validate:"max=200"`
}

// --- Response types ---

type sessionResponse struct {
	Authenticated bool            `json:"authenticated"`
	Hydrating     bool            `json:"hydrating"`
	Identity      *identityResult `json:"identity,omitempty"`
}

type identityResult struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name"`
}

type syncQueuedResponse struct {
	JobID string `json:"job_id"`
}

type errorBody struct {
	Error string `json:"error"`
}
