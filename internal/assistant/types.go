package assistant

// health context the user keeps on their profile; every field optional
type HealthProfile struct {
	Conditions string `json:"conditions,omitempty" validate:"max=2000"`
	Habits     string `json:"habits,omitempty" validate:"max=2000"`
	Diet       string `json:"diet,omitempty" validate:"max=2000"`
	Height     string `json:"height,omitempty" validate:"max=32"` // cm
	Weight     string `json:"weight,omitempty" validate:"max=32"` // kg
	Age        string `json:"age,omitempty" validate:"max=16"`
}

// a stored report as it is fed back into chat context
type ReportSnapshot struct {
	Summary        string              `json:"summary" validate:"required"`
	DateLabel      string              `json:"date_label" validate:"required"`
	StructuredData *StructuredInsights `json:"structured_data,omitempty"`
}

type AdviceInput struct {
	Query         string           `json:"query" validate:"required,max=4000"`
	HealthProfile *HealthProfile   `json:"health_profile,omitempty"`
	RecentReports []ReportSnapshot `json:"recent_reports,omitempty" validate:"max=10,dive"`
}

type AdviceOutput struct {
	Advice string `json:"advice,omitempty"`
	Error  string `json:"error,omitempty"`
}

type ReportInput struct {
	ReportText string `json:"report_text,omitempty" validate:"max=50000"`
	// base64 data URIs of photos or PDFs
	Documents []string `json:"documents,omitempty" validate:"max=10,dive,datauri"`
	UserName  string   `json:"user_name,omitempty" validate:"max=200"`
}

type StructuredInsights struct {
	BloodSugarLevel string `json:"blood_sugar_level,omitempty"`
	HbA1c           string `json:"hbA1c,omitempty"`
	Cholesterol     string `json:"cholesterol,omitempty"`
}

func (s *StructuredInsights) IsZero() bool {
	return s == nil || (s.BloodSugarLevel == "" && s.HbA1c == "" && s.Cholesterol == "")
}

type ReportOutput struct {
	Summary            string              `json:"summary,omitempty"`
	ConfidenceLevel    *float64            `json:"confidence_level,omitempty" validate:"omitempty,gte=0,lte=1"`
	RawExtractedText   string              `json:"raw_extracted_text,omitempty"`
	StructuredInsights *StructuredInsights `json:"structured_insights,omitempty"`
	IsMedical          *bool               `json:"is_medical,omitempty"`
	Error              string              `json:"error,omitempty"`
}

type ReasoningInput struct {
	PatientData     string `json:"patient_data" validate:"required,max=50000"`
	DoctorReasoning string `json:"doctor_reasoning" validate:"required,max=20000"`
}

type ReasoningOutput struct {
	AIReasoning string `json:"ai_reasoning,omitempty"`
	Comparison  string `json:"comparison,omitempty"`
	Insights    string `json:"insights,omitempty"`
	Error       string `json:"error,omitempty"`
}
