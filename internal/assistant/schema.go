package assistant

import "codeberg.org/gemiwell/server/internal/llm"

func str(description string) *llm.Schema {
	return &llm.Schema{Type: llm.TypeString, Description: description}
}

func adviceSchema() *llm.Schema {
	return &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"advice": str("lifestyle guidance answering the query"),
			"error":  str("set only when the request must be refused"),
		},
	}
}

func reportSchema() *llm.Schema {
	zero, one := 0.0, 1.0

	return &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"summary": str("friendly, exhaustive analysis of the report"),
			"confidence_level": {
				Type:        llm.TypeNumber,
				Description: "confidence in the extraction",
				Minimum:     &zero,
				Maximum:     &one,
			},
			"raw_extracted_text": str("full raw text extracted from the input"),
			"structured_insights": {
				Type: llm.TypeObject,
				Properties: map[string]*llm.Schema{
					"blood_sugar_level": str("blood sugar reading with unit"),
					"hbA1c":             str("HbA1c reading with unit"),
					"cholesterol":       str("cholesterol reading with unit"),
				},
			},
			"is_medical": {Type: llm.TypeBoolean, Description: "whether the input is a medical document"},
			"error":      str("set only when the input cannot be analysed or must be refused"),
		},
	}
}

func reasoningSchema() *llm.Schema {
	return &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"ai_reasoning": str("independent reasoning about the patient data"),
			"comparison":   str("comparison of the doctor's reasoning and the AI reasoning"),
			"insights":     str("additional insights"),
			"error":        str("set only when the request must be refused"),
		},
	}
}
