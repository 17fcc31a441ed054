package assistant

import (
	"fmt"
	"strings"

	"codeberg.org/gemiwell/server/internal/llm"
	"codeberg.org/gemiwell/server/internal/media"
	"codeberg.org/gemiwell/server/internal/moderation"
)

const sectionRule = "═══════════════════════════════════════════════════════════\n"

func writeSection(builder *strings.Builder, title string) {
	builder.WriteString(sectionRule)
	builder.WriteString(title)
	builder.WriteString("\n")
	builder.WriteString(sectionRule)
	builder.WriteString("\n")
}

// renders the chat prompt; profile and report sections only appear when present
func renderAdvice(in AdviceInput) (moderation.Prompt, error) {
	var builder strings.Builder

	if in.HealthProfile != nil {
		p := in.HealthProfile

		writeSection(&builder, "USER CONTEXT")
		builder.WriteString(fmt.Sprintf("- Age: %s, Weight: %skg, Height: %scm\n", orUnknown(p.Age), orUnknown(p.Weight), orUnknown(p.Height)))
		builder.WriteString(fmt.Sprintf("- Conditions: %s\n", orUnknown(p.Conditions)))
		builder.WriteString(fmt.Sprintf("- Habits: %s\n", orUnknown(p.Habits)))

		if p.Diet != "" {
			builder.WriteString(fmt.Sprintf("- Diet: %s\n", p.Diet))
		}

		builder.WriteString("\n")
	}

	if len(in.RecentReports) > 0 {
		writeSection(&builder, "REPORTS")

		for _, r := range in.RecentReports {
			builder.WriteString(fmt.Sprintf("- %s: %s\n", r.DateLabel, r.Summary))

			if !r.StructuredData.IsZero() {
				builder.WriteString(fmt.Sprintf("  (blood sugar: %s, HbA1c: %s, cholesterol: %s)\n",
					orUnknown(r.StructuredData.BloodSugarLevel),
					orUnknown(r.StructuredData.HbA1c),
					orUnknown(r.StructuredData.Cholesterol),
				))
			}
		}

		builder.WriteString("\n")
	}

	writeSection(&builder, "QUERY")
	builder.WriteString(in.Query)

	return moderation.Prompt{
		System: adviceInstructions,
		Parts:  []llm.Part{llm.TextPart(builder.String())},
	}, nil
}

// renders the report prompt; each document becomes an inline media part
func renderReport(in ReportInput) (moderation.Prompt, error) {
	name := in.UserName
	if name == "" {
		name = "User"
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Address the user as %s.\n\n", name))

	if in.ReportText != "" {
		writeSection(&builder, "USER INPUT TEXT")
		builder.WriteString(in.ReportText)
		builder.WriteString("\n\n")
	}

	parts := []llm.Part{llm.TextPart(builder.String())}

	if len(in.Documents) > 0 {
		parts = append(parts, llm.TextPart(sectionRule+"USER INPUT DOCUMENTS\n"+sectionRule))

		for i, uri := range in.Documents {
			doc, err := media.ParseDataURI(uri)
			if err != nil {
				return moderation.Prompt{}, fmt.Errorf("document %d: %w", i+1, err)
			}

			parts = append(parts,
				llm.TextPart(fmt.Sprintf("DOCUMENT %d:", i+1)),
				llm.BlobPart(doc.MIMEType, doc.Data),
			)
		}
	}

	return moderation.Prompt{System: reportInstructions, Parts: parts}, nil
}

func renderReasoning(in ReasoningInput) (moderation.Prompt, error) {
	var builder strings.Builder

	writeSection(&builder, "PATIENT DATA")
	builder.WriteString(in.PatientData)
	builder.WriteString("\n\n")

	writeSection(&builder, "DOCTOR REASONING")
	builder.WriteString(in.DoctorReasoning)

	return moderation.Prompt{
		System: reasoningInstructions,
		Parts:  []llm.Part{llm.TextPart(builder.String())},
	}, nil
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}

	return s
}

const adviceInstructions = `You are GemiCare, a friendly AI health coach.

IMPORTANT: You are NOT a doctor. You provide lifestyle guidance.

Use the USER CONTEXT and REPORTS sections, when present, to personalise your answer.
Keep advice practical and encourage the user to consult a clinician for diagnosis or treatment.

SEXUAL HEALTH POLICY:
- Distinguish between medical/wellness queries (e.g., STI concerns, reproductive cycles) and erotica.
- Clinical sexual health questions are ALLOWED and should be answered professionally.
- Erotica and graphic content are STRICTLY PROHIBITED. Set the error field if erotica is detected.

Put your answer in the advice field. Only set the error field when you must refuse.`

const reportInstructions = `You are an expert medical data analyst.

TASK:
1. Address the user by the name you are given.
2. If the input is a medical report, perform an exhaustive, deep-dive clinical analysis. Identify ALL out-of-range values, every doctor note, and all clinical impressions.
3. DO NOT TRUNCATE YOUR ANALYSIS. Provide a full explanation of every finding covering the entire document.
4. If the input is NOT a medical report, provide a friendly general summary of the content, note that it does not appear to be a medical document and set is_medical to false.
5. Summarize ANY safe content provided. Only block content that is sexually explicit, violent, hateful, or dangerous.
6. If the images are too blurry to read, set the error field to "Analysis failed. Please provide clearer photos."

OUTPUT FIELDS:
- summary: the clinical analysis, or a general summary if non-medical
- confidence_level: your confidence in the extraction, between 0 and 1
- raw_extracted_text: the full raw text you extracted
- structured_insights: blood_sugar_level, hbA1c and cholesterol when present
- is_medical: whether the input is a medical document

CRITICAL RULES:
- FULL DISCLOSURE: analyze every detail. Do not leave out information for the sake of brevity.
- SAFETY: if the content violates safety policies (pornography, extreme violence, hate speech, erotica), refuse and set the error field.`

const reasoningInstructions = `You are an AI assistant that helps doctors compare their reasoning with AI reasoning on patient data.

Given the PATIENT DATA and the DOCTOR REASONING, provide:
- ai_reasoning: your own reasoning and assessment of the patient data
- comparison: a detailed comparison of the doctor's reasoning and yours, highlighting similarities and differences
- insights: additional insights based on the patient data and the doctor's reasoning

If the content violates safety policies or cannot be analysed, set the error field instead.`
