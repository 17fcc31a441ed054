package reports

const (
	queryCreate = `
		INSERT INTO reports (
			user_id, original_text, summary, confidence, structured_data, is_medical, kind, attachment, attachment_too_large, date_label, embedding
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, user_id, original_text, summary, confidence, structured_data, is_medical, kind, attachment, attachment_too_large, date_label, created_at
	`

	queryCountByUser = `
		SELECT COUNT(*) FROM reports WHERE user_id = $1
	`

	// listings leave the attachment out
	queryList = `
		SELECT id, user_id, original_text, summary, confidence, structured_data, is_medical, kind, '' AS attachment, attachment_too_large, date_label, created_at
		FROM reports
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	queryGet = `
		SELECT id, user_id, original_text, summary, confidence, structured_data, is_medical, kind, attachment, attachment_too_large, date_label, created_at
		FROM reports
		WHERE id = $1 AND user_id = $2
	`

	queryDelete = `
		DELETE FROM reports
		WHERE id = $1 AND user_id = $2
	`

	querySearchSimilar = `
		SELECT id, user_id, original_text, summary, confidence, structured_data, is_medical, kind, '' AS attachment, attachment_too_large, date_label, created_at
		FROM reports
		WHERE user_id = $1 AND embedding IS NOT NULL
		ORDER BY embedding <=> $2
		LIMIT $3
	`
)
