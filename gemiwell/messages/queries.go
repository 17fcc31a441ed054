package messages

const (
	queryCreate = `
		INSERT INTO messages (user_id, role, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, role, content, created_at
	`

	// newest n, returned oldest first
	queryList = `
		SELECT id, user_id, role, content, created_at
		FROM (
			SELECT id, user_id, role, content, created_at
			FROM messages
			WHERE user_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC, id ASC
	`
)
