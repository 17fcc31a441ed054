package profiles

const (
	queryGet = `
		SELECT user_id, display_name, age, conditions, habits, diet, height, weight, user_category, hospital, badge_number, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	// merge-upsert: a missing row is created from the provided fields, an existing row keeps whatever is not provided
	queryUpsert = `
		INSERT INTO profiles (
			user_id, display_name, age, conditions, habits, diet, height, weight, user_category, hospital, badge_number
		)
		VALUES (
			$1,
			COALESCE($2, ''), COALESCE($3, ''), COALESCE($4, ''), COALESCE($5, ''), COALESCE($6, ''),
			COALESCE($7, ''), COALESCE($8, ''), COALESCE($9, 'normal'), COALESCE($10, ''), COALESCE($11, '')
		)
		ON CONFLICT (user_id)
		DO UPDATE SET
			display_name = COALESCE($2, profiles.display_name),
			age = COALESCE($3, profiles.age),
			conditions = COALESCE($4, profiles.conditions),
			habits = COALESCE($5, profiles.habits),
			diet = COALESCE($6, profiles.diet),
			height = COALESCE($7, profiles.height),
			weight = COALESCE($8, profiles.weight),
			user_category = COALESCE($9, profiles.user_category),
			hospital = COALESCE($10, profiles.hospital),
			badge_number = COALESCE($11, profiles.badge_number),
			updated_at = NOW()
		RETURNING user_id, display_name, age, conditions, habits, diet, height, weight, user_category, hospital, badge_number, created_at, updated_at
	`
)
