package app

type GetSettingsInput struct {
	UserID string
}

// UpdateSettingsInput carries a partial update; nil fields keep their
// stored value.
type UpdateSettingsInput struct {
	UserID       string
	Enabled      *bool
	ReminderTime *string
	Timezone     *string
}

type RegisterTokenInput struct {
	UserID   string
	FCMToken string
}
