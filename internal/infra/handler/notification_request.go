package handler

type UpdateSettingsRequest struct {
	Enabled      *bool   `json:"enabled"`
	ReminderTime *string `json:"reminder_time"`
	Timezone     *string `json:"timezone"`
}

type RegisterTokenRequest struct {
	FCMToken string `json:"fcm_token" binding:"required"`
}
