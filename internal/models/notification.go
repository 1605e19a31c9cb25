package models

// Notification statuses reported by the notify-recommendations worker.
const (
	NotificationStatusSent     = "sent"
	NotificationStatusFailed   = "failed"
	NotificationStatusDisabled = "disabled"
)
