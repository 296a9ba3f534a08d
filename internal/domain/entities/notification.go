package entities

// NotificationChannel represents the delivery channel
type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "email"
	ChannelLog   NotificationChannel = "log"
)

// NotificationType represents the notification purpose
type NotificationType string

const (
	NotificationFeedbackReceived     NotificationType = "feedback_received"
	NotificationFeedbackAcknowledged NotificationType = "feedback_acknowledged"
	NotificationFeedbackRequested    NotificationType = "feedback_requested"
)

// Notification is a rendered message addressed to one user.
type Notification struct {
	Type           NotificationType `json:"type"`
	RecipientID    string           `json:"recipient_id"`
	RecipientEmail string           `json:"recipient_email"`
	RecipientName  string           `json:"recipient_name"`
	Subject        string           `json:"subject"`
	Body           string           `json:"body"`
}
