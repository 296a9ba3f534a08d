package entities

// SentimentTrends counts feedback per sentiment bucket
type SentimentTrends map[Sentiment]int

// NewSentimentTrends returns trends with every bucket present at zero.
func NewSentimentTrends() SentimentTrends {
	trends := make(SentimentTrends, len(Sentiments))
	for _, s := range Sentiments {
		trends[s] = 0
	}
	return trends
}

// ManagerStats aggregates the feedback a manager has written.
type ManagerStats struct {
	ManagerID          string          `json:"manager_id"`
	FeedbackCount      int             `json:"feedback_count"`
	AcknowledgedCount  int             `json:"acknowledged_count"`
	PendingCount       int             `json:"pending_count"`
	AcknowledgmentRate float64         `json:"acknowledgment_rate"`
	SentimentTrends    SentimentTrends `json:"sentiment_trends"`
}

// EmployeeDashboard is an employee's feedback timeline with acknowledgment counts.
type EmployeeDashboard struct {
	EmployeeID        string      `json:"employee_id"`
	FeedbackCount     int         `json:"feedback_count"`
	AcknowledgedCount int         `json:"acknowledged_count"`
	PendingCount      int         `json:"pending_count"`
	Timeline          []*Feedback `json:"timeline"`
}
