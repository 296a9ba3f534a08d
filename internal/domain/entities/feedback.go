package entities

import "time"

// Sentiment classifies the tone of a feedback item
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Sentiments lists every sentiment bucket in display order.
var Sentiments = []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}

// Valid reports whether s is a known sentiment.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// Feedback is written by a manager about one employee on their team.
type Feedback struct {
	ID           string    `json:"id" db:"id"`
	EmployeeID   string    `json:"employee_id" db:"employee_id"`
	ManagerID    string    `json:"manager_id" db:"manager_id"`
	Strengths    string    `json:"strengths" db:"strengths"`
	Improvements string    `json:"improvements" db:"improvements"`
	Sentiment    Sentiment `json:"sentiment" db:"sentiment"`
	RequestID    *int64    `json:"request_id,omitempty" db:"request_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	Tags           []Tag           `json:"tags" db:"-"`
	Acknowledgment *Acknowledgment `json:"acknowledgment,omitempty" db:"-"`
}

// IsAcknowledged reports whether the recipient has acknowledged the feedback
func (f *Feedback) IsAcknowledged() bool {
	return f.Acknowledgment != nil
}

// TagIDs returns the ids of the attached tags
func (f *Feedback) TagIDs() []int64 {
	ids := make([]int64, 0, len(f.Tags))
	for _, tag := range f.Tags {
		ids = append(ids, tag.ID)
	}
	return ids
}

// FeedbackPatch carries the fields of a partial update. Nil fields are
// left unchanged; a non-nil TagIDs replaces the tag set (empty clears it).
type FeedbackPatch struct {
	Strengths    *string    `json:"strengths,omitempty"`
	Improvements *string    `json:"improvements,omitempty"`
	Sentiment    *Sentiment `json:"sentiment,omitempty"`
	TagIDs       []int64    `json:"tag_ids,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p FeedbackPatch) IsEmpty() bool {
	return p.Strengths == nil && p.Improvements == nil && p.Sentiment == nil && p.TagIDs == nil
}
