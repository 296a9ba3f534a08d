package entities

// Tag is a shared catalog label attachable to feedback.
type Tag struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
