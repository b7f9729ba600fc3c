package models

import "time"

// Task is a titled, completable unit of work owned by exactly one user.
// Title and UserID never change after creation; Completed is only ever
// negated.
type Task struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
