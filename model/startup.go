package model

import (
	"time"
)

// Startup is the owning entity a document belongs to. Plain key-value CRUD,
// no derived state.
type Startup struct {
	ID          string    `json:"id" dynamodbav:"id"`
	Name        string    `json:"name" dynamodbav:"name"`
	Description string    `json:"description" dynamodbav:"description"`
	Website     string    `json:"website" dynamodbav:"website"`
	Sector      string    `json:"sector" dynamodbav:"sector"`
	CreatedAt   time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
}
