package learners

import (
	"time"

	"github.com/google/uuid"
)

// Learner is an account that can chat with a persistent learning context.
type Learner struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
