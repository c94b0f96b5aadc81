package game

import (
	"time"

	"github.com/juuwaah/kotoba-akinator/internal/akinator"
	"github.com/juuwaah/kotoba-akinator/internal/vocab"
)

// Summary is the admin view of a session. It never carries the secret.
type Summary struct {
	ID          string         `json:"id"`
	Role        akinator.Role  `json:"role,omitempty"`
	Tier        vocab.Tier     `json:"tier,omitempty"`
	State       akinator.State `json:"state"`
	Turns       int            `json:"turns"`
	OracleTurns int            `json:"oracleTurns"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type Options struct {
	// TTL is how long an untouched session is kept. Zero disables sweeping.
	TTL time.Duration
	// ExportFile receives a transcript of every finished game when set.
	ExportFile string
}
