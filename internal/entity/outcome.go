package entity

import (
	"time"

	"github.com/joseph-ayodele/inspection-extractor/constants"
)

// DocumentOutcome reports how one document of a batch ended.
type DocumentOutcome struct {
	Filename   string                   `json:"filename"`
	Status     constants.DocumentStatus `json:"status"`
	Error      string                   `json:"error,omitempty"`
	FinishedAt time.Time                `json:"finished_at"`
}
