// Package reports stores summaries of combat trial batches.
package reports

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/KirkDiggler/rise-gen/internal/combat"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=reportsmock github.com/KirkDiggler/rise-gen/internal/repositories/reports Repository

// Report is one stored batch of trials between two groups.
type Report struct {
	ID        string          `json:"id"`
	Red       []string        `json:"red"`
	Blue      []string        `json:"blue"`
	Level     int             `json:"level"`
	Summary   *combat.Summary `json:"summary"`
	CreatedAt time.Time       `json:"created_at"`
}

// Matchup is the key reports are grouped under.
func (r *Report) Matchup() string {
	return Matchup(r.Red, r.Blue)
}

// Matchup names a fight by its sides, e.g. "fighter,rogue vs troll".
// Member order within a side matters since it decides targeting.
func Matchup(red, blue []string) string {
	return strings.Join(red, ",") + " vs " + strings.Join(blue, ",")
}

// SaveInput contains the batch to store
type SaveInput struct {
	Red     []string
	Blue    []string
	Level   int
	Summary *combat.Summary
}

func (i *SaveInput) validate() error {
	return validateSides(i.Red, i.Blue, i.Summary == nil)
}

// SaveOutput contains the stored report
type SaveOutput struct {
	Report *Report
}

// GetInput identifies a report
type GetInput struct {
	ID string
}

// GetOutput contains the report
type GetOutput struct {
	Report *Report
}

// ListByMatchupInput selects every report for one matchup
type ListByMatchupInput struct {
	Red  []string
	Blue []string
}

// ListByMatchupOutput contains reports oldest first
type ListByMatchupOutput struct {
	Reports []*Report
}

// Repository defines the interface for report storage
type Repository interface {
	// Save assigns an ID and creation time and stores the report
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)

	// Get retrieves a report by ID
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// ListByMatchup returns every report for the same red and blue sides
	ListByMatchup(ctx context.Context, input *ListByMatchupInput) (*ListByMatchupOutput, error)
}

func sortReports(reports []*Report) {
	sort.Slice(reports, func(i, j int) bool {
		if !reports[i].CreatedAt.Equal(reports[j].CreatedAt) {
			return reports[i].CreatedAt.Before(reports[j].CreatedAt)
		}
		return reports[i].ID < reports[j].ID
	})
}
