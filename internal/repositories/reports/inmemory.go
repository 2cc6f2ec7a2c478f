package reports

import (
	"context"
	"sync"

	"github.com/KirkDiggler/rise-gen/internal/combat"
	"github.com/KirkDiggler/rise-gen/internal/errors"
	"github.com/KirkDiggler/rise-gen/internal/pkg/clock"
	"github.com/KirkDiggler/rise-gen/internal/pkg/idgen"
)

// InMemoryRepository implements Repository using in-memory storage. The
// CLI falls back to it when no Redis address is configured.
type InMemoryRepository struct {
	mu       sync.RWMutex
	clock    clock.Clock
	idGen    idgen.Generator
	store    map[string]*Report
	matchups map[string][]string
}

// NewInMemory creates a new in-memory repository. Nil dependencies fall
// back to the system clock and prefixed UUIDs.
func NewInMemory(clk clock.Clock, idGen idgen.Generator) *InMemoryRepository {
	if clk == nil {
		clk = clock.New()
	}
	if idGen == nil {
		idGen = idgen.NewUUID("report")
	}
	return &InMemoryRepository{
		clock:    clk,
		idGen:    idGen,
		store:    make(map[string]*Report),
		matchups: make(map[string][]string),
	}
}

var _ Repository = (*InMemoryRepository)(nil)

// Save stores a report
func (r *InMemoryRepository) Save(_ context.Context, input *SaveInput) (*SaveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	report := &Report{
		ID:        r.idGen.Generate(),
		Red:       append([]string(nil), input.Red...),
		Blue:      append([]string(nil), input.Blue...),
		Level:     input.Level,
		Summary:   copySummary(input.Summary),
		CreatedAt: r.clock.Now().UTC(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[report.ID] = report
	r.matchups[report.Matchup()] = append(r.matchups[report.Matchup()], report.ID)

	return &SaveOutput{Report: copyReport(report)}, nil
}

// Get retrieves a report by ID
func (r *InMemoryRepository) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	report, exists := r.store[input.ID]
	if !exists {
		return nil, errors.NotFoundf("report %s not found", input.ID)
	}

	// Return a copy to prevent external modification
	return &GetOutput{Report: copyReport(report)}, nil
}

// ListByMatchup returns every report for one matchup, oldest first
func (r *InMemoryRepository) ListByMatchup(_ context.Context, input *ListByMatchupInput) (*ListByMatchupOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if err := validateSides(input.Red, input.Blue, false); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.matchups[Matchup(input.Red, input.Blue)]
	reports := make([]*Report, 0, len(ids))
	for _, id := range ids {
		reports = append(reports, copyReport(r.store[id]))
	}
	sortReports(reports)

	return &ListByMatchupOutput{Reports: reports}, nil
}

func copyReport(r *Report) *Report {
	cp := *r
	cp.Red = append([]string(nil), r.Red...)
	cp.Blue = append([]string(nil), r.Blue...)
	cp.Summary = copySummary(r.Summary)
	return &cp
}

func copySummary(s *combat.Summary) *combat.Summary {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}
