package reports

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rise-gen/internal/errors"
	"github.com/KirkDiggler/rise-gen/internal/pkg/clock"
	"github.com/KirkDiggler/rise-gen/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/rise-gen/internal/redis"
)

const (
	// Key patterns: report:{id} and report:matchup:{matchup}
	reportKeyPrefix  = "report:"
	matchupKeyPrefix = "report:matchup:"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	// Clock defaults to the system clock.
	Clock clock.Clock
	// IDGenerator defaults to prefixed UUIDs.
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
	idGen  idgen.Generator
}

// NewRedisRepository creates a new Redis repository for reports
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	r := &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
		idGen:  cfg.IDGenerator,
	}
	if r.clock == nil {
		r.clock = clock.New()
	}
	if r.idGen == nil {
		r.idGen = idgen.NewUUID("report")
	}
	return r, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Save writes the report and indexes it under its matchup in one transaction
func (r *redisRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	report := &Report{
		ID:        r.idGen.Generate(),
		Red:       input.Red,
		Blue:      input.Blue,
		Level:     input.Level,
		Summary:   input.Summary,
		CreatedAt: r.clock.Now().UTC(),
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal report")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, reportKeyPrefix+report.ID, reportJSON, 0)
	pipe.SAdd(ctx, matchupKeyPrefix+report.Matchup(), report.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to store report in Redis")
	}

	return &SaveOutput{Report: report}, nil
}

// Get retrieves a report by ID
func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	reportJSON, err := r.client.Get(ctx, reportKeyPrefix+input.ID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("report %s not found", input.ID)
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to get report from Redis")
	}

	var report Report
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal report %s", input.ID)
	}

	return &GetOutput{Report: &report}, nil
}

// ListByMatchup reads the matchup index and loads every report in it
func (r *redisRepository) ListByMatchup(ctx context.Context, input *ListByMatchupInput) (*ListByMatchupOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if err := validateSides(input.Red, input.Blue, false); err != nil {
		return nil, err
	}

	ids, err := r.client.SMembers(ctx, matchupKeyPrefix+Matchup(input.Red, input.Blue)).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read matchup index")
	}
	if len(ids) == 0 {
		return &ListByMatchupOutput{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = reportKeyPrefix + id
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to get reports from Redis")
	}

	reports := make([]*Report, 0, len(values))
	for i, value := range values {
		// index entries can outlive their report
		raw, ok := value.(string)
		if !ok {
			continue
		}
		var report Report
		if err := json.Unmarshal([]byte(raw), &report); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal report %s", ids[i])
		}
		reports = append(reports, &report)
	}
	sortReports(reports)

	return &ListByMatchupOutput{Reports: reports}, nil
}
