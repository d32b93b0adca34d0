package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/compcheck/internal/model"
	"github.com/xxxsen/compcheck/internal/pkg/dbutil"
)

const (
	maxQueryAttempts = 3
	backoffBase      = time.Second
	backoffCap       = 8 * time.Second
)

var contractColumns = []string{
	"contract_id", "vendor_name", "contract_type", "duration_months",
	"compliance_score", "audit_status", "contract_date",
	"jurisdiction", "policy_name", "region",
}

// ContractRepo reads the contracts table. Every query goes through one
// retrying execution primitive, so the Locator and the Fetcher share the
// same connectivity policy.
type ContractRepo struct {
	db           *sqlx.DB
	queryTimeout time.Duration
	now          func() time.Time
}

func NewContractRepo(db *sqlx.DB, queryTimeout time.Duration) *ContractRepo {
	return &ContractRepo{
		db:           db,
		queryTimeout: queryTimeout,
		now:          time.Now,
	}
}

// ContractIDsByFilters translates a FilterSet into one conjunctive
// parameterized query and returns the matching ids. An empty FilterSet
// matches every contract.
func (r *ContractRepo) ContractIDsByFilters(ctx context.Context, filters model.FilterSet) ([]int64, error) {
	query, args := buildFilterQuery(filters, r.now())
	logutil.GetLogger(ctx).Debug("contract filter query", zap.String("query", query), zap.Int("args", len(args)))
	var ids []int64
	err := r.withRetry(ctx, "contract_ids", func(ctx context.Context) error {
		ids = ids[:0]
		return r.db.SelectContext(ctx, &ids, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("query contract ids: %w", err)
	}
	logutil.GetLogger(ctx).Info("contract candidates located", zap.Int("count", len(ids)))
	return ids, nil
}

// ContractsByIDs fetches full rows for the given ids, ordered by
// contract_id ascending. Empty input returns empty output without a
// round-trip.
func (r *ContractRepo) ContractsByIDs(ctx context.Context, ids []int64) ([]model.ContractRecord, error) {
	if len(ids) == 0 {
		return []model.ContractRecord{}, nil
	}
	where := map[string]interface{}{
		"contract_id in": ids,
		"_orderby":       "contract_id asc",
	}
	sqlStr, args, err := builder.BuildSelect("contracts", where, contractColumns)
	if err != nil {
		return nil, fmt.Errorf("build contract fetch: %w", err)
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	records := make([]model.ContractRecord, 0, len(ids))
	err = r.withRetry(ctx, "contracts_by_ids", func(ctx context.Context) error {
		records = records[:0]
		return r.db.SelectContext(ctx, &records, sqlStr, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch contracts: %w", err)
	}
	return records, nil
}

func (r *ContractRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// buildFilterQuery appends zero or one clause per recognized FilterSet key.
// Text predicates use case-insensitive contains matching, numeric ones use
// inclusive bounds. Values are always bound, never interpolated.
func buildFilterQuery(f model.FilterSet, now time.Time) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString("SELECT contract_id FROM contracts WHERE 1=1")
	args := make([]interface{}, 0, 8)
	add := func(clause string, vals ...interface{}) {
		sb.WriteString(" AND ")
		sb.WriteString(clause)
		args = append(args, vals...)
	}

	if f.VendorName != "" {
		add("vendor_name ILIKE ?", "%"+f.VendorName+"%")
	}
	if f.ContractType != "" {
		add("contract_type ILIKE ?", "%"+f.ContractType+"%")
	}
	if f.AuditStatus != "" {
		add("audit_status ILIKE ?", "%"+f.AuditStatus+"%")
	}
	if f.Region != "" {
		add("region ILIKE ?", "%"+f.Region+"%")
	}
	if f.Jurisdiction != "" {
		add("jurisdiction ILIKE ?", "%"+f.Jurisdiction+"%")
	}
	if f.PolicyName != "" {
		add("policy_name ILIKE ?", "%"+f.PolicyName+"%")
	}
	if f.ComplianceScoreMin != nil {
		add("compliance_score >= ?", *f.ComplianceScoreMin)
	}
	if f.ComplianceScoreMax != nil {
		add("compliance_score <= ?", *f.ComplianceScoreMax)
	}
	// A range with the wrong arity came from a malformed extraction and is
	// treated as absent, matching the extractor's degrade-not-fail policy.
	if len(f.ComplianceScoreBetween) == 2 {
		add("compliance_score BETWEEN ? AND ?", f.ComplianceScoreBetween[0], f.ComplianceScoreBetween[1])
	}
	if f.DurationMin != nil {
		add("duration_months >= ?", *f.DurationMin)
	}
	if f.DurationMax != nil {
		add("duration_months <= ?", *f.DurationMax)
	}
	if f.LastNMonths != nil {
		cutoff := now.AddDate(0, 0, -30*(*f.LastNMonths))
		add("contract_date >= ?", cutoff)
	}
	return dbutil.Finalize(sb.String(), args)
}

// withRetry runs fn up to maxQueryAttempts times with exponential backoff
// (base 1s, cap 8s). The policy is uniform for every relational read;
// context cancellation stops the loop early.
func (r *ContractRepo) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxQueryAttempts; attempt++ {
		if attempt > 1 {
			wait := backoffBase << (attempt - 2)
			if wait > backoffCap {
				wait = backoffCap
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		err := r.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		lastErr = err
		logutil.GetLogger(ctx).Warn("contract query failed",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Bool("transient", dbutil.IsTransient(err)),
			zap.Error(err),
		)
		if ctx.Err() != nil {
			return lastErr
		}
	}
	return lastErr
}

func (r *ContractRepo) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.queryTimeout)
		defer cancel()
	}
	return fn(ctx)
}
