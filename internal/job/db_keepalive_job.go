package job

import (
	"context"
	"time"

	"github.com/xxxsen/compcheck/internal/repo"
)

const keepalivePingTimeout = 5 * time.Second

// DBKeepaliveJob pings the database on a schedule so serverless Postgres
// deployments do not scale the instance to zero between queries.
type DBKeepaliveJob struct {
	contracts *repo.ContractRepo
}

func NewDBKeepaliveJob(contracts *repo.ContractRepo) *DBKeepaliveJob {
	return &DBKeepaliveJob{contracts: contracts}
}

func (j *DBKeepaliveJob) Name() string {
	return "db_keepalive"
}

func (j *DBKeepaliveJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, keepalivePingTimeout)
	defer cancel()
	return j.contracts.Ping(ctx)
}
