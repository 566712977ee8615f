package postgres

import (
	"database/sql"

	"github.com/L3pereira/ndgms/internal/earthquake/repository"
	pkgLog "github.com/L3pereira/ndgms/pkg/log"
)

type implRepository struct {
	l  pkgLog.Logger
	db *sql.DB
}

var _ repository.Repository = &implRepository{}

// New creates a Postgres-backed earthquake repository.
func New(l pkgLog.Logger, db *sql.DB) *implRepository {
	return &implRepository{
		l:  l,
		db: db,
	}
}
