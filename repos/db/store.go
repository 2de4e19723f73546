package db

import (
	"github.com/rolegraph/rolegraph/internal/sqlx"
	"github.com/rolegraph/rolegraph/repos"
)

// MySQLErrorCodeDuplicateKey is returned when an insert violates a
// unique index.
const MySQLErrorCodeDuplicateKey = 1062

type Store struct {
	conn *sqlx.DB
}

func NewStore(conn *sqlx.DB) *Store {
	return &Store{
		conn: conn,
	}
}

var _ repos.Store = (*Store)(nil)
