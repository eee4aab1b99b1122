// Package repomanager vends account repositories for identityd and owns the
// schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/skillsync/internal/dbx"
	"github.com/dmitrijs2005/skillsync/internal/server/repositories/accounts"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
}
