package sqlcache

import (
	"database/sql"
	"embed"

	localCommon "github.com/0xPolygon/zksync-test-node/common"
	"github.com/0xPolygon/zksync-test-node/log"
	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*
var dbMigrations embed.FS

// RunMigrations applies database migrations in the specified direction (up or down).
func RunMigrations(driverName string, db *sql.DB, direction migrate.MigrationDirection) error {
	migrations := migrate.EmbedFileSystemMigrationSource{
		FileSystem: dbMigrations,
		Root:       "migrations",
	}

	migrationsCount, err := migrate.Exec(db, dialect(driverName), migrations, direction)
	if err != nil {
		return err
	}

	log.Infof("Successfully ran %d fork cache migrations in direction: %v", migrationsCount, direction)
	return nil
}

// dialect maps a database/sql driver name onto the sql-migrate dialect name
func dialect(driverName string) string {
	if driverName == localCommon.PostgresDriverName {
		return "postgres"
	}
	return driverName
}
