package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates all tables if they do not exist. Deleting a directory
// removes its subtree and contained documents through the ON DELETE CASCADE
// rules here; the application counts affected rows before deleting but never
// re-implements the traversal for the delete itself.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				code TEXT UNIQUE NOT NULL,
				status TEXT NOT NULL DEFAULT 'active',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Organizations),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				code TEXT NOT NULL,
				org_id BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				parent_id BIGINT REFERENCES %s(id) ON DELETE SET NULL,
				UNIQUE (org_id, code)
			)`, tables.Departments, tables.Organizations, tables.Departments),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT UNIQUE NOT NULL,
				hashed_password TEXT NOT NULL,
				role TEXT NOT NULL DEFAULT 'user',
				organization_id BIGINT REFERENCES %s(id) ON DELETE SET NULL,
				department_id BIGINT REFERENCES %s(id) ON DELETE SET NULL
			)`, tables.Users, tables.Organizations, tables.Departments),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				is_directory BOOLEAN NOT NULL DEFAULT TRUE,
				parent_id BIGINT REFERENCES %s(id) ON DELETE CASCADE,
				level INTEGER NOT NULL DEFAULT 0,
				path TEXT NOT NULL DEFAULT '/',
				status TEXT NOT NULL DEFAULT 'active',
				archived_at TIMESTAMPTZ,
				trashed_at TIMESTAMPTZ,
				organization_id BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				department_id BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Directories, tables.Directories, tables.Organizations, tables.Departments),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_parent_idx ON %s (parent_id)`,
			tables.Directories, tables.Directories),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_status_idx ON %s (status)`,
			tables.Directories, tables.Directories),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				title TEXT,
				mimetype TEXT NOT NULL,
				size BIGINT NOT NULL,
				data BYTEA NOT NULL,
				file_type TEXT NOT NULL DEFAULT 'Document',
				file_owner TEXT,
				expire_date TIMESTAMPTZ,
				total_pages INTEGER NOT NULL DEFAULT 0,
				directory_id BIGINT REFERENCES %s(id) ON DELETE CASCADE,
				status TEXT NOT NULL DEFAULT 'active',
				archived_at TIMESTAMPTZ,
				trashed_at TIMESTAMPTZ,
				organization_id BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				department_id BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				created_by BIGINT REFERENCES %s(id) ON DELETE SET NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Documents, tables.Directories, tables.Organizations, tables.Departments, tables.Users),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_directory_idx ON %s (directory_id)`,
			tables.Documents, tables.Documents),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_status_idx ON %s (status)`,
			tables.Documents, tables.Documents),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_expire_idx ON %s (expire_date)`,
			tables.Documents, tables.Documents),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				method TEXT NOT NULL,
				path TEXT NOT NULL,
				status_code INTEGER NOT NULL,
				duration_ms DOUBLE PRECISION NOT NULL,
				client_ip TEXT,
				user_id BIGINT REFERENCES %s(id) ON DELETE SET NULL
			)`, tables.ActivityLogs, tables.Users),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
