package server

// migrate runs database migrations
func (b *PostgresBackend) migrate() error {
	migrations := []string{
		migrationKVSequence,
		migrationKV,
	}

	for _, m := range migrations {
		if _, err := b.db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}

const migrationKVSequence = `
CREATE SEQUENCE IF NOT EXISTS kv_version_seq;
`

const migrationKV = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL DEFAULT '',
    version BIGINT NOT NULL DEFAULT nextval('kv_version_seq'),
    deleted_at TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_kv_version ON kv(version);
`
