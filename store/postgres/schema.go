// Package postgres is the durable store.Store adapter, backed by
// database/sql and the lib/pq driver, following the connection-pool
// sizing, schema-bootstrap, and upsert conventions of the teacher
// pack's PostgreSQL sink.
package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS processing_jobs (
	id                       TEXT PRIMARY KEY,
	filename                 TEXT NOT NULL,
	file_size                BIGINT NOT NULL,
	file_type                TEXT NOT NULL,
	report_format            TEXT NOT NULL DEFAULT '',
	client_id                TEXT NOT NULL DEFAULT '',
	status                   TEXT NOT NULL,
	total_records            BIGINT NOT NULL DEFAULT 0,
	processed_records        BIGINT NOT NULL DEFAULT 0,
	failed_records           BIGINT NOT NULL DEFAULT 0,
	processing_started_at    TIMESTAMPTZ,
	processing_completed_at  TIMESTAMPTZ,
	retry_count              INTEGER NOT NULL DEFAULT 0,
	max_retries              INTEGER NOT NULL DEFAULT 3,
	error_summary            JSONB,
	error_overflow_count     INTEGER NOT NULL DEFAULT 0,
	metadata                 JSONB,
	version                  INTEGER NOT NULL DEFAULT 0,
	created_at               TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at               TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS epin_file_headers (
	job_id              TEXT PRIMARY KEY REFERENCES processing_jobs(id) ON DELETE CASCADE,
	id                  TEXT NOT NULL,
	raw_line            TEXT NOT NULL,
	line_number         INTEGER NOT NULL,
	is_valid            BOOLEAN NOT NULL,
	validation_errors   JSONB,
	routing_number      TEXT,
	file_timestamp_raw  TEXT,
	file_timestamp      TIMESTAMPTZ,
	sequence_number     TEXT,
	client_id           TEXT,
	file_sequence       TEXT
);

CREATE TABLE IF NOT EXISTS vss110_records (
	id                        TEXT PRIMARY KEY,
	job_id                    TEXT NOT NULL REFERENCES processing_jobs(id) ON DELETE CASCADE,
	raw_line                  TEXT NOT NULL,
	line_number               INTEGER NOT NULL,
	is_valid                  BOOLEAN NOT NULL,
	validation_errors         JSONB,
	destination_id            TEXT,
	source_id                 TEXT,
	settlement_currency_code  TEXT,
	report_id_number          TEXT,
	settlement_date           TIMESTAMPTZ,
	report_date               TIMESTAMPTZ,
	from_date                 TIMESTAMPTZ,
	to_date                   TIMESTAMPTZ,
	amount_type               TEXT,
	business_mode             TEXT,
	transaction_count         BIGINT,
	credit_amount             NUMERIC(17,2),
	debit_amount              NUMERIC(17,2),
	net_amount                NUMERIC(17,2),
	amount_sign               TEXT,
	funds_transfer_date       TIMESTAMPTZ,
	payload                   JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS subgroup4_records (
	id                          TEXT PRIMARY KEY,
	job_id                      TEXT NOT NULL REFERENCES processing_jobs(id) ON DELETE CASCADE,
	raw_line                    TEXT NOT NULL,
	line_number                 INTEGER NOT NULL,
	is_valid                    BOOLEAN NOT NULL,
	validation_errors           JSONB,
	destination_id              TEXT,
	settlement_currency_code     TEXT,
	business_mode                TEXT,
	report_id_number             TEXT,
	settlement_date              TIMESTAMPTZ,
	charge_type_code             TEXT,
	business_transaction_type    TEXT,
	business_transaction_cycle   TEXT,
	jurisdiction_code            TEXT,
	source_country_code          TEXT,
	destination_country_code     TEXT,
	source_region_code           TEXT,
	destination_region_code      TEXT,
	fee_level_descriptor         TEXT,
	summary_level                TEXT,
	payload                      JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS tcr1_records (
	id                    TEXT PRIMARY KEY,
	job_id                TEXT NOT NULL REFERENCES processing_jobs(id) ON DELETE CASCADE,
	raw_line              TEXT NOT NULL,
	line_number           INTEGER NOT NULL,
	is_valid              BOOLEAN NOT NULL,
	validation_errors     JSONB,
	rate_table_id         TEXT,
	first_count           BIGINT,
	second_count          BIGINT,
	first_amount          NUMERIC(17,2),
	first_sign            TEXT,
	second_amount         NUMERIC(17,2),
	second_sign           TEXT,
	third_amount          NUMERIC(17,2),
	third_sign            TEXT,
	fourth_amount         NUMERIC(17,2),
	fourth_sign           TEXT,
	fifth_amount          NUMERIC(17,2),
	fifth_sign            TEXT,
	sixth_amount          NUMERIC(17,2),
	sixth_sign            TEXT,
	destination_id        TEXT,
	parent_tcr0_id        TEXT,
	parent_report_number  TEXT,
	payload               JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_vss110_job ON vss110_records(job_id);
CREATE INDEX IF NOT EXISTS idx_vss110_settlement_date ON vss110_records(settlement_date);
CREATE INDEX IF NOT EXISTS idx_vss110_destination ON vss110_records(destination_id);
CREATE INDEX IF NOT EXISTS idx_vss110_report_id ON vss110_records(report_id_number);
CREATE INDEX IF NOT EXISTS idx_vss110_business_mode ON vss110_records(business_mode);
CREATE INDEX IF NOT EXISTS idx_vss110_settlement_dest ON vss110_records(settlement_date, destination_id);

CREATE INDEX IF NOT EXISTS idx_subgroup4_job ON subgroup4_records(job_id);
CREATE INDEX IF NOT EXISTS idx_subgroup4_settlement_date ON subgroup4_records(settlement_date);
CREATE INDEX IF NOT EXISTS idx_subgroup4_destination ON subgroup4_records(destination_id);
CREATE INDEX IF NOT EXISTS idx_subgroup4_report_id ON subgroup4_records(report_id_number);
CREATE INDEX IF NOT EXISTS idx_subgroup4_business_mode ON subgroup4_records(business_mode);
CREATE INDEX IF NOT EXISTS idx_subgroup4_settlement_dest ON subgroup4_records(settlement_date, destination_id);
CREATE INDEX IF NOT EXISTS idx_subgroup4_line ON subgroup4_records(job_id, report_id_number, line_number DESC);

CREATE INDEX IF NOT EXISTS idx_tcr1_job ON tcr1_records(job_id);
CREATE INDEX IF NOT EXISTS idx_tcr1_parent ON tcr1_records(parent_tcr0_id);
`

// initSchema bootstraps the relational schema with CREATE TABLE IF NOT
// EXISTS statements, matching the teacher pack's idempotent-migration
// style (no separate migration framework, per spec.md's "database
// schema management" non-goal).
func initSchema(db *sql.DB) error {
	if _, err := db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
