package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eviepay/vss-settlement/record"
	"github.com/eviepay/vss-settlement/store"
	"github.com/eviepay/vss-settlement/verr"
)

// Config tunes the connection pool, mirroring the teacher pack's
// PostgreSQL sink defaults.
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ApplyDefaults fills in the pool-sizing defaults the teacher pack uses.
func (c *Config) ApplyDefaults() {
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = 10
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 5
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = 5 * time.Minute
	}
}

// Store is the database/sql + lib/pq backed store.Store implementation.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// New opens a PostgreSQL connection pool, verifies it, and bootstraps
// the schema.
func New(cfg Config) (*Store, error) {
	cfg.ApplyDefaults()

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &verr.StoreError{Op: "HealthCheck", Err: err, Transient: true}
	}
	return nil
}

// --- Jobs ---

func (s *Store) InsertJob(ctx context.Context, job *record.ProcessingJob) error {
	errJSON, _ := json.Marshal(job.ErrorSummary)
	metaJSON, _ := json.Marshal(job.Metadata)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO processing_jobs (
			id, filename, file_size, file_type, report_format, client_id, status,
			total_records, processed_records, failed_records,
			processing_started_at, processing_completed_at,
			retry_count, max_retries, error_summary, error_overflow_count,
			metadata, version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
	`,
		job.ID, job.Filename, job.FileSize, job.FileType, string(job.ReportFormat), job.ClientID, string(job.Status),
		job.TotalRecords, job.ProcessedRecords, job.FailedRecords,
		nullTime(job.ProcessingStartedAt), nullTime(job.ProcessingCompletedAt),
		job.RetryCount, job.MaxRetries, errJSON, job.ErrorOverflowCount,
		metaJSON, job.Version, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return &verr.StoreError{Op: "InsertJob", Err: err, Transient: isTransient(err)}
	}
	return nil
}

func (s *Store) SaveJob(ctx context.Context, job *record.ProcessingJob) error {
	errJSON, _ := json.Marshal(job.ErrorSummary)
	metaJSON, _ := json.Marshal(job.Metadata)
	res, err := s.db.ExecContext(ctx, `
		UPDATE processing_jobs SET
			filename=$2, file_size=$3, file_type=$4, report_format=$5, client_id=$6, status=$7,
			total_records=$8, processed_records=$9, failed_records=$10,
			processing_started_at=$11, processing_completed_at=$12,
			retry_count=$13, max_retries=$14, error_summary=$15, error_overflow_count=$16,
			metadata=$17, version=version+1, updated_at=now()
		WHERE id=$1 AND version=$18
	`,
		job.ID, job.Filename, job.FileSize, job.FileType, string(job.ReportFormat), job.ClientID, string(job.Status),
		job.TotalRecords, job.ProcessedRecords, job.FailedRecords,
		nullTime(job.ProcessingStartedAt), nullTime(job.ProcessingCompletedAt),
		job.RetryCount, job.MaxRetries, errJSON, job.ErrorOverflowCount,
		metaJSON, job.Version,
	)
	if err != nil {
		return &verr.StoreError{Op: "SaveJob", Err: err, Transient: isTransient(err)}
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return &verr.StoreError{Op: "SaveJob", Err: verr.ErrStaleVersion}
	}
	job.Version++
	return nil
}

func (s *Store) FindJobByID(ctx context.Context, id string) (*record.ProcessingJob, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, filename, file_size, file_type, report_format, client_id, status,
			total_records, processed_records, failed_records,
			processing_started_at, processing_completed_at,
			retry_count, max_retries, error_summary, error_overflow_count,
			metadata, version, created_at, updated_at
		FROM processing_jobs WHERE id=$1
	`, id)
	job, err := scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &verr.StoreError{Op: "FindJobByID", Err: fmt.Errorf("job %s not found", id)}
		}
		return nil, &verr.StoreError{Op: "FindJobByID", Err: err, Transient: isTransient(err)}
	}
	return job, nil
}

func (s *Store) FindJobsByClient(ctx context.Context, clientID string) ([]*record.ProcessingJob, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, file_size, file_type, report_format, client_id, status,
			total_records, processed_records, failed_records,
			processing_started_at, processing_completed_at,
			retry_count, max_retries, error_summary, error_overflow_count,
			metadata, version, created_at, updated_at
		FROM processing_jobs WHERE client_id=$1 ORDER BY created_at DESC
	`, clientID)
	if err != nil {
		return nil, &verr.StoreError{Op: "FindJobsByClient", Err: err, Transient: isTransient(err)}
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (s *Store) ListRecentJobs(ctx context.Context, limit int) ([]*record.ProcessingJob, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, file_size, file_type, report_format, client_id, status,
			total_records, processed_records, failed_records,
			processing_started_at, processing_completed_at,
			retry_count, max_retries, error_summary, error_overflow_count,
			metadata, version, created_at, updated_at
		FROM processing_jobs ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, &verr.StoreError{Op: "ListRecentJobs", Err: err, Transient: isTransient(err)}
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (s *Store) CountJobsByStatus(ctx context.Context) (map[record.Status]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, count(*) FROM processing_jobs GROUP BY status`)
	if err != nil {
		return nil, &verr.StoreError{Op: "CountJobsByStatus", Err: err, Transient: isTransient(err)}
	}
	defer rows.Close()
	out := make(map[record.Status]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, &verr.StoreError{Op: "CountJobsByStatus", Err: err}
		}
		out[record.Status(status)] = n
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*record.ProcessingJob, error) {
	var job record.ProcessingJob
	var reportFormat, status string
	var errJSON, metaJSON []byte
	var startedAt, completedAt sql.NullTime

	err := row.Scan(
		&job.ID, &job.Filename, &job.FileSize, &job.FileType, &reportFormat, &job.ClientID, &status,
		&job.TotalRecords, &job.ProcessedRecords, &job.FailedRecords,
		&startedAt, &completedAt,
		&job.RetryCount, &job.MaxRetries, &errJSON, &job.ErrorOverflowCount,
		&metaJSON, &job.Version, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	job.ReportFormat = record.ReportFormat(reportFormat)
	job.Status = record.Status(status)
	if startedAt.Valid {
		job.ProcessingStartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		job.ProcessingCompletedAt = &completedAt.Time
	}
	_ = json.Unmarshal(errJSON, &job.ErrorSummary)
	_ = json.Unmarshal(metaJSON, &job.Metadata)
	return &job, nil
}

func scanJobs(rows *sql.Rows) ([]*record.ProcessingJob, error) {
	var out []*record.ProcessingJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, &verr.StoreError{Op: "scanJobs", Err: err}
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

// --- Header ---

func (s *Store) InsertHeader(ctx context.Context, hdr *record.EpinFileHeader) error {
	errJSON, _ := json.Marshal(hdr.ValidationErrors)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO epin_file_headers (job_id, id, raw_line, line_number, is_valid, validation_errors,
			routing_number, file_timestamp_raw, file_timestamp, sequence_number, client_id, file_sequence)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (job_id) DO UPDATE SET
			raw_line=EXCLUDED.raw_line, is_valid=EXCLUDED.is_valid, validation_errors=EXCLUDED.validation_errors
	`, hdr.JobID, hdr.ID, hdr.RawLine, hdr.LineNumber, hdr.IsValid, errJSON,
		hdr.RoutingNumber, hdr.FileTimestampRaw, nullTimeValue(hdr.FileTimestamp), hdr.SequenceNumber, hdr.ClientID, hdr.FileSequence)
	if err != nil {
		return &verr.StoreError{Op: "InsertHeader", Err: err, Transient: isTransient(err)}
	}
	return nil
}

func (s *Store) FindHeaderByJob(ctx context.Context, jobID string) (*record.EpinFileHeader, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT job_id, id, raw_line, line_number, is_valid, validation_errors,
			routing_number, file_timestamp_raw, file_timestamp, sequence_number, client_id, file_sequence
		FROM epin_file_headers WHERE job_id=$1
	`, jobID)
	var hdr record.EpinFileHeader
	var errJSON []byte
	var ts sql.NullTime
	err := row.Scan(&hdr.JobID, &hdr.ID, &hdr.RawLine, &hdr.LineNumber, &hdr.IsValid, &errJSON,
		&hdr.RoutingNumber, &hdr.FileTimestampRaw, &ts, &hdr.SequenceNumber, &hdr.ClientID, &hdr.FileSequence)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &verr.StoreError{Op: "FindHeaderByJob", Err: fmt.Errorf("header for job %s not found", jobID)}
		}
		return nil, &verr.StoreError{Op: "FindHeaderByJob", Err: err, Transient: isTransient(err)}
	}
	if ts.Valid {
		hdr.FileTimestamp = ts.Time
	}
	_ = json.Unmarshal(errJSON, &hdr.ValidationErrors)
	return &hdr, nil
}

func (s *Store) DeleteHeaderByJob(ctx context.Context, jobID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM epin_file_headers WHERE job_id=$1`, jobID)
	if err != nil {
		return &verr.StoreError{Op: "DeleteHeaderByJob", Err: err, Transient: isTransient(err)}
	}
	return nil
}

// --- VSS-110 ---

func (s *Store) InsertVss110(ctx context.Context, rec *record.Vss110Record) error {
	errJSON, _ := json.Marshal(rec.ValidationErrors)
	payload, err := json.Marshal(rec)
	if err != nil {
		return &verr.StoreError{Op: "InsertVss110", Err: err}
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO vss110_records (
			id, job_id, raw_line, line_number, is_valid, validation_errors,
			destination_id, source_id, settlement_currency_code, report_id_number,
			settlement_date, report_date, from_date, to_date,
			amount_type, business_mode, transaction_count,
			credit_amount, debit_amount, net_amount, amount_sign, funds_transfer_date, payload
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
	`,
		rec.ID, rec.JobID, rec.RawLine, rec.LineNumber, rec.IsValid, errJSON,
		rec.DestinationID, rec.SourceID, rec.SettlementCurrencyCode, rec.ReportIDNumber,
		nullTimeValue(rec.SettlementDate), nullTimeValue(rec.ReportDate), nullTimeValue(rec.FromDate), nullTimeValue(rec.ToDate),
		string(rec.AmountType), string(rec.BusinessMode), rec.TransactionCount,
		decStr(rec.CreditAmount), decStr(rec.DebitAmount), decStr(rec.NetAmount), string(rec.AmountSign), nullTimeValue(rec.FundsTransferDate),
		payload,
	)
	if err != nil {
		return &verr.StoreError{Op: "InsertVss110", Err: err, Transient: isTransient(err)}
	}
	return nil
}

func (s *Store) FindVss110ByJob(ctx context.Context, jobID string) ([]*record.Vss110Record, error) {
	rows, err := s.db.QueryContext(ctx, vss110SelectCols+` WHERE job_id=$1 ORDER BY line_number`, jobID)
	if err != nil {
		return nil, &verr.StoreError{Op: "FindVss110ByJob", Err: err, Transient: isTransient(err)}
	}
	defer rows.Close()
	return scanVss110Rows(rows)
}

func (s *Store) FindVss110ByFilter(ctx context.Context, f store.Filter) ([]*record.Vss110Record, error) {
	where, args := buildFilterClause(f, "destination_id", "settlement_currency_code", "business_mode", "settlement_date")
	rows, err := s.db.QueryContext(ctx, vss110SelectCols+" "+where, args...)
	if err != nil {
		return nil, &verr.StoreError{Op: "FindVss110ByFilter", Err: err, Transient: isTransient(err)}
	}
	defer rows.Close()
	return scanVss110Rows(rows)
}

func (s *Store) DeleteVss110ByJob(ctx context.Context, jobID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM vss110_records WHERE job_id=$1`, jobID)
	if err != nil {
		return &verr.StoreError{Op: "DeleteVss110ByJob", Err: err, Transient: isTransient(err)}
	}
	return nil
}

const vss110SelectCols = `SELECT payload FROM vss110_records`

func scanVss110Rows(rows *sql.Rows) ([]*record.Vss110Record, error) {
	var out []*record.Vss110Record
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, &verr.StoreError{Op: "scanVss110Rows", Err: err}
		}
		var r record.Vss110Record
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, &verr.StoreError{Op: "scanVss110Rows", Err: err}
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

// --- SubGroup-4 TCR0 (120/130/140 family) ---

func (s *Store) InsertSubgroup4(ctx context.Context, rec *record.Vss120LikeRecord) error {
	errJSON, _ := json.Marshal(rec.ValidationErrors)
	payload, err := json.Marshal(rec)
	if err != nil {
		return &verr.StoreError{Op: "InsertSubgroup4", Err: err}
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO subgroup4_records (
			id, job_id, raw_line, line_number, is_valid, validation_errors,
			destination_id, settlement_currency_code, business_mode, report_id_number, settlement_date,
			charge_type_code, business_transaction_type, business_transaction_cycle, jurisdiction_code,
			source_country_code, destination_country_code, source_region_code, destination_region_code,
			fee_level_descriptor, summary_level, payload
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
	`,
		rec.ID, rec.JobID, rec.RawLine, rec.LineNumber, rec.IsValid, errJSON,
		rec.DestinationID, rec.SettlementCurrencyCode, string(rec.BusinessMode), rec.ReportIDNumber, nullTimeValue(rec.SettlementDate),
		rec.ChargeTypeCode, rec.BusinessTransactionType, rec.BusinessTransactionCycle, rec.JurisdictionCode,
		rec.SourceCountryCode, rec.DestinationCountryCode, rec.SourceRegionCode, rec.DestinationRegionCode,
		rec.FeeLevelDescriptor, rec.SummaryLevel, payload,
	)
	if err != nil {
		return &verr.StoreError{Op: "InsertSubgroup4", Err: err, Transient: isTransient(err)}
	}
	return nil
}

func (s *Store) FindSubgroup4ByID(ctx context.Context, id string) (*record.Vss120LikeRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM subgroup4_records WHERE id=$1`, id)
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, &verr.StoreError{Op: "FindSubgroup4ByID", Err: fmt.Errorf("subgroup4 %s not found", id)}
		}
		return nil, &verr.StoreError{Op: "FindSubgroup4ByID", Err: err, Transient: isTransient(err)}
	}
	var rec record.Vss120LikeRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, &verr.StoreError{Op: "FindSubgroup4ByID", Err: err}
	}
	return &rec, nil
}

func (s *Store) FindSubgroup4ByJob(ctx context.Context, jobID string) ([]*record.Vss120LikeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM subgroup4_records WHERE job_id=$1 ORDER BY line_number`, jobID)
	if err != nil {
		return nil, &verr.StoreError{Op: "FindSubgroup4ByJob", Err: err, Transient: isTransient(err)}
	}
	defer rows.Close()
	return scanSubgroup4Rows(rows)
}

func (s *Store) FindTopSubgroup4ByJob(ctx context.Context, jobID string, reportIDNumbers []string) (*record.Vss120LikeRecord, error) {
	for _, reportID := range reportIDNumbers {
		row := s.db.QueryRowContext(ctx, `
			SELECT payload FROM subgroup4_records
			WHERE job_id=$1 AND report_id_number=$2
			ORDER BY line_number DESC LIMIT 1
		`, jobID, reportID)
		var payload []byte
		err := row.Scan(&payload)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, &verr.StoreError{Op: "FindTopSubgroup4ByJob", Err: err, Transient: isTransient(err)}
		}
		var rec record.Vss120LikeRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, &verr.StoreError{Op: "FindTopSubgroup4ByJob", Err: err}
		}
		return &rec, nil
	}
	return nil, nil
}

func (s *Store) DeleteSubgroup4ByJob(ctx context.Context, jobID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM subgroup4_records WHERE job_id=$1`, jobID)
	if err != nil {
		return &verr.StoreError{Op: "DeleteSubgroup4ByJob", Err: err, Transient: isTransient(err)}
	}
	return nil
}

func scanSubgroup4Rows(rows *sql.Rows) ([]*record.Vss120LikeRecord, error) {
	var out []*record.Vss120LikeRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, &verr.StoreError{Op: "scanSubgroup4Rows", Err: err}
		}
		var rec record.Vss120LikeRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, &verr.StoreError{Op: "scanSubgroup4Rows", Err: err}
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// --- TCR1 ---

func (s *Store) InsertTCR1(ctx context.Context, rec *record.Vss120Tcr1Record) error {
	errJSON, _ := json.Marshal(rec.ValidationErrors)
	payload, err := json.Marshal(rec)
	if err != nil {
		return &verr.StoreError{Op: "InsertTCR1", Err: err}
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tcr1_records (
			id, job_id, raw_line, line_number, is_valid, validation_errors,
			rate_table_id, first_count, second_count,
			first_amount, first_sign, second_amount, second_sign,
			third_amount, third_sign, fourth_amount, fourth_sign,
			fifth_amount, fifth_sign, sixth_amount, sixth_sign,
			destination_id, parent_tcr0_id, parent_report_number, payload
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)
	`,
		rec.ID, rec.JobID, rec.RawLine, rec.LineNumber, rec.IsValid, errJSON,
		rec.RateTableID, rec.FirstCount, rec.SecondCount,
		decStr(rec.FirstAmount), string(rec.FirstSign), decStr(rec.SecondAmount), string(rec.SecondSign),
		decStr(rec.ThirdAmount), string(rec.ThirdSign), decStr(rec.FourthAmount), string(rec.FourthSign),
		decStr(rec.FifthAmount), string(rec.FifthSign), decStr(rec.SixthAmount), string(rec.SixthSign),
		rec.DestinationID, rec.ParentTCR0ID, rec.ParentReportNumber, payload,
	)
	if err != nil {
		return &verr.StoreError{Op: "InsertTCR1", Err: err, Transient: isTransient(err)}
	}
	return nil
}

func (s *Store) FindTCR1ByJob(ctx context.Context, jobID string) ([]*record.Vss120Tcr1Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM tcr1_records WHERE job_id=$1 ORDER BY line_number`, jobID)
	if err != nil {
		return nil, &verr.StoreError{Op: "FindTCR1ByJob", Err: err, Transient: isTransient(err)}
	}
	defer rows.Close()
	var out []*record.Vss120Tcr1Record
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, &verr.StoreError{Op: "FindTCR1ByJob", Err: err}
		}
		var rec record.Vss120Tcr1Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, &verr.StoreError{Op: "FindTCR1ByJob", Err: err}
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func (s *Store) DeleteTCR1ByJob(ctx context.Context, jobID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tcr1_records WHERE job_id=$1`, jobID)
	if err != nil {
		return &verr.StoreError{Op: "DeleteTCR1ByJob", Err: err, Transient: isTransient(err)}
	}
	return nil
}

// JoinSubgroup4WithTCR1 pulls matching TCR0 rows ordered by
// (business_mode, business_transaction_type, business_transaction_cycle),
// then left-joins each one's TCR1 child by parent_tcr0_id, matching the
// teacher pack's query-then-pair style rather than a single SQL JOIN --
// the tcr1 parent reference is a lookup key, not a foreign key the
// database enforces.
func (s *Store) JoinSubgroup4WithTCR1(ctx context.Context, reportIDNumbers []string, f store.Filter) ([]store.Subgroup4Pair, error) {
	if len(reportIDNumbers) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(reportIDNumbers))
	args := make([]interface{}, 0, len(reportIDNumbers)+5)
	for i, id := range reportIDNumbers {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args = append(args, id)
	}
	n := len(reportIDNumbers)
	where := fmt.Sprintf("report_id_number IN (%s)", joinStrings(placeholders, ","))
	next := func() string { n++; return fmt.Sprintf("$%d", n) }
	if f.DestinationIDPrefix != "" {
		where += " AND destination_id LIKE " + next()
		args = append(args, f.DestinationIDPrefix+"%")
	}
	if f.CurrencyCode != "" {
		where += " AND settlement_currency_code = " + next()
		args = append(args, f.CurrencyCode)
	}
	if f.BusinessMode != "" {
		where += " AND business_mode = " + next()
		args = append(args, f.BusinessMode)
	}
	if f.StartDate != nil {
		where += " AND settlement_date >= " + next()
		args = append(args, *f.StartDate)
	}
	if f.EndDate != nil {
		where += " AND settlement_date <= " + next()
		args = append(args, *f.EndDate)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM subgroup4_records WHERE `+where+`
		ORDER BY business_mode, business_transaction_type, business_transaction_cycle
	`, args...)
	if err != nil {
		return nil, &verr.StoreError{Op: "JoinSubgroup4WithTCR1", Err: err, Transient: isTransient(err)}
	}
	parents, err := scanSubgroup4Rows(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	pairs := make([]store.Subgroup4Pair, 0, len(parents))
	for _, parent := range parents {
		childRow := s.db.QueryRowContext(ctx, `
			SELECT payload FROM tcr1_records WHERE parent_tcr0_id=$1 ORDER BY line_number LIMIT 1
		`, parent.ID)
		var payload []byte
		err := childRow.Scan(&payload)
		if err == sql.ErrNoRows {
			pairs = append(pairs, store.Subgroup4Pair{TCR0: parent})
			continue
		}
		if err != nil {
			return nil, &verr.StoreError{Op: "JoinSubgroup4WithTCR1", Err: err, Transient: isTransient(err)}
		}
		var child record.Vss120Tcr1Record
		if err := json.Unmarshal(payload, &child); err != nil {
			return nil, &verr.StoreError{Op: "JoinSubgroup4WithTCR1", Err: err}
		}
		pairs = append(pairs, store.Subgroup4Pair{TCR0: parent, TCR1: &child})
	}
	return pairs, nil
}

func joinStrings(parts []string, sep string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += sep + p
	}
	return out
}

// --- small scanning/encoding helpers ---

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func nullTimeValue(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func decStr(d decimal.Decimal) string { return d.StringFixed(2) }

func decParse(ns sql.NullString) decimal.Decimal {
	if !ns.Valid || ns.String == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// buildFilterClause turns a store.Filter into a parameterized WHERE
// clause against the given column names, in the order
// (destinationIDCol, currencyCol, businessModeCol, settlementDateCol).
func buildFilterClause(f store.Filter, destCol, currencyCol, modeCol, dateCol string) (string, []interface{}) {
	var clauses []string
	var args []interface{}
	n := 0
	next := func() string { n++; return fmt.Sprintf("$%d", n) }

	if f.DestinationIDPrefix != "" {
		clauses = append(clauses, destCol+" LIKE "+next())
		args = append(args, f.DestinationIDPrefix+"%")
	}
	if f.CurrencyCode != "" {
		clauses = append(clauses, currencyCol+" = "+next())
		args = append(args, f.CurrencyCode)
	}
	if f.BusinessMode != "" {
		clauses = append(clauses, modeCol+" = "+next())
		args = append(args, f.BusinessMode)
	}
	if f.StartDate != nil {
		clauses = append(clauses, dateCol+" >= "+next())
		args = append(args, *f.StartDate)
	}
	if f.EndDate != nil {
		clauses = append(clauses, dateCol+" <= "+next())
		args = append(args, *f.EndDate)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	where := "WHERE " + clauses[0]
	for _, c := range clauses[1:] {
		where += " AND " + c
	}
	return where, args
}

// isTransient classifies a lib/pq/database-sql error as retryable.
// Connection-level failures (closed connections, driver bad conn,
// deadline/context errors) are transient; constraint violations and
// syntax errors are not.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	switch err {
	case sql.ErrConnDone, sql.ErrTxDone, driver.ErrBadConn, context.DeadlineExceeded, context.Canceled:
		return true
	}
	return false
}
