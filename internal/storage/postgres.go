package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"

	"cardioguard/internal/models"

	"github.com/lib/pq"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config DatabaseConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %v", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %v", err)
	}

	storage := &PostgresStorage{db: db}

	if err := storage.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %v", err)
	}

	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %v", err)
	}

	_, err = s.db.Exec(string(migrationSQL))
	if err != nil {
		return fmt.Errorf("error executing migrations: %v", err)
	}

	return nil
}

const patientColumns = `id, name, age, diagnosis, discharge_date, risk_score, risk_level,
		risk_factors, phone, email, blood_pressure, heart_rate, weight, last_check_in,
		recovery_streak, daily_check_in_status, alert_level, reported_symptoms, onboarded,
		next_appointment`

func scanPatient(row interface{ Scan(...any) error }) (*models.Patient, error) {
	p := &models.Patient{}
	var (
		dischargeDate sql.NullTime
		bloodPressure sql.NullString
		heartRate     sql.NullInt64
		weight        sql.NullInt64
		lastCheckIn   sql.NullTime
		nextAppt      sql.NullTime
	)

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Age,
		&p.Diagnosis,
		&dischargeDate,
		&p.RiskScore,
		&p.RiskLevel,
		pq.Array(&p.RiskFactors),
		&p.Contact.Phone,
		&p.Contact.Email,
		&bloodPressure,
		&heartRate,
		&weight,
		&lastCheckIn,
		&p.RecoveryStreak,
		&p.DailyCheckInStatus,
		&p.AlertLevel,
		pq.Array(&p.PatientReportedSymptoms),
		&p.Onboarded,
		&nextAppt,
	)
	if err != nil {
		return nil, err
	}

	if dischargeDate.Valid {
		p.DischargeDate = dischargeDate.Time
	}
	if bloodPressure.Valid {
		p.Vitals = &models.VitalSigns{
			BloodPressure: bloodPressure.String,
			HeartRate:     int(heartRate.Int64),
			Weight:        int(weight.Int64),
		}
	}
	if lastCheckIn.Valid {
		t := lastCheckIn.Time
		p.LastCheckIn = &t
	}
	if nextAppt.Valid {
		t := nextAppt.Time
		p.NextAppointment = &t
	}

	return p, nil
}

func (s *PostgresStorage) GetPatient(ctx context.Context, id string) (*models.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`

	patient, err := scanPatient(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying patient: %v", err)
	}

	return patient, nil
}

func (s *PostgresStorage) ListPatients(ctx context.Context) ([]*models.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying patients: %v", err)
	}
	defer rows.Close()

	var patients []*models.Patient
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning patient: %v", err)
		}
		patients = append(patients, patient)
	}

	return patients, rows.Err()
}

func (s *PostgresStorage) SavePatient(ctx context.Context, p *models.Patient) error {
	query := `
		INSERT INTO patients (` + patientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			age = EXCLUDED.age,
			diagnosis = EXCLUDED.diagnosis,
			discharge_date = EXCLUDED.discharge_date,
			risk_score = EXCLUDED.risk_score,
			risk_level = EXCLUDED.risk_level,
			risk_factors = EXCLUDED.risk_factors,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			blood_pressure = EXCLUDED.blood_pressure,
			heart_rate = EXCLUDED.heart_rate,
			weight = EXCLUDED.weight,
			last_check_in = EXCLUDED.last_check_in,
			recovery_streak = EXCLUDED.recovery_streak,
			daily_check_in_status = EXCLUDED.daily_check_in_status,
			alert_level = EXCLUDED.alert_level,
			reported_symptoms = EXCLUDED.reported_symptoms,
			onboarded = EXCLUDED.onboarded,
			next_appointment = EXCLUDED.next_appointment`

	var (
		bloodPressure sql.NullString
		heartRate     sql.NullInt64
		weight        sql.NullInt64
	)
	if p.Vitals != nil {
		bloodPressure = sql.NullString{String: p.Vitals.BloodPressure, Valid: true}
		heartRate = sql.NullInt64{Int64: int64(p.Vitals.HeartRate), Valid: true}
		weight = sql.NullInt64{Int64: int64(p.Vitals.Weight), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Age, p.Diagnosis, p.DischargeDate, p.RiskScore, p.RiskLevel,
		pq.Array(p.RiskFactors), p.Contact.Phone, p.Contact.Email,
		bloodPressure, heartRate, weight, p.LastCheckIn,
		p.RecoveryStreak, p.DailyCheckInStatus, p.AlertLevel,
		pq.Array(p.PatientReportedSymptoms), p.Onboarded, p.NextAppointment)
	if err != nil {
		return fmt.Errorf("error saving patient: %v", err)
	}

	return nil
}

func (s *PostgresStorage) AddCheckIn(ctx context.Context, record *models.CheckInRecord) error {
	responses, err := json.Marshal(record.Responses)
	if err != nil {
		return fmt.Errorf("error encoding responses: %v", err)
	}

	query := `
		INSERT INTO check_ins (id, patient_id, date, symptoms, classification, responses, mood, energy_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = s.db.ExecContext(ctx, query,
		record.ID, record.PatientID, record.Date, pq.Array(record.Symptoms),
		record.Classification, responses, record.Mood, record.EnergyLevel)
	if err != nil {
		return fmt.Errorf("error creating check-in: %v", err)
	}

	// Keep only the most recent entries per patient.
	prune := `
		DELETE FROM check_ins
		WHERE patient_id = $1 AND id NOT IN (
			SELECT id FROM check_ins WHERE patient_id = $1 ORDER BY date DESC LIMIT $2
		)`
	if _, err := s.db.ExecContext(ctx, prune, record.PatientID, maxCheckInHistory); err != nil {
		return fmt.Errorf("error pruning check-in history: %v", err)
	}

	return nil
}

func (s *PostgresStorage) GetCheckIns(ctx context.Context, patientID string, limit int) ([]*models.CheckInRecord, error) {
	if limit <= 0 {
		limit = maxCheckInHistory
	}

	query := `
		SELECT id, patient_id, date, symptoms, classification, responses, mood, energy_level
		FROM check_ins
		WHERE patient_id = $1
		ORDER BY date DESC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying check-ins: %v", err)
	}
	defer rows.Close()

	var records []*models.CheckInRecord
	for rows.Next() {
		record := &models.CheckInRecord{}
		var responses []byte
		err := rows.Scan(
			&record.ID,
			&record.PatientID,
			&record.Date,
			pq.Array(&record.Symptoms),
			&record.Classification,
			&responses,
			&record.Mood,
			&record.EnergyLevel,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning check-in: %v", err)
		}
		if err := json.Unmarshal(responses, &record.Responses); err != nil {
			return nil, fmt.Errorf("error decoding responses: %v", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func (s *PostgresStorage) AddMessage(ctx context.Context, msg *models.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, patient_id, sender, sender_name, content, created_at, read)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		msg.ID, msg.PatientID, msg.Sender, msg.SenderName, msg.Content, msg.CreatedAt, msg.Read)
	if err != nil {
		return fmt.Errorf("error creating message: %v", err)
	}

	return nil
}

func (s *PostgresStorage) GetMessages(ctx context.Context, patientID string, limit int) ([]*models.ChatMessage, error) {
	query := `
		SELECT id, patient_id, sender, sender_name, content, created_at, read
		FROM chat_messages
		WHERE patient_id = $1
		ORDER BY created_at`

	args := []any{patientID}
	if limit > 0 {
		query = `
		SELECT id, patient_id, sender, sender_name, content, created_at, read
		FROM (
			SELECT id, patient_id, sender, sender_name, content, created_at, read
			FROM chat_messages
			WHERE patient_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %v", err)
	}
	defer rows.Close()

	var msgs []*models.ChatMessage
	for rows.Next() {
		msg := &models.ChatMessage{}
		err := rows.Scan(&msg.ID, &msg.PatientID, &msg.Sender, &msg.SenderName, &msg.Content, &msg.CreatedAt, &msg.Read)
		if err != nil {
			return nil, fmt.Errorf("error scanning message: %v", err)
		}
		msgs = append(msgs, msg)
	}

	return msgs, rows.Err()
}

func (s *PostgresStorage) AddEscalation(ctx context.Context, esc *models.Escalation) error {
	query := `
		INSERT INTO escalations (id, patient_id, severity, intent, summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		esc.ID, esc.PatientID, esc.Severity, esc.Intent, esc.Summary, esc.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating escalation: %v", err)
	}

	return nil
}

func (s *PostgresStorage) ListEscalations(ctx context.Context, limit int) ([]*models.Escalation, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, patient_id, severity, intent, summary, created_at
		FROM escalations
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying escalations: %v", err)
	}
	defer rows.Close()

	var escalations []*models.Escalation
	for rows.Next() {
		esc := &models.Escalation{}
		err := rows.Scan(&esc.ID, &esc.PatientID, &esc.Severity, &esc.Intent, &esc.Summary, &esc.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning escalation: %v", err)
		}
		escalations = append(escalations, esc)
	}

	return escalations, rows.Err()
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
