package sink

import (
	"time"

	"github.com/yanun0323/errors"
	"gorm.io/gorm"

	"mcpricer/internal/model"
)

const defaultPostgresBatchSize = 500

// PathRecordRow is the table layout of a persisted path record.
type PathRecordRow struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	RunID     string    `gorm:"size:36;not null;index:idx_path_records_run_path,priority:1"`
	PathIndex int64     `gorm:"not null;index:idx_path_records_run_path,priority:2"`
	Mean      float64   `gorm:"not null"`
	Min       float64   `gorm:"not null"`
	Max       float64   `gorm:"not null"`
	StdDev    float64   `gorm:"not null"`
	LastPrice float64   `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (PathRecordRow) TableName() string {
	return "path_records"
}

func newPathRecordRow(runID string, rec model.PathRecord) PathRecordRow {
	return PathRecordRow{
		RunID:     runID,
		PathIndex: rec.Index,
		Mean:      rec.Mean,
		Min:       rec.Min,
		Max:       rec.Max,
		StdDev:    rec.StdDev,
		LastPrice: rec.LastPrice,
	}
}

// Postgres inserts records into path_records in batches, tagged with the run id.
type Postgres struct {
	db        *gorm.DB
	runID     string
	batchSize int
	rows      []PathRecordRow
}

// NewPostgres migrates the table and returns a sink bound to runID.
// The caller owns db and closes it.
func NewPostgres(db *gorm.DB, runID string, batchSize int) (*Postgres, error) {
	if err := db.AutoMigrate(&PathRecordRow{}); err != nil {
		return nil, errors.Wrap(err, "migrate path_records")
	}
	if batchSize <= 0 {
		batchSize = defaultPostgresBatchSize
	}
	return &Postgres{db: db, runID: runID, batchSize: batchSize}, nil
}

func (p *Postgres) Write(records ...model.PathRecord) error {
	if len(records) == 0 {
		return nil
	}
	p.rows = p.rows[:0]
	for _, rec := range records {
		p.rows = append(p.rows, newPathRecordRow(p.runID, rec))
	}
	if err := p.db.CreateInBatches(p.rows, p.batchSize).Error; err != nil {
		return errors.Wrap(err, "insert path records").With("run", p.runID)
	}
	return nil
}

func (p *Postgres) Close() error {
	return nil
}
