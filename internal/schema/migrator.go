package schema

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/beesaferoot/gorm-blog/internal/models"
)

// Step is a single forward-only schema change.
type Step struct {
	Version string
	Name    string
	Up      func(*gorm.DB) error
}

// StepRecord is a row in the schema_migrations table.
type StepRecord struct {
	Version   string    `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (StepRecord) TableName() string {
	return "schema_migrations"
}

// Steps returns the schema steps for the blog store, oldest first.
func Steps() []*Step {
	return []*Step{
		{
			Version: "20240315000001",
			Name:    "create_authors",
			Up: func(db *gorm.DB) error {
				return db.Migrator().CreateTable(&models.Author{})
			},
		},
		{
			Version: "20240315000002",
			Name:    "create_posts",
			Up: func(db *gorm.DB) error {
				return db.Migrator().CreateTable(&models.Post{})
			},
		},
	}
}

// Migrator applies pending schema steps
type Migrator struct {
	db    *gorm.DB
	steps []*Step
}

// NewMigrator creates a Migrator preloaded with Steps.
func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{
		db:    db,
		steps: Steps(),
	}
}

// Register adds a step to the migrator
func (m *Migrator) Register(step *Step) {
	m.steps = append(m.steps, step)
}

func (m *Migrator) ensureVersionTable() error {
	return m.db.AutoMigrate(&StepRecord{})
}

// AppliedVersions returns the set of recorded step versions.
func (m *Migrator) AppliedVersions() (map[string]bool, error) {
	if err := m.ensureVersionTable(); err != nil {
		return nil, err
	}

	var records []StepRecord
	if err := m.db.Find(&records).Error; err != nil {
		return nil, err
	}

	versions := make(map[string]bool)
	for _, record := range records {
		versions[record.Version] = true
	}
	return versions, nil
}

// Pending returns the registered steps that have not been applied yet.
func (m *Migrator) Pending() ([]*Step, error) {
	applied, err := m.AppliedVersions()
	if err != nil {
		return nil, err
	}

	var pending []*Step
	for _, step := range m.steps {
		if !applied[step.Version] {
			pending = append(pending, step)
		}
	}
	return pending, nil
}

// Up applies every pending step, each in its own transaction, and returns
// the steps it applied.
func (m *Migrator) Up() ([]*Step, error) {
	pending, err := m.Pending()
	if err != nil {
		return nil, err
	}

	for _, step := range pending {
		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := step.Up(tx); err != nil {
				return fmt.Errorf("failed to apply step %s: %w", step.Name, err)
			}

			record := StepRecord{
				Version:   step.Version,
				Name:      step.Name,
				AppliedAt: time.Now(),
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to record step %s: %w", step.Name, err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return pending, nil
}
