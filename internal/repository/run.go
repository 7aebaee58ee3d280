package repository

import (
	"mlsync/internal/db"
	"mlsync/internal/model"
	"time"
)

type RunRepository struct{}

func NewRunRepository() *RunRepository {
	return &RunRepository{}
}

func (r *RunRepository) Save(command, split string, stats model.Stats, runErr string) error {
	run := model.SyncRun{
		Command: command,
		Split:   split,
		Success: stats.Success,
		Failed:  stats.Failed,
		Total:   stats.Total,
		ErrMsg:  runErr,
		RanAt:   time.Now(),
	}

	return db.DB.Create(&run).Error
}

// SaveReport persists one row per split of a sync-all report.
func (r *RunRepository) SaveReport(command string, report model.Report) error {
	for split, res := range report {
		if err := r.Save(command, split, res.Stats, res.Err); err != nil {
			return err
		}
	}

	return nil
}

func (r *RunRepository) GetRecent(limit int) ([]model.SyncRun, error) {
	var runs []model.SyncRun
	result := db.DB.
		Order("ran_at desc").
		Limit(limit).
		Find(&runs)

	return runs, result.Error
}

func (r *RunRepository) GetFailed() ([]model.SyncRun, error) {
	var runs []model.SyncRun
	result := db.DB.
		Where("failed > 0 OR err_msg <> ''").
		Order("ran_at desc").
		Find(&runs)

	return runs, result.Error
}
