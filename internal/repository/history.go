package repository

import (
	"mirrorsync/internal/db"
	"mirrorsync/internal/model"
)

type HistoryRepository struct{}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{}
}

func (r *HistoryRepository) Save(result model.RunResult) error {
	history := model.History{
		JobName:          result.JobName,
		Outcome:          result.Outcome,
		ExitCode:         result.ExitCode,
		BytesTransferred: result.BytesTransferred,
		Duration:         result.Duration,
		ErrMsg:           result.ErrorExcerpt,
		StartedAt:        result.StartedAt,
	}

	return db.DB.Create(&history).Error
}

type Stats struct {
	Total   int64
	Success int64
	Failed  int64
}

func (r *HistoryRepository) GetStats() (Stats, error) {
	var stats Stats
	if err := db.DB.Model(&model.History{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}

	if err := db.DB.Model(&model.History{}).
		Where("outcome = ?", model.OutcomeSuccess).
		Count(&stats.Success).Error; err != nil {
		return stats, err
	}

	stats.Failed = stats.Total - stats.Success
	return stats, nil
}

func (r *HistoryRepository) GetRecent(limit int) ([]model.History, error) {
	var histories []model.History
	result := db.DB.
		Order("started_at desc").
		Limit(limit).
		Find(&histories)

	return histories, result.Error
}

func (r *HistoryRepository) GetByJob(jobName string, limit int) ([]model.History, error) {
	var histories []model.History
	result := db.DB.
		Where("job_name = ?", jobName).
		Order("started_at desc").
		Limit(limit).
		Find(&histories)

	return histories, result.Error
}

func (r *HistoryRepository) GetFailed(limit int) ([]model.History, error) {
	var histories []model.History
	result := db.DB.
		Where("outcome = ?", model.OutcomeFailure).
		Order("started_at desc").
		Limit(limit).
		Find(&histories)

	return histories, result.Error
}
