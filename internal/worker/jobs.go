package worker

import (
	"context"

	"github.com/vytor/memorymatch/internal/logger"
	"github.com/vytor/memorymatch/internal/models"
)

// ScoreSaver persists a finished session's result. Declared here so the
// worker package does not import services.
type ScoreSaver interface {
	Save(ctx context.Context, score models.Score) (int64, error)
}

// SaveScoreJob stores the result of a completed session.
type SaveScoreJob struct {
	Saver ScoreSaver
	Score models.Score
}

func (j *SaveScoreJob) Name() string { return "save_score" }

func (j *SaveScoreJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"user_id":  j.Score.UserID,
		"theme_id": j.Score.ThemeID,
	})
	id, err := j.Saver.Save(ctx, j.Score)
	if err != nil {
		log.Error("failed to save score: %v", err)
		return err
	}
	log.Info("score saved: id=%d, attempts=%d, time=%ds", id, j.Score.Attempts, j.Score.TimeSeconds)
	return nil
}
