package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/linkstash/server/internal/service"
)

// TagCleanupJob sweeps tags whose usage count dropped to zero. Unused tags
// stay visible between sweeps; only the sweep removes them.
type TagCleanupJob struct {
	tags *service.TagService
}

func NewTagCleanupJob(tags *service.TagService) *TagCleanupJob {
	return &TagCleanupJob{tags: tags}
}

func (j *TagCleanupJob) Name() string {
	return "tag_cleanup"
}

func (j *TagCleanupJob) Run(ctx context.Context) error {
	if j.tags == nil {
		return nil
	}
	deleted, err := j.tags.CleanupUnused(ctx)
	if err != nil {
		return err
	}
	if deleted > 0 {
		logutil.GetLogger(ctx).Info("removed unused tags", zap.Int64("deleted", deleted))
	}
	return nil
}
