package refresh

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"

	bundledomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/bundle/domain"
	recdomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/recommendation/domain"
)

// regenRunner regenerates both recommendation families for a user. Bundle
// refresh failures don't block the usage-based side; errors are joined for
// the log.
type regenRunner struct {
	recSvc    recdomain.Service
	bundleSvc bundledomain.Service
}

// NewRunner builds the composite regeneration runner.
func NewRunner(recSvc recdomain.Service, bundleSvc bundledomain.Service) Runner {
	return &regenRunner{recSvc: recSvc, bundleSvc: bundleSvc}
}

func (r *regenRunner) Run(ctx context.Context, userID snowflake.ID) error {
	_, recErr := r.recSvc.Refresh(ctx, userID)

	var bundleErr error
	if r.bundleSvc.ShouldShowBundleRecommendations(ctx, userID) {
		bundleErr = r.bundleSvc.RefreshForUser(ctx, userID)
	}

	return errors.Join(recErr, bundleErr)
}
