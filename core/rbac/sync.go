package rbac

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
)

// StartResync refreshes the policy on a schedule so grant changes made by
// another instance become visible without a restart. The returned stop
// function waits for an in-flight refresh to finish.
func (r *Resolver) StartResync(ctx context.Context, spec string) (func(), error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := r.Sync(ctx); err != nil && r.logger != nil {
			r.logger.Errorf("rbac resync failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("rbac resync schedule %q: %w", spec, err)
	}
	c.Start()
	return func() {
		<-c.Stop().Done()
	}, nil
}
