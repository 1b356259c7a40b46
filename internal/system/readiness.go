package system

import (
	"context"
	"fmt"
	"time"

	"github.com/siderolabs/go-retry/retry"
)

// checkSlack is added to the readiness time budget for slow checks
const checkSlack = time.Minute

// CheckFunc reports nil once the service answers its liveness check
type CheckFunc func(ctx context.Context) error

// WaitReady polls check at a fixed interval for a fixed number of attempts.
// It returns nil as soon as check succeeds and an error once the budget is spent.
func WaitReady(ctx context.Context, attempts int, interval time.Duration, check CheckFunc) error {
	if attempts < 1 {
		attempts = 1
	}
	if interval <= 0 {
		interval = time.Millisecond
	}

	// The attempt counter is the real bound; the time budget only caps
	// checks that hang.
	tries := 0
	budget := 2*time.Duration(attempts)*interval + checkSlack
	err := retry.Constant(budget, retry.WithUnits(interval)).
		RetryWithContext(ctx, func(ctx context.Context) error {
			tries++
			if checkErr := check(ctx); checkErr != nil {
				if tries >= attempts {
					return checkErr
				}
				return retry.ExpectedError(checkErr)
			}
			return nil
		})
	if err != nil {
		return fmt.Errorf("not ready after %d attempt(s): %w", tries, err)
	}
	return nil
}

// MySQLPing is a CheckFunc that succeeds once mysqld accepts connections.
// mysqladmin ping exits 0 even when access is denied, which is what we want
// before root has a known password.
func MySQLPing(r Runner) CheckFunc {
	return func(ctx context.Context) error {
		_, err := r.Run(ctx, "mysqladmin", "--connect-timeout=2", "ping")
		return err
	}
}

// UnitActive is a CheckFunc that succeeds once systemd reports unit active
func UnitActive(r Runner, unit string) CheckFunc {
	return func(ctx context.Context) error {
		_, err := r.Run(ctx, "systemctl", "is-active", "--quiet", unit)
		return err
	}
}
