package repos

import "time"

// RetryPolicy is a bounded fixed-delay retry: at most Attempts tries,
// sleeping Delay between them. Retryable decides whether an error is
// worth another attempt; nil means retry everything.
type RetryPolicy struct {
	Attempts  int
	Delay     time.Duration
	Retryable func(error) bool
}

// ConnectRetry covers initial database connection: three attempts, two
// seconds apart.
var ConnectRetry = RetryPolicy{Attempts: 3, Delay: 2 * time.Second}

// Do runs op until it succeeds, is declared non-retryable, or the
// attempt budget runs out. The last error is returned.
func (p RetryPolicy) Do(op func() error) error {
	var err error
	for attempt := 0; attempt < p.Attempts; attempt++ {
		if attempt > 0 {
			time.Sleep(p.Delay)
		}
		if err = op(); err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
	}
	return err
}
