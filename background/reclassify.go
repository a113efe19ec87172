// Package background contains jobs that run independently of the HTTP
// request-response cycle.
package background

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/storefront-go/sentiment"
)

// reviewToClassify is a review row that has no sentiment label yet.
type reviewToClassify struct {
	ID   int64
	Text string
}

// classifyResult carries a computed label back to the updater. Label is nil
// when classification failed; such rows are left untouched and retried on a
// later tick.
type classifyResult struct {
	ReviewID int64
	Label    *sentiment.Label
}

const (
	sweepTickerDuration = 10 * time.Minute
	numClassifyWorkers  = 3
	sweepBatchSize      = 20
	sweepQueryTimeout   = 30 * time.Second
)

// StartSentimentSweeper launches a background service that periodically finds
// reviews stored without a sentiment label and retries classification for
// them. Close stopChan to shut the service down; it drains in-flight work
// before returning.
func StartSentimentSweeper(dbPool *pgxpool.Pool, enricher *sentiment.Enricher, stopChan <-chan struct{}) {
	log.Println("Sentiment sweeper starting...")

	toClassify := make(chan reviewToClassify, sweepBatchSize)
	results := make(chan classifyResult, sweepBatchSize)

	var updaterWg sync.WaitGroup
	var workersWg sync.WaitGroup

	go func() {
		defer log.Println("Sentiment sweeper stopped.")

		ticker := time.NewTicker(sweepTickerDuration)
		defer ticker.Stop()

		for i := 0; i < numClassifyWorkers; i++ {
			workersWg.Add(1)
			go func(workerID int) {
				defer workersWg.Done()
				for review := range toClassify {
					// Classify never returns an error; a nil label
					// means the attempt failed or the classifier is
					// disabled.
					label := enricher.Classify(context.Background(), review.Text)
					if label == nil {
						log.Printf("sweeper worker %d: classification unavailable for review %d, will retry", workerID, review.ID)
						continue
					}
					results <- classifyResult{ReviewID: review.ID, Label: label}
				}
			}(i)
		}

		updaterWg.Add(1)
		go func() {
			defer updaterWg.Done()
			for result := range results {
				ctx, cancel := context.WithTimeout(context.Background(), sweepQueryTimeout)
				_, err := dbPool.Exec(ctx,
					"UPDATE reviews SET sentiment = $2 WHERE id = $1 AND sentiment IS NULL",
					result.ReviewID, string(*result.Label),
				)
				cancel()
				if err != nil {
					log.Printf("sweeper: failed to store sentiment for review %d: %v", result.ReviewID, err)
					continue
				}
				log.Printf("sweeper: backfilled sentiment %q for review %d", *result.Label, result.ReviewID)
			}
		}()

		// Close results once every worker has drained toClassify, so the
		// updater's range loop terminates during shutdown.
		go func() {
			workersWg.Wait()
			close(results)
		}()

		for {
			select {
			case <-ticker.C:
				fetchUnclassified(dbPool, toClassify)
			case <-stopChan:
				log.Println("Sentiment sweeper: stop signal received, draining...")
				close(toClassify)
				updaterWg.Wait()
				return
			}
		}
	}()
}

// fetchUnclassified queues the oldest unlabeled reviews for another
// classification attempt. Sends are non-blocking; rows that do not fit are
// picked up on the next tick.
func fetchUnclassified(dbPool *pgxpool.Pool, toClassify chan<- reviewToClassify) {
	ctx, cancel := context.WithTimeout(context.Background(), sweepQueryTimeout)
	defer cancel()

	rows, err := dbPool.Query(ctx,
		"SELECT id, review_text FROM reviews WHERE sentiment IS NULL ORDER BY created_at ASC LIMIT $1",
		sweepBatchSize,
	)
	if err != nil {
		log.Printf("sweeper: failed to fetch unlabeled reviews: %v", err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var review reviewToClassify
		if err := rows.Scan(&review.ID, &review.Text); err != nil {
			log.Printf("sweeper: failed to scan review row: %v", err)
			return
		}
		select {
		case toClassify <- review:
		default:
			return
		}
	}
	if err := rows.Err(); err != nil {
		log.Printf("sweeper: error iterating unlabeled reviews: %v", err)
	}
}
