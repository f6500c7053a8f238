package db

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Counts gathers dashboard totals concurrently.
func (db *DB) Counts(ctx context.Context) (*Counts, error) {
	c := &Counts{ApplicationsPerStatus: map[string]int{}}

	queries := []struct {
		sql  string
		dest *int
	}{
		{`SELECT COUNT(*) FROM contacts`, &c.Contacts},
		{`SELECT COUNT(*) FROM applications`, &c.Applications},
		{`SELECT COUNT(*) FROM jobs WHERE status = 'active'`, &c.ActiveJobs},
		{`SELECT COUNT(*) FROM blog_posts WHERE published`, &c.PublishedBlogs},
		{`SELECT COUNT(*) FROM projects`, &c.Projects},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, q := range queries {
		g.Go(func() error {
			if err := db.pool.QueryRow(gctx, q.sql).Scan(q.dest); err != nil {
				return fmt.Errorf("failed to count (%s): %w", q.sql, err)
			}
			return nil
		})
	}

	perStatus := map[string]int{}
	g.Go(func() error {
		rows, err := db.pool.Query(gctx, `SELECT status, COUNT(*) FROM applications GROUP BY status`)
		if err != nil {
			return fmt.Errorf("failed to count applications by status: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var status string
			var n int
			if err := rows.Scan(&status, &n); err != nil {
				return fmt.Errorf("failed to scan status count: %w", err)
			}
			perStatus[status] = n
		}
		return rows.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	c.ApplicationsPerStatus = perStatus
	return c, nil
}
