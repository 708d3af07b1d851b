// Package subscribers manages the newsletter subscriber list.
package subscribers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a subscriber email does not exist.
var ErrNotFound = errors.New("subscriber not found")

// Subscriber is a single entry on the mailing list.
type Subscriber struct {
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

// Store provides database operations for subscribers
type Store struct {
	db *sql.DB
}

// NewStore creates a new subscriber store
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Normalize canonicalizes an email address for storage and lookup.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Subscribe adds an email to the list. Subscribing an address that is
// already present is a no-op reported as created=false, never an error.
func (s *Store) Subscribe(ctx context.Context, email string) (created bool, err error) {
	email = Normalize(email)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO subscribers (email, subscribed_at) VALUES (?, ?)
		 ON CONFLICT (email) DO NOTHING`,
		email, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("insert subscriber: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// List returns every subscriber. Order is unspecified.
func (s *Store) List(ctx context.Context) ([]Subscriber, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT email, subscribed_at FROM subscribers`)
	if err != nil {
		return nil, fmt.Errorf("query subscribers: %w", err)
	}
	defer rows.Close()

	subs := []Subscriber{}
	for rows.Next() {
		var sub Subscriber
		if err := rows.Scan(&sub.Email, &sub.SubscribedAt); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Delete removes a subscriber by email. Returns ErrNotFound when absent.
func (s *Store) Delete(ctx context.Context, email string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM subscribers WHERE email = ?`, Normalize(email))
	if err != nil {
		return fmt.Errorf("delete subscriber: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
