package database

import (
	"context"
	"time"

	"github.com/google/uuid"
)

func (q *Queries) GetCustomer(ctx context.Context, id uuid.UUID) (Customer, error) {
	row := q.db.QueryRow(ctx, `
		SELECT id, name, email, reward_points, created_at
		FROM customers
		WHERE id = $1`,
		id,
	)
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.RewardPoints, &c.CreatedAt)
	return c, err
}

type CreateGamePlayParams struct {
	CustomerID    uuid.UUID
	GameType      string
	PointsAwarded int32
	PlayDate      time.Time
}

// CreateGamePlay records one reward-game play. The unique constraint on
// (customer_id, game_type, play_date) rejects a second same-day play.
func (q *Queries) CreateGamePlay(ctx context.Context, arg CreateGamePlayParams) (GamePlay, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO game_plays (customer_id, game_type, points_awarded, play_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, customer_id, game_type, points_awarded, play_date`,
		arg.CustomerID, arg.GameType, arg.PointsAwarded, arg.PlayDate,
	)
	var p GamePlay
	err := row.Scan(&p.ID, &p.CustomerID, &p.GameType, &p.PointsAwarded, &p.PlayDate)
	return p, err
}

// AddRewardPoints credits a customer and returns the updated balance.
func (q *Queries) AddRewardPoints(ctx context.Context, id uuid.UUID, points int32) (Customer, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE customers
		SET reward_points = reward_points + $2
		WHERE id = $1
		RETURNING id, name, email, reward_points, created_at`,
		id, points,
	)
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.RewardPoints, &c.CreatedAt)
	return c, err
}
