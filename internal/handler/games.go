package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pearl-pos/api/internal/database"
	"github.com/pearl-pos/api/internal/enum"
	"github.com/pearl-pos/api/internal/service"
)

const maxGamePoints = 100

// GamesStore defines the database methods needed to record a game play.
// Satisfied by *database.Queries (and its WithTx variant).
type GamesStore interface {
	GetCustomer(ctx context.Context, id uuid.UUID) (database.Customer, error)
	CreateGamePlay(ctx context.Context, arg database.CreateGamePlayParams) (database.GamePlay, error)
	AddRewardPoints(ctx context.Context, id uuid.UUID, points int32) (database.Customer, error)
}

// NewGamesStore creates a GamesStore from a DBTX (pool or tx).
type NewGamesStore func(db database.DBTX) GamesStore

// GamesHandler records reward-game plays. The play row and the point credit
// commit together, and the unique play constraint keeps a customer to one
// play per game per business day.
type GamesHandler struct {
	pool     service.TxBeginner
	newStore NewGamesStore
}

// NewGamesHandler creates a new GamesHandler.
func NewGamesHandler(pool service.TxBeginner, newStore NewGamesStore) *GamesHandler {
	return &GamesHandler{pool: pool, newStore: newStore}
}

// RegisterRoutes registers game endpoints on the given Chi router.
func (h *GamesHandler) RegisterRoutes(r chi.Router) {
	r.Post("/games/play", h.Play)
}

type playGameRequest struct {
	CustomerID string `json:"customerId"`
	GameType   string `json:"gameType"`
	Points     int32  `json:"points"`
}

// Play handles POST /api/games/play.
func (h *GamesHandler) Play(w http.ResponseWriter, r *http.Request) {
	var req playGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customerId")
		return
	}
	if req.GameType != enum.GameTypeMatching && req.GameType != enum.GameTypeFlappy {
		respondError(w, http.StatusBadRequest, "invalid gameType")
		return
	}
	if req.Points < 0 || req.Points > maxGamePoints {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("points must be between 0 and %d", maxGamePoints))
		return
	}

	play, customer, err := h.recordPlay(r.Context(), customerID, req.GameType, req.Points)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			respondError(w, http.StatusNotFound, "customer not found")
		case database.IsUniqueViolation(err, "game_plays_customer_id_game_type_play_date_key"):
			respondError(w, http.StatusBadRequest, "already played today")
		default:
			log.Printf("ERROR: record game play: %v", err)
			respondError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	respondOK(w, http.StatusCreated, envelope{
		"playId":        play.ID,
		"gameType":      play.GameType,
		"pointsAwarded": play.PointsAwarded,
		"rewardPoints":  customer.RewardPoints,
	})
}

func (h *GamesHandler) recordPlay(ctx context.Context, customerID uuid.UUID, gameType string, points int32) (*database.GamePlay, *database.Customer, error) {
	tx, err := h.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := h.newStore(tx)
	if _, err := store.GetCustomer(ctx, customerID); err != nil {
		return nil, nil, err
	}

	play, err := store.CreateGamePlay(ctx, database.CreateGamePlayParams{
		CustomerID:    customerID,
		GameType:      gameType,
		PointsAwarded: points,
		PlayDate:      service.BusinessToday(),
	})
	if err != nil {
		return nil, nil, err
	}

	customer, err := store.AddRewardPoints(ctx, customerID, points)
	if err != nil {
		return nil, nil, fmt.Errorf("credit points: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	return &play, &customer, nil
}
