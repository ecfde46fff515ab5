package database

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"trading-journal-go/internal/models"
)

// DemoUserID identifies the single seeded account.
const DemoUserID uint = 1

// ErrNotFound is returned when a row does not exist or does not belong
// to the given user. Callers must not learn whether an id exists under
// a different user.
var ErrNotFound = errors.New("record not found")

// tradeColumns are the caller-writable columns of a trade, including
// the derived ones. Listing them explicitly lets updates write zero
// values (an exit price removed, a note cleared).
var tradeColumns = []string{
	"stock_name", "trade_type", "entry_date", "exit_date",
	"entry_price", "exit_price", "quantity", "commission",
	"total_buy", "total_sell", "net_profit", "profit_percent",
	"strategy", "notes", "ai_insight", "chart_image",
}

// Store provides user-scoped access to trade and user rows. Every
// statement filters by user id; one user's writes can never touch
// another user's rows.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore creates a new Store.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// CreateTrade inserts a trade for the given user and returns the
// generated id.
func (s *Store) CreateTrade(userID uint, trade *models.Trade) (uint, error) {
	trade.ID = 0
	trade.UserID = userID
	if err := s.db.Create(trade).Error; err != nil {
		return 0, fmt.Errorf("failed to create trade: %w", err)
	}
	s.logger.Debug("trade created",
		zap.Uint("id", trade.ID),
		zap.Uint("user_id", userID),
		zap.String("stock", trade.StockName),
	)
	return trade.ID, nil
}

// UpdateTrade overwrites the writable columns of the trade with the
// given id, provided it belongs to the user. Returns ErrNotFound when
// no such row exists for that user.
func (s *Store) UpdateTrade(id, userID uint, trade *models.Trade) error {
	res := s.db.Model(&models.Trade{}).
		Where("id = ? AND user_id = ?", id, userID).
		Select(tradeColumns).
		Updates(trade)
	if res.Error != nil {
		return fmt.Errorf("failed to update trade %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTrade removes the trade with the given id, provided it belongs
// to the user. Returns ErrNotFound when no such row exists for that
// user.
func (s *Store) DeleteTrade(id, userID uint) error {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Trade{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete trade %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListTrades returns all trades of the user, newest first by creation
// time with id as tiebreak.
func (s *Store) ListTrades(userID uint) ([]models.Trade, error) {
	var trades []models.Trade
	err := s.db.
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&trades).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return trades, nil
}

// GetUser fetches a user row by id.
func (s *Store) GetUser(id uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

// UpdateCapital sets the user's initial capital, the baseline of the
// equity curve.
func (s *Store) UpdateCapital(id uint, capital float64) error {
	res := s.db.Model(&models.User{}).
		Where("id = ?", id).
		Update("initial_capital", capital)
	if res.Error != nil {
		return fmt.Errorf("failed to update capital for user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
