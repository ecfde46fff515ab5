package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trading-journal-go/internal/database"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/models"
)

// userID resolves the account a request acts on. There is no login
// flow; every request maps to the seeded demo account. An auth layer
// would replace this single lookup, the store API already takes the
// user id explicitly everywhere.
func (s *Server) userID(c *gin.Context) uint {
	return database.DemoUserID
}

// tradeRequest is the write payload for trades. The client speaks
// camelCase; stored rows are rendered snake_case.
type tradeRequest struct {
	StockName  string   `json:"stockName" binding:"required"`
	TradeType  string   `json:"tradeType" binding:"required,oneof=buy sell"`
	EntryDate  string   `json:"entryDate" binding:"required"`
	ExitDate   *string  `json:"exitDate"`
	EntryPrice float64  `json:"entryPrice"`
	ExitPrice  *float64 `json:"exitPrice"`
	Quantity   int      `json:"quantity"`
	Commission float64  `json:"commission"`
	Strategy   string   `json:"strategy"`
	Notes      string   `json:"notes"`
	AiInsight  *string  `json:"aiInsight"`
	ChartImage *string  `json:"chartImage"`
}

// validate rejects payloads that are structurally fine but logically
// impossible. Price and quantity signs are deliberately not checked;
// they propagate arithmetically.
func (r *tradeRequest) validate() error {
	if r.ExitDate != nil && *r.ExitDate != "" && *r.ExitDate < r.EntryDate {
		return errors.New("exit date must not precede entry date")
	}
	return nil
}

// toTrade builds the model row, recomputing the derived fields. Create
// and update both go through here so the two paths can never drift.
func (r *tradeRequest) toTrade(userID uint) *models.Trade {
	fin := journal.Derive(r.EntryPrice, r.ExitPrice, r.Quantity, r.Commission)
	return &models.Trade{
		UserID:        userID,
		StockName:     r.StockName,
		TradeType:     r.TradeType,
		EntryDate:     r.EntryDate,
		ExitDate:      r.ExitDate,
		EntryPrice:    r.EntryPrice,
		ExitPrice:     r.ExitPrice,
		Quantity:      r.Quantity,
		Commission:    r.Commission,
		TotalBuy:      fin.TotalBuy,
		TotalSell:     fin.TotalSell,
		NetProfit:     fin.NetProfit,
		ProfitPercent: fin.ProfitPercent,
		Strategy:      r.Strategy,
		Notes:         r.Notes,
		AiInsight:     r.AiInsight,
		ChartImage:    r.ChartImage,
	}
}

// listTrades returns the user's trades, newest first. Supports optional
// name search (?q=) and outcome filtering (?filter=win|loss|open).
func (s *Server) listTrades(c *gin.Context) {
	trades, err := s.store.ListTrades(s.userID(c))
	if err != nil {
		s.serverError(c, "failed to list trades", err)
		return
	}

	q := strings.ToLower(c.Query("q"))
	filter := c.Query("filter")
	if q != "" || (filter != "" && filter != "all") {
		filtered := make([]models.Trade, 0, len(trades))
		for _, t := range trades {
			if q != "" && !strings.Contains(strings.ToLower(t.StockName), q) {
				continue
			}
			switch filter {
			case "win":
				if t.NetProfit <= 0 {
					continue
				}
			case "loss":
				if t.NetProfit >= 0 {
					continue
				}
			case "open":
				if !t.IsOpen() {
					continue
				}
			}
			filtered = append(filtered, t)
		}
		trades = filtered
	}

	c.JSON(http.StatusOK, trades)
}

func (s *Server) createTrade(c *gin.Context) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := s.userID(c)
	id, err := s.store.CreateTrade(userID, req.toTrade(userID))
	if err != nil {
		s.serverError(c, "failed to create trade", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (s *Server) updateTrade(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trade id"})
		return
	}

	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := s.userID(c)
	err = s.store.UpdateTrade(id, userID, req.toTrade(userID))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "trade not found"})
		return
	}
	if err != nil {
		s.serverError(c, "failed to update trade", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) deleteTrade(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trade id"})
		return
	}

	err = s.store.DeleteTrade(id, s.userID(c))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "trade not found"})
		return
	}
	if err != nil {
		s.serverError(c, "failed to delete trade", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// userStats returns the capital baseline together with all trades, the
// raw material the journal UI computes its dashboard from.
func (s *Server) userStats(c *gin.Context) {
	userID := s.userID(c)

	user, err := s.store.GetUser(userID)
	if err != nil {
		s.serverError(c, "failed to get user", err)
		return
	}
	trades, err := s.store.ListTrades(userID)
	if err != nil {
		s.serverError(c, "failed to list trades", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   gin.H{"initial_capital": user.InitialCapital},
		"trades": trades,
	})
}

type capitalRequest struct {
	Capital float64 `json:"capital"`
}

func (s *Server) updateCapital(c *gin.Context) {
	var req capitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.store.UpdateCapital(s.userID(c), req.Capital); err != nil {
		s.serverError(c, "failed to update capital", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// journalStats serves the server-side aggregation: counts, win rate,
// per-stock performance, best/worst stock and the equity curve.
func (s *Server) journalStats(c *gin.Context) {
	userID := s.userID(c)

	user, err := s.store.GetUser(userID)
	if err != nil {
		s.serverError(c, "failed to get user", err)
		return
	}
	trades, err := s.store.ListTrades(userID)
	if err != nil {
		s.serverError(c, "failed to list trades", err)
		return
	}

	c.JSON(http.StatusOK, journal.Aggregate(trades, user.InitialCapital))
}

type summaryRequest struct {
	StockName string `json:"stockName" binding:"required"`
}

// aiSummary proxies the stock-summary request to the generative model.
// Upstream failures come back as the fallback text with status 200; AI
// enrichment never turns into a hard failure.
func (s *Server) aiSummary(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	insight := s.ai.SummarizeStock(c.Request.Context(), req.StockName)
	c.JSON(http.StatusOK, gin.H{"insight": insight})
}

type chartEditRequest struct {
	Image       string `json:"image" binding:"required"`
	Instruction string `json:"instruction" binding:"required"`
}

// aiChartEdit proxies a chart-image edit to the generative model. A
// null image in the response means the edit produced nothing usable.
func (s *Server) aiChartEdit(c *gin.Context) {
	var req chartEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	edited := s.ai.EditChartImage(c.Request.Context(), req.Image, req.Instruction)
	if edited == "" {
		c.JSON(http.StatusOK, gin.H{"image": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"image": edited})
}

func (s *Server) serverError(c *gin.Context, msg string, err error) {
	s.logger.Error(msg, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
