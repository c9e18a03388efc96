// @title           Stock Trading Ledger API
// @version         1.0
// @description     API for executing stock orders against a persisted ledger with undo/redo

// @host      localhost:8080
// @BasePath  /api/v1

package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/AnasAnwaar/StockExchange-DP/internal/application/history"
	"github.com/AnasAnwaar/StockExchange-DP/internal/application/service/market"
	"github.com/AnasAnwaar/StockExchange-DP/internal/application/service/news"
	"github.com/AnasAnwaar/StockExchange-DP/internal/application/service/orders"
	"github.com/AnasAnwaar/StockExchange-DP/internal/application/service/stocks"
	"github.com/AnasAnwaar/StockExchange-DP/internal/application/service/users"
	domain "github.com/AnasAnwaar/StockExchange-DP/internal/domain/entity/ledger"
	"github.com/AnasAnwaar/StockExchange-DP/internal/infrastructure/quotecache"
)

const (
	ordersBasePath     = "/api/v1/orders"
	stocksBasePath     = "/api/v1/stocks"
	usersBasePath      = "/api/v1/users"
	newsBasePath       = "/api/v1/news"
	marketdataBasePath = "/api/v1/marketdata"
)

var errMissingID = errors.New("missing id")

type Handler struct {
	router   *gin.Engine
	orders   *orders.Service
	history  *history.History
	stocks   *stocks.Service
	users    *users.Service
	news     *news.Service
	board    *market.Board
	quotes   *quotecache.Cache
	cache    *redis.Client
	cacheTTL time.Duration
}

func NewHandler(
	orderSvc *orders.Service,
	hist *history.History,
	stockSvc *stocks.Service,
	userSvc *users.Service,
	newsSvc *news.Service,
	board *market.Board,
	quotes *quotecache.Cache,
	cache *redis.Client,
	cacheTTL time.Duration,
) *Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	h := &Handler{
		router:   router,
		orders:   orderSvc,
		history:  hist,
		stocks:   stockSvc,
		users:    userSvc,
		news:     newsSvc,
		board:    board,
		quotes:   quotes,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
	h.registerRoutes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	ord := h.router.Group(ordersBasePath)
	{
		ord.POST("/buy", h.buyStock)
		ord.POST("/sell", h.sellStock)
		ord.POST("/undo", h.undoOrder)
		ord.POST("/redo", h.redoOrder)
		ord.GET("/history", h.orderHistory)
	}

	// Order execution invalidates nothing here: cached listings may lag one
	// TTL behind the last trade, same trade-off the quote cache makes.
	st := h.router.Group(stocksBasePath)
	if h.cache != nil {
		st.Use(h.cacheMiddleware())
	}
	{
		st.POST("/", h.createStock)
		st.GET("/", h.listStocks)
		st.GET("/:id", h.getStock)
		st.PUT("/", h.updateStock)
		st.DELETE("/:id", h.deleteStock)
	}

	us := h.router.Group(usersBasePath)
	{
		us.POST("/", h.createUser)
		us.GET("/:id", h.getUser)
		us.GET("/:id/portfolio", h.getPortfolio)
		us.GET("/:id/transactions", h.getTransactions)
	}

	nw := h.router.Group(newsBasePath)
	if h.cache != nil {
		nw.Use(h.cacheMiddleware())
	}
	{
		nw.POST("/", h.publishNews)
		nw.GET("/", h.listNews)
		nw.DELETE("/:id", h.deleteNews)
	}

	md := h.router.Group(marketdataBasePath)
	{
		md.GET("/quote/:id", h.getQuote)
	}
}

// Orders

type orderPayload struct {
	UserID   int64           `json:"user_id" binding:"required"`
	StockID  int64           `json:"stock_id" binding:"required"`
	Quantity int64           `json:"quantity" binding:"required"`
	Price    decimal.Decimal `json:"price" binding:"required"`
}

// buyStock executes a buy order
// @Summary      Buy stock
// @Description  Execute a buy order and record it for undo
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        order  body      orderPayload  true  "Order data"
// @Success      200    {object}  map[string]string
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Failure      422    {object}  map[string]string
// @Router       /orders/buy [post]
func (h *Handler) buyStock(c *gin.Context) {
	var payload orderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	cmd := orders.NewBuyCommand(h.orders, payload.UserID, payload.StockID, payload.Quantity, payload.Price)
	if err := h.history.Execute(c.Request.Context(), cmd); err != nil {
		writeError(c, statusForError(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"description": cmd.Description()})
}

// sellStock executes a sell order
// @Summary      Sell stock
// @Description  Execute a sell order and record it for undo
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        order  body      orderPayload  true  "Order data"
// @Success      200    {object}  map[string]string
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Failure      422    {object}  map[string]string
// @Router       /orders/sell [post]
func (h *Handler) sellStock(c *gin.Context) {
	var payload orderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	cmd := orders.NewSellCommand(h.orders, payload.UserID, payload.StockID, payload.Quantity, payload.Price)
	if err := h.history.Execute(c.Request.Context(), cmd); err != nil {
		writeError(c, statusForError(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"description": cmd.Description()})
}

// undoOrder reverses the most recent order
// @Summary      Undo order
// @Description  Reverse the most recently executed order
// @Tags         orders
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /orders/undo [post]
func (h *Handler) undoOrder(c *gin.Context) {
	if err := h.history.Undo(c.Request.Context()); err != nil {
		writeError(c, statusForError(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "undone"})
}

// redoOrder re-executes the most recently undone order
// @Summary      Redo order
// @Description  Re-execute the most recently undone order
// @Tags         orders
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /orders/redo [post]
func (h *Handler) redoOrder(c *gin.Context) {
	if err := h.history.Redo(c.Request.Context()); err != nil {
		writeError(c, statusForError(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "redone"})
}

// orderHistory lists executed order descriptions
// @Summary      Order history
// @Description  List descriptions of executed orders, oldest first
// @Tags         orders
// @Produce      json
// @Success      200  {object}  map[string][]string
// @Router       /orders/history [get]
func (h *Handler) orderHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"commands": h.history.Descriptions()})
}

// Stocks

type stockPayload struct {
	ID     int64           `json:"id"`
	Kind   string          `json:"kind" binding:"required"`
	Name   string          `json:"name" binding:"required"`
	Symbol string          `json:"symbol" binding:"required"`
	Price  decimal.Decimal `json:"price" binding:"required"`
}

// createStock creates a stock
// @Summary      Create stock
// @Description  Create a stock of kind equity, bond or etf
// @Tags         stocks
// @Accept       json
// @Produce      json
// @Param        stock  body      stockPayload  true  "Stock data"
// @Success      201    {object}  domain.Stock
// @Failure      400    {object}  map[string]string
// @Router       /stocks [post]
func (h *Handler) createStock(c *gin.Context) {
	var payload stockPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	kind, err := domain.NewStockKind(payload.Kind)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	stock, err := h.stocks.Create(c.Request.Context(), kind, payload.Name, payload.Symbol, payload.Price)
	if err != nil {
		writeError(c, statusForError(err), err)
		return
	}
	c.JSON(http.StatusCreated, stock)
}

// listStocks lists the stock catalog
// @Summary      List stocks
// @Description  List stocks sorted by symbol, price_asc or price_desc
// @Tags         stocks
// @Produce      json
// @Param        sort  query     string  false  "Sort order"
// @Success      200   {array}   domain.Stock
// @Failure      400   {object}  map[string]string
// @Router       /stocks [get]
func (h *Handler) listStocks(c *gin.Context) {
	order, err := stocks.NewSortOrder(c.Query("sort"))
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	list, err := h.stocks.List(c.Request.Context(), order)
	if err != nil {
		writeError(c, statusForError(err), err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// getStock retrieves a stock by id
// @Summary      Get stock
// @Tags         stocks
// @Produce      json
// @Param        id   path      int  true  "Stock ID"
// @Success      200  {object}  domain.Stock
// @Failure      404  {object}  map[string]string
// @Router       /stocks/{id} [get]
func (h *Handler) getStock(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	stock, err := h.stocks.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, statusForError(err), err)
		return
	}
	c.JSON(http.StatusOK, stock)
}

// updateStock updates a stock
// @Summary      Update stock
// @Tags         stocks
// @Accept       json
// @Produce      json
// @Param        stock  body      domain.Stock  true  "Stock data with id"
// @Success      200    {object}  domain.Stock
// @Failure      400    {object}  map[string]string
// @Failure      404    {object}  map[string]string
// @Router       /stocks [put]
func (h *Handler) updateStock(c *gin.Context) {
	var stock domain.Stock
	if err := c.ShouldBindJSON(&stock); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	if stock.ID == 0 {
		writeError(c, http.StatusBadRequest, errMissingID)
		return
	}
	if err := h.stocks.Update(c.Request.Context(), &stock); err != nil {
		writeError(c, statusForError(err), err)
		return
	}
	c.JSON(http.StatusOK, stock)
}

// deleteStock deletes a stock by id
// @Summary      Delete stock
// @Tags         stocks
// @Param        id  path  int  true  "Stock ID"
// @Success      204  "No Content"
// @Failure      404  {object}  map[string]string
// @Router       /stocks/{id} [delete]
func (h *Handler) deleteStock(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	if err := h.stocks.Delete(c.Request.Context(), id); err != nil {
		writeError(c, statusForError(err), err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Users

type userPayload struct {
	Username string          `json:"username" binding:"required"`
	Email    string          `json:"email"`
	Balance  decimal.Decimal `json:"balance"`
}

// createUser creates a trading account
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        user  body      userPayload  true  "User data"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Router       /users [post]
func (h *Handler) createUser(c *gin.Context) {
	var payload userPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	user, err := h.users.Create(c.Request.Context(), payload.Username, payload.Email, payload.Balance)
	if err != nil {
		writeError(c, statusForError(err), err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// getUser retrieves a user by id
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *Handler) getUser(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, statusForError(err), err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// getPortfolio lists a user's positions
// @Summary      Get portfolio
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {array}   domain.Position
// @Router       /users/{id}/portfolio [get]
func (h *Handler) getPortfolio(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	positions, err := h.orders.ListPositions(c.Request.Context(), id)
	if err != nil {
		writeError(c, statusForError(err), err)
		return
	}
	c.JSON(http.StatusOK, positions)
}

// getTransactions lists a user's trade ledger
// @Summary      Get transactions
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {array}   domain.Transaction
// @Router       /users/{id}/transactions [get]
func (h *Handler) getTransactions(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	transactions, err := h.orders.ListTransactions(c.Request.Context(), id)
	if err != nil {
		writeError(c, statusForError(err), err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

// News

type newsPayload struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

// publishNews publishes a news item
// @Summary      Publish news
// @Tags         news
// @Accept       json
// @Produce      json
// @Param        news  body      newsPayload  true  "News data"
// @Success      201   {object}  domain.MarketNews
// @Failure      400   {object}  map[string]string
// @Router       /news [post]
func (h *Handler) publishNews(c *gin.Context) {
	var payload newsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	item, err := h.news.Publish(c.Request.Context(), payload.Title, payload.Content)
	if err != nil {
		writeError(c, statusForError(err), err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// listNews lists news items newest first
// @Summary      List news
// @Tags         news
// @Produce      json
// @Success      200  {array}  domain.MarketNews
// @Router       /news [get]
func (h *Handler) listNews(c *gin.Context) {
	items, err := h.news.List(c.Request.Context())
	if err != nil {
		writeError(c, statusForError(err), err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// deleteNews deletes a news item by id
// @Summary      Delete news
// @Tags         news
// @Param        id  path  int  true  "News ID"
// @Success      204  "No Content"
// @Failure      404  {object}  map[string]string
// @Router       /news/{id} [delete]
func (h *Handler) deleteNews(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	if err := h.news.Delete(c.Request.Context(), id); err != nil {
		writeError(c, statusForError(err), err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Market data

// getQuote returns the latest quote for a stock
// @Summary      Get quote
// @Description  Latest execution price, served from the quote cache when warm
// @Tags         marketdata
// @Produce      json
// @Param        id   path      int  true  "Stock ID"
// @Success      200  {object}  quotecache.Quote
// @Failure      404  {object}  map[string]string
// @Router       /marketdata/quote/{id} [get]
func (h *Handler) getQuote(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}

	if h.quotes != nil {
		if quote, ok, err := h.quotes.Get(c.Request.Context(), id); err == nil && ok {
			c.JSON(http.StatusOK, quote)
			return
		}
	}
	if stock, ok := h.board.Quote(id); ok {
		c.JSON(http.StatusOK, quotecache.Quote{
			StockID:   stock.ID,
			Symbol:    stock.Symbol,
			Price:     stock.CurrentPrice,
			UpdatedAt: stock.UpdatedAt,
		})
		return
	}

	stock, err := h.stocks.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, statusForError(err), err)
		return
	}
	c.JSON(http.StatusOK, quotecache.Quote{
		StockID:   stock.ID,
		Symbol:    stock.Symbol,
		Price:     stock.CurrentPrice,
		UpdatedAt: stock.UpdatedAt,
	})
}

// Helpers

func parseIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errMissingID
	}
	return id, nil
}

func writeError(c *gin.Context, status int, err error) {
	if err == nil {
		status = http.StatusInternalServerError
		err = errors.New("unknown error")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrStockNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrPositionNotFound),
		errors.Is(err, domain.ErrNewsNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInsufficientHoldings):
		return http.StatusUnprocessableEntity
	case errors.Is(err, history.ErrNothingToUndo),
		errors.Is(err, history.ErrNothingToRedo):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// cacheMiddleware caches GET responses in Redis.
func (h *Handler) cacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.cache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := h.cacheKey(c)
		ctx := c.Request.Context()

		if cached, err := h.cache.Get(ctx, key).Result(); err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			c.Abort()
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: c.Writer,
			status:         http.StatusOK,
			body:           &bytes.Buffer{},
		}
		c.Writer = recorder

		c.Next()

		if recorder.status >= 200 && recorder.status < 300 && recorder.body.Len() > 0 {
			_ = h.cache.Set(ctx, key, recorder.body.Bytes(), h.cacheTTL).Err()
		}
	}
}

type responseRecorder struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if len(data) > 0 {
		r.body.Write(data)
	}
	return r.ResponseWriter.Write(data)
}

func (h *Handler) cacheKey(c *gin.Context) string {
	return fmt.Sprintf("cache:%s:%s?%s", c.Request.Method, c.FullPath(), c.Request.URL.RawQuery)
}
