package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/AnasAnwaar/StockExchange-DP/internal/application/history"
	"github.com/AnasAnwaar/StockExchange-DP/internal/application/service/market"
	"github.com/AnasAnwaar/StockExchange-DP/internal/application/service/news"
	"github.com/AnasAnwaar/StockExchange-DP/internal/application/service/orders"
	"github.com/AnasAnwaar/StockExchange-DP/internal/application/service/stocks"
	"github.com/AnasAnwaar/StockExchange-DP/internal/application/service/users"
	domain "github.com/AnasAnwaar/StockExchange-DP/internal/domain/entity/ledger"
	"github.com/AnasAnwaar/StockExchange-DP/internal/infrastructure/ledger/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupHandler(t *testing.T) *Handler {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	store := memory.NewStore()
	board := market.NewBoard(logger)
	board.Attach(market.NewStorePersister(store, logger))

	engine := orders.NewService(store, board, logger)
	hist := history.New(logger)
	stockSvc := stocks.NewService(store, board)
	userSvc := users.NewService(store)
	newsSvc := news.NewService(store)

	return NewHandler(engine, hist, stockSvc, userSvc, newsSvc, board, nil, nil, 0)
}

func doJSON(t *testing.T, h *Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestOrderFlow(t *testing.T) {
	h := setupHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/users/", gin.H{
		"username": "alice", "balance": "1000",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user = %d: %s", rec.Code, rec.Body.String())
	}
	user := decodeBody[domain.User](t, rec)

	rec = doJSON(t, h, http.MethodPost, "/api/v1/stocks/", gin.H{
		"kind": "equity", "name": "Apple", "symbol": "AAPL", "price": "10",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create stock = %d: %s", rec.Code, rec.Body.String())
	}
	stock := decodeBody[domain.Stock](t, rec)

	rec = doJSON(t, h, http.MethodPost, "/api/v1/orders/buy", gin.H{
		"user_id": user.ID, "stock_id": stock.ID, "quantity": 50, "price": "10",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("buy = %d: %s", rec.Code, rec.Body.String())
	}
	result := decodeBody[map[string]string](t, rec)
	wantDescription := fmt.Sprintf("Buy 50 shares of stock %d at 10 for user %d", stock.ID, user.ID)
	if result["description"] != wantDescription {
		t.Errorf("description = %q, want %q", result["description"], wantDescription)
	}

	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", user.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get user = %d", rec.Code)
	}
	refreshed := decodeBody[domain.User](t, rec)
	if !refreshed.Balance.Equal(decimal.NewFromInt(500)) {
		t.Errorf("balance = %s, want 500", refreshed.Balance)
	}

	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/portfolio", user.ID), nil)
	positions := decodeBody[[]domain.Position](t, rec)
	if len(positions) != 1 || positions[0].Quantity != 50 {
		t.Fatalf("portfolio = %+v, want one position of 50", positions)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/v1/orders/undo", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("undo = %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/users/%d/portfolio", user.ID), nil)
	positions = decodeBody[[]domain.Position](t, rec)
	if len(positions) != 0 {
		t.Fatalf("portfolio after undo = %+v, want empty", positions)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/v1/orders/redo", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("redo = %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, h, http.MethodPost, "/api/v1/orders/redo", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second redo = %d, want 409", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/orders/history", nil)
	hist := decodeBody[map[string][]string](t, rec)
	if len(hist["commands"]) != 1 {
		t.Fatalf("history = %v, want one command", hist["commands"])
	}
}

func TestOrderErrorMapping(t *testing.T) {
	h := setupHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/users/", gin.H{
		"username": "bob", "balance": "5",
	})
	user := decodeBody[domain.User](t, rec)
	rec = doJSON(t, h, http.MethodPost, "/api/v1/stocks/", gin.H{
		"kind": "equity", "name": "Apple", "symbol": "AAPL", "price": "10",
	})
	stock := decodeBody[domain.Stock](t, rec)

	testCases := []struct {
		name     string
		payload  gin.H
		path     string
		wantCode int
	}{
		{
			name:     "insufficient funds",
			path:     "/api/v1/orders/buy",
			payload:  gin.H{"user_id": user.ID, "stock_id": stock.ID, "quantity": 1, "price": "10"},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "insufficient holdings",
			path:     "/api/v1/orders/sell",
			payload:  gin.H{"user_id": user.ID, "stock_id": stock.ID, "quantity": 1, "price": "10"},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "unknown stock",
			path:     "/api/v1/orders/buy",
			payload:  gin.H{"user_id": user.ID, "stock_id": stock.ID + 99, "quantity": 1, "price": "1"},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "unknown user",
			path:     "/api/v1/orders/buy",
			payload:  gin.H{"user_id": user.ID + 99, "stock_id": stock.ID, "quantity": 1, "price": "1"},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "negative price",
			path:     "/api/v1/orders/buy",
			payload:  gin.H{"user_id": user.ID, "stock_id": stock.ID, "quantity": 1, "price": "-1"},
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, tc.path, tc.payload)
			if rec.Code != tc.wantCode {
				t.Errorf("status = %d, want %d: %s", rec.Code, tc.wantCode, rec.Body.String())
			}
		})
	}

	rec = doJSON(t, h, http.MethodPost, "/api/v1/orders/undo", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("undo with empty history = %d, want 409", rec.Code)
	}
}

func TestStockListingSorts(t *testing.T) {
	h := setupHandler(t)

	for _, seed := range []gin.H{
		{"kind": "equity", "name": "Microsoft", "symbol": "MSFT", "price": "400"},
		{"kind": "equity", "name": "Apple", "symbol": "AAPL", "price": "190"},
	} {
		if rec := doJSON(t, h, http.MethodPost, "/api/v1/stocks/", seed); rec.Code != http.StatusCreated {
			t.Fatalf("create stock = %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, h, http.MethodGet, "/api/v1/stocks/?sort=price_desc", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d", rec.Code)
	}
	list := decodeBody[[]domain.Stock](t, rec)
	if len(list) != 2 || list[0].Symbol != "MSFT" {
		t.Fatalf("sorted list = %+v, want MSFT first", list)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/stocks/?sort=sideways", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad sort = %d, want 400", rec.Code)
	}
}

func TestQuoteEndpointFallsBackToBoard(t *testing.T) {
	h := setupHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/stocks/", gin.H{
		"kind": "equity", "name": "Apple", "symbol": "AAPL", "price": "150",
	})
	stock := decodeBody[domain.Stock](t, rec)

	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/v1/marketdata/quote/%d", stock.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("quote = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/api/v1/marketdata/quote/9999", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("quote for unknown stock = %d, want 404", rec.Code)
	}
}

func TestNewsFlow(t *testing.T) {
	h := setupHandler(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/news/", gin.H{
		"title": "Markets rally", "content": "Everything is up.",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("publish = %d: %s", rec.Code, rec.Body.String())
	}
	item := decodeBody[domain.MarketNews](t, rec)

	rec = doJSON(t, h, http.MethodGet, "/api/v1/news/", nil)
	items := decodeBody[[]domain.MarketNews](t, rec)
	if len(items) != 1 || items[0].Title != "Markets rally" {
		t.Fatalf("news = %+v, want the published item", items)
	}

	rec = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/v1/news/%d", item.ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/v1/news/%d", item.ID), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete = %d, want 404", rec.Code)
	}
}
