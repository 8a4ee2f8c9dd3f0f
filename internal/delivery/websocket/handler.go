package websocket

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"trendscout-backend/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// Handler streams the current trending list to connected clients.
type Handler struct {
	repo domain.ProductRepository
}

func NewHandler(repo domain.ProductRepository) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}
	defer conn.Close()

	log.Println("New client connected")

	// Send initial data immediately
	if err := h.writeTrending(r.Context(), conn); err != nil {
		log.Println("Write error:", err)
		return
	}

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if err := h.writeTrending(r.Context(), conn); err != nil {
			log.Println("Write error:", err)
			return
		}
	}
}

func (h *Handler) writeTrending(ctx context.Context, conn *websocket.Conn) error {
	products, err := h.repo.GetTrendingProducts(ctx, domain.TrendingQuery{Limit: 50})
	if err != nil {
		return err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return conn.WriteJSON(products)
}
