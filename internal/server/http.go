package server

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/Golloumette/escape-game/internal/relay"
	"github.com/Golloumette/escape-game/internal/version"
	"github.com/Golloumette/escape-game/pkg/logger"
)

const httpTimeout = 30 * time.Second

type Server struct {
	Relay *relay.Service
	Bind  string
	Port  int

	// PublicURL — адрес, по которому игроки заходят с телефонов.
	// Нужен только для QR-эндпоинта.
	PublicURL string
}

func New(svc *relay.Service, bind string, port int, publicURL string) *Server {
	return &Server{
		Relay:     svc,
		Bind:      bind,
		Port:      port,
		PublicURL: publicURL,
	}
}

// Handler собирает роутер. Вынесен отдельно, чтобы тесты могли поднять
// сервер через httptest без слушающего сокета.
func (s *Server) Handler() http.Handler {
	mux := httprouter.New()

	mux.GET("/ws", enableCORS(s.handleWS))
	mux.GET("/health", enableCORS(s.handleHealth))
	mux.GET("/version", enableCORS(s.handleVersion))
	mux.GET("/rooms/:room/qr", enableCORS(s.handleRoomQR))

	return mux
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	addr := net.JoinHostPort(s.Bind, strconv.Itoa(s.Port))

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		IdleTimeout:       10 * time.Minute,
		ReadHeaderTimeout: httpTimeout,
	}

	logger.Log.Infof("🚪 Escape relay running on %s", addr)
	return srv.ListenAndServe()
}

func enableCORS(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r, p)
	}
}

// handleWS обрабатывает подключение по WebSocket
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("Upgrade error:", err)
		return
	}

	client := NewClient(s.Relay, conn)

	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(version.Info())
}

// handleRoomQR отдает PNG с QR-кодом ссылки на комнату. Без публичного
// адреса кодировать нечего: 503, а не QR на localhost.
func (s *Server) handleRoomQR(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if s.PublicURL == "" {
		http.Error(w, "public url is not configured", http.StatusServiceUnavailable)
		return
	}

	target := s.PublicURL + "/?room=" + url.QueryEscape(p.ByName("room"))

	const qrSize = 320 // под экран телефона
	png, err := qrcode.Encode(target, qrcode.Medium, qrSize)
	if err != nil {
		logger.Log.WithError(err).Error("qr generation failed")
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
