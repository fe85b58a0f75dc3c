package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/senyabanana/freelance-service/internal/bridge"
	"github.com/senyabanana/freelance-service/internal/utils"
)

const maxBridgeBodySize = 65536

// BridgeHandler - структура для обмена сообщениями со встраивающим приложением.
type BridgeHandler struct {
	Bridge    *bridge.Bridge
	Transport *bridge.QueueTransport
	Logger    *log.Logger
}

// NewBridgeHandler создает новый экземпляр BridgeHandler.
func NewBridgeHandler(br *bridge.Bridge, transport *bridge.QueueTransport, logger *log.Logger) *BridgeHandler {
	return &BridgeHandler{
		Bridge:    br,
		Transport: transport,
		Logger:    logger,
	}
}

// GetMessages обрабатывает опрос исходящих сообщений встраивающим приложением.
func (h *BridgeHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	messages := h.Transport.Drain()
	if messages == nil {
		messages = []bridge.Message{}
	}
	respondJSON(h.Logger, w, messages)
}

// PostResponse обрабатывает ответ встраивающего приложения на запрос покупки.
func (h *BridgeHandler) PostResponse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only POST is allowed")
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBridgeBodySize))
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	if err := h.Bridge.HandleInbound(raw); err != nil {
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "delivered"}); err != nil {
		h.Logger.Println(err)
	}
}
