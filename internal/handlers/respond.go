package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/senyabanana/freelance-service/internal/models"
	"github.com/senyabanana/freelance-service/internal/utils"
)

// respondError пишет ошибку сервиса клиенту. Ошибки со статусом уходят как есть,
// остальные скрываются за общим сообщением.
func respondError(logger *log.Logger, w http.ResponseWriter, err error, fallback string) {
	logger.Println(err)
	if errorResponse, ok := err.(*models.ErrorResponse); ok {
		utils.SendError(w, errorResponse)
		return
	}
	utils.SendErrorResponse(w, http.StatusInternalServerError, fallback)
}

func respondJSON(logger *log.Logger, w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Println(err)
	}
}
