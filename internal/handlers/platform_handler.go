package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/senyabanana/freelance-service/internal/models"
	"github.com/senyabanana/freelance-service/internal/platform"
	"github.com/senyabanana/freelance-service/internal/utils"
)

// PlatformHandler обрабатывает GET запрос к /api/platform.
// Возвращает платформу клиента и канал оплаты, выбранный для нее.
func PlatformHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	userAgent := r.UserAgent()
	touchPoints, _ := strconv.Atoi(r.URL.Query().Get("touchPoints"))

	pc := platform.NewContext(func() models.PlatformInfo {
		return platform.Detect(userAgent, touchPoints)
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(pc); err != nil {
		log.Println(err)
	}
}
