package handlers

import (
	"context"
	"net/http"
	"time"

	"cryptodb-gateway/internal/api/dto"
	"cryptodb-gateway/internal/api/utils"
	"cryptodb-gateway/internal/config"
	"cryptodb-gateway/internal/db"
	"cryptodb-gateway/internal/logger"
)

func NewHealthHandler(cfg config.Config, log logger.LoggerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			utils.WriteError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := db.TestConnection(ctx, cfg); err != nil {
			if log != nil {
				log.Error("health check failed", err)
			}
			utils.WriteError(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}

		utils.WriteJSON(w, http.StatusOK, dto.StatusResponse{Status: "ok"})
	}
}
