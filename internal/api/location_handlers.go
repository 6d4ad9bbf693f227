package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type addLocationRequest struct {
	TelegramID  int64    `json:"telegram_id" binding:"required"`
	Latitude    *float64 `json:"latitude" binding:"required"`
	Longitude   *float64 `json:"longitude" binding:"required"`
	Description string   `json:"description" binding:"required"`
}

func (h *Handler) addLocation(c *gin.Context) {
	var req addLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Отсутствуют обязательные поля", err.Error())
		return
	}

	created, err := h.locations.Add(c.Request.Context(), req.TelegramID, *req.Latitude, *req.Longitude, req.Description)
	if err != nil {
		respondAppError(c, err, "Ошибка при добавлении локации")
		return
	}

	respondSuccess(c, http.StatusCreated, "Локация добавлена", toLocationSummary(*created))
}

func (h *Handler) deleteLocation(c *gin.Context) {
	raw := c.Param("location_id")
	locationID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || locationID <= 0 {
		respondError(c, http.StatusBadRequest, "Неверный идентификатор локации", "")
		return
	}

	var req memberActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Требуется telegram_id пользователя", err.Error())
		return
	}

	if err := h.locations.Delete(c.Request.Context(), locationID, req.TelegramID); err != nil {
		respondAppError(c, err, "Локация не найдена или не принадлежит вам")
		return
	}

	respondSuccess(c, http.StatusOK, "Локация успешно удалена", nil)
}

func (h *Handler) allMapData(c *gin.Context) {
	points, err := h.locations.MapData(c.Request.Context())
	if err != nil {
		respondAppError(c, err, "Ошибка при получении данных карты")
		return
	}

	respondSuccess(c, http.StatusOK, "Данные карты получены", gin.H{"locations": points})
}
