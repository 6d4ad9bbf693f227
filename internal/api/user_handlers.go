package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type addUserRequest struct {
	TelegramID int64  `json:"telegram_id" binding:"required"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
}

type updateStageRequest struct {
	TelegramID       int64 `json:"telegram_id" binding:"required"`
	NewTrainingStage *int  `json:"new_training_stage" binding:"required"`
	// Force bypasses the monotonic guard; used by the explicit
	// skip_training and repeat_training commands.
	Force bool `json:"force"`
}

// addUser registers a user on first contact. Re-registering an existing
// telegram_id is not an error and returns the stored training stage.
func (h *Handler) addUser(c *gin.Context) {
	var req addUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Поле telegram_id обязательно.", err.Error())
		return
	}

	userRecord, created, err := h.users.RegisterOrFetch(c.Request.Context(), req.TelegramID, req.Username, req.FirstName)
	if err != nil {
		respondAppError(c, err, "Ошибка при создании пользователя.")
		return
	}

	data := gin.H{"training_stage": userRecord.TrainingStage}
	if created {
		respondSuccess(c, http.StatusCreated, "Пользователь успешно добавлен.", data)
		return
	}

	respondSuccess(c, http.StatusOK, "Пользователь уже существует.", data)
}

func (h *Handler) updateTrainingStage(c *gin.Context) {
	var req updateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Обязательные поля: telegram_id и new_training_stage", err.Error())
		return
	}

	stage, err := h.users.UpdateTrainingStage(c.Request.Context(), req.TelegramID, *req.NewTrainingStage, req.Force)
	if err != nil {
		respondAppError(c, err, "Ошибка при обновлении стадии обучения")
		return
	}

	respondSuccess(c, http.StatusOK, "Стадия обучения обновлена", gin.H{"training_stage": int(stage)})
}

func (h *Handler) userGroups(c *gin.Context) {
	telegramID, ok := telegramIDParam(c)
	if !ok {
		return
	}

	groups, err := h.groups.ListForMember(c.Request.Context(), telegramID)
	if err != nil {
		respondAppError(c, err, "Ошибка при получении групп пользователя")
		return
	}

	respondSuccess(c, http.StatusOK, "Группы пользователя получены", toGroupSummaries(groups))
}

func (h *Handler) adminGroups(c *gin.Context) {
	telegramID, ok := telegramIDParam(c)
	if !ok {
		return
	}

	groups, err := h.groups.ListAdministered(c.Request.Context(), telegramID)
	if err != nil {
		respondAppError(c, err, "Ошибка при получении групп администратора")
		return
	}

	respondSuccess(c, http.StatusOK, "Группы администратора получены", toGroupSummaries(groups))
}

func (h *Handler) userLocations(c *gin.Context) {
	telegramID, ok := telegramIDParam(c)
	if !ok {
		return
	}

	locations, err := h.locations.ListForUser(c.Request.Context(), telegramID)
	if err != nil {
		respondAppError(c, err, "Ошибка при получении локаций")
		return
	}

	respondSuccess(c, http.StatusOK, "Локации пользователя получены", toLocationSummaries(locations))
}

func telegramIDParam(c *gin.Context) (int64, bool) {
	raw := c.Param("telegram_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "Неверный telegram_id", "")
		return 0, false
	}

	return id, true
}
