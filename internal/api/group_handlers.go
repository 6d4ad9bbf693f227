package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type createGroupRequest struct {
	TelegramID int64  `json:"telegram_id" binding:"required"`
	Title      string `json:"title" binding:"required"`
}

type memberActionRequest struct {
	TelegramID int64 `json:"telegram_id" binding:"required"`
}

func (h *Handler) createGroup(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Отсутствуют обязательные поля: telegram_id и title", err.Error())
		return
	}

	created, err := h.groups.Create(c.Request.Context(), req.TelegramID, req.Title)
	if err != nil {
		respondAppError(c, err, "Ошибка при создании группы")
		return
	}

	respondSuccess(c, http.StatusCreated,
		fmt.Sprintf("Группа %q создана успешно", created.Title),
		gin.H{"group_link": created.GroupLink},
	)
}

func (h *Handler) deleteGroup(c *gin.Context) {
	groupID, ok := groupIDParam(c)
	if !ok {
		return
	}

	var req memberActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Требуется telegram_id администратора", err.Error())
		return
	}

	if err := h.groups.Delete(c.Request.Context(), groupID, req.TelegramID); err != nil {
		respondAppError(c, err, "Группа не найдена или у вас нет прав")
		return
	}

	respondSuccess(c, http.StatusOK, "Группа успешно удалена", nil)
}

func (h *Handler) joinGroup(c *gin.Context) {
	groupLink := c.Param("group_link")

	var req memberActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Требуется telegram_id пользователя", err.Error())
		return
	}

	result, err := h.groups.Join(c.Request.Context(), groupLink, req.TelegramID)
	if err != nil {
		respondAppError(c, err, fmt.Sprintf("Группа %s не найдена", groupLink))
		return
	}

	if result.AlreadyMember {
		respondSuccess(c, http.StatusOK, "Пользователь уже в группе", gin.H{"already_member": true})
		return
	}

	respondSuccess(c, http.StatusCreated,
		fmt.Sprintf("Пользователь добавлен в группу %s", result.Group.Title),
		gin.H{"already_member": false},
	)
}

func (h *Handler) leaveGroup(c *gin.Context) {
	groupID, ok := groupIDParam(c)
	if !ok {
		return
	}

	var req memberActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Требуется telegram_id пользователя", err.Error())
		return
	}

	if err := h.groups.Leave(c.Request.Context(), groupID, req.TelegramID); err != nil {
		respondAppError(c, err, "Пользователь не состоит в группе")
		return
	}

	respondSuccess(c, http.StatusOK, "Вы покинули группу", nil)
}

// checkInvite is a read-only, side-effect free invite validation.
func (h *Handler) checkInvite(c *gin.Context) {
	inviteCode := c.Param("invite_code")

	group, err := h.groups.CheckInvite(c.Request.Context(), inviteCode)
	if err != nil {
		respondAppError(c, err, "Код приглашения недействителен")
		return
	}

	respondSuccess(c, http.StatusOK, "Код приглашения действителен", InviteCheck{
		GroupID:    group.ID,
		GroupTitle: group.Title,
	})
}

func groupIDParam(c *gin.Context) (int64, bool) {
	raw := c.Param("group_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "Неверный идентификатор группы", "")
		return 0, false
	}

	return id, true
}
