// Package apiclient is the typed HTTP client the bot uses to talk to the
// backend API. All responses share the status/message/data envelope, so
// every call decodes through the same path and surfaces failures as
// AppError values the handlers can show to the user.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	apperrors "github.com/geopin/geopin-bot/internal/errors"
)

const apiName = "geopin-api"

type Client struct {
	http *resty.Client
	log  *slog.Logger
}

func New(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient, log: log}
}

// RegisterUser creates the user on first contact or fetches the existing
// record. Created reports whether this was the first contact.
func (c *Client) RegisterUser(ctx context.Context, telegramID int64, username, firstName string) (*RegisterResult, error) {
	body := map[string]interface{}{
		"telegram_id": telegramID,
		"username":    username,
		"first_name":  firstName,
	}

	env, status, err := c.do(ctx, http.MethodPost, "/api/user/add", body)
	if err != nil {
		return nil, err
	}

	var data struct {
		TrainingStage int `json:"training_stage"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, decodeError(err)
	}

	return &RegisterResult{
		TrainingStage: data.TrainingStage,
		Created:       status == http.StatusCreated,
	}, nil
}

// UpdateTrainingStage reports the user's progress through onboarding and
// returns the stage the server settled on. With force false the server
// never moves the stage backwards.
func (c *Client) UpdateTrainingStage(ctx context.Context, telegramID int64, stage int, force bool) (int, error) {
	body := map[string]interface{}{
		"telegram_id":        telegramID,
		"new_training_stage": stage,
		"force":              force,
	}

	env, _, err := c.do(ctx, http.MethodPost, "/api/user/update_training_stage", body)
	if err != nil {
		return 0, err
	}

	var data struct {
		TrainingStage int `json:"training_stage"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return 0, decodeError(err)
	}

	return data.TrainingStage, nil
}

// UserGroups lists the groups the user belongs to.
func (c *Client) UserGroups(ctx context.Context, telegramID int64) ([]Group, error) {
	var groups []Group
	if err := c.getInto(ctx, fmt.Sprintf("/api/user/%d/groups", telegramID), &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// AdminGroups lists the groups the user administers.
func (c *Client) AdminGroups(ctx context.Context, telegramID int64) ([]Group, error) {
	var groups []Group
	if err := c.getInto(ctx, fmt.Sprintf("/api/user/%d/admin-groups", telegramID), &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// CreateGroup creates a group administered by the user and returns its
// invite code.
func (c *Client) CreateGroup(ctx context.Context, telegramID int64, title string) (string, error) {
	body := map[string]interface{}{
		"telegram_id": telegramID,
		"title":       title,
	}

	env, _, err := c.do(ctx, http.MethodPost, "/api/group/create", body)
	if err != nil {
		return "", err
	}

	var data struct {
		GroupLink string `json:"group_link"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return "", decodeError(err)
	}

	return data.GroupLink, nil
}

// JoinGroup adds the user to the group behind the invite code. Joining a
// group the user is already in succeeds with AlreadyMember set.
func (c *Client) JoinGroup(ctx context.Context, groupLink string, telegramID int64) (*JoinResult, error) {
	body := map[string]interface{}{"telegram_id": telegramID}

	env, _, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/group/%s/join", groupLink), body)
	if err != nil {
		return nil, err
	}

	var result JoinResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		return nil, decodeError(err)
	}
	result.Message = env.Message

	return &result, nil
}

// LeaveGroup removes the user's membership in the group.
func (c *Client) LeaveGroup(ctx context.Context, groupID, telegramID int64) error {
	body := map[string]interface{}{"telegram_id": telegramID}
	_, _, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/group/%d/leave", groupID), body)
	return err
}

// DeleteGroup deletes the group and all its memberships. Only the admin
// may do this.
func (c *Client) DeleteGroup(ctx context.Context, groupID, telegramID int64) error {
	body := map[string]interface{}{"telegram_id": telegramID}
	_, _, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/group/%d/delete", groupID), body)
	return err
}

// CheckInvite validates an invite code without joining.
func (c *Client) CheckInvite(ctx context.Context, inviteCode string) (*InviteInfo, error) {
	env, _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/invite/%s/check", inviteCode), nil)
	if err != nil {
		return nil, err
	}

	var info InviteInfo
	if err := json.Unmarshal(env.Data, &info); err != nil {
		return nil, decodeError(err)
	}

	return &info, nil
}

// AddLocation saves a location owned by the user.
func (c *Client) AddLocation(ctx context.Context, telegramID int64, latitude, longitude float64, description string) (*Location, error) {
	body := map[string]interface{}{
		"telegram_id": telegramID,
		"latitude":    latitude,
		"longitude":   longitude,
		"description": description,
	}

	env, _, err := c.do(ctx, http.MethodPost, "/api/location/add", body)
	if err != nil {
		return nil, err
	}

	var loc Location
	if err := json.Unmarshal(env.Data, &loc); err != nil {
		return nil, decodeError(err)
	}

	return &loc, nil
}

// UserLocations lists the user's saved locations.
func (c *Client) UserLocations(ctx context.Context, telegramID int64) ([]Location, error) {
	var locations []Location
	if err := c.getInto(ctx, fmt.Sprintf("/api/user/%d/locations", telegramID), &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// DeleteLocation removes a location the user owns.
func (c *Client) DeleteLocation(ctx context.Context, locationID, telegramID int64) error {
	body := map[string]interface{}{"telegram_id": telegramID}
	_, _, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/location/%d/delete", locationID), body)
	return err
}

// AllMapData returns every saved location with owner attribution.
func (c *Client) AllMapData(ctx context.Context) ([]MapPoint, error) {
	env, _, err := c.do(ctx, http.MethodGet, "/api/all-map-data", nil)
	if err != nil {
		return nil, err
	}

	var data struct {
		Locations []MapPoint `json:"locations"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, decodeError(err)
	}

	return data.Locations, nil
}

func (c *Client) getInto(ctx context.Context, path string, out interface{}) error {
	env, _, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return decodeError(err)
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*envelope, int, error) {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.log.Error("api request failed", "method", method, "path", path, "error", err)
		return nil, 0, apperrors.NewExternalAPIError(apiName, err)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		c.log.Error("api response is not an envelope",
			"method", method, "path", path, "status", resp.StatusCode(), "error", err)
		return nil, resp.StatusCode(), decodeError(err)
	}

	if env.Status != "success" {
		return nil, resp.StatusCode(), errorFromResponse(resp.StatusCode(), env.Message)
	}

	return &env, resp.StatusCode(), nil
}

func decodeError(err error) error {
	return apperrors.NewExternalAPIError(apiName, fmt.Errorf("decode response: %w", err))
}

// errorFromResponse turns an error envelope back into the AppError the
// server-side handler started from, so bot handlers can branch on kind
// and show the server's message as-is.
func errorFromResponse(status int, message string) error {
	var kind apperrors.Kind
	switch status {
	case http.StatusNotFound:
		kind = apperrors.KindNotFound
	case http.StatusForbidden:
		kind = apperrors.KindForbidden
	case http.StatusConflict:
		kind = apperrors.KindConflict
	case http.StatusBadRequest:
		kind = apperrors.KindInvalidInput
	default:
		return apperrors.NewExternalAPIError(apiName, fmt.Errorf("status %d: %s", status, message))
	}

	return &apperrors.AppError{
		Kind:        kind,
		Code:        "E301",
		Message:     fmt.Sprintf("api responded %d: %s", status, message),
		UserMessage: message,
		Severity:    apperrors.SeverityLow,
	}
}
