package v1

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/patomdq/wallest-operating-system-sub000/internal/config"
	"github.com/patomdq/wallest-operating-system-sub000/internal/services"
)

type connectResponse struct {
	AuthURL string `json:"auth_url"`
}

func (h *handlerImpl) HandleGoogleConnect(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	authURL, err := h.sync.AuthURL(userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to build auth url")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, connectResponse{AuthURL: authURL})
}

// HandleGoogleCallback terminates the consent redirect. It always
// answers with a redirect back to the calendar page, carrying
// google_connected=true or google_error=<reason> in the query.
func (h *handlerImpl) HandleGoogleCallback(c *gin.Context) {
	finalURL := config.Global().Google.FinalRedirectURL

	if reason := c.Query("error"); reason != "" {
		h.logger.Warn().
			Str("reason", reason).
			Msg("google consent denied")
		redirectWithResult(c, finalURL, "google_error", reason)
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		redirectWithResult(c, finalURL, "google_error", "missing_code")
		return
	}

	err := h.sync.Exchange(c, state, code)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to complete google connection")
		reason := "exchange_failed"
		if errors.Is(err, services.ErrInvalidOAuthState) {
			reason = "invalid_state"
		}
		redirectWithResult(c, finalURL, "google_error", reason)
		return
	}

	redirectWithResult(c, finalURL, "google_connected", "true")
}

func redirectWithResult(c *gin.Context, baseURL, key, value string) {
	separator := "?"
	if strings.Contains(baseURL, "?") {
		separator = "&"
	}
	c.Redirect(http.StatusFound,
		baseURL+separator+key+"="+url.QueryEscape(value))
}

func (h *handlerImpl) HandleGoogleStatus(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	status, err := h.sync.Status(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get sync status")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *handlerImpl) HandleGooglePush(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	err := h.sync.PushEvent(c, userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrGoogleNotConnected):
			abort(c, newBadRequestError(services.ErrGoogleNotConnected.Error()))
		case errors.Is(err, services.ErrEventNotFound):
			abort(c, newNotFoundError(services.ErrEventNotFound.Error()))
		default:
			abort(c, newBadGatewayError("failed to push event to google"))
		}
		return
	}
	c.Status(http.StatusNoContent)
}

type pullResponse struct {
	Imported int `json:"imported"`
}

func (h *handlerImpl) HandleGooglePull(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	imported, err := h.sync.PullAll(c, userID)
	if err != nil {
		if errors.Is(err, services.ErrGoogleNotConnected) {
			abort(c, newBadRequestError(services.ErrGoogleNotConnected.Error()))
			return
		}
		abort(c, newBadGatewayError("failed to pull events from google"))
		return
	}
	c.JSON(http.StatusOK, pullResponse{Imported: imported})
}

func (h *handlerImpl) HandleGoogleDisconnect(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	err := h.sync.Disconnect(c, userID)
	if err != nil {
		if errors.Is(err, services.ErrGoogleNotConnected) {
			abort(c, newBadRequestError(services.ErrGoogleNotConnected.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to disconnect google calendar")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}
	c.Status(http.StatusNoContent)
}
