package http

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"finsight-trading/internal/dto"

	"github.com/labstack/echo/v4"
)

// The callback endpoint is a browser-facing redirect target, so it renders
// HTML rather than JSON.
var callbackSuccessPage = template.Must(template.New("success").Parse(`<html>
<head><title>Schwab API Authorization Successful</title></head>
<body>
<h2>Authorization Successful</h2>
<p>Your Schwab API connection has been established.</p>
<p>You can now close this window and return to the application.</p>
</body>
</html>`))

var callbackFailurePage = template.Must(template.New("failure").Parse(`<html>
<head><title>Schwab API Authorization Failed</title></head>
<body>
<h2>Authorization Failed</h2>
<p>{{.Reason}}</p>
<p><a href="/api/auth/schwab/login">Try Again</a></p>
</body>
</html>`))

func (h *HttpAPIHandler) SetupAuth(base *echo.Group) {
	schwab := base.Group("/auth/schwab")
	{
		schwab.GET("/login", h.SchwabLogin)
		schwab.GET("/callback", h.SchwabCallback)
		schwab.GET("/status", h.SchwabStatus)
		schwab.POST("/logout", h.SchwabLogout)
		schwab.GET("/refresh", h.SchwabRefresh)
	}
}

// SchwabLogin starts the OAuth flow by redirecting to the consent page.
func (h *HttpAPIHandler) SchwabLogin(c echo.Context) error {
	url, err := h.service.AuthService.LoginURL(c.Request().Context())
	if err != nil {
		return h.errorResponse(c, err)
	}
	return c.Redirect(http.StatusFound, url)
}

// SchwabCallback handles the OAuth redirect and exchanges the code for
// tokens.
func (h *HttpAPIHandler) SchwabCallback(c echo.Context) error {
	oauthError := c.QueryParam("error")
	if oauthError != "" {
		description := c.QueryParam("error_description")
		if description == "" {
			description = "No description provided"
		}
		return h.renderCallbackFailure(c, http.StatusBadRequest,
			fmt.Sprintf("Error: %s. Description: %s", oauthError, description))
	}

	code := c.QueryParam("code")
	if code == "" {
		return h.renderCallbackFailure(c, http.StatusBadRequest, "No authorization code received from Schwab.")
	}

	if err := h.service.AuthService.HandleCallback(c.Request().Context(), code); err != nil {
		return h.renderCallbackFailure(c, http.StatusInternalServerError,
			fmt.Sprintf("An error occurred during authorization: %s", err.Error()))
	}

	var page strings.Builder
	if err := callbackSuccessPage.Execute(&page, nil); err != nil {
		return h.errorResponse(c, err)
	}
	return c.HTML(http.StatusOK, page.String())
}

func (h *HttpAPIHandler) SchwabStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.AuthService.Status(c.Request().Context()))
}

func (h *HttpAPIHandler) SchwabLogout(c echo.Context) error {
	if err := h.service.AuthService.Logout(c.Request().Context()); err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Successfully logged out from Schwab API"})
}

func (h *HttpAPIHandler) SchwabRefresh(c echo.Context) error {
	if err := h.service.AuthService.Refresh(c.Request().Context()); err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Token refreshed successfully"})
}

func (h *HttpAPIHandler) renderCallbackFailure(c echo.Context, status int, reason string) error {
	var page strings.Builder
	err := callbackFailurePage.Execute(&page, struct{ Reason string }{Reason: reason})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}
	return c.HTML(status, page.String())
}
