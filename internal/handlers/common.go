package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/listkeep-dev/listkeep/internal/apperrors"
	"github.com/listkeep-dev/listkeep/internal/auth"
)

var (
	Domain = os.Getenv("DOMAIN")
)

// handleError maps a typed application error to its HTTP status. Internal
// failures are logged server-side and surface as a generic message.
func handleError(ctx *gin.Context, err error) {
	var appErr *apperrors.Error

	if errors.As(err, &appErr) && appErr.Kind != apperrors.KindInternal {
		ctx.JSON(appErr.Kind.HTTPStatus(), gin.H{"error": appErr.Message})
		return
	}

	log.Printf("internal error: %v", err)
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func setAuthCookie(ctx *gin.Context, token string) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Domain:   Domain,
		MaxAge:   int(auth.TokenTTL.Seconds()),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

func clearAuthCookie(ctx *gin.Context) {
	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   Domain,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

func paramID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)

	if err != nil {
		return 0, false
	}

	return uint(id), true
}
