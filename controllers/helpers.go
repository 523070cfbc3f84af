package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopswift/storefront/middleware"
	"github.com/shopswift/storefront/services"
)

// shopperFrom reads the identity resolved by middleware.Identity. It writes
// the error response itself and returns false when none was resolved.
func shopperFrom(ctx *gin.Context) (services.Shopper, bool) {
	key, err := middleware.SessionKey(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found"})
		return services.Shopper{}, false
	}
	userID, _ := middleware.GetUserID(ctx)
	return services.Shopper{SessionKey: key, UserID: userID}, true
}

func respondError(ctx *gin.Context, svcErr *services.ServiceError) {
	body := gin.H{"error": svcErr.Message}
	if len(svcErr.Fields) > 0 {
		body["fields"] = svcErr.Fields
	}
	if svcErr.Values != nil {
		body["values"] = svcErr.Values
	}
	ctx.JSON(svcErr.StatusCode, body)
}

func badRequest(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
}
