package api

import (
	"net/http" // HTTP status codes

	"storefront/internal/guard"      // Route guard decisions
	"storefront/internal/middleware" // Bearer token extraction
	"storefront/internal/utils"      // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// DefaultEntryPage is where unauthenticated sessions are sent
const DefaultEntryPage = "/"

// resolveSession derives the authentication state from an optional bearer token
func resolveSession(c *gin.Context, secret string) guard.State {
	tokenStr, ok := middleware.BearerToken(c)
	if !ok {
		return guard.Unauthenticated{}
	}
	claims, err := utils.ParseJWT(tokenStr, secret)
	if err != nil {
		return guard.Unauthenticated{} // Expired or forged tokens count as signed out
	}
	return guard.Authenticated{UserID: claims.UserID, Email: claims.Email}
}

// SessionHandler reports the caller's session state and the guard decision
// for a protected view. Never rejects the request.
func SessionHandler(secret, entryPage string) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := resolveSession(c, secret)
		resp := gin.H{
			"state":    state.String(),                 // loading, authenticated or unauthenticated
			"decision": guard.Decide(state, entryPage), // What the view should do
		}
		if auth, ok := state.(guard.Authenticated); ok {
			resp["user_id"] = auth.UserID
			resp["email"] = auth.Email
		}
		c.JSON(http.StatusOK, resp)
	}
}
