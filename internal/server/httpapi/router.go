package httpapi

import "github.com/gin-gonic/gin"

// Router builds the gin engine with all public routes mounted.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/challenge", h.postChallenge)
		authGroup.POST("/session", h.postSession)
	}

	storeGroup := v1.Group("/store", h.requireAuth())
	{
		storeGroup.PUT("/:key", h.putValue)
		storeGroup.GET("/:key", h.getValue)
		storeGroup.DELETE("/:key", h.deleteValue)
		storeGroup.POST("/presign", h.postPresign)
	}

	nickGroup := v1.Group("/nicknames")
	{
		nickGroup.GET("/address/:address", h.getNicknameByAddress)
		nickGroup.GET("/check", h.getNicknameCheck)
		nickGroup.POST("/claim", h.postNicknameClaim)
	}

	return r
}
