package routes

import (
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"
	"github.com/julienschmidt/httprouter"

	"gymgraph/ratelim"
	"gymgraph/utils"
)

// AddGraphQLRoutes mounts the API endpoint. POST executes operations,
// GET serves the playground.
func AddGraphQLRoutes(router *httprouter.Router, root graphql.Schema, rateLimiter *ratelim.RateLimiter) {
	h := handler.New(&handler.Config{
		Schema:     &root,
		Pretty:     true,
		Playground: true,
	})

	serve := func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		h.ServeHTTP(w, r)
	}
	router.POST("/graphql", rateLimiter.Limit(serve))
	router.GET("/graphql", serve)
}

func AddUtilityRoutes(router *httprouter.Router) {
	router.GET("/health", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
	})
}
