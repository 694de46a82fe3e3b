package core

import (
	"vpsbot/webserver/routes/core/endpoints/get_health"
	"vpsbot/webserver/routes/core/endpoints/get_plans"

	"github.com/go-chi/chi/v5"
	"github.com/infinitybotlist/eureka/uapi"
)

const tagName = "Core"

type Router struct{}

func (b Router) Tag() (string, string) {
	return tagName, "These API endpoints are related to core functionality"
}

func (b Router) Routes(r *chi.Mux) {
	uapi.Route{
		Pattern: "/plans",
		OpId:    "get_plans",
		Method:  uapi.GET,
		Docs:    get_plans.Docs,
		Handler: get_plans.Route,
	}.Route(r)

	uapi.Route{
		Pattern: "/health",
		OpId:    "get_health",
		Method:  uapi.GET,
		Docs:    get_health.Docs,
		Handler: get_health.Route,
	}.Route(r)
}
