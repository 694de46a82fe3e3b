package users

import (
	"vpsbot/types"
	"vpsbot/webserver/routes/users/endpoints/get_user_credits"

	"github.com/go-chi/chi/v5"
	"github.com/infinitybotlist/eureka/uapi"
)

const tagName = "Users"

type Router struct{}

func (b Router) Tag() (string, string) {
	return tagName, "These API endpoints are related to users"
}

func (b Router) Routes(r *chi.Mux) {
	uapi.Route{
		Pattern: "/users/{id}/credits",
		OpId:    "get_user_credits",
		Method:  uapi.GET,
		Docs:    get_user_credits.Docs,
		Handler: get_user_credits.Route,
		Auth: []uapi.AuthType{
			{
				URLVar: "id",
				Type:   types.TargetTypeUser,
			},
		},
	}.Route(r)
}
