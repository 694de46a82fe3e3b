package instances

import (
	"vpsbot/types"
	"vpsbot/webserver/routes/instances/endpoints/create_instance_action"
	"vpsbot/webserver/routes/instances/endpoints/get_instance"
	"vpsbot/webserver/routes/instances/endpoints/get_instance_list"

	"github.com/go-chi/chi/v5"
	"github.com/infinitybotlist/eureka/uapi"
)

const tagName = "Instances"

type Router struct{}

func (b Router) Tag() (string, string) {
	return tagName, "These API endpoints are related to VPS instances"
}

func (b Router) Routes(r *chi.Mux) {
	uapi.Route{
		Pattern: "/users/{id}/instances",
		OpId:    "get_instance_list",
		Method:  uapi.GET,
		Docs:    get_instance_list.Docs,
		Handler: get_instance_list.Route,
		Auth: []uapi.AuthType{
			{
				URLVar: "id",
				Type:   types.TargetTypeUser,
			},
		},
	}.Route(r)

	uapi.Route{
		Pattern: "/users/{id}/instances/{iid}",
		OpId:    "get_instance",
		Method:  uapi.GET,
		Docs:    get_instance.Docs,
		Handler: get_instance.Route,
		Auth: []uapi.AuthType{
			{
				URLVar: "id",
				Type:   types.TargetTypeUser,
			},
		},
	}.Route(r)

	uapi.Route{
		Pattern: "/users/{id}/instances/{iid}/action",
		OpId:    "create_instance_action",
		Method:  uapi.POST,
		Docs:    create_instance_action.Docs,
		Handler: create_instance_action.Route,
		Auth: []uapi.AuthType{
			{
				URLVar: "id",
				Type:   types.TargetTypeUser,
			},
		},
	}.Route(r)
}
