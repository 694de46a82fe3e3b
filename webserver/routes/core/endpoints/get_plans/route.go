package get_plans

import (
	"net/http"

	"vpsbot/state"
	"vpsbot/types"

	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/uapi"
)

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Get Plans",
		Description: "Returns the current plan catalog.",
		Resp:        types.PlanListResponse{},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	return uapi.HttpResponse{
		Json: types.PlanListResponse{
			Plans: state.Plans.Snapshot(),
		},
	}
}
