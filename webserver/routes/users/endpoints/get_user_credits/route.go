package get_user_credits

import (
	"net/http"

	"vpsbot/state"
	"vpsbot/types"

	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/uapi"
	"go.uber.org/zap"
)

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Get User Credits",
		Description: "Gets the user's credit balance.",
		Params: []docs.Parameter{
			{
				Name:        "id",
				Description: "User ID",
				Required:    true,
				In:          "path",
				Schema:      docs.IdSchema,
			},
		},
		Resp: types.UserCredits{},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	credits, err := state.Store.GetCredits(d.Context, d.Auth.ID)

	if err != nil {
		state.Logger.Error("Failed to fetch credits [db fetch]", zap.Error(err), zap.String("userId", d.Auth.ID))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	return uapi.HttpResponse{
		Json: types.UserCredits{
			UserID:  d.Auth.ID,
			Credits: credits,
		},
	}
}
