package get_instance

import (
	"errors"
	"net/http"
	"strconv"

	"vpsbot/state"
	"vpsbot/store"
	"vpsbot/types"

	"github.com/go-chi/chi/v5"
	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/hotcache"
	"github.com/infinitybotlist/eureka/uapi"
	"go.uber.org/zap"
)

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Get Instance",
		Description: "Gets a single VPS instance by ID. The status field is served from the reconciler's hot cache when available.",
		Params: []docs.Parameter{
			{
				Name:        "id",
				Description: "User ID",
				Required:    true,
				In:          "path",
				Schema:      docs.IdSchema,
			},
			{
				Name:        "iid",
				Description: "Instance ID",
				Required:    true,
				In:          "path",
				Schema:      docs.IdSchema,
			},
		},
		Resp: types.Instance{},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	iid, err := strconv.ParseInt(chi.URLParam(r, "iid"), 10, 64)

	if err != nil {
		return uapi.HttpResponse{
			Status: http.StatusBadRequest,
			Json:   types.ApiError{Message: "Instance ID must be an integer"},
		}
	}

	inst, err := state.Store.GetInstance(d.Context, iid)

	if errors.Is(err, store.ErrInstanceNotFound) {
		return uapi.DefaultResponse(http.StatusNotFound)
	}

	if err != nil {
		state.Logger.Error("Failed to fetch instance [db fetch]", zap.Error(err), zap.Int64("instanceId", iid))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	if inst.UserID != d.Auth.ID {
		return uapi.DefaultResponse(http.StatusNotFound)
	}

	status, err := state.StatusCache.Get(d.Context, inst.ContainerName)

	if err != nil && !errors.Is(err, hotcache.ErrHotCacheDataNotFound) {
		state.Logger.Warn("Error reading status cache", zap.Error(err), zap.String("container", inst.ContainerName))
	}

	if status != nil {
		inst.Status = *status
	}

	return uapi.HttpResponse{
		Json: *inst,
	}
}
