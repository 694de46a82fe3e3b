package create_instance_action

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"vpsbot/state"
	"vpsbot/store"
	"vpsbot/types"

	"github.com/go-chi/chi/v5"
	docs "github.com/infinitybotlist/eureka/doclib"
	"github.com/infinitybotlist/eureka/ratelimit"
	"github.com/infinitybotlist/eureka/uapi"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func Docs() *docs.Doc {
	return &docs.Doc{
		Summary:     "Create Instance Action",
		Description: "Runs a lifecycle action (start/stop/restart) on an instance's container. Deletion is bot-only.",
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
		Req:  types.InstanceActionRequest{},
		Resp: types.InstanceActionResponse{},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	limit, err := ratelimit.Ratelimit{
		Expiry:      1 * time.Minute,
		MaxRequests: 5,
		Bucket:      "instance_action",
	}.Limit(d.Context, r)

	if err != nil {
		state.Logger.Error("Error while ratelimiting", zap.Error(err), zap.String("bucket", "instance_action"))
		return uapi.DefaultResponse(http.StatusInternalServerError)
	}

	if limit.Exceeded {
		return uapi.HttpResponse{
			Json: types.ApiError{
				Message: "You are being ratelimited. Please try again in " + limit.TimeToReset.String(),
			},
			Headers: limit.Headers(),
			Status:  http.StatusTooManyRequests,
		}
	}

	iid, err := strconv.ParseInt(chi.URLParam(r, "iid"), 10, 64)

	if err != nil {
		return uapi.HttpResponse{
			Status: http.StatusBadRequest,
			Json:   types.ApiError{Message: "Instance ID must be an integer"},
		}
	}

	body, err := io.ReadAll(r.Body)

	if err != nil {
		return uapi.DefaultResponse(http.StatusBadRequest)
	}

	var req types.InstanceActionRequest

	if err := json.Unmarshal(body, &req); err != nil {
		return uapi.HttpResponse{
			Status: http.StatusBadRequest,
			Json:   types.ApiError{Message: "Invalid request body"},
		}
	}

	if err := state.Validator.Struct(req); err != nil {
		return uapi.HttpResponse{
			Status: http.StatusBadRequest,
			Json:   types.ApiError{Message: "Invalid action: " + err.Error()},
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

	out, err := state.LXC.Action(d.Context, inst.ContainerName, req.Action)

	if err != nil {
		return uapi.HttpResponse{
			Status: http.StatusBadGateway,
			Json:   types.ApiError{Message: "Action failed: " + err.Error()},
		}
	}

	// Refresh stored status right away instead of waiting on the reconciler
	status, err := state.LXC.Status(d.Context, inst.ContainerName)

	if err == nil {
		if err := state.Store.UpdateInstanceStatus(d.Context, inst.ID, status); err != nil {
			state.Logger.Warn("Error updating instance status", zap.Error(err), zap.Int64("instanceId", inst.ID))
		}

		if err := state.StatusCache.Set(d.Context, inst.ContainerName, &status, state.StatusCacheExpiry); err != nil {
			state.Logger.Warn("Error caching container status", zap.Error(err), zap.String("container", inst.ContainerName))
		}
	}

	return uapi.HttpResponse{
		Json: types.InstanceActionResponse{
			Output: out,
		},
	}
}
