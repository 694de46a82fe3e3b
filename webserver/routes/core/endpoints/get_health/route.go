package get_health

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
		Summary:     "Get Health",
		Description: "Reports reachability of postgres/redis and whether the lxc backend is real or faked.",
		Resp:        types.HealthResponse{},
	}
}

func Route(d uapi.RouteData, r *http.Request) uapi.HttpResponse {
	resp := types.HealthResponse{
		Postgres: true,
		Redis:    true,
		LXCMode:  "real",
	}

	if err := state.Pool.Ping(d.Context); err != nil {
		state.Logger.Error("Postgres health check failed", zap.Error(err))
		resp.Postgres = false
	}

	if err := state.Rueidis.Do(d.Context, state.Rueidis.B().Ping().Build()).Error(); err != nil {
		state.Logger.Error("Redis health check failed", zap.Error(err))
		resp.Redis = false
	}

	if state.LXC.Faked() {
		resp.LXCMode = "fake"
	}

	status := http.StatusOK

	if !resp.Postgres || !resp.Redis {
		status = http.StatusServiceUnavailable
	}

	return uapi.HttpResponse{
		Status: status,
		Json:   resp,
	}
}
