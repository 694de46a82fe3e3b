package types

import "time"

// @ci table=instances
//
// An instance is a single LXC container rented out to a user.
type Instance struct {
	ID            int64     `db:"id" json:"id" description:"The instance ID."`
	UserID        string    `db:"user_id" json:"user_id" validate:"required" description:"The Discord ID of the owning user."`
	ContainerName string    `db:"container_name" json:"container_name" validate:"required" description:"The LXC container name backing this instance."`
	Plan          string    `db:"plan" json:"plan" validate:"required" description:"The plan the instance was provisioned under."`
	RamMB         int       `db:"ram_mb" json:"ram_mb" validate:"min=0" description:"RAM limit in megabytes."`
	CPUCores      int       `db:"cpu_cores" json:"cpu_cores" validate:"min=0" description:"CPU core limit."`
	Arch          string    `db:"arch" json:"arch" description:"Requested architecture."`
	Status        string    `db:"status" json:"status" description:"Last known container status."`
	CreatedAt     time.Time `db:"created_at" json:"created_at" description:"The time the instance was created."`
}

type InstanceListResponse struct {
	Instances []Instance `json:"instances" description:"The list of instances"`
}

type InstanceActionRequest struct {
	Action string `json:"action" validate:"required,oneof=start stop restart" description:"The action to perform on the container (start/stop/restart)."`
}

type InstanceActionResponse struct {
	Output string `json:"output" description:"Output of the lxc command, if any."`
}

type UserCredits struct {
	UserID  string `db:"user_id" json:"user_id" description:"The Discord ID of the user."`
	Credits int64  `db:"credits" json:"credits" description:"The user's current credit balance."`
}

type HealthResponse struct {
	Postgres bool   `json:"postgres" description:"Whether postgres is reachable"`
	Redis    bool   `json:"redis" description:"Whether redis is reachable"`
	LXCMode  string `json:"lxc_mode" description:"Whether the lxc backend is real or faked"`
}
