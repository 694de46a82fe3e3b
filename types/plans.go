package types

// A plan is a named resource tier offered for container provisioning.
type Plan struct {
	Name   string `json:"name" validate:"required" description:"Display name of the plan."`
	RamMB  int    `json:"ram_mb" validate:"min=0" description:"RAM in megabytes."`
	CPU    int    `json:"cpu" validate:"min=0" description:"Number of CPU cores."`
	DiskGB int    `json:"disk_gb" validate:"min=0" description:"Disk size in gigabytes."`
	Price  int64  `json:"price" validate:"min=0" description:"Price in credits."`
}

type PlanListResponse struct {
	Plans map[string]Plan `json:"plans" description:"The plan catalog, keyed by plan ID"`
}
