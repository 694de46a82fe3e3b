package config

import (
	_ "embed"
	"strings"
)

const (
	CurrentEnvProd    = "prod"
	CurrentEnvStaging = "staging"
)

//go:embed current-env
var CurrentEnv string

func init() {
	CurrentEnv = strings.TrimSpace(CurrentEnv)

	if CurrentEnv != CurrentEnvProd && CurrentEnv != CurrentEnvStaging {
		panic("invalid environment")
	}
}

// Common struct for values that differ between staging and production environments
type Differs[T any] struct {
	Staging T `yaml:"staging" comment:"Staging value" validate:"required"`
	Prod    T `yaml:"prod" comment:"Production value" validate:"required"`
}

func (d *Differs[T]) Parse() T {
	if CurrentEnv == CurrentEnvProd {
		return d.Prod
	} else if CurrentEnv == CurrentEnvStaging {
		return d.Staging
	} else {
		panic("invalid environment")
	}
}

func (d *Differs[T]) Production() T {
	return d.Prod
}

type Config struct {
	DiscordAuth DiscordAuth `yaml:"discord_auth" validate:"required"`
	Roles       Roles       `yaml:"roles" validate:"required"`
	LXC         LXC         `yaml:"lxc" validate:"required"`
	Servers     Servers     `yaml:"servers" validate:"required"`
	Meta        Meta        `yaml:"meta" validate:"required"`
}

type DiscordAuth struct {
	Token    string `yaml:"token" comment:"Discord bot token" validate:"required"`
	ClientID string `yaml:"client_id" comment:"Discord Client ID" validate:"required"`
}

type Roles struct {
	Admin string `yaml:"admin" comment:"Role ID allowed to run admin commands" validate:"required"`
}

type LXC struct {
	Path            string `yaml:"path" default:"/usr/bin/lxc" comment:"Path to the lxc binary" validate:"required"`
	FakeModeIfNoLXC bool   `yaml:"fake_mode_if_no_lxc" comment:"Pretend lxc commands succeed when the binary is missing (dev only)"`
	DefaultImage    string `yaml:"default_image" default:"images:ubuntu/22.04" comment:"Image used for new containers" validate:"required"`
	DefaultProfile  string `yaml:"default_profile" default:"default" comment:"LXD profile applied to new containers" validate:"required"`
	CommandTimeout  int    `yaml:"command_timeout" default:"300" comment:"Timeout for lxc commands in seconds" validate:"required,min=1"`
}

type Servers struct {
	Main string `yaml:"main" comment:"Main Server ID" validate:"required"`
}

type Meta struct {
	PostgresURL          string          `yaml:"postgres_url" default:"postgresql:///vpsbot" comment:"Postgres URL" validate:"required"`
	RedisURL             Differs[string] `yaml:"redis_url" default:"redis://localhost:6379" comment:"Redis URL" validate:"required"`
	Port                 Differs[int]    `yaml:"port" default:"8081" comment:"Port to run the webserver on" validate:"required"`
	BotPrefix            string          `yaml:"bot_prefix" default:"!" comment:"Prefix for bot commands" validate:"required"`
	PlansFile            string          `yaml:"plans_file" default:"plans.json" comment:"Path to the plan catalog" validate:"required"`
	WebDisableRatelimits bool            `yaml:"web_disable_ratelimits" comment:"Disable API ratelimits (dev only)"`
	VulgarList           []string        `yaml:"vulgar_list" default:"fuck,suck,shit,kill" validate:"required"`
}
