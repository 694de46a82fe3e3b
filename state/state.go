package state

import (
	"context"
	"os"
	"reflect"
	"strings"
	"time"

	"vpsbot/config"
	"vpsbot/lxc"
	"vpsbot/plans"
	"vpsbot/state/redishotcache"
	"vpsbot/store"

	"github.com/bwmarrin/discordgo"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/infinitybotlist/eureka/genconfig"
	"github.com/infinitybotlist/eureka/ratelimit"
	"github.com/infinitybotlist/eureka/snippets"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/rueidis"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	Pool                 *pgxpool.Pool
	Rueidis              rueidis.Client
	Discord              *discordgo.Session
	BotUser              *discordgo.User
	Logger               *zap.Logger
	Context              = context.Background()
	Validator            = validator.New()
	Store                *store.Store
	Plans                *plans.Catalog
	LXC                  *lxc.Runner
	StatusCache          redishotcache.RuedisHotCache[string]
	CurrentOperationMode string // Current mode vpsbot is operating in

	Config *config.Config
)

// TTL for the container status hot cache; the reconciler refreshes
// entries well within this window.
const StatusCacheExpiry = 5 * time.Minute

func nonVulgar(fl validator.FieldLevel) bool {
	// get the field value
	switch fl.Field().Kind() {
	case reflect.String:
		value := fl.Field().String()

		for _, v := range Config.Meta.VulgarList {
			if strings.Contains(value, v) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func Setup() {
	Validator.RegisterValidation("nonvulgar", nonVulgar)
	Validator.RegisterValidation("notblank", validators.NotBlank)
	Validator.RegisterValidation("nospaces", snippets.ValidatorNoSpaces)
	Validator.RegisterValidation("https", snippets.ValidatorIsHttps)
	Validator.RegisterValidation("httporhttps", snippets.ValidatorIsHttpOrHttps)

	genconfig.GenConfig(config.Config{})

	cfg, err := os.ReadFile("config.yaml")

	if err != nil {
		panic(err)
	}

	err = yaml.Unmarshal(cfg, &Config)

	if err != nil {
		panic(err)
	}

	err = Validator.Struct(Config)

	if err != nil {
		panic("configError: " + err.Error())
	}

	Logger = snippets.CreateZap()

	// Postgres
	Pool, err = pgxpool.New(Context, Config.Meta.PostgresURL)

	if err != nil {
		panic(err)
	}

	Store = store.New(Pool)

	err = Store.InitSchema(Context)

	if err != nil {
		panic(err)
	}

	// Rueidis
	ruOptions, err := rueidis.ParseURL(Config.Meta.RedisURL.Parse())

	if err != nil {
		panic(err)
	}

	Rueidis, err = rueidis.NewClient(ruOptions)

	if err != nil {
		panic(err)
	}

	// Plan catalog
	Plans, err = plans.Load(Config.Meta.PlansFile)

	if err != nil {
		panic(err)
	}

	// LXC runner
	LXC = &lxc.Runner{
		Path:           Config.LXC.Path,
		FakeMode:       Config.LXC.FakeModeIfNoLXC,
		DefaultImage:   Config.LXC.DefaultImage,
		DefaultProfile: Config.LXC.DefaultProfile,
		Timeout:        time.Duration(Config.LXC.CommandTimeout) * time.Second,
		Logger:         Logger,
	}

	if LXC.Faked() {
		Logger.Warn("LXC binary not found, fake mode is active", zap.String("path", Config.LXC.Path))
	}

	StatusCache = redishotcache.RuedisHotCache[string]{
		Redis:  Rueidis,
		Prefix: "cstatus__",
		For:    "instances",
	}

	// Discordgo
	Discord, err = discordgo.New("Bot " + Config.DiscordAuth.Token)

	if err != nil {
		panic(err)
	}

	Discord.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent | discordgo.IntentsGuildMembers

	// Verify token
	bu, err := Discord.User("@me")

	if err != nil {
		panic(err)
	}

	BotUser = bu

	ratelimit.SetupState(&ratelimit.RLState{
		HotCache: redishotcache.RuedisHotCache[int]{
			Redis:    Rueidis,
			Prefix:   "rl:",
			For:      "ratelimit",
			Disabled: Config.Meta.WebDisableRatelimits,
		},
	})
}
