package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"vpsbot/bgtasks"
	"vpsbot/bot"
	"vpsbot/config"
	"vpsbot/setup"
	"vpsbot/state"
	"vpsbot/webserver"

	"github.com/cloudflare/tableflip"
	"github.com/infinitybotlist/eureka/genconfig"
	"github.com/infinitybotlist/eureka/snippets"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) < 2 {
		os.Args = append(os.Args, "help")
	}

	switch os.Args[1] {
	case "bot":
		state.Setup()

		state.CurrentOperationMode = os.Args[1]

		if err := bot.Start(); err != nil {
			state.Logger.Fatal("Error connecting to Discord", zap.Error(err))
		}

		bgtasks.StartAllTasks()

		state.Logger.Info(
			"Bot is running",
			zap.String("user", state.BotUser.Username),
			zap.String("prefix", state.Config.Meta.BotPrefix),
		)

		c := make(chan os.Signal, 1)

		signal.Notify(c, syscall.SIGTERM, syscall.SIGINT)

		<-c

		state.Logger.Info("Shutting down")

		if err := state.Discord.Close(); err != nil {
			state.Logger.Error("Error closing Discord session", zap.Error(err))
		}
	case "webserver":
		state.Setup()

		state.CurrentOperationMode = os.Args[1]

		r := webserver.CreateWebserver()

		// If GOOS is windows, do normal http server
		if runtime.GOOS == "linux" || runtime.GOOS == "darwin" {
			upg, _ := tableflip.New(tableflip.Options{})
			defer upg.Stop()

			go func() {
				sig := make(chan os.Signal, 1)
				signal.Notify(sig, syscall.SIGHUP)
				for range sig {
					state.Logger.Info("Received SIGHUP, upgrading server")
					upg.Upgrade()
				}
			}()

			// Listen must be called before Ready
			ln, err := upg.Listen("tcp", ":"+strconv.Itoa(state.Config.Meta.Port.Parse()))

			if err != nil {
				state.Logger.Fatal("Error binding to socket", zap.Error(err))
			}

			defer ln.Close()

			server := http.Server{
				ReadTimeout: 30 * time.Second,
				Handler:     r,
			}

			go func() {
				err := server.Serve(ln)
				if err != http.ErrServerClosed {
					state.Logger.Error("Server failed due to unexpected error", zap.Error(err))
				}
			}()

			if err := upg.Ready(); err != nil {
				state.Logger.Fatal("Error calling upg.Ready", zap.Error(err))
			}

			<-upg.Exit()
		} else {
			// Tableflip not supported
			state.Logger.Warn("Tableflip not supported on this platform, this is not a production-capable server.")
			err := http.ListenAndServe(":"+strconv.Itoa(state.Config.Meta.Port.Parse()), r)

			if err != nil {
				state.Logger.Fatal("Error binding to socket", zap.Error(err))
			}
		}
	case "setup":
		fs := flag.NewFlagSet("setup", flag.ExitOnError)
		dir := fs.String("dir", ".", "Directory for plans.json and config.yaml")
		unitPath := fs.String("unit-path", "/etc/systemd/system/vpsbot.service", "Where to write the systemd unit")
		fs.Parse(os.Args[2:])

		logger := snippets.CreateZap()

		execPath, err := os.Executable()

		if err != nil {
			logger.Fatal("Error resolving executable path", zap.Error(err))
		}

		if err := os.Chdir(*dir); err != nil {
			logger.Fatal("Error entering setup directory", zap.Error(err), zap.String("dir", *dir))
		}

		absDir, err := os.Getwd()

		if err != nil {
			logger.Fatal("Error resolving setup directory", zap.Error(err))
		}

		// Writes config.yaml.sample for the operator to fill in
		genconfig.GenConfig(config.Config{})

		report, err := setup.Run(setup.Options{
			Dir:      absDir,
			UnitPath: *unitPath,
			ExecPath: execPath,
		}, logger)

		if err != nil {
			logger.Fatal("Setup failed", zap.Error(err))
		}

		logger.Info(
			"Setup complete",
			zap.String("plans", report.PlansPath),
			zap.Bool("plansCreated", report.PlansCreated),
			zap.Bool("unitCreated", report.UnitCreated),
		)
	default:
		fmt.Println("vpsbot Usage: vpsbot <component>")
		fmt.Println("bot: Starts the Discord bot and background tasks")
		fmt.Println("webserver: Starts the HTTP API")
		fmt.Println("setup: Writes default plans.json, a config sample and the systemd unit")
		os.Exit(1)
	}
}
