package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"vpsbot/lxc"
	"vpsbot/state"
	"vpsbot/store"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func init() {
	register(&Command{
		Name:        "plans",
		Usage:       "plans",
		Description: "List the available VPS plans",
		Handler:     cmdPlans,
	})

	register(&Command{
		Name:        "credits",
		Usage:       "credits",
		Description: "Show your credit balance",
		Handler:     cmdCredits,
	})

	register(&Command{
		Name:        "buyc",
		Usage:       "buyc",
		Description: "How to buy credits",
		Handler:     cmdBuyCredits,
	})

	register(&Command{
		Name:        "buywc",
		Usage:       "buywc <plan> [arch]",
		Description: "Buy a VPS with credits",
		Handler:     cmdBuyWithCredits,
	})

	register(&Command{
		Name:        "myvps",
		Usage:       "myvps",
		Description: "List your VPS instances",
		Handler:     cmdMyVPS,
	})

	register(&Command{
		Name:        "manage",
		Usage:       "manage <start|stop|restart|delete|info> <id>",
		Description: "Manage one of your VPS instances",
		Handler:     cmdManage,
	})
}

func cmdPlans(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	snapshot := state.Plans.Snapshot()

	embed := &discordgo.MessageEmbed{
		Title: "Available VPS Plans",
		Color: 0x2ecc71,
	}

	for _, id := range state.Plans.IDs() {
		p := snapshot[id]

		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   id + " — " + p.Name,
			Value:  fmt.Sprintf("%dMB RAM • %d CPU • %dGB disk • %d credits", p.RamMB, p.CPU, p.DiskGB, p.Price),
			Inline: false,
		})
	}

	_, err := s.ChannelMessageSendEmbed(m.ChannelID, embed)

	return err
}

func cmdCredits(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	credits, err := state.Store.GetCredits(state.Context, m.Author.ID)

	if err != nil {
		return fmt.Errorf("error fetching credits: %w", err)
	}

	reply(s, m, fmt.Sprintf("%s — you have **%d** credits.", m.Author.Mention(), credits))

	return nil
}

func cmdBuyCredits(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	reply(s, m, "To buy credits contact an admin. (Payment integration is not part of this bot.)")

	return nil
}

func cmdBuyWithCredits(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if len(args) < 1 {
		reply(s, m, "Usage: "+state.Config.Meta.BotPrefix+"buywc <plan> [arch]")
		return nil
	}

	planID := strings.ToLower(args[0])

	arch := "intel"

	if len(args) > 1 {
		arch = strings.ToLower(args[1])
	}

	plan, ok := state.Plans.Get(planID)

	if !ok {
		reply(s, m, "Unknown plan. Use `"+state.Config.Meta.BotPrefix+"plans` to see available plans.")
		return nil
	}

	credits, err := state.Store.GetCredits(state.Context, m.Author.ID)

	if err != nil {
		return fmt.Errorf("error fetching credits: %w", err)
	}

	if credits < plan.Price {
		reply(s, m, fmt.Sprintf("You need %d credits but have %d.", plan.Price, credits))
		return nil
	}

	containerName := lxc.ContainerName(m.Author.ID, planID, time.Now())

	reply(s, m, fmt.Sprintf("Creating container `%s` (plan %s) — this may take a minute...", containerName, planID))

	_, err = state.LXC.Create(state.Context, containerName, "", "", plan.RamMB, plan.CPU)

	if err != nil {
		reply(s, m, "Failed to create container: ```\n"+err.Error()+"\n```")
		return nil
	}

	if _, err := state.Store.RemoveCredits(state.Context, m.Author.ID, plan.Price); err != nil {
		state.Logger.Error("Error deducting credits after container create", zap.String("userId", m.Author.ID), zap.Error(err))
	}

	id, err := state.Store.CreateInstance(state.Context, m.Author.ID, containerName, planID, plan.RamMB, plan.CPU, arch)

	if err != nil {
		return fmt.Errorf("container created but could not be recorded: %w", err)
	}

	reply(s, m, fmt.Sprintf("✅ Container `%s` created (ID %d). %d credits deducted.", containerName, id, plan.Price))

	return nil
}

func cmdMyVPS(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	instances, err := state.Store.ListInstancesByUser(state.Context, m.Author.ID)

	if err != nil {
		return fmt.Errorf("error listing instances: %w", err)
	}

	if len(instances) == 0 {
		reply(s, m, "You have no VPS.")
		return nil
	}

	var sb strings.Builder
	sb.WriteString("Your VPS:\n")

	for _, inst := range instances {
		sb.WriteString(fmt.Sprintf("ID %d: `%s` — %s — %dMB/%dcpu — %s\n", inst.ID, inst.ContainerName, inst.Plan, inst.RamMB, inst.CPUCores, inst.Status))
	}

	reply(s, m, sb.String())

	return nil
}

func cmdManage(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if len(args) < 2 {
		reply(s, m, "Usage: "+state.Config.Meta.BotPrefix+"manage <start|stop|restart|delete|info> <id>")
		return nil
	}

	action := strings.ToLower(args[0])

	id, err := strconv.ParseInt(args[1], 10, 64)

	if err != nil {
		reply(s, m, "Invalid VPS ID.")
		return nil
	}

	inst, err := state.Store.GetInstance(state.Context, id)

	if errors.Is(err, store.ErrInstanceNotFound) {
		reply(s, m, "VPS not found.")
		return nil
	}

	if err != nil {
		return fmt.Errorf("error fetching instance: %w", err)
	}

	if inst.UserID != m.Author.ID && !IsAdmin(s, m) {
		reply(s, m, "You don't own this VPS.")
		return nil
	}

	switch action {
	case "delete":
		reply(s, m, fmt.Sprintf("Deleting `%s`...", inst.ContainerName))

		if err := state.LXC.Delete(state.Context, inst.ContainerName); err != nil {
			reply(s, m, "Failed to delete: ```\n"+err.Error()+"\n```")
			return nil
		}

		if err := state.Store.DeleteInstance(state.Context, id); err != nil {
			return fmt.Errorf("container deleted but record removal failed: %w", err)
		}

		if err := state.StatusCache.Delete(state.Context, inst.ContainerName); err != nil {
			state.Logger.Warn("Error evicting status cache entry", zap.String("container", inst.ContainerName), zap.Error(err))
		}

		reply(s, m, fmt.Sprintf("✅ VPS %d (`%s`) deleted.", id, inst.ContainerName))
	case "info":
		out, err := state.LXC.Info(state.Context, inst.ContainerName)

		if err != nil {
			reply(s, m, "Action failed: ```\n"+err.Error()+"\n```")
			return nil
		}

		if len(out) > 1900 {
			out = out[:1900]
		}

		reply(s, m, fmt.Sprintf("Info for `%s`:\n```\n%s\n```", inst.ContainerName, out))
	case "start", "stop", "restart":
		_, err := state.LXC.Action(state.Context, inst.ContainerName, action)

		if err != nil {
			reply(s, m, "Action failed: ```\n"+err.Error()+"\n```")
			return nil
		}

		reply(s, m, fmt.Sprintf("Action `%s` executed on `%s`.", action, inst.ContainerName))
	default:
		reply(s, m, "Invalid action. Use start|stop|restart|delete|info")
	}

	return nil
}
