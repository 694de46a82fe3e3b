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
)

func init() {
	register(&Command{
		Name:        "create",
		Usage:       "create <@user> <ram_mb> <cpu>",
		Description: "Create a custom VPS for a user",
		AdminOnly:   true,
		Handler:     cmdAdminCreate,
	})

	register(&Command{
		Name:        "delete-vps",
		Usage:       "delete-vps <@user> <id> [reason]",
		Description: "Delete a user's VPS",
		AdminOnly:   true,
		Handler:     cmdAdminDelete,
	})

	register(&Command{
		Name:        "adminc",
		Usage:       "adminc <@user> <amount>",
		Description: "Add credits to a user",
		AdminOnly:   true,
		Handler:     cmdAdminAddCredits,
	})

	register(&Command{
		Name:        "adminrc",
		Usage:       "adminrc <@user> <amount|all>",
		Description: "Remove credits from a user",
		AdminOnly:   true,
		Handler:     cmdAdminRemoveCredits,
	})

	register(&Command{
		Name:        "editplans",
		Usage:       "editplans <plan> <ram_mb> <cpu> <disk_gb>",
		Description: "Edit the resources of a plan",
		AdminOnly:   true,
		Handler:     cmdEditPlans,
	})

	register(&Command{
		Name:        "giveplan",
		Usage:       "giveplan <@user> <plan>",
		Description: "Provision a plan for a user free of charge",
		AdminOnly:   true,
		Handler:     cmdGivePlan,
	})
}

func mention(userID string) string {
	return "<@" + userID + ">"
}

func cmdAdminCreate(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if len(args) < 3 {
		reply(s, m, "Usage: "+state.Config.Meta.BotPrefix+"create <@user> <ram_mb> <cpu>")
		return nil
	}

	userID, ok := ParseUserMention(args[0])

	if !ok {
		reply(s, m, "First argument must be a user mention.")
		return nil
	}

	ramMB, err := strconv.Atoi(args[1])

	if err != nil || ramMB < 0 {
		reply(s, m, "Invalid RAM amount.")
		return nil
	}

	cpuCores, err := strconv.Atoi(args[2])

	if err != nil || cpuCores < 0 {
		reply(s, m, "Invalid CPU count.")
		return nil
	}

	containerName := lxc.ContainerName(userID, "custom", time.Now())

	reply(s, m, fmt.Sprintf("Creating `%s` for %s (%dMB/%dcpu)...", containerName, mention(userID), ramMB, cpuCores))

	_, err = state.LXC.Create(state.Context, containerName, "", "", ramMB, cpuCores)

	if err != nil {
		reply(s, m, "Failed: ```\n"+err.Error()+"\n```")
		return nil
	}

	if _, err := state.Store.CreateInstance(state.Context, userID, containerName, "custom", ramMB, cpuCores, "intel"); err != nil {
		return fmt.Errorf("container created but could not be recorded: %w", err)
	}

	reply(s, m, fmt.Sprintf("✅ Created `%s` for %s.", containerName, mention(userID)))

	return nil
}

func cmdAdminDelete(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if len(args) < 2 {
		reply(s, m, "Usage: "+state.Config.Meta.BotPrefix+"delete-vps <@user> <id> [reason]")
		return nil
	}

	userID, ok := ParseUserMention(args[0])

	if !ok {
		reply(s, m, "First argument must be a user mention.")
		return nil
	}

	id, err := strconv.ParseInt(args[1], 10, 64)

	if err != nil {
		reply(s, m, "Invalid VPS ID.")
		return nil
	}

	reason := "admin_deleted"

	if len(args) > 2 {
		reason = strings.Join(args[2:], " ")
	}

	inst, err := state.Store.GetInstance(state.Context, id)

	if errors.Is(err, store.ErrInstanceNotFound) || (err == nil && inst.UserID != userID) {
		reply(s, m, "VPS not found for that user/id.")
		return nil
	}

	if err != nil {
		return fmt.Errorf("error fetching instance: %w", err)
	}

	reply(s, m, fmt.Sprintf("Deleting `%s` for %s (reason: %s)...", inst.ContainerName, mention(userID), reason))

	if err := state.LXC.Delete(state.Context, inst.ContainerName); err != nil {
		reply(s, m, "Failed: ```\n"+err.Error()+"\n```")
		return nil
	}

	if err := state.Store.DeleteInstance(state.Context, id); err != nil {
		return fmt.Errorf("container deleted but record removal failed: %w", err)
	}

	reply(s, m, fmt.Sprintf("✅ Deleted %s.", inst.ContainerName))

	return nil
}

func cmdAdminAddCredits(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if len(args) < 2 {
		reply(s, m, "Usage: "+state.Config.Meta.BotPrefix+"adminc <@user> <amount>")
		return nil
	}

	userID, ok := ParseUserMention(args[0])

	if !ok {
		reply(s, m, "First argument must be a user mention.")
		return nil
	}

	amount, err := strconv.ParseInt(args[1], 10, 64)

	if err != nil || amount <= 0 {
		reply(s, m, "Invalid amount")
		return nil
	}

	if err := state.Store.AddCredits(state.Context, userID, amount); err != nil {
		return fmt.Errorf("error adding credits: %w", err)
	}

	reply(s, m, fmt.Sprintf("✅ Added %d credits to %s.", amount, mention(userID)))

	return nil
}

func cmdAdminRemoveCredits(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if len(args) < 2 {
		reply(s, m, "Usage: "+state.Config.Meta.BotPrefix+"adminrc <@user> <amount|all>")
		return nil
	}

	userID, ok := ParseUserMention(args[0])

	if !ok {
		reply(s, m, "First argument must be a user mention.")
		return nil
	}

	if args[1] == "all" {
		if err := state.Store.ZeroCredits(state.Context, userID); err != nil {
			return fmt.Errorf("error zeroing credits: %w", err)
		}

		reply(s, m, fmt.Sprintf("✅ Removed all credits from %s.", mention(userID)))
		return nil
	}

	amount, err := strconv.ParseInt(args[1], 10, 64)

	if err != nil || amount <= 0 {
		reply(s, m, "Invalid amount")
		return nil
	}

	if _, err := state.Store.RemoveCredits(state.Context, userID, amount); err != nil {
		return fmt.Errorf("error removing credits: %w", err)
	}

	reply(s, m, fmt.Sprintf("✅ Removed %d credits from %s.", amount, mention(userID)))

	return nil
}

func cmdEditPlans(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if len(args) < 4 {
		reply(s, m, "Usage: "+state.Config.Meta.BotPrefix+"editplans <plan> <ram_mb> <cpu> <disk_gb>")
		return nil
	}

	planID := strings.ToLower(args[0])

	ramMB, err1 := strconv.Atoi(args[1])
	cpu, err2 := strconv.Atoi(args[2])
	diskGB, err3 := strconv.Atoi(args[3])

	if err1 != nil || err2 != nil || err3 != nil {
		reply(s, m, "RAM, CPU and disk must be numbers.")
		return nil
	}

	if err := state.Plans.UpdateResources(planID, ramMB, cpu, diskGB); err != nil {
		reply(s, m, "Plan update failed: "+err.Error())
		return nil
	}

	reply(s, m, fmt.Sprintf("✅ Plan `%s` updated: %dMB RAM, %d CPU, %dGB disk.", planID, ramMB, cpu, diskGB))

	return nil
}

func cmdGivePlan(s *discordgo.Session, m *discordgo.MessageCreate, args []string) error {
	if len(args) < 2 {
		reply(s, m, "Usage: "+state.Config.Meta.BotPrefix+"giveplan <@user> <plan>")
		return nil
	}

	userID, ok := ParseUserMention(args[0])

	if !ok {
		reply(s, m, "First argument must be a user mention.")
		return nil
	}

	planID := strings.ToLower(args[1])

	plan, ok := state.Plans.Get(planID)

	if !ok {
		reply(s, m, "Plan not found.")
		return nil
	}

	containerName := lxc.ContainerName(userID, planID, time.Now())

	reply(s, m, fmt.Sprintf("Creating `%s` for %s (%dMB/%dcpu)...", containerName, mention(userID), plan.RamMB, plan.CPU))

	_, err := state.LXC.Create(state.Context, containerName, "", "", plan.RamMB, plan.CPU)

	if err != nil {
		reply(s, m, "Failed: ```\n"+err.Error()+"\n```")
		return nil
	}

	if _, err := state.Store.CreateInstance(state.Context, userID, containerName, planID, plan.RamMB, plan.CPU, "intel"); err != nil {
		return fmt.Errorf("container created but could not be recorded: %w", err)
	}

	reply(s, m, fmt.Sprintf("✅ Gave plan `%s` to %s. Container: `%s`", planID, mention(userID), containerName))

	return nil
}
