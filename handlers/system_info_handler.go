package handlers

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"sentinel-bot/bot"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

func SystemInfoHandler(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	// Get CPU info
	cpuCount, _ := cpu.Counts(true)
	cpuPercent, _ := cpu.Percent(0, false)

	// Get memory info
	vm, _ := mem.VirtualMemory()

	// Get host info
	hostInfo, _ := host.Info()

	// Get database size
	var dbSize int64
	if info, err := os.Stat(b.GetConfig().DatabasePath); err == nil {
		dbSize = info.Size() / 1024
	}

	schedulerState := "stopped"
	if b.Moderations.IsRunning() {
		schedulerState = "running"
	}
	ongoingCount := 0
	if records, result := b.Moderations.GetModerations(); result.Successful {
		ongoingCount = len(records)
	}

	cpuUsage := 0.0
	if len(cpuPercent) > 0 {
		cpuUsage = cpuPercent[0]
	}

	embed := &discordgo.MessageEmbed{
		Title: "System Status",
		Color: 0x5865F2, // Discord Blurple
		Fields: []*discordgo.MessageEmbedField{
			{Name: "💻 OS", Value: fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion), Inline: true},
			{Name: "🔧 Kernel", Value: hostInfo.KernelVersion, Inline: true},
			{Name: "🐹 Go Version", Value: runtime.Version(), Inline: true},
			{Name: "🔼 CPU Count", Value: fmt.Sprintf("%d", cpuCount), Inline: true},
			{Name: "🔥 CPU Usage", Value: fmt.Sprintf("%.1f%%", cpuUsage), Inline: true},
			{Name: "🧠 Memory", Value: fmt.Sprintf("%.1f%% (%d MB / %d MB)", vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024), Inline: true},
			{Name: "🗃️ Database Size", Value: fmt.Sprintf("%d KB", dbSize), Inline: true},
			{Name: "⏱️ WebSocket Latency", Value: s.HeartbeatLatency().String(), Inline: true},
			{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
			{Name: "⏰ Uptime", Value: time.Since(b.StartedAt()).Round(time.Second).String(), Inline: true},
			{Name: "⚖️ Sanction Ticker", Value: schedulerState, Inline: true},
			{Name: "⏳ Ongoing Sanctions", Value: fmt.Sprintf("%d", ongoingCount), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Status as of %s", time.Now().Format("15:04")),
		},
	}

	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}
