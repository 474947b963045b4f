package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/voxqa/qacoach/internal/api"
	"github.com/voxqa/qacoach/internal/celebration"
	"github.com/voxqa/qacoach/internal/config"
	"github.com/voxqa/qacoach/internal/leveling"
	"github.com/voxqa/qacoach/internal/reconcile"
)

var BUILD_VERSION = "dev"

var configPath = flag.String("config", "", "path to a qacoach config file")
var agentID = flag.String("agent", "", "agent id (overrides config)")
var snapshotPath = flag.String("snapshot", "", "agent data snapshot JSON (overrides config)")
var backendURL = flag.String("backend", "", "backend base URL (overrides config)")
var watchMode = flag.Bool("watch", false, "keep running and re-sync when the snapshot file changes")
var showLeaderboard = flag.Bool("leaderboard", false, "print the achievements leaderboard and exit")

var helpFlag = flag.Bool("h", false, "display help information")
var versionFlag = flag.Bool("ver", false, "display build version")

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Println(BUILD_VERSION)
		return
	}

	if *helpFlag {
		fmt.Println("Usage of qacoach:")
		flag.PrintDefaults()
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *agentID != "" {
		cfg.AgentID = *agentID
	}
	if *snapshotPath != "" {
		cfg.SnapshotPath = *snapshotPath
	}
	if *backendURL != "" {
		cfg.BackendURL = *backendURL
	}

	logger, err := initializeLogger()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	client := api.NewClient(cfg.BackendURL, nil, logger)
	ctx := context.Background()

	if *showLeaderboard {
		if err := printLeaderboard(ctx, client); err != nil {
			logger.Error("leaderboard failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	if cfg.AgentID == "" || cfg.SnapshotPath == "" {
		fmt.Fprintln(os.Stderr, "qacoach: -agent and -snapshot are required (or set them in the config file)")
		os.Exit(1)
	}

	if *watchMode {
		if err := runWatch(ctx, cfg, client, logger); err != nil {
			logger.Error("watch mode failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	if err := runOnce(ctx, cfg, client, logger); err != nil {
		logger.Error("sync failed", zap.Error(err))
		os.Exit(1)
	}
}

// runOnce loads the snapshot, runs a single reconciliation pass and
// prints every confirmed celebration.
func runOnce(ctx context.Context, cfg config.Config, client *api.Client, logger *zap.Logger) error {
	data, err := config.LoadSnapshot(cfg.SnapshotPath)
	if err != nil {
		return err
	}
	if data.AgentID == "" {
		data.AgentID = cfg.AgentID
	}

	session := reconcile.NewSession(cfg.AgentID)
	reconciler := reconcile.New(client, session, logger)

	result := reconciler.Reconcile(ctx, data)

	for _, record := range result.NewlyConfirmed() {
		fmt.Println(celebration.Render(celebration.AchievementEvent(record)))
	}

	profile := client.AgentGamification(ctx, cfg.AgentID)
	if up := leveling.DetectLevelUp(logger, data.CurrentLevel, profile.CurrentLevel,
		profile.CurrentXP, profile.CurrentXP-data.CurrentXP); up != nil {
		fmt.Println(celebration.Render(celebration.LevelUpEvent(*up)))
	}
	printProfile(profile)
	return nil
}

func printProfile(profile api.GamificationProfile) {
	fmt.Printf("%s  %s — nível %d, %d XP (%.0f%% para o próximo nível)\n",
		profile.LevelIcon, profile.LevelName, profile.CurrentLevel,
		profile.CurrentXP, profile.LevelProgress)
}

func printLeaderboard(ctx context.Context, client *api.Client) error {
	entries, err := client.Leaderboard(ctx)
	if err != nil {
		return err
	}
	for i, entry := range entries {
		name := entry.AgentName
		if name == "" {
			name = entry.AgentID
		}
		fmt.Printf("%2d. %-24s %3d conquistas  %6d XP\n",
			i+1, name, entry.TotalAchievements, entry.TotalXP)
	}
	return nil
}

func initializeLogger() (*zap.Logger, error) {
	logLevel := zap.NewAtomicLevelAt(zap.WarnLevel)
	if BUILD_VERSION == "dev" {
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	if value := os.Getenv("QACOACH_LOG_LEVEL"); value != "" {
		if parsed, err := zap.ParseAtomicLevel(value); err == nil {
			logLevel = parsed
		}
	}

	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.Level = logLevel
	zapConfig.OutputPaths = []string{"stderr"}
	return zapConfig.Build()
}
