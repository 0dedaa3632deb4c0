package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/buddy/internal/catalog"
	"github.com/abhisek/buddy/internal/config"
	"github.com/abhisek/buddy/internal/profile"
	"github.com/abhisek/buddy/internal/progress"
	"github.com/abhisek/buddy/internal/scoring"
	"github.com/abhisek/buddy/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "buddy",
	Short: "Learning buddy for kids",
	Long:  "Buddy is a terminal companion that recommends, runs, and tracks educational activities for children.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func Execute() error {
	setupLogging()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides BUDDY_DB env var)")

	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

func setupLogging() {
	level := slog.LevelWarn
	if os.Getenv("BUDDY_DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then BUDDY_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return cfg.ResolveDBPath()
}

func openStore(cmd *cobra.Command, cfg *config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func loadCatalog(cfg *config.Config) ([]catalog.Activity, error) {
	if cfg.ActivitiesPath != "" {
		return catalog.Load(cfg.ActivitiesPath)
	}
	return catalog.Samples()
}

func loadProfiles(cfg *config.Config) ([]profile.Profile, error) {
	if cfg.ProfilesPath != "" {
		return profile.Load(cfg.ProfilesPath)
	}
	return profile.Samples()
}

// loadChild resolves a child's current profile: the base record from the
// profiles file, overlaid with the latest persisted snapshot so skill
// progress carries across sessions. Attempts recorded after the snapshot
// (a crash can leave some) are replayed on top.
func loadChild(ctx context.Context, cfg *config.Config, st *store.Store, childID string) (*profile.Profile, error) {
	profiles, err := loadProfiles(cfg)
	if err != nil {
		return nil, err
	}
	base, ok := profile.Index(profiles)[childID]
	if !ok {
		return nil, fmt.Errorf("no child with id %q", childID)
	}

	snap, err := st.SnapshotRepo().Latest(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if snap == nil {
		return base.Clone(), nil
	}

	tail, err := st.AttemptRepo().ByChild(ctx, childID, store.QueryOpts{After: snap.Sequence})
	if err != nil {
		return nil, fmt.Errorf("load attempts past snapshot: %w", err)
	}
	current := snap.Profile
	if len(tail) == 0 {
		return &current, nil
	}
	slog.Warn("snapshot behind attempt log, replaying tail",
		"child", childID, "attempts", len(tail))
	return progress.Rebuild(&current, tail), nil
}

// scoringHistory converts the child's recent attempts into the view the
// scorer needs for its recency penalty.
func scoringHistory(ctx context.Context, attempts store.AttemptRepo, childID string, idx map[string]catalog.Activity) ([]scoring.Attempt, error) {
	recent, err := attempts.RecentByChild(ctx, childID, 50)
	if err != nil {
		return nil, fmt.Errorf("load recent attempts: %w", err)
	}
	history := make([]scoring.Attempt, 0, len(recent))
	for _, att := range recent {
		h := scoring.Attempt{ActivityID: att.ActivityID, Timestamp: att.Timestamp}
		if act, ok := idx[att.ActivityID]; ok {
			h.SkillKey = act.SkillKey()
		}
		history = append(history, h)
	}
	return history, nil
}

func now() time.Time {
	return time.Now().UTC()
}
