package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/buddy/internal/config"
	"github.com/abhisek/buddy/internal/profile"
	"github.com/abhisek/buddy/internal/progress"
	"github.com/abhisek/buddy/internal/store"
	"github.com/abhisek/buddy/internal/ui/theme"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check a child's snapshot against the attempt log",
	Long: "Replays the child's full attempt history over their base profile " +
		"and compares the result with the latest stored snapshot. A mismatch " +
		"means the snapshot drifted from the log and should be rebuilt.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		childID, _ := cmd.Flags().GetString("child")
		rebuild, _ := cmd.Flags().GetBool("rebuild")

		profiles, err := loadProfiles(cfg)
		if err != nil {
			return err
		}
		base, ok := profile.Index(profiles)[childID]
		if !ok {
			return fmt.Errorf("no child with id %q", childID)
		}

		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		snap, err := st.SnapshotRepo().Latest(ctx, childID)
		if err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
		if snap == nil {
			fmt.Println(theme.Hint.Render("No snapshot yet: nothing to verify."))
			return nil
		}

		attempts, err := st.AttemptRepo().ByChild(ctx, childID, store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("load attempts: %w", err)
		}

		replayed := progress.Rebuild(base, attempts)

		mismatched := progress.Diff(replayed, &snap.Profile)
		if len(mismatched) == 0 {
			fmt.Println(theme.Good.Render(fmt.Sprintf(
				"Snapshot for %s matches the log (%d attempts, sequence %d).",
				childID, len(attempts), snap.Sequence)))
			return nil
		}

		fmt.Println(theme.Bad.Render(fmt.Sprintf("Snapshot for %s drifted from the log:", childID)))
		for _, skill := range mismatched {
			fmt.Printf("  %s: log %.4f, snapshot %.4f\n",
				skill, replayed.Skill(skill), snap.Profile.Skill(skill))
		}

		if !rebuild {
			fmt.Println(theme.Hint.Render("Run again with --rebuild to restore the snapshot from the log."))
			return nil
		}

		var lastSeq int64
		if len(attempts) > 0 {
			lastSeq = attempts[len(attempts)-1].Sequence
		}
		err = st.SnapshotRepo().Save(ctx, &store.Snapshot{
			ChildID:  childID,
			Sequence: lastSeq,
			Profile:  *replayed,
		})
		if err != nil {
			return fmt.Errorf("save rebuilt snapshot: %w", err)
		}
		fmt.Println(theme.Good.Render("Snapshot rebuilt from the attempt log."))
		return nil
	},
}

func init() {
	verifyCmd.Flags().String("child", "", "Child id (required)")
	verifyCmd.Flags().Bool("rebuild", false, "Overwrite a drifted snapshot with the replayed state")
	verifyCmd.MarkFlagRequired("child")
}
