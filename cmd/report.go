package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/buddy/internal/catalog"
	"github.com/abhisek/buddy/internal/config"
	"github.com/abhisek/buddy/internal/recommend"
	"github.com/abhisek/buddy/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build a parent report for a child",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		childID, _ := cmd.Flags().GetString("child")
		periodStr, _ := cmd.Flags().GetString("period")
		asJSON, _ := cmd.Flags().GetBool("json")

		period, err := report.ParsePeriod(periodStr)
		if err != nil {
			return err
		}

		activities, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		st, err := openStore(cmd, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		child, err := loadChild(ctx, cfg, st, childID)
		if err != nil {
			return err
		}

		idx := catalog.Index(activities)
		history, err := scoringHistory(ctx, st.AttemptRepo(), childID, idx)
		if err != nil {
			return err
		}
		picks, err := recommend.Recommend(activities, child, history, cfg.BatchSize, now())
		if err != nil {
			return err
		}

		builder := &report.Builder{Attempts: st.AttemptRepo(), Activities: activities}
		rep, err := builder.Build(ctx, child, period, picks)
		if err != nil {
			return err
		}

		if asJSON {
			raw, err := rep.JSON()
			if err != nil {
				return fmt.Errorf("encode report: %w", err)
			}
			fmt.Println(string(raw))
			return nil
		}
		fmt.Println(rep.Render())
		return nil
	},
}

func init() {
	reportCmd.Flags().String("child", "", "Child id (required)")
	reportCmd.Flags().String("period", "7d", "Report window, e.g. 7d, 14d, 30d")
	reportCmd.Flags().Bool("json", false, "Emit JSON instead of text")
	reportCmd.MarkFlagRequired("child")
}
