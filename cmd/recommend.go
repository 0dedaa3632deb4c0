package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/buddy/internal/catalog"
	"github.com/abhisek/buddy/internal/config"
	"github.com/abhisek/buddy/internal/recommend"
	"github.com/abhisek/buddy/internal/ui/theme"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank activities for a child",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		childID, _ := cmd.Flags().GetString("child")
		n, _ := cmd.Flags().GetInt("count")
		if n <= 0 {
			n = cfg.BatchSize
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

		recs, err := recommend.Recommend(activities, child, history, n, now())
		if err != nil {
			return err
		}

		fmt.Println(theme.Title.Render(fmt.Sprintf("Next up for %s", child.Name)))
		for i, rec := range recs {
			printRecommendation(i+1, rec)
		}
		return nil
	},
}

func init() {
	recommendCmd.Flags().String("child", "", "Child id (required)")
	recommendCmd.Flags().IntP("count", "n", 0, "Number of recommendations")
	recommendCmd.MarkFlagRequired("child")
}

func printRecommendation(rank int, rec recommend.Recommendation) {
	b := rec.Breakdown
	fmt.Printf("%s\n", theme.Heading.Render(fmt.Sprintf("%d. %s", rank, rec.Activity.Title)))
	fmt.Printf("   %s\n", theme.Subtitle.Render(fmt.Sprintf("%s · %s · ~%d min", rec.Activity.Type, rec.Activity.Level, rec.Activity.EstimatedMin)))
	fmt.Printf("   %s\n", theme.Body.Render(fmt.Sprintf(
		"score %.2f  (skill %.2f, interest %.2f, style %.2f, level %.2f, time %.2f, recency -%.2f)",
		b.Total, b.SkillFit, b.InterestFit, b.StyleFit, b.LevelFit, b.TimeFit, b.RecencyPenalty)))
}
