package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/buddy/internal/catalog"
	"github.com/abhisek/buddy/internal/config"
	"github.com/abhisek/buddy/internal/evaluate"
	"github.com/abhisek/buddy/internal/recommend"
	"github.com/abhisek/buddy/internal/session"
	"github.com/abhisek/buddy/internal/ui/theme"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run an activity session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		childID, _ := cmd.Flags().GetString("child")
		n, _ := cmd.Flags().GetInt("count")
		simulate, _ := cmd.Flags().GetBool("simulate")
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

		batch, err := recommend.Recommend(activities, child, history, n, now())
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			fmt.Println(theme.Hint.Render("Nothing to play: the catalog is empty."))
			return nil
		}

		var supplier session.AnswerSupplier
		if simulate {
			supplier = session.NewSimulated(child)
		} else {
			supplier = &stdinSupplier{in: bufio.NewScanner(os.Stdin)}
		}

		eng := session.New(session.Config{
			Attempts:     st.AttemptRepo(),
			Snapshots:    st.SnapshotRepo(),
			Sessions:     st.SessionRepo(),
			Supplier:     supplier,
			LearningRate: cfg.LearningRate,
		})

		sum, err := eng.Run(ctx, child, batch)
		if err != nil {
			if sum != nil && sum.Pending() > 0 {
				fmt.Fprintln(os.Stderr, theme.Bad.Render(
					fmt.Sprintf("save failed with %d result(s) unsaved, retrying once", sum.Pending())))
				if rerr := eng.RetrySave(ctx, sum); rerr == nil {
					printSummary(sum)
					return nil
				}
			}
			return err
		}

		printSummary(sum)
		return nil
	},
}

func init() {
	playCmd.Flags().String("child", "", "Child id (required)")
	playCmd.Flags().IntP("count", "n", 0, "Number of activities")
	playCmd.Flags().Bool("simulate", false, "Answer automatically instead of reading stdin")
	playCmd.MarkFlagRequired("child")
}

// stdinSupplier prompts on the terminal and reads one answer per
// activity. Typing "skip" (or closing stdin) skips the activity.
type stdinSupplier struct {
	in *bufio.Scanner
}

func (s *stdinSupplier) Answer(ctx context.Context, a *catalog.Activity) (string, error) {
	fmt.Println()
	fmt.Println(theme.Heading.Render(a.Title))
	fmt.Println(theme.Body.Render(a.Prompt))
	fmt.Print(theme.Hint.Render("> "))

	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", session.ErrSkip
	}
	answer := s.in.Text()
	if strings.EqualFold(strings.TrimSpace(answer), "skip") {
		return "", session.ErrSkip
	}
	return answer, nil
}

func printSummary(sum *session.Summary) {
	fmt.Println()
	fmt.Println(theme.Title.Render("Session complete"))
	for _, res := range sum.Results {
		style := theme.Bad
		switch res.Outcome {
		case evaluate.OutcomeSuccess:
			style = theme.Good
		case evaluate.OutcomePartial:
			style = theme.Mixed
		case evaluate.OutcomeSkipped:
			style = theme.Hint
		}
		fmt.Printf("  %s %s\n", style.Render(string(res.Outcome)), theme.Body.Render(res.Activity.Title))
		if res.Reason != "" {
			fmt.Printf("    %s\n", theme.Subtitle.Render(res.Reason))
		}
		for _, d := range res.Deltas {
			fmt.Printf("    %s\n", theme.Subtitle.Render(
				fmt.Sprintf("%s: %.2f -> %.2f", d.Skill, d.From, d.To)))
		}
	}
	fmt.Println(theme.Body.Render(fmt.Sprintf(
		"%d done: %d success, %d partial, %d struggle, %d skipped",
		sum.Served(), sum.Successes, sum.Partials, sum.Struggles, sum.Skips)))
}
