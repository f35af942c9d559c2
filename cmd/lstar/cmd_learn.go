package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gbossert/pylstar/pkg/knowledge"
	"github.com/gbossert/pylstar/pkg/learner"
	"github.com/gbossert/pylstar/pkg/mealyfile"
	"github.com/gbossert/pylstar/pkg/oracle"
)

func newLearnCmd() *cobra.Command {
	var (
		scenarioName    string
		networkAddr     string
		networkAlphabet string
		maxStates       int
		eqStrategy      string
		outPath         string
		pretty          bool
		timeout         time.Duration
	)

	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Learn a Mealy machine from a scenario or network target",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := buildLogger(logLevel)
			defer log.Sync()

			target, alphabet, err := resolveTarget(scenarioName, networkAddr, networkAlphabet, timeout)
			if err != nil {
				return err
			}

			mem := knowledge.NewActiveOracle(target, log)
			eq, err := resolveEquivalenceOracle(eqStrategy, maxStates)
			if err != nil {
				return err
			}

			l := learner.New(alphabet, mem, eq, maxStates, learner.WithLogger(log))

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			hyp, err := l.Learn(ctx)
			if err != nil {
				return fmt.Errorf("learn: %w", err)
			}

			fmt.Fprintf(os.Stderr, "learned %d-state machine\n", hyp.NumStates())

			if outPath == "" {
				fmt.Println(mealyfile.DOT(hyp, "learned"))
				return nil
			}
			data, err := mealyfile.Marshal(hyp, pretty)
			if err != nil {
				return err
			}
			return os.WriteFile(outPath, data, 0o644)
		},
	}

	cmd.Flags().StringVar(&scenarioName, "scenario", "", "built-in scenario to learn against (echo, flipflop, coffee)")
	cmd.Flags().StringVar(&networkAddr, "network", "", "host:port of a TCP target to learn against")
	cmd.Flags().StringVar(&networkAlphabet, "alphabet", "", "comma-separated input letters, required with --network")
	cmd.Flags().IntVar(&maxStates, "max-states", 16, "upper bound on hypothesis and assumed target state count")
	cmd.Flags().StringVar(&eqStrategy, "oracle", "wmethod", "equivalence oracle: wmethod or randomwalk")
	cmd.Flags().StringVar(&outPath, "out", "", "write the learned machine as JSON to this path instead of printing DOT")
	cmd.Flags().BoolVar(&pretty, "pretty", true, "pretty-print JSON output")
	cmd.Flags().DurationVar(&timeout, "network-timeout", 5*time.Second, "dial and per-letter round-trip timeout for a network target")

	return cmd
}

func resolveEquivalenceOracle(strategy string, maxStates int) (oracle.Oracle, error) {
	switch strategy {
	case "wmethod", "":
		return oracle.WMethod{MaxStates: maxStates}, nil
	case "randomwalk":
		return oracle.RandomWalk{MaxSteps: 2000, RestartProbability: 0.05}, nil
	default:
		return nil, fmt.Errorf("unknown oracle strategy %q", strategy)
	}
}
