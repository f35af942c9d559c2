package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/gbossert/pylstar/pkg/knowledge"
	"github.com/gbossert/pylstar/pkg/learner"
	"github.com/gbossert/pylstar/pkg/letter"
	"github.com/gbossert/pylstar/pkg/mealy"
	"github.com/gbossert/pylstar/pkg/oracle"
)

// watchState is the progress snapshot the learner's background goroutine
// publishes and the draw loop reads, guarded by mu.
type watchState struct {
	mu        sync.Mutex
	iteration int
	states    int
	done      bool
	err       error
	hyp       *mealy.Machine
}

func (w *watchState) update(iteration int, hyp *mealy.Machine) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.iteration, w.states, w.hyp = iteration, hyp.NumStates(), hyp
}

func (w *watchState) finish(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.done, w.err = true, err
}

func (w *watchState) snapshot() (iteration, states int, done bool, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.iteration, w.states, w.done, w.err
}

func newWatchCmd() *cobra.Command {
	var (
		scenarioName string
		maxStates    int
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Learn a built-in scenario with a live terminal progress view",
		RunE: func(cmd *cobra.Command, args []string) error {
			if scenarioName == "" {
				scenarioName = "coffee"
			}
			s, err := findScenario(scenarioName)
			if err != nil {
				return err
			}
			m := s.build()
			target := knowledge.NewFixtureTarget(m)
			return runWatch(target, m.Alphabet(), s.name, maxStates)
		},
	}
	cmd.Flags().StringVar(&scenarioName, "scenario", "coffee", "built-in scenario to learn against")
	cmd.Flags().IntVar(&maxStates, "max-states", 16, "upper bound on hypothesis state count")
	return cmd
}

// runWatch drives a single-screen tcell progress view while the learner
// runs in a background goroutine, adapted from a visual FSM editor's
// screen-init/event-loop shape and trimmed down to a read-only status
// display plus a quit key — no editing, no mouse, no undo stack.
func runWatch(target knowledge.Target, alphabet []letter.Letter, scenarioName string, maxStates int) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.Clear()

	state := &watchState{}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mem := knowledge.NewActiveOracle(target, nil)
	eq := oracle.WMethod{MaxStates: maxStates}
	l := learner.New(alphabet, mem, eq, maxStates, learner.WithObserver(func(iteration int, hyp *mealy.Machine) {
		state.update(iteration, hyp)
		screen.PostEvent(tcell.NewEventInterrupt(nil))
	}))

	go func() {
		hyp, err := l.Learn(ctx)
		_ = hyp
		state.finish(err)
		screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	for {
		drawWatchScreen(screen, scenarioName, state)
		screen.Show()

		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
				cancel()
				return nil
			}
		case *tcell.EventResize:
			screen.Sync()
		}

		if _, _, done, _ := state.snapshot(); done {
			drawWatchScreen(screen, scenarioName, state)
			screen.Show()
			time.Sleep(500 * time.Millisecond)
			_, _, _, learnErr := state.snapshot()
			return learnErr
		}
	}
}

func drawWatchScreen(screen tcell.Screen, scenarioName string, state *watchState) {
	screen.Clear()
	style := tcell.StyleDefault
	iteration, states, done, err := state.snapshot()

	drawText(screen, 2, 1, style.Bold(true), fmt.Sprintf("learning scenario: %s", scenarioName))
	drawText(screen, 2, 3, style, fmt.Sprintf("iteration: %d", iteration))
	drawText(screen, 2, 4, style, fmt.Sprintf("hypothesis states: %d", states))

	switch {
	case done && err != nil:
		drawText(screen, 2, 6, style.Foreground(tcell.ColorRed), fmt.Sprintf("failed: %v", err))
	case done:
		drawText(screen, 2, 6, style.Foreground(tcell.ColorGreen), "learning converged")
	default:
		drawText(screen, 2, 6, style, "learning in progress...")
	}
	drawText(screen, 2, 8, style.Italic(true), "press q to quit")
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
