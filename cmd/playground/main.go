// Command playground trains a small network to separate two classes of 2D
// points and renders the learned decision surface.
//
// To train: `go run ./cmd/playground train --dataset=xor --hidden=4,4 --surface-png=xor.png`
//
// To export a dataset: `go run ./cmd/playground dataset --kind=spiral --output=spiral.npz`
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"strings"

	"github.com/ahmedtd/playground/dataset"
	"github.com/ahmedtd/playground/playground"
	"github.com/ahmedtd/playground/toolbox"
	"github.com/google/subcommands"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&TrainCommand{}, "")
	subcommands.Register(&DatasetCommand{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}

type TrainCommand struct {
	dataset       string
	points        int
	hidden        string
	activation    string
	learningRate  float64
	maxEpochs     int
	accuracyEvery int
	seed          int64

	logEvery int

	surfacePNG        string
	surfaceNPZ        string
	surfaceResolution int
	surfaceSize       int

	cpuProfileFile string
}

var _ subcommands.Command = (*TrainCommand)(nil)

func (*TrainCommand) Name() string {
	return "train"
}

func (*TrainCommand) Synopsis() string {
	return "Train a network on a generated dataset"
}

func (*TrainCommand) Usage() string {
	return `train [flags]:
  Train until --max-epochs or until interrupted, then report accuracy and
  optionally write the decision surface.
`
}

func (c *TrainCommand) SetFlags(f *flag.FlagSet) {
	def := playground.DefaultConfig(12345)

	f.StringVar(&c.dataset, "dataset", def.Dataset.String(), "Dataset to train on (circle, xor, spiral, gaussian)")
	f.IntVar(&c.points, "points", def.Points, "Number of points to generate")
	f.StringVar(&c.hidden, "hidden", "4", "Comma-separated hidden layer widths")
	f.StringVar(&c.activation, "activation", def.Activation.String(), "Hidden layer activation (linear, tanh, relu, sigmoid, gelu)")
	f.Float64Var(&c.learningRate, "learning-rate", float64(def.LearningRate), "Learning rate")
	f.IntVar(&c.maxEpochs, "max-epochs", def.MaxEpochs, "Stop after this many epochs")
	f.IntVar(&c.accuracyEvery, "accuracy-every", def.AccuracyEvery, "Recompute accuracy every this many epochs")
	f.Int64Var(&c.seed, "seed", def.Seed, "Seed for the dataset and the initial weights")

	f.IntVar(&c.logEvery, "log-every", 100, "Log progress every this many epochs")

	f.StringVar(&c.surfacePNG, "surface-png", "", "Write the decision surface as a PNG")
	f.StringVar(&c.surfaceNPZ, "surface-npz", "", "Write the decision surface as a .npz archive")
	f.IntVar(&c.surfaceResolution, "surface-resolution", 50, "Decision surface grid resolution")
	f.IntVar(&c.surfaceSize, "surface-size", 400, "Width and height of the PNG in pixels")

	f.StringVar(&c.cpuProfileFile, "cpu-profile", "", "Write a CPU profile")
}

func (c *TrainCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.executeErr(ctx); err != nil {
		log.Printf("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *TrainCommand) config() (playground.Config, error) {
	kind, err := dataset.ParseKind(c.dataset)
	if err != nil {
		return playground.Config{}, err
	}
	act, err := toolbox.ParseActivationType(c.activation)
	if err != nil {
		return playground.Config{}, err
	}
	hidden, err := parseHidden(c.hidden)
	if err != nil {
		return playground.Config{}, err
	}

	return playground.Config{
		Dataset:       kind,
		Points:        c.points,
		Hidden:        hidden,
		Activation:    act,
		LearningRate:  float32(c.learningRate),
		MaxEpochs:     c.maxEpochs,
		AccuracyEvery: c.accuracyEvery,
		Seed:          c.seed,
	}, nil
}

func (c *TrainCommand) executeErr(ctx context.Context) error {
	if c.cpuProfileFile != "" {
		f, err := os.Create(c.cpuProfileFile)
		if err != nil {
			return fmt.Errorf("while creating CPU profile file: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("while starting CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	cfg, err := c.config()
	if err != nil {
		return fmt.Errorf("while parsing flags: %w", err)
	}

	s, err := playground.NewSession(cfg)
	if err != nil {
		return fmt.Errorf("while creating session: %w", err)
	}
	log.Printf("Training %v on %d %v points", cfg.LayerSizes(), cfg.Points, cfg.Dataset)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logEvery := max(c.logEvery, 1)
	stats, err := s.Run(ctx, func(st playground.Stats) {
		if st.Epoch%logEvery == 0 {
			log.Printf("epoch %d loss %f accuracy %.1f%%", st.Epoch, st.Loss, st.Accuracy)
		}
	})
	if err != nil {
		return fmt.Errorf("while training: %w", err)
	}
	if !s.Done() {
		log.Printf("Interrupted after epoch %d", stats.Epoch)
	}

	net := s.Snapshot()
	log.Printf("Finished: epoch %d loss %f accuracy %.1f%%", stats.Epoch, stats.Loss, stats.Accuracy)
	log.Printf("Time: overall %v training %v evaluation %v", stats.Timings.Overall, stats.Timings.Training, stats.Timings.Evaluation)
	if n := net.Saturations(); n > 0 {
		log.Printf("Sigmoid input clipped %d times", n)
	}

	if c.surfacePNG == "" && c.surfaceNPZ == "" {
		return nil
	}

	surface, err := playground.DecisionSurface(net, c.surfaceResolution)
	if err != nil {
		return fmt.Errorf("while sampling decision surface: %w", err)
	}

	if c.surfacePNG != "" {
		if err := writePNG(c.surfacePNG, surface, s.Points(), c.surfaceSize); err != nil {
			return fmt.Errorf("while writing surface image: %w", err)
		}
		log.Printf("Wrote %s", c.surfacePNG)
	}
	if c.surfaceNPZ != "" {
		if err := playground.WriteSurfaceNPZ(c.surfaceNPZ, surface); err != nil {
			return fmt.Errorf("while writing surface archive: %w", err)
		}
		log.Printf("Wrote %s", c.surfaceNPZ)
	}

	return nil
}

func writePNG(path string, surface *toolbox.AF32, points []dataset.Point, size int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := playground.RenderPNG(f, surface, points, size); err != nil {
		return err
	}
	return f.Close()
}

// parseHidden parses a list of hidden layer widths like "4,4".
func parseHidden(s string) ([]int, error) {
	var widths []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		w, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("bad hidden layer width %q: %w", field, err)
		}
		widths = append(widths, w)
	}
	return widths, nil
}
