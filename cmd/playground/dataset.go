package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"

	"github.com/ahmedtd/playground/dataset"
	"github.com/google/subcommands"
)

type DatasetCommand struct {
	kind   string
	points int
	seed   int64
	output string
}

var _ subcommands.Command = (*DatasetCommand)(nil)

func (*DatasetCommand) Name() string {
	return "dataset"
}

func (*DatasetCommand) Synopsis() string {
	return "Generate a dataset and write it as a .npz archive"
}

func (*DatasetCommand) Usage() string {
	return ``
}

func (c *DatasetCommand) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", "xor", "Dataset to generate (circle, xor, spiral, gaussian)")
	f.IntVar(&c.points, "points", 200, "Number of points")
	f.Int64Var(&c.seed, "seed", 12345, "Random seed")
	f.StringVar(&c.output, "output", "dataset.npz", "Path of the .npz file to write")
}

func (c *DatasetCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.executeErr(ctx); err != nil {
		log.Printf("Error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *DatasetCommand) executeErr(ctx context.Context) error {
	kind, err := dataset.ParseKind(c.kind)
	if err != nil {
		return err
	}

	points, err := dataset.Generate(kind, c.points, rand.New(rand.NewSource(c.seed)))
	if err != nil {
		return fmt.Errorf("while generating dataset: %w", err)
	}

	if err := dataset.WriteNPZ(c.output, points); err != nil {
		return fmt.Errorf("while writing dataset: %w", err)
	}

	log.Printf("Wrote %d %v points to %s", len(points), kind, c.output)
	return nil
}
