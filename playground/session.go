// Package playground drives training of a toolbox.Network on a generated
// dataset: epoch scheduling, stop handling, reconfiguration, and the
// loss/accuracy/timing bookkeeping that goes with it.
package playground

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/ahmedtd/playground/dataset"
	"github.com/ahmedtd/playground/toolbox"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes a session after its most recent epoch.
type Stats struct {
	Epoch int

	// Loss is the mean per-sample squared error of the last epoch.
	Loss float32

	// Accuracy is the percentage of points classified correctly, as of the
	// last time it was computed.
	Accuracy float32

	Timings Timings
}

// Timings accumulates wall-clock time spent in a session.
type Timings struct {
	Overall    time.Duration
	Training   time.Duration
	Evaluation time.Duration
}

func (t *Timings) Reset() {
	*t = Timings{}
}

// Session owns one network and the dataset it trains on.  It is not safe for
// concurrent use; share a Snapshot instead.
type Session struct {
	cfg Config
	r   *rand.Rand

	points  []dataset.Point
	inputs  [][]float32
	targets [][]float32

	net *toolbox.Network

	epoch    int
	loss     float32
	accuracy float32
	timings  Timings
}

func NewSession(cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("while validating config: %w", err)
	}

	s := &Session{}
	if err := s.build(cfg.clone(), true); err != nil {
		return nil, err
	}
	return s, nil
}

// build replaces the session state with a fresh network (and, if
// regenerate is set, a fresh dataset) for cfg.  On error s is unchanged.
func (s *Session) build(cfg Config, regenerate bool) error {
	r := s.r
	points := s.points
	if regenerate {
		r = rand.New(rand.NewSource(cfg.Seed))

		var err error
		points, err = dataset.Generate(cfg.Dataset, cfg.Points, r)
		if err != nil {
			return fmt.Errorf("while generating dataset: %w", err)
		}
	}

	net, err := toolbox.MakeNetwork(cfg.LayerSizes(), cfg.Activation, cfg.LearningRate, r)
	if err != nil {
		return fmt.Errorf("while building network: %w", err)
	}

	s.cfg = cfg
	s.r = r
	if regenerate {
		s.points = points
		s.inputs = dataset.Inputs(points)
		s.targets = dataset.Targets(points)
	}
	s.net = net
	s.epoch = 0
	s.loss = 0
	s.accuracy = 0
	s.timings.Reset()
	return nil
}

// Reconfigure switches the session to cfg.  The dataset is regenerated only
// when the dataset kind, point count or seed change.  If cfg is rejected the
// session keeps its current state.
func (s *Session) Reconfigure(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("while validating config: %w", err)
	}
	return s.build(cfg.clone(), !sameData(s.cfg, cfg))
}

// Reset starts over with a freshly initialized network and the same dataset.
func (s *Session) Reset() error {
	return s.build(s.cfg, false)
}

// Epoch trains on every point once, in order, and returns the mean loss.
func (s *Session) Epoch() (float32, error) {
	start := time.Now()

	losses := make([]float64, len(s.inputs))
	for k := range s.inputs {
		loss, err := s.net.Train(s.inputs[k], s.targets[k])
		if err != nil {
			return 0, fmt.Errorf("while training on point %d: %w", k, err)
		}
		losses[k] = float64(loss)
	}
	s.loss = float32(stat.Mean(losses, nil))
	s.timings.Training += time.Since(start)

	if s.epoch%s.cfg.AccuracyEvery == 0 {
		acc, err := s.evaluate()
		if err != nil {
			return 0, err
		}
		s.accuracy = acc
	}

	s.epoch++
	s.timings.Overall += time.Since(start)
	return s.loss, nil
}

// Accuracy returns the percentage of points the network currently
// classifies correctly.
func (s *Session) Accuracy() (float32, error) {
	start := time.Now()
	acc, err := s.evaluate()
	s.timings.Overall += time.Since(start)
	return acc, err
}

func (s *Session) evaluate() (float32, error) {
	start := time.Now()
	defer func() { s.timings.Evaluation += time.Since(start) }()

	correct := 0
	for k, p := range s.points {
		pred, err := s.net.Predict(s.inputs[k])
		if err != nil {
			return 0, fmt.Errorf("while predicting point %d: %w", k, err)
		}
		if (pred > 0.5) == (p.Label == 1) {
			correct++
		}
	}
	return float32(correct) / float32(len(s.points)) * float32(100), nil
}

// Run trains until MaxEpochs is reached or ctx is done.  ctx is checked
// between epochs, so an epoch that has started always finishes.  onEpoch,
// if not nil, is called after every epoch.  Stopping because ctx is done is
// not an error.
func (s *Session) Run(ctx context.Context, onEpoch func(Stats)) (Stats, error) {
	for !s.Done() {
		if ctx.Err() != nil {
			break
		}
		if _, err := s.Epoch(); err != nil {
			return s.Stats(), fmt.Errorf("while running epoch %d: %w", s.epoch, err)
		}
		if onEpoch != nil {
			onEpoch(s.Stats())
		}
	}

	acc, err := s.Accuracy()
	if err != nil {
		return s.Stats(), fmt.Errorf("while computing final accuracy: %w", err)
	}
	s.accuracy = acc

	return s.Stats(), nil
}

// Done reports whether the session has trained for MaxEpochs.
func (s *Session) Done() bool {
	return s.epoch >= s.cfg.MaxEpochs
}

func (s *Session) Stats() Stats {
	return Stats{
		Epoch:    s.epoch,
		Loss:     s.loss,
		Accuracy: s.accuracy,
		Timings:  s.timings,
	}
}

func (s *Session) Config() Config {
	return s.cfg.clone()
}

func (s *Session) Points() []dataset.Point {
	return slices.Clone(s.points)
}

// Snapshot returns a copy of the current network that stays valid while the
// session keeps training.
func (s *Session) Snapshot() *toolbox.Network {
	return s.net.Clone()
}
