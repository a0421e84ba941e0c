package playground

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/google/go-cmp/cmp"
)

func TestConfigLayerSizes(t *testing.T) {
	cfg := DefaultConfig(1)
	if diff := cmp.Diff(cfg.LayerSizes(), []int{2, 4, 1}); diff != "" {
		t.Errorf("Wrong default sizes; diff (-got +want)\n%s", diff)
	}

	cfg.Hidden = []int{3, 8, 1}
	if diff := cmp.Diff(cfg.LayerSizes(), []int{2, 3, 8, 1, 1}); diff != "" {
		t.Errorf("Wrong sizes; diff (-got +want)\n%s", diff)
	}
}

func TestConfigHiddenLayerEdits(t *testing.T) {
	testCases := []struct {
		desc string
		edit func(Config) Config
		want []int
	}{
		{
			desc: "add",
			edit: func(c Config) Config { return c.AddHiddenLayer() },
			want: []int{4, 4},
		},
		{
			desc: "add is capped at MaxHiddenLayers",
			edit: func(c Config) Config { return c.AddHiddenLayer().AddHiddenLayer().AddHiddenLayer() },
			want: []int{4, 4, 4},
		},
		{
			desc: "remove keeps MinHiddenLayers",
			edit: func(c Config) Config { return c.AddHiddenLayer().RemoveHiddenLayer().RemoveHiddenLayer() },
			want: []int{4},
		},
		{
			desc: "grow",
			edit: func(c Config) Config { return c.AddHiddenLayer().ResizeHiddenLayer(1, 3) },
			want: []int{4, 7},
		},
		{
			desc: "grow is capped at MaxHiddenWidth",
			edit: func(c Config) Config { return c.ResizeHiddenLayer(0, 3).ResizeHiddenLayer(0, 3) },
			want: []int{8},
		},
		{
			desc: "shrink stops at MinHiddenWidth",
			edit: func(c Config) Config { return c.ResizeHiddenLayer(0, -10) },
			want: []int{1},
		},
		{
			desc: "out of range layer is ignored",
			edit: func(c Config) Config { return c.ResizeHiddenLayer(5, 1) },
			want: []int{4},
		},
	}
	for _, tc := range testCases {
		got := tc.edit(DefaultConfig(1)).Hidden
		if diff := cmp.Diff(got, tc.want); diff != "" {
			t.Errorf("%s: wrong hidden widths; diff (-got +want)\n%s", tc.desc, diff)
		}
	}
}

func TestConfigEditsDoNotAlias(t *testing.T) {
	orig := DefaultConfig(1)
	resized := orig.ResizeHiddenLayer(0, 1)
	if diff := cmp.Diff(orig.Hidden, []int{4}); diff != "" {
		t.Errorf("Original was modified; diff (-got +want)\n%s", diff)
	}
	if diff := cmp.Diff(resized.Hidden, []int{5}); diff != "" {
		t.Errorf("Wrong resized widths; diff (-got +want)\n%s", diff)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig(1).Validate(); err != nil {
		t.Fatalf("Default config rejected: %v", err)
	}

	testCases := []struct {
		desc   string
		modify func(*Config)
	}{
		{"no points", func(c *Config) { c.Points = 0 }},
		{"no epochs", func(c *Config) { c.MaxEpochs = 0 }},
		{"no accuracy interval", func(c *Config) { c.AccuracyEvery = 0 }},
		{"zero learning rate", func(c *Config) { c.LearningRate = 0 }},
		{"NaN learning rate", func(c *Config) { c.LearningRate = math32.NaN() }},
		{"infinite learning rate", func(c *Config) { c.LearningRate = math32.Inf(1) }},
		{"empty hidden layer", func(c *Config) { c.Hidden = []int{4, 0} }},
	}
	for _, tc := range testCases {
		cfg := DefaultConfig(1)
		tc.modify(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate succeeded, want error", tc.desc)
		}
	}
}
