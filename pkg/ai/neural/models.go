package neural

import (
	"os"

	"github.com/patrikeh/go-deep"
	"github.com/pkg/errors"
)

// NetworkConfig defines the ranking network architecture
type NetworkConfig struct {
	Name         string
	Window       int
	Height       int
	Width        int
	HiddenLayers []int
	Weights      [][][]float64
}

func DefaultNetworkConfig(height, width int) NetworkConfig {
	return NetworkConfig{
		Name:         "default",
		Window:       DefaultConfig().Window,
		Height:       height,
		Width:        width,
		HiddenLayers: []int{64, 32},
	}
}

// InputSize is the flattened window length
func (c NetworkConfig) InputSize() int { return c.Window * c.Height * c.Width }

// NewNetwork builds a network with one output per column. Untrained unless
// Weights is set.
func NewNetwork(config NetworkConfig) *deep.Neural {
	layout := append([]int(nil), config.HiddenLayers...)
	layout = append(layout, config.Width)

	network := deep.NewNeural(&deep.Config{
		Inputs:     config.InputSize(),
		Layout:     layout,
		Activation: deep.ActivationReLU,
		Mode:       deep.ModeMultiClass,
		Weight:     deep.NewNormal(0.1, 0.0),
		Bias:       true,
	})
	if config.Weights != nil {
		network.ApplyWeights(config.Weights)
	}
	return network
}

// LoadNetwork reads a network dumped with go-deep's Marshal
func LoadNetwork(path string) (*deep.Neural, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading network")
	}
	network, err := deep.Unmarshal(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding network %s", path)
	}
	return network, nil
}

// DeepRanker adapts a go-deep network to Ranker
type DeepRanker struct {
	network *deep.Neural
}

func NewDeepRanker(network *deep.Neural) *DeepRanker {
	return &DeepRanker{network: network}
}

func (d *DeepRanker) Rank(input []float64) ([]float64, error) {
	if d.network.Config != nil && d.network.Config.Inputs != len(input) {
		return nil, errors.Errorf("network expects %d inputs, got %d", d.network.Config.Inputs, len(input))
	}
	return d.network.Predict(input), nil
}
