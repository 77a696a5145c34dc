// Package players builds AI policies from configuration strings such as
// "simple", "random" or "neural:window=4,model=net.json".
package players

import (
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/patrikeh/go-deep"
	"github.com/pkg/errors"

	"github.com/montplusa/connect-four/pkg/ai/neural"
	"github.com/montplusa/connect-four/pkg/ai/random"
	"github.com/montplusa/connect-four/pkg/ai/simple"
	"github.com/montplusa/connect-four/pkg/game"
)

// Env is what a module may need to build a policy for one game.
type Env struct {
	Height int
	Width  int
	Rand   *rand.Rand
}

// Module builds a fresh policy. It is called once per seat per game, so
// stateful policies are never shared between games.
type Module func(env Env, params map[string]string) (game.AI, error)

var (
	mu      sync.RWMutex
	modules = map[string]Module{
		"random": newRandom,
		"simple": newSimple,
		"neural": newNeural,
	}
)

// Register adds or replaces a module.
func Register(name string, m Module) {
	mu.Lock()
	defer mu.Unlock()
	modules[name] = m
}

// Names lists registered modules.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(modules))
	for n := range modules {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// New parses config as the module name, optionally followed by ":" and a
// comma-separated list of key=value parameters.
func New(config string, env Env) (game.AI, error) {
	name, rest, _ := strings.Cut(config, ":")
	mu.RLock()
	m, ok := modules[name]
	mu.RUnlock()
	if !ok {
		return nil, errors.Errorf("unknown AI player %q", name)
	}
	ai, err := m(env, splitParams(rest))
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to create AI player %q", name)
	}
	return ai, nil
}

func splitParams(s string) map[string]string {
	params := make(map[string]string)
	if s == "" {
		return params
	}
	for _, part := range strings.Split(s, ",") {
		k, v, _ := strings.Cut(part, "=")
		params[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return params
}

func intParam(params map[string]string, key string, def int) (int, error) {
	v, ok := params[key]
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to parse %s=%q to int", key, v)
	}
	return n, nil
}

// boolParam treats a bare key as true.
func boolParam(params map[string]string, key string) (bool, error) {
	v, ok := params[key]
	if !ok {
		return false, nil
	}
	if v == "" {
		return true, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.Wrapf(err, "failed to parse %s=%q to bool", key, v)
	}
	return b, nil
}

func newRandom(env Env, _ map[string]string) (game.AI, error) {
	return random.New(env.Rand), nil
}

func newSimple(env Env, _ map[string]string) (game.AI, error) {
	return simple.New(env.Rand), nil
}

// model files are read once; every game decodes its own network because
// go-deep keeps activations inside the network during Predict.
var modelCache sync.Map

func loadModel(path string) (*deep.Neural, error) {
	if data, ok := modelCache.Load(path); ok {
		return deep.Unmarshal(data.([]byte))
	}
	network, err := neural.LoadNetwork(path)
	if err != nil {
		return nil, err
	}
	data, err := network.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "caching network")
	}
	modelCache.Store(path, data)
	return network, nil
}

func newNeural(env Env, params map[string]string) (game.AI, error) {
	cfg := neural.DefaultConfig()
	var err error
	if cfg.Window, err = intParam(params, "window", cfg.Window); err != nil {
		return nil, err
	}
	if cfg.RightPadding, err = boolParam(params, "right_pad"); err != nil {
		return nil, err
	}
	if cfg.Perspective, err = boolParam(params, "perspective"); err != nil {
		return nil, err
	}

	var network *deep.Neural
	name := "neural"
	if path := params["model"]; path != "" {
		if network, err = loadModel(path); err != nil {
			return nil, err
		}
		name = "neural (" + path + ")"
	} else {
		nc := neural.DefaultNetworkConfig(env.Height, env.Width)
		nc.Window = cfg.Window
		network = neural.NewNetwork(nc)
	}
	return neural.New(neural.NewDeepRanker(network), cfg).WithName(name), nil
}
