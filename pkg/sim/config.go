package sim

import (
	"encoding/json"
	"os"
	"runtime"

	"github.com/pkg/errors"

	"github.com/montplusa/connect-four/pkg/game"
)

// Config はシミュレーション全体の設定
type Config struct {
	Games   int `json:"games,omitempty"`
	Workers int `json:"workers,omitempty"`
	Height  int `json:"height,omitempty"`
	Width   int `json:"width,omitempty"`
	// Players は players.New に渡す設定文字列。[0] が ID 1
	Players [2]string `json:"players,omitempty"`
	Names   [2]string `json:"names,omitempty"`
	// Seed が 0 以外なら対局 i は Seed+i で初期化され、結果が再現できる
	Seed int64 `json:"seed,omitempty"`
	// RepeatDraws は勝者が出るまで同じ枠をやり直す
	RepeatDraws   bool `json:"repeat_draws,omitempty"`
	MaxRejections int  `json:"max_rejections,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Games:   1,
		Workers: runtime.NumCPU(),
		Height:  game.DefaultHeight,
		Width:   game.DefaultWidth,
		Players: [2]string{"random", "random"},
		Names:   [2]string{"Player 1", "Player 2"},
	}
}

// LoadConfig は JSON ファイルを DefaultConfig の上に読み込む
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Games < 0 {
		return errors.Errorf("games must not be negative, got %d", c.Games)
	}
	if c.Workers <= 0 {
		return errors.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Height < game.MinSize || c.Width < game.MinSize {
		return errors.Wrapf(game.ErrInvalidDimensions, "got %dx%d", c.Height, c.Width)
	}
	if c.Names[0] == c.Names[1] {
		return errors.Errorf("player names must differ, both are %q", c.Names[0])
	}
	return nil
}
