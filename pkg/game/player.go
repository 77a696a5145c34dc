package game

import (
	"fmt"

	"github.com/pkg/errors"
)

// Player は対局者。ID 1 のマーカーは +1、ID 2 は -1
type Player struct {
	ID   int
	Name string
	AI   AI
}

// NewPlayer は ID を検証して Player を返す
func NewPlayer(id int, name string, ai AI) (Player, error) {
	if id != 1 && id != 2 {
		return Player{}, errors.Wrapf(ErrInvalidPlayer, "id %d", id)
	}
	if ai == nil {
		return Player{}, errors.Wrapf(ErrInvalidPlayer, "player %d has no AI", id)
	}
	if name == "" {
		name = fmt.Sprintf("Player %d", id)
	}
	return Player{ID: id, Name: name, AI: ai}, nil
}

func (p Player) Marker() Marker {
	if p.ID == 1 {
		return Plus
	}
	return Minus
}

// Target はこのプレイヤーの勝利となるライン合計 (±4)
func (p Player) Target() int { return ConnectN * int(p.Marker()) }

func (p Player) String() string {
	if p.AI == nil {
		return p.Name
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.AI.Name())
}
