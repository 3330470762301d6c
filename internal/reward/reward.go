package reward

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("reward not found")
	ErrEmptyTitle = errors.New("title is required")
)

// Reward is a self-chosen treat purchasable with gold.
type Reward struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Cost  int    `json:"cost"`
	Icon  string `json:"icon"`
}

func New(title string, cost int, icon string) (Reward, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Reward{}, ErrEmptyTitle
	}
	if cost < 0 {
		cost = 0
	}
	if icon == "" {
		icon = "🎁"
	}
	return Reward{ID: uuid.NewString(), Title: title, Cost: cost, Icon: icon}, nil
}

// Defaults seeds a fresh account's store.
func Defaults() []Reward {
	return []Reward{
		{ID: uuid.NewString(), Title: "Coffee Break", Cost: 30, Icon: "☕"},
		{ID: uuid.NewString(), Title: "1 Hour Netflix", Cost: 100, Icon: "📺"},
		{ID: uuid.NewString(), Title: "New Gear", Cost: 5000, Icon: "🎮"},
	}
}

type Repository interface {
	Create(r Reward) (Reward, error)
	Get(id string) (Reward, error)
	Update(r Reward) (Reward, error)
	Delete(id string) error
	List() ([]Reward, error)
	Replace(rewards []Reward) error
}
