package habit

import "errors"

var ErrNotFound = errors.New("habit not found")

type Repository interface {
	Create(h Habit) (Habit, error)
	Get(id string) (Habit, error)
	Update(id string, patch Patch) (Habit, error)
	Delete(id string) error
	List() ([]Habit, error)
	// Replace swaps the entire collection, used by import and reset.
	Replace(habits []Habit) error
}
