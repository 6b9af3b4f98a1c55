package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// GadgetStatus — статус гаджета в жизненном цикле.
type GadgetStatus string

const (
	GadgetStatusAvailable      GadgetStatus = "Available"
	GadgetStatusDeployed       GadgetStatus = "Deployed"
	GadgetStatusDestroyed      GadgetStatus = "Destroyed"
	GadgetStatusDecommissioned GadgetStatus = "Decommissioned"
)

// ParseGadgetStatus проверяет строку по списку допустимых статусов.
func ParseGadgetStatus(s string) (GadgetStatus, error) {
	switch GadgetStatus(s) {
	case GadgetStatusAvailable, GadgetStatusDeployed,
		GadgetStatusDestroyed, GadgetStatusDecommissioned:
		return GadgetStatus(s), nil
	default:
		return "", fmt.Errorf("unknown gadget status %q", s)
	}
}

// transitions — допустимые переходы статуса.
// Переход в тот же статус разрешён всегда (идемпотентные операции).
// Destroyed — терминальный: из него выхода нет.
var transitions = map[GadgetStatus]map[GadgetStatus]bool{
	GadgetStatusAvailable: {
		GadgetStatusDeployed:       true,
		GadgetStatusDecommissioned: true,
		GadgetStatusDestroyed:      true,
	},
	GadgetStatusDeployed: {
		GadgetStatusAvailable:      true,
		GadgetStatusDecommissioned: true,
		GadgetStatusDestroyed:      true,
	},
	GadgetStatusDecommissioned: {
		GadgetStatusDestroyed: true,
	},
	GadgetStatusDestroyed: {},
}

// CanTransitionTo сообщает, допустим ли переход s → to.
func (s GadgetStatus) CanTransitionTo(to GadgetStatus) bool {
	if s == to {
		return true
	}
	return transitions[s][to]
}

// Gadget — инвентарная запись. Физически не удаляется: жизненный цикл
// заканчивается терминальным статусом, запись остаётся.
type Gadget struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name             string         `gorm:"size:255;not null" json:"name"`
	Status           GadgetStatus   `gorm:"size:32;not null;default:Available" json:"status"`
	DecommissionedAt *time.Time     `json:"decommissionedAt"`
	Codename         string         `gorm:"size:64" json:"codename,omitempty"`
	Specs            datatypes.JSON `json:"specs,omitempty"`
}
