package component

import (
	"fmt"
	"math/bits"
	"strings"
)

// EntityType is a single collision category bit. The universe is closed:
// only the constants below are valid.
type EntityType uint8

const (
	Enemy EntityType = 1 << iota
	EnemyBullet
	Player
	PlayerBullet
	Wall
)

// AllTypes lists every category in ascending bit order.
var AllTypes = [...]EntityType{Enemy, EnemyBullet, Player, PlayerBullet, Wall}

// TypeMask is a set of EntityType bits.
type TypeMask uint8

const AllMask TypeMask = TypeMask(Enemy | EnemyBullet | Player | PlayerBullet | Wall)

func MaskOf(types ...EntityType) TypeMask {
	var m TypeMask
	for _, t := range types {
		m |= TypeMask(t)
	}
	return m
}

func (m TypeMask) Has(t EntityType) bool { return m&TypeMask(t) != 0 }

func (m TypeMask) Without(types ...EntityType) TypeMask { return m &^ MaskOf(types...) }

func (m TypeMask) String() string {
	var parts []string
	for _, t := range AllTypes {
		if m.Has(t) {
			parts = append(parts, t.String())
		}
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// Valid reports whether t is exactly one known category bit.
func (t EntityType) Valid() bool {
	return t != 0 && bits.OnesCount8(uint8(t)) == 1 && TypeMask(t)&AllMask != 0
}

// IsBullet reports whether t is one of the projectile categories.
func (t EntityType) IsBullet() bool { return t == EnemyBullet || t == PlayerBullet }

// BulletType returns the projectile category fired by t.
func (t EntityType) BulletType() EntityType {
	if t == Enemy {
		return EnemyBullet
	}
	return PlayerBullet
}

func (t EntityType) String() string {
	switch t {
	case Enemy:
		return "enemy"
	case EnemyBullet:
		return "enemy_bullet"
	case Player:
		return "player"
	case PlayerBullet:
		return "player_bullet"
	case Wall:
		return "wall"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// ParseEntityType is the inverse of String.
func ParseEntityType(s string) (EntityType, error) {
	for _, t := range AllTypes {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown entity type %q", s)
}

// DefaultMask is the collision mask an entity of type t gets when a
// scenario does not list one: enemies and their bullets react to the
// player side, the player side reacts to enemies, everything hits walls,
// and walls react to everything but other walls.
func DefaultMask(t EntityType) TypeMask {
	switch t {
	case Enemy, EnemyBullet:
		return MaskOf(Player, PlayerBullet, Wall)
	case Player, PlayerBullet:
		return MaskOf(Enemy, EnemyBullet, Wall)
	case Wall:
		return AllMask.Without(Wall)
	default:
		return 0
	}
}

// ShotMask is the mask of a bullet fired by shooter: everything except the
// shooter's own category and its bullets.
func ShotMask(shooter EntityType) TypeMask {
	return AllMask.Without(shooter, shooter.BulletType())
}
