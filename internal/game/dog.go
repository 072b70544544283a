package game

import "dogstory/internal/geom"

// Direction is the facing of a dog. It is preserved across STAND commands;
// only an actual movement command changes it.
type Direction string

const (
	North Direction = "U"
	South Direction = "D"
	West  Direction = "L"
	East  Direction = "R"
)

// Dog is one avatar within a GameSession.
type Dog struct {
	ID   int
	Name string

	Pos     geom.Point
	PrevPos geom.Point
	Speed   geom.Point
	Dir     Direction

	Bag         []Loot
	BagCapacity int
	Score       int

	PlayTimeMs int64
	IdleMs     int64
}

// NewDog constructs a dog at pos, facing North, standing still.
func NewDog(id int, name string, pos geom.Point, bagCapacity int) *Dog {
	return &Dog{
		ID:          id,
		Name:        name,
		Pos:         pos,
		PrevPos:     pos,
		Dir:         North,
		BagCapacity: bagCapacity,
	}
}

// SetDirection applies a move command. An empty move ("" -- STAND) zeroes
// speed but leaves Dir untouched, so a standing dog still faces the way it
// was last walking.
func (d *Dog) SetDirection(move string, speed float64) {
	switch Direction(move) {
	case North:
		d.Dir = North
		d.Speed = geom.Point{X: 0, Y: -speed}
	case South:
		d.Dir = South
		d.Speed = geom.Point{X: 0, Y: speed}
	case West:
		d.Dir = West
		d.Speed = geom.Point{X: -speed, Y: 0}
	case East:
		d.Dir = East
		d.Speed = geom.Point{X: speed, Y: 0}
	default:
		d.Speed = geom.Point{}
	}
}

// IsStationary reports whether the dog's current velocity is zero.
func (d *Dog) IsStationary() bool {
	return d.Speed.X == 0 && d.Speed.Y == 0
}

// DesiredEnd returns where the dog would be after deltaMs at its current
// velocity, before road clamping is applied.
func (d *Dog) DesiredEnd(deltaMs int64) geom.Point {
	seconds := float64(deltaMs) / 1000.0
	return d.Pos.Add(d.Speed.Scale(seconds))
}

// ApplyPosition commits a post-clamp position, keeping the previous
// position as the start of this tick's gather sweep.
func (d *Dog) ApplyPosition(p geom.Point) {
	d.PrevPos = d.Pos
	d.Pos = p
}

// StopMove zeroes velocity without touching Dir, used when a road clamp
// stops a dog short of where it was heading.
func (d *Dog) StopMove() {
	d.Speed = geom.Point{}
}

// BagFull reports whether the bag has reached its capacity.
func (d *Dog) BagFull() bool {
	return len(d.Bag) >= d.BagCapacity
}

// PickUp appends a loot item to the bag. Returns false if the bag is full.
func (d *Dog) PickUp(l Loot) bool {
	if d.BagFull() {
		return false
	}
	d.Bag = append(d.Bag, l)
	return true
}

// EmptyBag scores every item in the bag against scoreFor and clears it,
// returning the total score gained.
func (d *Dog) EmptyBag(scoreFor func(lootType int) int) int {
	gained := 0
	for _, l := range d.Bag {
		gained += scoreFor(l.Type)
	}
	d.Score += gained
	d.Bag = d.Bag[:0]
	return gained
}
