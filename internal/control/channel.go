package control

import (
	"fmt"
	"strings"

	"github.com/san-kum/subsim/internal/dynamo"
)

type ChannelKind int

const (
	ThrottleChannel ChannelKind = iota
	SurfaceChannel
	BallastChannel
)

// Channel names the actuator a controller drives.
type Channel struct {
	Kind ChannelKind
	// ID is the surface or tank id; unused for the throttle.
	ID string
}

func Throttle() Channel           { return Channel{Kind: ThrottleChannel} }
func Surface(id string) Channel   { return Channel{Kind: SurfaceChannel, ID: id} }
func Ballast(tank string) Channel { return Channel{Kind: BallastChannel, ID: tank} }

func (c Channel) String() string {
	switch c.Kind {
	case SurfaceChannel:
		return "surface:" + c.ID
	case BallastChannel:
		return "ballast:" + c.ID
	default:
		return "throttle"
	}
}

// Input builds a single-channel input carrying u.
func (c Channel) Input(u float64) dynamo.Input {
	switch c.Kind {
	case SurfaceChannel:
		return dynamo.Input{Deflections: map[string]float64{c.ID: u}}
	case BallastChannel:
		return dynamo.Input{Ballast: map[string]float64{c.ID: u}}
	default:
		return dynamo.Input{Throttle: u}
	}
}

func ParseChannel(s string) (Channel, error) {
	if s == "" || s == "throttle" {
		return Throttle(), nil
	}
	if id, ok := strings.CutPrefix(s, "surface:"); ok && id != "" {
		return Surface(id), nil
	}
	if id, ok := strings.CutPrefix(s, "ballast:"); ok && id != "" {
		return Ballast(id), nil
	}
	return Channel{}, fmt.Errorf("control: unknown channel %q", s)
}
