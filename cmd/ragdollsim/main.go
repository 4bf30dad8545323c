// ragdollsim runs a scripted two-bean scuffle against the ragdoll layer,
// printing lifecycle events and a pose sample every second. Useful for
// eyeballing tuning changes without booting a game server.
package main

import (
	"math"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/automoto/beanbrawl/components"
	"github.com/automoto/beanbrawl/ragdoll"
)

const (
	tickRate = 60
	seconds  = 12
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()

	mgr := ragdoll.New(ragdoll.WithLogger(log))
	defer mgr.Close()

	mgr.Ensure("alice")
	mgr.Ensure("bob")

	dt := 1.0 / tickRate
	for tick := 0; tick < tickRate*seconds; tick++ {
		t := float64(tick) * dt

		// Alice runs a circle, Bob stands in the middle.
		ax, az := 2*math.Cos(t), 2*math.Sin(t)
		mgr.DriveToPosition("alice", components.ControllerInput{
			Position:  [3]float64{ax, 0, az},
			Velocity:  [3]float64{-2 * math.Sin(t), 0, 2 * math.Cos(t)},
			FacingYaw: t + math.Pi/2,
			Sprinting: true,
			DT:        dt,
		})
		mgr.DriveToPosition("bob", components.ControllerInput{
			Position: [3]float64{0, 0, 0},
			DT:       dt,
		})

		switch tick {
		case 2 * tickRate:
			mgr.TriggerAttackPose("alice", false)
		case 3 * tickRate:
			mgr.TriggerAttackPose("alice", true)
			mgr.ApplyHitImpulse("bob", [3]float64{1, 0, 0}, 18, false, "")
		case 5 * tickRate:
			mgr.ApplyHitImpulse("bob", [3]float64{0, 0, 1}, 42, true, "head")
		case 6 * tickRate:
			mgr.SetKnockout("bob", true)
		case 8 * tickRate:
			mgr.CreateGrabJoint("alice", "bob")
		case 10 * tickRate:
			mgr.ReleaseGrabJoint("alice", true, [3]float64{1, 0, 0})
		}

		mgr.Step(dt)

		if tick%tickRate == 0 {
			head, _ := mgr.BoneTransform("bob", "head")
			log.Info().
				Int("second", tick/tickRate).
				Str("bob", mgr.State("bob")).
				Float64("bob_stiffness", mgr.Stiffness("bob")).
				Float64("bob_head_y", head.Y).
				Msg("tick sample")
		}
	}

	mgr.Prune([]string{"alice"})
	log.Info().Msg("done")
}
