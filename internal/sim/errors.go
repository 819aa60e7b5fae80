package sim

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/tractionsim/internal/vehicle"
)

var (
	ErrInvalidStep = errors.New("sim: physics step must be positive")
	ErrNoRenderer  = errors.New("sim: real-time loop needs a renderer")
)

type SimError struct {
	Step    int
	Time    time.Duration
	Message string
}

func (e *SimError) Error() string {
	return fmt.Sprintf("sim error at step %d (t=%v): %s", e.Step, e.Time, e.Message)
}

func checkState(s vehicle.Snapshot) string {
	if math.IsNaN(s.LinearSpeed) || math.IsInf(s.LinearSpeed, 0) {
		return "non-finite linear speed"
	}
	for i, w := range s.Wheels {
		if math.IsNaN(w.AngularVelocity) || math.IsInf(w.AngularVelocity, 0) {
			return fmt.Sprintf("non-finite angular velocity on wheel %d", i)
		}
	}
	return ""
}
