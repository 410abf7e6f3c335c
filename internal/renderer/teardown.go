package renderer

import (
	"github.com/jazz-engine/jazz/internal/gpu"
	"github.com/sirupsen/logrus"
)

// teardown is the stack of everything built so far. Resources are pushed the
// moment they exist and released in exactly the reverse order.
type teardown struct {
	steps []teardownStep
}

type teardownStep struct {
	name    string
	release func()
}

func (t *teardown) push(name string, object gpu.Destroyer) {
	t.steps = append(t.steps, teardownStep{name: name, release: object.Destroy})
}

func (t *teardown) len() int {
	return len(t.steps)
}

// run releases everything on the stack and leaves it empty.
func (t *teardown) run(log logrus.FieldLogger) {
	for i := len(t.steps) - 1; i >= 0; i-- {
		step := t.steps[i]
		log.WithField("resource", step.name).Trace("destroying")
		step.release()
	}
	t.steps = nil
}
