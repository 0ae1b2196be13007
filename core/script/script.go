// Package script holds the declarative timelines the scene plays.
//
// Every phase and outcome branch is a list of steps whose delays are relative
// to the moment the script starts, never to each other, so that timing can
// be inspected and tested without running any effect.
package script

import (
	"sort"
	"time"

	"github.com/koscakluka/ema-rescue/core/timeline"
)

// Step is one beat of a script.
type Step struct {
	At      time.Duration
	Name    string
	Effects []Effect
}

// Script is a named list of steps.
type Script struct {
	Name  string
	Steps []Step
}

// Duration is the delay of the last step.
func (s Script) Duration() time.Duration {
	var last time.Duration
	for _, step := range s.Steps {
		if step.At > last {
			last = step.At
		}
	}
	return last
}

// Step returns the first step called name.
func (s Script) Step(name string) (Step, bool) {
	for _, step := range s.Steps {
		if step.Name == name {
			return step, true
		}
	}
	return Step{}, false
}

// Sorted returns the steps in firing order.
func (s Script) Sorted() []Step {
	steps := append([]Step(nil), s.Steps...)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].At < steps[j].At })
	return steps
}

// Beats turns the script into timeline beats that hand each step to apply.
func (s Script) Beats(apply func(Step)) []timeline.Beat {
	beats := make([]timeline.Beat, 0, len(s.Steps))
	for _, step := range s.Steps {
		step := step
		beats = append(beats, timeline.Beat{
			Delay:  step.At,
			Name:   s.Name + "/" + step.Name,
			Action: func() { apply(step) },
		})
	}
	return beats
}

// Find returns every effect of type T in firing order, with the delay of the
// step carrying it.
func Find[T Effect](s Script) []Timed[T] {
	var found []Timed[T]
	for _, step := range s.Sorted() {
		for _, e := range step.Effects {
			if typed, ok := e.(T); ok {
				found = append(found, Timed[T]{At: step.At, Effect: typed})
			}
		}
	}
	return found
}

// Timed pairs an effect with its delay.
type Timed[T Effect] struct {
	At     time.Duration
	Effect T
}
