package engine

import (
	"time"

	"github.com/astrocrew/starship-sim/internal/domain/resource"
)

// LoadDefaultScenario registers the standard mission dataset: four shared
// resources and the four systems that contend for them. The Crew system
// consumes oxygen and produces nothing; everything else converts one
// resource into another.
func LoadDefaultScenario(e *Engine) {
	fuel := resource.New("Fuel", 1000, 1000)
	oxygen := resource.New("Oxygen", 20, 50)
	energy := resource.New("Energy", 30, 50)
	distance := resource.New("Distance", 0, 5000)

	e.RegisterResource(fuel)
	e.RegisterResource(oxygen)
	e.RegisterResource(energy)
	e.RegisterResource(distance)

	e.RegisterSystem(NewShipSystem("Propulsion",
		resource.Amount{Resource: fuel, Quantity: 5},
		resource.Amount{Resource: distance, Quantity: 25},
		50*time.Millisecond, e.queue))

	e.RegisterSystem(NewShipSystem("Life Support",
		resource.Amount{Resource: energy, Quantity: 7},
		resource.Amount{Resource: oxygen, Quantity: 4},
		10*time.Millisecond, e.queue))

	e.RegisterSystem(NewShipSystem("Crew",
		resource.Amount{Resource: oxygen, Quantity: 1},
		resource.Amount{},
		2*time.Millisecond, e.queue))

	e.RegisterSystem(NewShipSystem("Generator",
		resource.Amount{Resource: fuel, Quantity: 5},
		resource.Amount{Resource: energy, Quantity: 10},
		20*time.Millisecond, e.queue))
}
