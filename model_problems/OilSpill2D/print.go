package OilSpill2D

import (
	"fmt"
	"time"
)

func (sim *Simulation) PrintInitialization() {
	fmt.Printf("Solving from t = %8.5f until t = %8.5f, starting at step %d\n",
		sim.Time(), sim.TEnd, sim.StepsCompleted())
	fmt.Printf("    iter    time      dt   Total Oil     Max Oil\n")
}

func (sim *Simulation) PrintUpdate() {
	var (
		total, max float64
	)
	for _, c := range sim.triangles {
		v := sim.field[c.Idx]
		total += v * c.Area
		if v > max {
			max = v
		}
	}
	fmt.Printf("%8d%8.5f%8.5f%12.4e%12.4e\n", sim.StepsCompleted(), sim.Time(), sim.Dt, total, max)
}

func (sim *Simulation) PrintFinal(elapsed time.Duration, steps int) {
	if steps == 0 || len(sim.triangles) == 0 {
		return
	}
	rate := float64(elapsed.Microseconds()) / (float64(len(sim.triangles) * steps))
	fmt.Printf("\nRate of execution = %8.5f us/(triangle*iteration) over %d iterations\n", rate, steps)
}
