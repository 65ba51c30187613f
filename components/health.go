package components

import "github.com/yohamta/donburi"

type HealthData struct {
	Current      int
	Max          int
	LastAttacker string
}

// HealthIndicatorData is the label shown above bosses that carry one.
type HealthIndicatorData struct {
	Label string
	Text  string
}

var Health = donburi.NewComponentType[HealthData]()
var HealthIndicator = donburi.NewComponentType[HealthIndicatorData]()
