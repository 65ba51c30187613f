package components

import (
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
)

// FlashData tracks the hit flash. Intensity eases from 1 to 0.
type FlashData struct {
	Active    bool
	Tween     *gween.Tween
	Intensity float32
	Gen       int
}

var Flash = donburi.NewComponentType[FlashData]()

// PresentationData is the animation and sound currently requested for the
// entity. Clients render from it.
type PresentationData struct {
	Animation string
	Sound     string
}

var Presentation = donburi.NewComponentType[PresentationData]()
