package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/meshfall/ecs"
)

// StateWindow returns a render function showing machine's current state and
// how often each of states has been entered.
func StateWindow[S ~int](machine *ecs.StateMachine[S], states ...S) func() {
	return func() {
		if !imgui.BeginV("State", nil, imgui.WindowFlagsNone) {
			imgui.End()
			return
		}
		imgui.Text(fmt.Sprintf("Current: %v", machine.Current()))
		if err := machine.Err(); err != nil {
			imgui.Text(fmt.Sprintf("Error: %v", err))
		}
		for _, s := range states {
			imgui.BulletText(fmt.Sprintf("%v entered %d", s, machine.Entered(s)))
		}
		imgui.End()
	}
}
