package debugui

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/meshfall/ecs"
)

// Inspector lists entities by archetype and edits the numeric and boolean
// fields of the selected entity's components in place.
type Inspector struct {
	selected ecs.Entity
	filter   string
}

// Selected returns the entity currently shown.
func (in *Inspector) Selected() ecs.Entity {
	return in.selected
}

// Render draws the inspector window.
func (in *Inspector) Render(storage *ecs.Storage) {
	if !imgui.BeginV("Entities", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.InputTextWithHint("##filter", "Filter components...", &in.filter, imgui.InputTextFlagsNone, nil)
	filter := strings.ToLower(in.filter)

	for archetype := range storage.Archetypes() {
		if archetype.Len() == 0 {
			continue
		}
		name := archetype.Name()
		if filter != "" && !strings.Contains(strings.ToLower(name), filter) {
			continue
		}
		if !imgui.TreeNodeStr(fmt.Sprintf("%s (%d)##%x", name, archetype.Len(), archetype.ID())) {
			continue
		}
		for e := range archetype.Entities() {
			if imgui.SelectableBoolV(fmt.Sprintf("entity %d", e), in.selected == e, imgui.SelectableFlagsNone, imgui.NewVec2(0, 0)) {
				in.selected = e
			}
		}
		imgui.TreePop()
	}

	imgui.Separator()
	in.renderSelected(storage)
	imgui.End()
}

func (in *Inspector) renderSelected(storage *ecs.Storage) {
	archetype := storage.ArchetypeOf(in.selected)
	if archetype == nil {
		imgui.Text("No entity selected")
		return
	}

	imgui.Text(fmt.Sprintf("Entity %d in %s", in.selected, archetype.Name()))
	for _, t := range archetype.Types() {
		component := storage.GetComponent(in.selected, t)
		if component == nil {
			continue
		}
		if imgui.TreeNodeStr(t.String()) {
			renderValue(t.String(), reflect.ValueOf(component).Elem())
			imgui.TreePop()
		}
	}
}

func renderValue(id string, val reflect.Value) {
	switch val.Kind() {
	case reflect.Struct:
		for _, field := range fields.of(val.Type()) {
			renderField(id+"."+field.Name, field.Name, val.Field(field.Index))
		}
	default:
		renderField(id, "value", val)
	}
}

func renderField(id, name string, val reflect.Value) {
	label := fmt.Sprintf("%s##%s", name, id)

	switch val.Kind() {
	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		if imgui.InputFloat(label, &v) && val.CanSet() {
			val.SetFloat(float64(v))
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		if imgui.InputInt(label, &v) && val.CanSet() {
			val.SetInt(int64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(label, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.String:
		imgui.Text(fmt.Sprintf("%s: %q", name, val.String()))

	case reflect.Array:
		if val.Len() <= 4 && val.Type().Elem().Kind() == reflect.Float32 {
			imgui.Text(name)
			for i := range val.Len() {
				imgui.SameLine()
				imgui.SetNextItemWidth(70)
				v := float32(val.Index(i).Float())
				if imgui.InputFloat(fmt.Sprintf("##%s[%d]", id, i), &v) && val.Index(i).CanSet() {
					val.Index(i).SetFloat(float64(v))
				}
			}
			return
		}
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))

	case reflect.Struct:
		if imgui.TreeNodeStr(label) {
			renderValue(id, val)
			imgui.TreePop()
		}

	case reflect.Pointer:
		if val.IsNil() {
			imgui.Text(name + ": nil")
			return
		}
		renderField(id, name, val.Elem())

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Func:
		imgui.Text(name + ": func")

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}
