package mutter

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/godbus/dbus/v5"

	"github.com/1broseidon/displaypresets/internal/display"
)

// DecodeState converts the body of a GetCurrentState reply,
// (u a((ssss)a(siiddada{sv})a{sv}) a(iiduba(ssss)a{sv}) a{sv}), into a
// display.State.
func DecodeState(body []any) (display.State, error) {
	if len(body) != 4 {
		return display.State{}, shapeErrorf("", "expected 4 values, got %d", len(body))
	}

	serial, err := asUint32(body[0], "serial")
	if err != nil {
		return display.State{}, err
	}

	rawMonitors, err := asList(body[1], "monitors")
	if err != nil {
		return display.State{}, err
	}
	monitors := make([]display.Monitor, 0, len(rawMonitors))
	for i, raw := range rawMonitors {
		m, err := decodeMonitor(raw, fmt.Sprintf("monitors[%d]", i))
		if err != nil {
			return display.State{}, err
		}
		monitors = append(monitors, m)
	}

	rawLogical, err := asList(body[2], "logical_monitors")
	if err != nil {
		return display.State{}, err
	}
	logical := make([]display.LogicalMonitor, 0, len(rawLogical))
	for i, raw := range rawLogical {
		lm, err := decodeLogicalMonitor(raw, fmt.Sprintf("logical_monitors[%d]", i))
		if err != nil {
			return display.State{}, err
		}
		logical = append(logical, lm)
	}

	props, err := asProperties(body[3], "properties")
	if err != nil {
		return display.State{}, err
	}

	state := display.State{
		Serial:          serial,
		Monitors:        monitors,
		LogicalMonitors: logical,
		Properties:      props,
	}
	if err := state.Validate(); err != nil {
		var ierr *display.InvariantError
		if errors.As(err, &ierr) {
			return display.State{}, &ProtocolShapeError{Path: ierr.Path, Err: ierr.Err}
		}
		return display.State{}, &ProtocolShapeError{Err: err}
	}
	return state, nil
}

func decodeMonitorInfo(v any, path string) (display.MonitorInfo, error) {
	fields, err := asStruct(v, path, 4)
	if err != nil {
		return display.MonitorInfo{}, err
	}
	var info display.MonitorInfo
	targets := []*string{&info.Connector, &info.Vendor, &info.Product, &info.Serial}
	names := []string{"connector", "vendor", "product", "serial"}
	for i, target := range targets {
		s, err := asString(fields[i], path+"."+names[i])
		if err != nil {
			return display.MonitorInfo{}, err
		}
		*target = s
	}
	return info, nil
}

func decodeMode(v any, path string) (display.Mode, error) {
	fields, err := asStruct(v, path, 7)
	if err != nil {
		return display.Mode{}, err
	}
	var mode display.Mode
	if mode.ID, err = asString(fields[0], path+".id"); err != nil {
		return display.Mode{}, err
	}
	if mode.Width, err = asInt32(fields[1], path+".width"); err != nil {
		return display.Mode{}, err
	}
	if mode.Height, err = asInt32(fields[2], path+".height"); err != nil {
		return display.Mode{}, err
	}
	if mode.RefreshRate, err = asFloat64(fields[3], path+".refresh_rate"); err != nil {
		return display.Mode{}, err
	}
	if mode.PreferredScale, err = asFloat64(fields[4], path+".preferred_scale"); err != nil {
		return display.Mode{}, err
	}
	if mode.SupportedScales, err = asFloat64List(fields[5], path+".supported_scales"); err != nil {
		return display.Mode{}, err
	}
	if mode.Properties, err = asProperties(fields[6], path+".properties"); err != nil {
		return display.Mode{}, err
	}
	return mode, nil
}

func decodeMonitor(v any, path string) (display.Monitor, error) {
	fields, err := asStruct(v, path, 3)
	if err != nil {
		return display.Monitor{}, err
	}
	info, err := decodeMonitorInfo(fields[0], path+".monitor_info")
	if err != nil {
		return display.Monitor{}, err
	}
	rawModes, err := asList(fields[1], path+".modes")
	if err != nil {
		return display.Monitor{}, err
	}
	modes := make([]display.Mode, 0, len(rawModes))
	for i, raw := range rawModes {
		mode, err := decodeMode(raw, fmt.Sprintf("%s.modes[%d]", path, i))
		if err != nil {
			return display.Monitor{}, err
		}
		modes = append(modes, mode)
	}
	props, err := asProperties(fields[2], path+".properties")
	if err != nil {
		return display.Monitor{}, err
	}
	return display.Monitor{Info: info, Modes: modes, Properties: props}, nil
}

func decodeLogicalMonitor(v any, path string) (display.LogicalMonitor, error) {
	fields, err := asStruct(v, path, 7)
	if err != nil {
		return display.LogicalMonitor{}, err
	}
	var lm display.LogicalMonitor
	if lm.X, err = asInt32(fields[0], path+".x"); err != nil {
		return display.LogicalMonitor{}, err
	}
	if lm.Y, err = asInt32(fields[1], path+".y"); err != nil {
		return display.LogicalMonitor{}, err
	}
	if lm.Scale, err = asFloat64(fields[2], path+".scale"); err != nil {
		return display.LogicalMonitor{}, err
	}
	transform, err := asUint32(fields[3], path+".transform")
	if err != nil {
		return display.LogicalMonitor{}, err
	}
	lm.Transform = display.Transform(transform)
	if lm.Primary, err = asBool(fields[4], path+".primary"); err != nil {
		return display.LogicalMonitor{}, err
	}
	rawInfos, err := asList(fields[5], path+".monitors")
	if err != nil {
		return display.LogicalMonitor{}, err
	}
	lm.Monitors = make([]display.MonitorInfo, 0, len(rawInfos))
	for i, raw := range rawInfos {
		info, err := decodeMonitorInfo(raw, fmt.Sprintf("%s.monitors[%d]", path, i))
		if err != nil {
			return display.LogicalMonitor{}, err
		}
		lm.Monitors = append(lm.Monitors, info)
	}
	if lm.Properties, err = asProperties(fields[6], path+".properties"); err != nil {
		return display.LogicalMonitor{}, err
	}
	return lm, nil
}

// asList accepts any slice type; godbus decodes arrays of structs as
// [][]interface{} and arrays of other values as typed slices.
func asList(v any, path string) ([]any, error) {
	if l, ok := v.([]any); ok {
		return l, nil
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return nil, shapeErrorf(path, "expected array, got %T", v)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func asStruct(v any, path string, arity int) ([]any, error) {
	fields, ok := v.([]any)
	if !ok {
		return nil, shapeErrorf(path, "expected struct, got %T", v)
	}
	if len(fields) != arity {
		return nil, shapeErrorf(path, "expected struct of %d fields, got %d", arity, len(fields))
	}
	return fields, nil
}

func asString(v any, path string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", shapeErrorf(path, "expected string, got %T", v)
	}
	return s, nil
}

func asInt32(v any, path string) (int32, error) {
	i, ok := v.(int32)
	if !ok {
		return 0, shapeErrorf(path, "expected int32, got %T", v)
	}
	return i, nil
}

func asUint32(v any, path string) (uint32, error) {
	u, ok := v.(uint32)
	if !ok {
		return 0, shapeErrorf(path, "expected uint32, got %T", v)
	}
	return u, nil
}

func asFloat64(v any, path string) (float64, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, shapeErrorf(path, "expected double, got %T", v)
	}
	return f, nil
}

func asBool(v any, path string) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, shapeErrorf(path, "expected boolean, got %T", v)
	}
	return b, nil
}

func asFloat64List(v any, path string) ([]float64, error) {
	if l, ok := v.([]float64); ok {
		out := make([]float64, len(l))
		copy(out, l)
		return out, nil
	}
	items, err := asList(v, path)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(items))
	for i, item := range items {
		f, err := asFloat64(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func asProperties(v any, path string) (display.Properties, error) {
	m, ok := v.(map[string]dbus.Variant)
	if !ok {
		return nil, shapeErrorf(path, "expected a{sv}, got %T", v)
	}
	return DecodeProperties(m), nil
}
