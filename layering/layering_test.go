package layering

import (
	"reflect"
	"testing"
)

func TestMergeLayersNestedMaps(t *testing.T) {
	defaults := map[string]any{
		"storage": map[string]any{"driver": "memory", "key": "data"},
		"ids":     map[string]any{"policy": "sequence"},
	}
	file := map[string]any{
		"storage": map[string]any{"driver": "file", "dir": "/tmp/inv"},
	}
	env := map[string]any{
		"storage": map[string]any{"dir": "/var/inv"},
	}

	got := MergeLayers(env, file, defaults)
	want := map[string]any{
		"storage": map[string]any{"driver": "file", "dir": "/var/inv", "key": "data"},
		"ids":     map[string]any{"policy": "sequence"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("merged mismatch:\nwant: %#v\n got: %#v", want, got)
	}
	if defaults["storage"].(map[string]any)["driver"] != "memory" {
		t.Fatalf("inputs must not be mutated")
	}
}

func TestMergeLayersStructs(t *testing.T) {
	type limits struct {
		Max *int
		Tag string
	}
	type settings struct {
		Enabled *bool
		Labels  map[string]string
		Limits  *limits
		Hosts   []string
	}
	yes := true
	three := 3

	strong := settings{Labels: map[string]string{"a": "strong"}, Limits: &limits{Tag: "x"}}
	weak := settings{
		Enabled: &yes,
		Labels:  map[string]string{"a": "weak", "b": "weak"},
		Limits:  &limits{Max: &three},
		Hosts:   []string{"h1"},
	}

	got := MergeLayers(strong, weak)
	if got.Enabled == nil || !*got.Enabled {
		t.Fatalf("expected enabled to fall through")
	}
	if !reflect.DeepEqual(got.Labels, map[string]string{"a": "strong", "b": "weak"}) {
		t.Fatalf("unexpected labels %v", got.Labels)
	}
	if got.Limits == nil || got.Limits.Max == nil || *got.Limits.Max != 3 || got.Limits.Tag != "x" {
		t.Fatalf("unexpected limits %+v", got.Limits)
	}
	if got.Enabled == weak.Enabled {
		t.Fatalf("expected pointers to be cloned")
	}
	if !reflect.DeepEqual(got.Hosts, []string{"h1"}) {
		t.Fatalf("unexpected hosts %v", got.Hosts)
	}
}

func TestMergeLayersZeroInput(t *testing.T) {
	if got := MergeLayers[map[string]any](); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestStackOrderingAndProvenance(t *testing.T) {
	stack := NewStack(
		Layer{Level: SourceLevelDefaults, Values: map[string]any{"log": map[string]any{"level": "info", "nocolor": false}}},
		Layer{Level: SourceLevelUnknown, Values: map[string]any{"log": map[string]any{"level": "trace"}}},
		Layer{Level: SourceLevelEnv, Values: map[string]any{"log": map[string]any{"level": "debug"}}},
		Layer{Level: SourceLevelFile, Name: "inventory.toml", Values: map[string]any{"log": map[string]any{"nocolor": true}}},
	)

	var levels []SourceLevel
	for _, layer := range stack.Ordered() {
		levels = append(levels, layer.Level)
	}
	if want := []SourceLevel{SourceLevelEnv, SourceLevelFile, SourceLevelDefaults}; !reflect.DeepEqual(levels, want) {
		t.Fatalf("expected %v, got %v", want, levels)
	}

	merged := stack.Merge()
	want := map[string]any{"log": map[string]any{"level": "debug", "nocolor": true}}
	if !reflect.DeepEqual(merged, want) {
		t.Fatalf("merged mismatch: %#v", merged)
	}

	prov := stack.Provenance()
	if prov["log.level"] != "env" || prov["log.nocolor"] != "file:inventory.toml" {
		t.Fatalf("unexpected provenance %v", prov)
	}
}

func TestParseSourceLevel(t *testing.T) {
	for _, level := range []SourceLevel{SourceLevelDefaults, SourceLevelFile, SourceLevelEnv, SourceLevelOverride} {
		if got := ParseSourceLevel(level.String()); got != level {
			t.Fatalf("round trip %v: got %v", level, got)
		}
	}
	if ParseSourceLevel("cms") != SourceLevelUnknown {
		t.Fatalf("expected unknown level")
	}
}
