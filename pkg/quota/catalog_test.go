package quota

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewCatalog_Validation(t *testing.T) {
	tests := []struct {
		name    string
		groups  map[string]GroupConfig
		wantErr bool
	}{
		{"empty", nil, false},
		{"valid", map[string]GroupConfig{"default": {Total: 5, Cost: 1}}, false},
		{"cost omitted", map[string]GroupConfig{"default": {Total: 10}}, false},
		{"zero total", map[string]GroupConfig{"closed": {Total: 0}}, false},
		{"negative total", map[string]GroupConfig{"bad": {Total: -1}}, true},
		{"negative cost", map[string]GroupConfig{"bad": {Total: 1, Cost: -2}}, true},
		{"empty name", map[string]GroupConfig{"": {Total: 1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.groups)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewCatalog() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidGroup) {
				t.Errorf("Expected ErrInvalidGroup, got %v", err)
			}
		})
	}
}

func TestCatalog_Resolve(t *testing.T) {
	catalog := MustCatalog(map[string]GroupConfig{
		"default": {Total: 5, Cost: 1},
	})

	group, err := catalog.Resolve("default")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if group.Total != 5 || group.Cost != 1 {
		t.Errorf("Resolve() = %+v, want {Total:5 Cost:1}", group)
	}

	_, err = catalog.Resolve("missing")
	if !errors.Is(err, ErrUnknownQuotaGroup) {
		t.Fatalf("Expected ErrUnknownQuotaGroup, got %v", err)
	}

	var groupErr *GroupError
	if !errors.As(err, &groupErr) || groupErr.Group != "missing" {
		t.Errorf("Expected GroupError for %q, got %v", "missing", err)
	}
}

func TestCatalog_CopiesInput(t *testing.T) {
	groups := map[string]GroupConfig{"default": {Total: 5}}
	catalog := MustCatalog(groups)

	groups["default"] = GroupConfig{Total: 100}
	groups["added"] = GroupConfig{Total: 1}

	group, _ := catalog.Resolve("default")
	if group.Total != 5 {
		t.Errorf("Catalog changed after input mutation: total = %d", group.Total)
	}
	if _, err := catalog.Resolve("added"); err == nil {
		t.Error("Catalog picked up a group added after construction")
	}
}

func TestCatalog_Names(t *testing.T) {
	catalog := MustCatalog(map[string]GroupConfig{
		"writes":  {Total: 1},
		"default": {Total: 1},
		"reads":   {Total: 1},
	})

	want := []string{"default", "reads", "writes"}
	if got := catalog.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if catalog.Len() != 3 {
		t.Errorf("Len() = %d, want 3", catalog.Len())
	}
}

func TestGroupConfig_EffectiveCost(t *testing.T) {
	tests := []struct {
		name     string
		group    GroupConfig
		cost     int64
		override bool
		want     int64
	}{
		{"explicit override wins", GroupConfig{Total: 10, Cost: 3}, 2, true, 2},
		{"explicit zero is honored", GroupConfig{Total: 10, Cost: 3}, 0, true, 0},
		{"negative override falls back to group", GroupConfig{Total: 10, Cost: 3}, -1, true, 3},
		{"group cost", GroupConfig{Total: 10, Cost: 3}, 0, false, 3},
		{"default cost", GroupConfig{Total: 10}, 0, false, 1},
		{"negative override falls back to default", GroupConfig{Total: 10}, -5, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.group.EffectiveCost(tt.cost, tt.override); got != tt.want {
				t.Errorf("EffectiveCost() = %d, want %d", got, tt.want)
			}
		})
	}
}
