package config

import (
	"errors"
	"testing"
	"time"

	"mercator-hq/tollgate/pkg/quota"
)

func quotaGroup(total, cost int64) quota.GroupConfig {
	return quota.GroupConfig{Total: total, Cost: cost}
}

func TestConfig_Catalog(t *testing.T) {
	cfg := validConfig(t)
	cfg.Quotas["search"] = quotaGroup(100, 0)

	cat, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if cat.Len() != 2 {
		t.Errorf("expected 2 groups, got %d", cat.Len())
	}

	_, err = cat.Resolve("missing")
	if !errors.Is(err, quota.ErrUnknownQuotaGroup) {
		t.Errorf("expected ErrUnknownQuotaGroup, got %v", err)
	}
}

func TestConfig_WindowOptions(t *testing.T) {
	cfg := validConfig(t)
	cfg.Window.Duration = time.Minute
	cfg.Window.RetryAfter = "60"
	cfg.Consumer.Strategy = "jwt"
	cfg.Consumer.JWTSecret = "s3cret"

	opts := cfg.WindowOptions()
	if opts.Duration != time.Minute || opts.RetryAfter != "60" {
		t.Errorf("unexpected window options %+v", opts)
	}
	if opts.Strategy != "jwt" || opts.JWTSecret != "s3cret" {
		t.Errorf("unexpected consumer options %+v", opts)
	}
}

func TestConfig_BoolDefaults(t *testing.T) {
	cfg := validConfig(t)
	if !cfg.RedactJournalConsumers() || !cfg.RedactLogConsumers() || !cfg.MetricsEnabled() {
		t.Error("expected redaction and metrics enabled by default")
	}

	off := false
	cfg.Journal.RedactConsumers = &off
	if cfg.RedactJournalConsumers() {
		t.Error("expected explicit false to win")
	}
}

func TestConfig_ReloadSection(t *testing.T) {
	cfg, err := Parse([]byte("reload: {watch: true, debounce: 250ms}"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := ReloadSettings{Watch: true, Debounce: 250 * time.Millisecond}
	if cfg.Reload != want {
		t.Errorf("Reload = %+v, want %+v", cfg.Reload, want)
	}

	resetGlobal()
	defer resetGlobal()

	path := writeConfig(t, "reload: {watch: true}")
	reloaded, err := ReloadConfig(path)
	if err != nil {
		t.Fatalf("ReloadConfig() error = %v", err)
	}
	if !reloaded.Reload.Watch || reloaded.Reload.Debounce != DefaultReloadDebounce {
		t.Errorf("reloaded Reload = %+v", reloaded.Reload)
	}
}
