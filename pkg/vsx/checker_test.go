package vsx

import (
	"context"
	"reflect"
	"testing"
)

func TestCheck(t *testing.T) {
	registry := newFakeRegistry()
	registry.present["live.hit"] = true

	pack := &Pack{ID: "acme.pack", Members: []ID{"idx.hit", "live.hit", "miss.one", "miss.two"}}
	index := NewIndex([]string{"IDX.Hit"})

	m := NewChecker(registry, newFakeMarket(), 2, nil).Check(context.Background(), index, pack)

	if want := []ID{"idx.hit", "live.hit"}; !reflect.DeepEqual(m.Present, want) {
		t.Errorf("Present = %v, want %v", m.Present, want)
	}
	if len(m.Absent) != 2 || m.Absent[0].ID != "miss.one" || m.Absent[1].ID != "miss.two" {
		t.Fatalf("Absent = %+v", m.Absent)
	}
	if m.Absent[0].MarketplaceURL == "" || m.Absent[0].OpenVSXURL != "https://vsx.test/extension/miss/one" {
		t.Errorf("candidate URLs = %+v", m.Absent[0])
	}
	if m.Absent[0].License != "" || m.Absent[0].RepositoryURL != "" {
		t.Error("checker must not fill enrichment fields")
	}

	if registry.callCount("idx.hit") != 0 {
		t.Error("index hits must not trigger live lookups")
	}
	for _, id := range []ID{"live.hit", "miss.one", "miss.two", "acme.pack"} {
		if n := registry.callCount(id); n != 1 {
			t.Errorf("live lookups for %s = %d, want 1", id, n)
		}
	}

	if m.SelfPresent || m.Self == nil || m.Self.ID != "acme.pack" {
		t.Errorf("Self = %+v, SelfPresent = %v", m.Self, m.SelfPresent)
	}
	if m.Warnings != nil {
		t.Errorf("Warnings = %v", m.Warnings)
	}
}

func TestCheckLookupFailureIsAbsent(t *testing.T) {
	registry := newFakeRegistry()
	registry.fail["flaky.one"] = true

	pack := &Pack{ID: "acme.pack", Members: []ID{"flaky.one", "ok.two"}}
	index := NewIndex([]string{"ok.two", "acme.pack"})

	m := NewChecker(registry, newFakeMarket(), 0, nil).Check(context.Background(), index, pack)

	if len(m.Absent) != 1 || m.Absent[0].ID != "flaky.one" {
		t.Errorf("Absent = %+v, want flaky.one", m.Absent)
	}
	if !reflect.DeepEqual(m.Present, []ID{"ok.two"}) {
		t.Errorf("Present = %v", m.Present)
	}
	if m.Warnings == nil {
		t.Error("failed lookup should be recorded as a warning")
	}
	if registry.callCount("flaky.one") != 1 {
		t.Errorf("failed lookup retried: %d calls", registry.callCount("flaky.one"))
	}
	if !m.SelfPresent || m.Self != nil {
		t.Errorf("pack in index should be SelfPresent, got Self=%+v", m.Self)
	}
}

func TestCheckPackListedAsOwnMember(t *testing.T) {
	registry := newFakeRegistry()
	pack := &Pack{ID: "acme.pack", Members: []ID{"acme.pack", "a.b"}}

	m := NewChecker(registry, newFakeMarket(), 4, nil).Check(context.Background(), nil, pack)

	if registry.callCount("acme.pack") != 1 {
		t.Errorf("pack looked up %d times, want 1", registry.callCount("acme.pack"))
	}
	if len(m.Absent) != 2 {
		t.Errorf("Absent = %+v, want both members", m.Absent)
	}
	if m.Self == nil {
		t.Error("Self should be set")
	}
}
