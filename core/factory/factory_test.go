package factory

import (
	"errors"
	"testing"
)

type sink struct {
	Addr  string
	Batch int
}

type sinkConf struct {
	Addr  string `json:"addr"`
	Batch int    `json:"batch"`
}

func newSink(conf map[string]any) (*sink, error) {
	var c sinkConf
	if err := Decode(conf, &c); err != nil {
		return nil, err
	}
	return &sink{Addr: c.Addr, Batch: c.Batch}, nil
}

func TestRegistry_Create(t *testing.T) {
	reg := NewRegistry[*sink]()
	if err := reg.Register("udp", newSink); err != nil {
		t.Fatalf("register: %v", err)
	}
	inst, err := reg.Create(ModuleConfig{Type: "udp", Conf: map[string]any{"addr": ":9000", "batch": "16"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inst.Addr != ":9000" || inst.Batch != 16 {
		t.Fatalf("unexpected sink %+v", inst)
	}
}

func TestRegistry_Errors(t *testing.T) {
	reg := NewRegistry[int]()
	if err := reg.Register("x", func(map[string]any) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("x", func(map[string]any) (int, error) { return 2, nil }); err == nil {
		t.Fatal("expected duplicate error")
	}
	if err := reg.Register("y", nil); err == nil {
		t.Fatal("expected nil factory error")
	}
	if _, err := reg.Create(ModuleConfig{Type: "y"}); err == nil {
		t.Fatal("expected unknown type error")
	}

	boom := errors.New("boom")
	if err := reg.Register("broken", func(map[string]any) (int, error) { return 0, boom }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := reg.Create(ModuleConfig{Type: "broken"}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if got := reg.Names(); len(got) != 2 || got[0] != "broken" || got[1] != "x" {
		t.Fatalf("names %v", got)
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	var c sinkConf
	if err := Decode(map[string]any{"adr": "typo"}, &c); err == nil {
		t.Fatal("expected error for unknown key")
	}
}
