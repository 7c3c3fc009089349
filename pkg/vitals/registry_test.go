package vitals

import (
	"strings"
	"testing"
)

func TestRegistryIndexAssignment(t *testing.T) {
	r := NewRegistry()
	a := r.Define(Column{Category: "heap", Name: "used"}, true)
	b := r.Define(Column{Category: "heap", Name: "free", Description: "unsupported here"}, false)
	c := r.Define(Column{Category: "rt", Name: "goroutines"}, true)
	r.Freeze()

	if a.Index() != 0 || c.Index() != 1 {
		t.Errorf("active indexes = %d, %d; want 0, 1", a.Index(), c.Index())
	}
	if b.Active() {
		t.Error("inactive column reported Active()")
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (inactive columns take no sample slot)", r.Len())
	}
	if len(r.Defined()) != 3 {
		t.Errorf("Defined() has %d columns, want 3", len(r.Defined()))
	}
}

func TestRegistryRejectsDuplicatesAndLateDefines(t *testing.T) {
	r := NewRegistry()
	if r.Define(Column{Category: "heap", Name: "used"}, true) == nil {
		t.Fatal("first Define returned nil")
	}
	if dup := r.Define(Column{Category: "heap", Name: "used"}, true); dup != nil {
		t.Error("duplicate qualified name was accepted")
	}
	r.Freeze()
	if late := r.Define(Column{Category: "rt", Name: "late"}, true); late != nil {
		t.Error("Define after Freeze was accepted")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistryColumnByName(t *testing.T) {
	r := NewRegistry()
	r.Define(Column{Category: "Process", Name: "RSS"}, true)
	r.Freeze()

	if col := r.ColumnByName("process-rss"); col == nil {
		t.Fatal("qualified names must be lower-cased and hyphen-joined")
	}
	if col := r.ColumnByName("nope"); col != nil {
		t.Error("unknown name should return nil")
	}
}

func TestLegendListsEveryDefinedColumn(t *testing.T) {
	r := NewRegistry()
	r.Define(Column{Category: "heap", Name: "used", Description: "heap in use"}, true)
	r.Define(Column{Category: "heap", Name: "comm", Description: "heap committed"}, true)
	r.Define(Column{Category: "gpu", Name: "used", Description: "device memory in use"}, false)
	r.Legend().AddFootnote("gpu counters need an NVML-capable driver")
	r.Freeze()

	text := r.Legend().Render()

	if !strings.Contains(text, "--heap--") || !strings.Contains(text, "--gpu--") {
		t.Fatalf("legend missing category headings:\n%s", text)
	}
	if strings.Count(text, "--heap--") != 1 {
		t.Errorf("consecutive columns of one category must share a heading:\n%s", text)
	}
	if !strings.Contains(text, "[not available on this platform]") {
		t.Errorf("inactive column not annotated:\n%s", text)
	}
	if !strings.Contains(text, "gpu counters need an NVML-capable driver") {
		t.Errorf("footnote missing:\n%s", text)
	}

	if again := r.Legend().Render(); again != text {
		t.Error("legend text must be stable after freeze")
	}
}
