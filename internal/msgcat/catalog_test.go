package msgcat

import "testing"

func TestEmbeddedCatalog(t *testing.T) {
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("status.checkmate", map[string]string{"Winner": "Black"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "Checkmate! Black wins." {
		t.Fatalf("got %q", got)
	}
	for _, key := range []string{"status.playing", "status.check", "move.promotion", "move.rejected", "undo.empty"} {
		found := false
		for _, k := range c.Keys() {
			if k == key {
				found = true
			}
		}
		if !found {
			t.Fatalf("missing key %s in %v", key, c.Keys())
		}
	}
}

func TestRenderErrors(t *testing.T) {
	c, err := Parse([]byte("a:\n  b: \"hi {{.Name}}\"\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := c.Render("a.c", nil); err == nil {
		t.Fatalf("expected missing key error")
	}
	if _, err := c.Render("a.b", map[string]string{}); err == nil {
		t.Fatalf("expected missing field error")
	}
	if got := c.MustRender("a.b", map[string]string{}); got != "a.b" {
		t.Fatalf("MustRender fallback = %q", got)
	}
	if got := c.MustRender("a.b", map[string]string{"Name": "there"}); got != "hi there" {
		t.Fatalf("MustRender = %q", got)
	}
}
