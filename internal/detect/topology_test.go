package detect

import (
	"strconv"
	"testing"

	"github.com/awalterschulze/gographviz"
)

func TestEngine_Topology_ParsesBack(t *testing.T) {
	wr := InterfaceSpec{Name: "wr", Hier: "tb.dut", Control: []string{"ready"}, Payload: []string{"addr", "data"}}
	e, _ := newTestEngine(t, basicBody, []InterfaceSpec{rdSpec(), wr})

	dot, err := e.Topology()
	if err != nil {
		t.Fatal(err)
	}

	ast, err := gographviz.ParseString(dot)
	if err != nil {
		t.Fatalf("topology is not valid DOT: %v\n%s", err, dot)
	}
	g := gographviz.NewGraph()
	if err := gographviz.Analyse(ast, g); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"rd", "wr", "tb.dut.i_clk", "tb.dut.i_reset_n", "tb.dut.valid", "tb.dut.ready", "tb.dut.data", "tb.dut.addr", "watcher0 tb.dut"} {
		if g.Nodes.Lookup[strconv.Quote(name)] == nil {
			t.Fatalf("missing node %q in\n%s", name, dot)
		}
	}
	if _, ok := g.Nodes.Lookup[strconv.Quote("watcher1 tb.dut")]; ok {
		t.Fatalf("shared interfaces must use one watcher")
	}

	if dsts := g.Edges.SrcToDsts[strconv.Quote("tb.dut.data")]; len(dsts) != 2 {
		t.Fatalf("data feeds both interfaces, got %v", dsts)
	}
}
