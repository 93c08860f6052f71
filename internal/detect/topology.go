package detect

import (
	"fmt"
	"strconv"

	"github.com/awalterschulze/gographviz"
)

// Topology renders the watcher and tracker wiring as a DOT digraph: one node
// per watcher, one per interface and one per signal, with edges from each
// signal to the component that samples it.
func (e *Engine) Topology() (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName("detect"); err != nil {
		return "", err
	}
	if err := g.SetDir(true); err != nil {
		return "", err
	}

	added := map[string]bool{}
	node := func(name, shape string) error {
		if added[name] {
			return nil
		}
		added[name] = true
		return g.AddNode("detect", strconv.Quote(name), map[string]string{"shape": shape})
	}
	edge := func(src, dst, label string) error {
		return g.AddEdge(strconv.Quote(src), strconv.Quote(dst), true, map[string]string{"label": strconv.Quote(label)})
	}

	watcherName := map[*Watcher]string{}
	for i, w := range e.watchers {
		name := fmt.Sprintf("watcher%d %s", i, w.scope)
		watcherName[w] = name
		if err := node(name, "box"); err != nil {
			return "", err
		}
		if err := node(w.clockName, "ellipse"); err != nil {
			return "", err
		}
		if err := node(w.resetName, "ellipse"); err != nil {
			return "", err
		}
		if err := edge(w.clockName, name, "clock"); err != nil {
			return "", err
		}
		if err := edge(w.resetName, name, "reset"); err != nil {
			return "", err
		}
	}

	for _, iface := range e.interfaces {
		name := iface.Spec.Name
		if err := node(name, "component"); err != nil {
			return "", err
		}
		if err := edge(watcherName[iface.watcher], name, "edge"); err != nil {
			return "", err
		}
		for _, s := range iface.Control {
			if err := node(s, "ellipse"); err != nil {
				return "", err
			}
			if err := edge(s, name, "control"); err != nil {
				return "", err
			}
		}
		for _, s := range iface.Payload {
			if err := node(s, "ellipse"); err != nil {
				return "", err
			}
			if err := edge(s, name, "payload"); err != nil {
				return "", err
			}
		}
	}

	return g.String(), nil
}
