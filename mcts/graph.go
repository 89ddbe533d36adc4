package mcts

import (
	"bytes"
	"fmt"
	"sort"
	"text/template"

	"github.com/awalterschulze/gographviz"
	"github.com/gorgonia/familiar/game"
	"github.com/pkg/errors"
)

type statefulNode struct {
	*Node
	stride int
}

func (s *statefulNode) Board() string {
	var buf bytes.Buffer
	for i, c := range s.state.Board() {
		if i%s.stride == 0 {
			fmt.Fprint(&buf, "⎢ ")
		}
		fmt.Fprintf(&buf, "%s ", c)
		if (i+1)%s.stride == 0 {
			fmt.Fprint(&buf, "⎥<BR />")
		}
	}
	return buf.String()
}

func (s *statefulNode) Played() string {
	if s.parent == nilNode {
		return "root"
	}
	return fmt.Sprintf("%v", game.Move{Colour: s.colour.Opponent(), Point: s.move})
}

func (s *statefulNode) Rate() string { return fmt.Sprintf("%.3f", s.WinRate(game.Black)) }

// ToDot exports the tree of the last search in the Graphviz dot format. Only nodes with at least minSims
// simulations are drawn.
func (t *MCTS) ToDot(minSims uint32) (string, error) {
	t.Lock()
	defer t.Unlock()

	g := gographviz.NewGraph()
	if err := g.SetName("G"); err != nil {
		return "", errors.WithStack(err)
	}
	if err := g.SetDir(true); err != nil {
		return "", errors.WithStack(err)
	}
	if !t.root.isValid() {
		return g.String(), nil
	}

	stride := t.nodeFromNaughty(t.root).state.BoardSize()
	var buf bytes.Buffer
	worklist := []naughty{t.root}
	for len(worklist) > 0 {
		cur := worklist[0]
		worklist = worklist[1:]

		n := &statefulNode{Node: t.nodeFromNaughty(cur), stride: stride}
		buf.Reset()
		if err := tmpl.Execute(&buf, n); err != nil {
			return "", errors.Wrapf(err, "Unable to render node %d", cur)
		}
		attrs := map[string]string{
			"fontname": "Monaco",
			"shape":    "none",
			"label":    buf.String(),
		}
		if err := g.AddNode("G", fmt.Sprintf("%v", n.id), attrs); err != nil {
			return "", errors.WithStack(err)
		}
		if parent := n.parent; parent.isValid() {
			if err := g.AddEdge(fmt.Sprintf("%v", parent), fmt.Sprintf("%v", n.id), true, nil); err != nil {
				return "", errors.WithStack(err)
			}
		}

		kids := make([]naughty, 0, len(n.children))
		for _, kid := range n.children {
			if t.nodeFromNaughty(kid).sims >= minSims {
				kids = append(kids, kid)
			}
		}
		sort.Sort(byMove{l: kids, t: t})
		worklist = append(worklist, kids...)
	}
	return g.String(), nil
}

const tmplRaw = `<
<TABLE BORDER="0" CELLBORDER="1" CELLSPACING="0">
<TR><TD>Node ID</TD><TD>{{.ID}}</TD></TR>
<TR><TD>Move</TD><TD>{{.Played}}</TD></TR>
<TR><TD>To Move</TD><TD>{{.Colour}}</TD></TR>
<TR><TD>Sims</TD><TD>{{.Sims}}</TD></TR>
<TR><TD>Black Win Rate</TD><TD>{{.Rate}}</TD></TR>
<TR><TD>State</TD><TD>{{.Board}}</TD></TR>
</TABLE>
>
`

var tmpl *template.Template

func init() {
	tmpl = template.Must(template.New("name").Parse(tmplRaw))
}
