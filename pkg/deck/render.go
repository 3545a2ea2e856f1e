package deck

import (
	"bufio"
	"bytes"
	"io"

	"github.com/ChicagoDave/scwdeck/pkg/card"
)

// Render writes the deck: title line, then the cell, surface and data blocks
// separated by blank lines. A deck with a card that fails to format writes
// nothing.
func (d *Deck) Render(w io.Writer) error {
	lines, err := d.Lines()
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := bw.WriteString(l + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Bytes renders the deck into memory.
func (d *Deck) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Lines returns every physical line of the deck.
func (d *Deck) Lines() ([]string, error) {
	p := &printer{f: d.Format.WithDefaults()}
	p.line(d.Title)
	d.cellBlock(p)
	p.line("")
	d.surfaceBlock(p)
	p.line("")
	d.dataBlock(p)
	if p.err != nil {
		return nil, p.err
	}
	return p.lines, nil
}

// printer collects lines and remembers the first error.
type printer struct {
	f     card.Format
	lines []string
	err   error
}

func (p *printer) line(s ...string) {
	p.lines = append(p.lines, s...)
}

func (p *printer) comment(text string) {
	p.line(p.f.Comment(text))
}

func (p *printer) card(lines []string, err error) {
	if p.err != nil {
		return
	}
	if err != nil {
		p.err = err
		return
	}
	p.line(lines...)
}

func (d *Deck) cellBlock(p *printer) {
	p.line(p.f.Banner("CELL CARD"))
	known := d.Surfaces()
	first := true
	for _, r := range d.Regions {
		if len(r.Cells) == 0 {
			continue
		}
		if !first {
			p.comment("")
		}
		first = false
		p.comment(r.Name)
		for _, c := range r.Cells {
			p.card(c.Lines(p.f, known))
		}
	}

	l := d.Lattice
	if l == nil {
		return
	}
	p.comment("")
	p.comment("Core lattice")
	p.card(l.Cell.Lines(p.f, known))
	if len(l.Assemblies) > 0 {
		p.comment("Assemblies")
		for _, a := range l.Assemblies {
			p.card(a.Cell.Lines(p.f))
		}
	}
}

func (d *Deck) surfaceBlock(p *printer) {
	p.line(p.f.Banner("SURFACE CARD"))
	first := true
	for _, r := range d.Regions {
		if len(r.Surfaces) == 0 {
			continue
		}
		if !first {
			p.comment("")
		}
		first = false
		p.comment(r.Name)
		for _, s := range r.Surfaces {
			p.card(card.SurfaceLines(s.Surface, p.f))
		}
	}
}

func (d *Deck) dataBlock(p *printer) {
	p.line(p.f.Banner("DATA CARD"))

	if len(d.Materials) > 0 || len(d.Fuels) > 0 {
		p.comment("MATERIAL")
	}
	if len(d.Materials) > 0 {
		p.comment("  General materials")
		for _, m := range d.Materials {
			p.card(m.Card.Lines(p.f))
		}
	}
	if len(d.Fuels) > 0 {
		p.comment("  Assembly materials")
		for _, m := range d.Fuels {
			p.card(m.Card.Lines(p.f))
		}
	}

	p.comment("")
	p.comment("PHYSICS")
	p.line(card.Mode(d.Mode)...)
	p.card(card.KCode(d.KCode, d.KSrc, p.f))
	if d.Burn != nil {
		p.card(d.Burn.Lines(p.f))
	}
	p.comment("")
	p.line(p.f.Banner("End of file"))
}
