package changes

import (
	"fmt"
	"io"
	"strings"

	md "github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/utc"

	"github.com/agentstation/modcatalog/pkg/constants"
)

// Header describes the catalog version a change log belongs to.
type Header struct {
	Version  uint64
	Released utc.Time
	Note     string
}

// Render writes the change log as markdown. Sections without entries are
// omitted.
func (l *Ledger) Render(w io.Writer, h Header) error {
	doc := md.NewMarkdown(w)
	doc.H1(fmt.Sprintf("Change notes for catalog version %d, released %s",
		h.Version, h.Released.Format(constants.DateFormat)))
	if h.Note != "" {
		doc.PlainText(h.Note).LF()
	}

	sections := map[Action][]string{}
	var catalogItems []string
	for _, c := range l.Changes() {
		if c.Kind == KindCatalog {
			catalogItems = append(catalogItems, c.Fragments...)
			continue
		}
		sections[c.Action] = append(sections[c.Action], bullet(c))
	}

	if len(catalogItems) > 0 {
		doc.H2("Catalog changes")
		doc.BulletList(catalogItems...)
	}

	caser := cases.Title(language.English)
	for _, action := range []Action{ActionAdded, ActionUpdated, ActionRemoved} {
		items := sections[action]
		if len(items) == 0 {
			continue
		}
		doc.H2(caser.String(string(action)))
		doc.BulletList(items...)
	}

	return doc.Build()
}

// String renders the change log to a string.
func (l *Ledger) String(h Header) (string, error) {
	var sb strings.Builder
	if err := l.Render(&sb, h); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func bullet(c Change) string {
	subject := c.Subject
	if subject == "" {
		subject = fmt.Sprintf("[%s %s]", cases.Title(language.English).String(string(c.Kind)), c.Key)
	}
	if c.Action == ActionAdded || len(c.Fragments) == 0 {
		return subject
	}
	return subject + ": " + strings.Join(c.Fragments, ", ")
}
