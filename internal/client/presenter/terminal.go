package presenter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/readkeeper/internal/client/models"
	"golang.org/x/term"
)

const (
	defaultPageSize = 20
	defaultWidth    = 80
)

// Terminal renders rows as styled text lines.
type Terminal struct {
	mu sync.Mutex

	out      io.Writer
	renderer *lipgloss.Renderer
	styles   styles
	theme    string
	width    func() int

	pageSize int
	query    Query
	view     View
	page     Page
}

var _ ListPresenter = (*Terminal)(nil)

type Option func(*Terminal)

func WithPageSize(n int) Option {
	return func(t *Terminal) {
		if n > 0 {
			t.pageSize = n
		}
	}
}

// WithWidth fixes the line width instead of asking the terminal.
func WithWidth(w int) Option {
	return func(t *Terminal) { t.width = func() int { return w } }
}

func WithTheme(name string) Option {
	return func(t *Terminal) { t.theme = name }
}

func NewTerminal(out io.Writer, opts ...Option) *Terminal {
	t := &Terminal{
		out:      out,
		renderer: lipgloss.NewRenderer(out),
		theme:    ThemeLight,
		pageSize: defaultPageSize,
	}
	t.width = func() int { return terminalWidth(out) }
	for _, o := range opts {
		o(t)
	}
	t.styles = newStyles(t.renderer, t.theme)
	t.query = Query{Order: OrderNewest, Limit: t.pageSize}
	return t
}

func terminalWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultWidth
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// SetTheme switches the palette. Unknown names fall back to light.
func (t *Terminal) SetTheme(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.theme = name
	t.styles = newStyles(t.renderer, name)
}

func (t *Terminal) SetOrder(o Order) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.query.Order = o
}

// Filter sets the search text and tag filter and resets paging.
func (t *Terminal) Filter(search, tag string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.query.Search = search
	t.query.Tag = tag
	t.query.Limit = t.pageSize
}

// More shows another page of the current view.
func (t *Terminal) More() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.query.Limit += t.pageSize
	t.draw()
}

// Current returns the collection last rendered and its visible rows.
func (t *Terminal) Current() (models.Collection, Page) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.view.Collection, t.page
}

func (t *Terminal) Render(view View) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if view.Collection != t.view.Collection {
		t.query.Limit = t.pageSize
	}
	t.view = view
	t.draw()
}

func (t *Terminal) RemoveRow(c models.Collection, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c != t.view.Collection {
		return
	}
	i := models.IndexOf(t.view.Items, id)
	if i < 0 {
		return
	}
	removed := t.view.Items[i]
	t.view.Items, _ = models.RemoveByID(t.view.Items, id)
	t.view.Count--
	t.page = Apply(t.view.Items, t.query)
	fmt.Fprintln(t.out, t.styles.meta.Render("- "+removed.DisplayTitle()))
}

func (t *Terminal) UpdateRow(c models.Collection, item models.Item) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if c != t.view.Collection {
		return
	}
	i := models.IndexOf(t.view.Items, item.ID)
	if i < 0 {
		return
	}
	items := make([]models.Item, len(t.view.Items))
	copy(items, t.view.Items)
	items[i] = item
	t.view.Items = items
	t.view.Tags = models.MergeTags(t.view.Tags, item.Tags)
	t.page = Apply(t.view.Items, t.query)
	fmt.Fprintln(t.out, t.row(-1, item))
}

func (t *Terminal) ShowMessage(level Level, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := t.styles.info
	if level == LevelError {
		st = t.styles.err
	}
	fmt.Fprintln(t.out, st.Render(msg))
}

// ShowTags prints the tag index of the current view.
func (t *Terminal) ShowTags() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.view.Tags) == 0 {
		fmt.Fprintln(t.out, t.styles.info.Render("no tags"))
		return
	}
	parts := make([]string, 0, len(t.view.Tags))
	for _, tag := range t.view.Tags {
		parts = append(parts, t.styles.tag.Render("#"+tag))
	}
	fmt.Fprintln(t.out, strings.Join(parts, " "))
}

// draw must be called with t.mu held.
func (t *Terminal) draw() {
	t.page = Apply(t.view.Items, t.query)

	header := fmt.Sprintf("%s (%d)", t.view.Collection, t.view.Count)
	var filters []string
	if t.query.Search != "" {
		filters = append(filters, fmt.Sprintf("search %q", t.query.Search))
	}
	if t.query.Tag != "" {
		filters = append(filters, "tag #"+t.query.Tag)
	}
	if len(filters) > 0 {
		header += " " + strings.Join(filters, ", ")
	}
	fmt.Fprintln(t.out, t.styles.header.Render(header))

	if len(t.page.Items) == 0 {
		fmt.Fprintln(t.out, t.styles.info.Render("nothing here"))
		return
	}
	for n, it := range t.page.Items {
		fmt.Fprintln(t.out, t.row(n+1, it))
	}
	if t.page.More {
		fmt.Fprintln(t.out, t.styles.info.Render(
			fmt.Sprintf("showing %d of %d, type 'more' for the next page", len(t.page.Items), t.page.Matched)))
	}
}

func (t *Terminal) row(n int, it models.Item) string {
	prefix := "  "
	if n > 0 {
		prefix = fmt.Sprintf("%3d. ", n)
	}
	star := " "
	if it.Favorite {
		star = t.styles.fav.Render("*")
	}
	id := t.styles.meta.Render("[" + it.ID + "]")

	var tags []string
	for _, tag := range it.Tags {
		tags = append(tags, t.styles.tag.Render("#"+tag))
	}
	tail := ""
	if len(tags) > 0 {
		tail = " " + strings.Join(tags, " ")
	}

	used := lipgloss.Width(prefix) + lipgloss.Width(star) + 1 + lipgloss.Width(id) + 1 + lipgloss.Width(tail)
	title := truncate(it.DisplayTitle(), t.width()-used)
	return prefix + star + " " + t.styles.title.Render(title) + " " + id + tail
}

func truncate(s string, limit int) string {
	if limit <= 1 {
		limit = 10
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
