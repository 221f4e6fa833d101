package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"

	"github.com/mbegonja/plusview/internal/controller"
	"github.com/mbegonja/plusview/internal/debug"
)

// DebounceDelay collapses rapid search keystrokes into one refetch.
const DebounceDelay = 220 * time.Millisecond

const scrollFPS = 60

// sortCycle is the order the s key steps through. The empty key keeps
// server order.
var sortCycle = []string{"date", "title", "year", ""}

// Options carries presentation settings into the App.
type Options struct {
	Density   string            // "comfortable" or "compact"
	TagColors map[string]string // lowercase tag -> hex color overrides
	Events    *debug.Buffer     // nil disables the debug overlay
}

// App is the root Bubble Tea model.
// IMPORTANT: App does NOT perform IO. It receives pages via messages;
// the command functions are injected so tests can stub them.
type App struct {
	list    *controller.List
	trigger *controller.Trigger
	events  *debug.Buffer

	fetchPage  func(controller.Request) tea.Cmd
	deleteItem func(collection, id string) tea.Cmd

	density   string
	tagColors map[string]string

	search    textinput.Model
	spin      spinner.Model
	searching bool
	searchSeq int

	cursor    int
	offset    int
	scrollPos float64
	scrollVel float64
	spring    harmonica.Spring
	animating bool

	confirmDelete string // item id awaiting y/n
	showDebug     bool
	loading       bool
	err           error
	width         int
	height        int
	ready         bool
}

// NewApp creates the App with the given command functions.
// fetchPage: returns a Cmd performing one page request
// deleteItem: returns a Cmd issuing the admin delete
func NewApp(list *controller.List, fetchPage func(controller.Request) tea.Cmd, deleteItem func(collection, id string) tea.Cmd, opts Options) App {
	search := textinput.New()
	search.Placeholder = "search title, content, tags"
	search.CharLimit = 120

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	if opts.Density == "" {
		opts.Density = "comfortable"
	}

	return App{
		list:       list,
		trigger:    controller.NewTrigger(controller.TriggerSentinel),
		events:     opts.Events,
		fetchPage:  fetchPage,
		deleteItem: deleteItem,
		density:    opts.Density,
		tagColors:  opts.TagColors,
		search:     search,
		spin:       spin,
		spring:     harmonica.NewSpring(harmonica.FPS(scrollFPS), 8.0, 0.8),
		loading:    true,
	}
}

// Init starts the spinner and issues the initial page fetch.
func (a App) Init() tea.Cmd {
	adv := a.list.ResetView()
	cmds := []tea.Cmd{a.spin.Tick}
	if adv.Fetch && a.fetchPage != nil {
		a.record(debug.KindFetch, "initial page")
		cmds = append(cmds, a.fetchPage(adv.Request))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case PageFetched:
		return a.handlePageFetched(msg)

	case ItemDeleted:
		if msg.Err != nil {
			a.err = msg.Err
			a.record(debug.KindError, "delete failed: %v", msg.Err)
			return a, nil
		}
		a.list.RemoveItem(msg.ID)
		a.clampCursor()
		a.record(debug.KindDelete, "removed %s", msg.ID)
		return a, nil

	case searchDebounced:
		if msg.seq != a.searchSeq {
			return a, nil
		}
		if !a.list.SetSearch(a.search.Value()) {
			return a, nil
		}
		a.record(debug.KindReset, "search %q", a.search.Value())
		return a.resetList()

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case frameMsg:
		return a.stepScroll()
	}

	return a, nil
}

func (a App) handlePageFetched(msg PageFetched) (tea.Model, tea.Cmd) {
	out := a.list.Apply(msg.Req, msg.Page, msg.Err)
	if out.Stale {
		a.record(debug.KindApply, "stale response for page %d", msg.Req.Query.Page)
		return a, nil
	}

	a.loading = false
	a.trigger.Rearm()

	if out.Err != nil {
		a.err = out.Err
		a.record(debug.KindError, "page %d: %v", msg.Req.Query.Page, out.Err)
		return a, nil
	}

	a.err = nil
	a.record(debug.KindApply, "page %d: %d items", msg.Req.Query.Page, len(out.Batch))
	if out.Replace {
		a.cursor = 0
		a.offset = 0
		a.scrollPos = 0
		a.scrollVel = 0
	}
	return a, nil
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A pending delete confirmation swallows the next key.
	if a.confirmDelete != "" {
		id := a.confirmDelete
		a.confirmDelete = ""
		if msg.String() == "y" && a.deleteItem != nil {
			a.record(debug.KindDelete, "confirmed delete of %s", id)
			return a, a.deleteItem(a.list.Collection(), id)
		}
		return a, nil
	}

	if a.searching {
		return a.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "j", "down":
		if a.cursor < len(a.list.Rendered())-1 {
			a.cursor++
		}
		return a.afterCursorMove()

	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a.afterCursorMove()

	case "g", "home":
		a.cursor = 0
		return a.afterCursorMove()

	case "G", "end":
		if n := len(a.list.Rendered()); n > 0 {
			a.cursor = n - 1
		}
		return a.afterCursorMove()

	case "/":
		a.searching = true
		a.search.Focus()
		return a, textinput.Blink

	case "s":
		a.list.SetSort(nextSort(a.list.SortKey()))
		a.record(debug.KindReset, "sort %q", a.list.SortKey())
		return a.resetList()

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return a.toggleTagByIndex(int(msg.String()[0] - '1'))

	case "c":
		a.list.ClearFilters()
		a.record(debug.KindReset, "filters cleared")
		return a.resetList()

	case "d":
		if item, ok := a.selectedItem(); ok {
			a.confirmDelete = item.ID
		}
		return a, nil

	case "D":
		a.showDebug = !a.showDebug
		return a, nil

	case "r":
		a.record(debug.KindReset, "manual reload")
		return a.resetList()
	}

	return a, nil
}

func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.searching = false
		a.search.Blur()
		return a, nil
	case "enter":
		a.searching = false
		a.search.Blur()
		a.searchSeq++
		if a.list.SetSearch(a.search.Value()) {
			a.record(debug.KindReset, "search %q", a.search.Value())
			return a.resetList()
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	a.searchSeq++
	seq := a.searchSeq
	debounce := tea.Tick(DebounceDelay, func(time.Time) tea.Msg {
		return searchDebounced{seq: seq}
	})
	return a, tea.Batch(cmd, debounce)
}

func (a App) toggleTagByIndex(idx int) (tea.Model, tea.Cmd) {
	item, ok := a.selectedItem()
	if !ok || idx >= len(item.Tags) {
		return a, nil
	}
	tag := item.Tags[idx]
	a.list.ToggleTag(tag)
	a.record(debug.KindReset, "toggled tag %q", tag)
	return a.resetList()
}

// resetList rebuilds the view from page 1 after any filter, sort, or
// search mutation.
func (a App) resetList() (tea.Model, tea.Cmd) {
	adv := a.list.ResetView()
	a.cursor = 0
	a.offset = 0
	a.scrollPos = 0
	a.scrollVel = 0
	a.trigger.Rearm()

	if adv.Fetch {
		a.loading = true
		if a.fetchPage != nil {
			return a, tea.Batch(a.spin.Tick, a.fetchPage(adv.Request))
		}
		return a, a.spin.Tick
	}
	return a, nil
}

// afterCursorMove starts the scroll animation and checks the
// pagination trigger.
func (a App) afterCursorMove() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	target := CardOffset(a.cursor, a.offset, a.contentHeight(), a.density)
	if target != a.offset && !a.animating {
		a.animating = true
		cmds = append(cmds, frame())
	}

	if cmd := a.checkTrigger(); cmd != nil {
		cmds = append(cmds, cmd)
	}

	if len(cmds) == 0 {
		return a, nil
	}
	return a, tea.Batch(cmds...)
}

// checkTrigger observes the scroll position and advances the list when
// the end of the rendered cards is near.
func (a *App) checkTrigger() tea.Cmd {
	per := CardLines(a.density)
	pos := controller.SentinelPosition((a.cursor+1)*per, len(a.list.Rendered())*per)
	if !a.trigger.Observe(pos) {
		return nil
	}
	a.record(debug.KindTrigger, "sentinel at item %d", a.cursor)

	adv := a.list.NextPage()
	if !adv.OK {
		return nil
	}
	if adv.Fetch {
		a.loading = true
		return tea.Batch(a.spin.Tick, a.fetchPage(adv.Request))
	}
	// Client mode appended locally; the list grew, so rearm.
	a.record(debug.KindRender, "appended %d items locally", len(adv.Batch))
	a.trigger.Rearm()
	return nil
}

// stepScroll advances the spring animation one frame.
func (a App) stepScroll() (tea.Model, tea.Cmd) {
	target := float64(CardOffset(a.cursor, a.offset, a.contentHeight(), a.density))
	a.scrollPos, a.scrollVel = a.spring.Update(a.scrollPos, a.scrollVel, target)

	if diff := a.scrollPos - target; diff < 0.05 && diff > -0.05 {
		a.scrollPos = target
		a.scrollVel = 0
		a.offset = int(target)
		a.animating = false
		return a, nil
	}
	a.offset = int(a.scrollPos + 0.5)
	return a, frame()
}

func frame() tea.Cmd {
	return tea.Tick(time.Second/scrollFPS, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.showDebug {
		return debugOverlay(a.events, a.width, a.height-1) + "\n" + debugStatusBar(a.width)
	}

	var sections []string

	showSearch := a.searching || a.search.Value() != ""
	if showSearch {
		sections = append(sections, RenderSearchBar(a.search.Value(), a.searching, len(a.list.Rendered()), a.width))
	}

	filters := a.list.ActiveFilters()
	if len(filters) > 0 {
		sections = append(sections, RenderActiveFilters(filters, a.tagColors, a.width))
	}

	content := RenderCards(a.list.Rendered(), a.cursor, a.offset, a.width,
		a.contentHeight(), a.density, a.tagColors, a.list.EndReached())
	sections = append(sections, content)

	if a.err != nil {
		if len(a.list.Rendered()) == 0 {
			sections = []string{PlaceholderStyle.Render("Could not load " + a.list.Collection() + ": " + a.err.Error() + "\nPress 'r' to retry.")}
		} else {
			sections = append(sections, ErrorStyle.Width(a.width).Render("Error: "+a.err.Error()))
		}
	}

	if a.confirmDelete != "" {
		sections = append(sections, ErrorStyle.Width(a.width).Render("Delete "+a.confirmDelete+"? y/n"))
	}

	sections = append(sections, RenderStatusBar(a.list, a.width, a.loading, a.spin.View()))

	out := ""
	for _, s := range sections {
		if s == "" {
			continue
		}
		if out != "" && out[len(out)-1] != '\n' {
			out += "\n"
		}
		out += s
	}
	return out
}

// contentHeight is the card region height after fixed chrome.
func (a App) contentHeight() int {
	h := a.height - 1 // status bar
	if a.searching || a.search.Value() != "" {
		h--
	}
	if len(a.list.ActiveFilters()) > 0 {
		h--
	}
	if a.err != nil || a.confirmDelete != "" {
		h--
	}
	if h < CardLines(a.density) {
		h = CardLines(a.density)
	}
	return h
}

// clampCursor keeps the cursor on a valid card after items are removed.
func (a *App) clampCursor() {
	if n := len(a.list.Rendered()); a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
	a.offset = CardOffset(a.cursor, a.offset, a.contentHeight(), a.density)
}

func (a App) selectedItem() (item itemRef, ok bool) {
	items := a.list.Rendered()
	if len(items) == 0 || a.cursor >= len(items) {
		return itemRef{}, false
	}
	it := items[a.cursor]
	return itemRef{ID: it.ID, Tags: it.Tags}, true
}

// itemRef is the slice of an item the key handlers need.
type itemRef struct {
	ID   string
	Tags []string
}

func (a App) record(kind debug.Kind, format string, args ...any) {
	if a.events != nil {
		a.events.Recordf(kind, format, args...)
	}
}

func nextSort(current string) string {
	for i, key := range sortCycle {
		if key == current {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return sortCycle[0]
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int {
	return a.cursor
}

// List returns the controller state (for testing).
func (a App) List() *controller.List {
	return a.list
}
