package pages

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/phonecdp/internal/api"
	"github.com/Veraticus/phonecdp/internal/common"
	"github.com/Veraticus/phonecdp/internal/model"
	"github.com/Veraticus/phonecdp/internal/notify"
	"github.com/Veraticus/phonecdp/internal/tui/components"
	"github.com/Veraticus/phonecdp/internal/tui/viewmodel"
)

var (
	keyDownloadMenu = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "download"))
	keyVerifyThis   = key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "verify this"))
	keyPreview      = key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview"))
)

const (
	genSerial = iota
	genLabel
	genSeed
	genNotes
	genSubmit
	genGallery
)

// downloadOption is an entry of the download menu.
type downloadOption struct {
	path  func(id int) string
	name  func(serial string) string
	label string
}

var downloadOptions = []downloadOption{
	{
		label: "PNG Image",
		path:  api.PatternDownloadPath,
		name:  func(serial string) string { return serial + ".png" },
	},
	pdfOption(api.PDFSizes[0]),
	pdfOption(api.PDFSizes[1]),
}

func pdfOption(size float64) downloadOption {
	mm := strconv.FormatFloat(size, 'f', -1, 64) + "mm"
	return downloadOption{
		label: "PDF (" + mm + ")",
		path:  func(id int) string { return api.PatternPDFPath(id, size) },
		name:  func(serial string) string { return serial + "_" + mm + ".pdf" },
	}
}

type galleryLoadedMsg struct {
	patterns []model.Pattern
}

type generatedMsg struct {
	err     error
	pattern model.Pattern
}

func (m generatedMsg) report(n *notify.Notifier) {
	if m.err != nil {
		n.Error(m.err.Error())
		return
	}
	n.Success("Pattern generated!")
}

// Generate creates new patterns and shows the gallery.
type Generate struct {
	env       Env
	result    *model.Pattern
	inputs    []textinput.Model
	gallery   []model.Pattern
	spinner   spinner.Model
	state     loadState
	focus     int
	cursor    int
	menuIndex int
	width     int
	height    int
	busy      bool
	menuOpen  bool
}

// NewGenerate creates the generate page.
func NewGenerate(env Env) *Generate {
	return &Generate{env: env, spinner: spinner.New(spinner.WithSpinner(spinner.Dot))}
}

// Init fetches the gallery. A failed fetch is treated as an empty gallery.
func (g *Generate) Init() tea.Cmd {
	client := g.env.Client
	return tea.Batch(g.spinner.Tick, g.env.Async(func(ctx context.Context) tea.Msg {
		patterns, err := client.ListPatterns(ctx)
		if err != nil {
			common.LogDebug("gallery fetch failed", common.Fields{"error": err})
			patterns = nil
		}
		return galleryLoadedMsg{patterns: patterns}
	}))
}

func (g *Generate) buildForm() {
	mk := func(placeholder, value string) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.Prompt = ""
		ti.SetValue(value)
		ti.CharLimit = 256
		return ti
	}
	g.inputs = []textinput.Model{
		mk("Serial number", viewmodel.DefaultSerial(g.env.now(), len(g.gallery))),
		mk("e.g. Product Batch A", ""),
		mk("Auto", ""),
		mk("Optional...", ""),
	}
	g.focus = genSubmit
}

// Update handles messages.
func (g *Generate) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case galleryLoadedMsg:
		g.gallery = msg.patterns
		g.state = stateReady
		g.buildForm()
		return g, nil

	case generatedMsg:
		g.busy = false
		if msg.err != nil {
			return g, nil
		}
		p := msg.pattern
		g.result = &p
		g.menuOpen = false
		g.gallery = append([]model.Pattern{p}, g.gallery...)
		return g, nil

	case spinner.TickMsg:
		if g.state != stateLoading && !g.busy {
			return g, nil
		}
		var cmd tea.Cmd
		g.spinner, cmd = g.spinner.Update(msg)
		return g, cmd

	case tea.KeyMsg:
		if g.state != stateReady {
			return g, nil
		}
		return g.handleKey(msg)
	}

	if g.focus < len(g.inputs) {
		var cmd tea.Cmd
		g.inputs[g.focus], cmd = g.inputs[g.focus].Update(msg)
		return g, cmd
	}
	return g, nil
}

func (g *Generate) handleKey(msg tea.KeyMsg) (Page, tea.Cmd) {
	if g.menuOpen {
		switch {
		case key.Matches(msg, keyUp):
			g.menuIndex = (g.menuIndex + len(downloadOptions) - 1) % len(downloadOptions)
			return g, nil
		case key.Matches(msg, keyDown):
			g.menuIndex = (g.menuIndex + 1) % len(downloadOptions)
			return g, nil
		case key.Matches(msg, keyOpen):
			g.menuOpen = false
			opt := downloadOptions[g.menuIndex]
			return g, g.env.download(opt.path(g.result.ID), opt.name(g.result.SerialNumber))
		}
		// Any other key closes the menu and is handled normally.
		g.menuOpen = false
	}

	switch {
	case key.Matches(msg, keySubmit):
		return g, g.submit()
	case key.Matches(msg, keyNext):
		return g, g.setFocus(g.focus + 1)
	case key.Matches(msg, keyPrev):
		return g, g.setFocus(g.focus - 1)
	}

	if g.focus < len(g.inputs) {
		switch msg.Type {
		case tea.KeyEnter:
			return g, g.setFocus(g.focus + 1)
		case tea.KeyEsc:
			return g, g.setFocus(genSubmit)
		}
		var cmd tea.Cmd
		g.inputs[g.focus], cmd = g.inputs[g.focus].Update(msg)
		return g, cmd
	}

	switch {
	case g.focus == genSubmit && key.Matches(msg, keyOpen):
		return g, g.submit()
	case g.focus == genGallery && key.Matches(msg, keyUp):
		if g.cursor > 0 {
			g.cursor--
		}
	case g.focus == genGallery && key.Matches(msg, keyDown):
		if g.cursor < len(g.gallery)-1 {
			g.cursor++
		}
	case g.focus == genGallery && key.Matches(msg, keyOpen):
		if g.cursor < len(g.gallery) {
			g.env.Lightbox.Open(g.env.Client.URL(api.PatternPreviewPath(g.gallery[g.cursor].ID)))
		}
	case g.result != nil && key.Matches(msg, keyDownloadMenu):
		g.menuOpen = true
		g.menuIndex = 0
	case g.result != nil && key.Matches(msg, keyPreview):
		g.env.Lightbox.Open(g.env.Client.URL(api.PatternPreviewPath(g.result.ID)))
	case g.result != nil && key.Matches(msg, keyVerifyThis):
		id := g.result.ID
		return g, func() tea.Msg {
			return NavigateMsg{Fragment: "/verify", Hint: Hint{PatternID: id}}
		}
	}
	return g, nil
}

func (g *Generate) setFocus(i int) tea.Cmd {
	last := genSubmit
	if len(g.gallery) > 0 {
		last = genGallery
	}
	if i < 0 {
		i = last
	}
	if i > last {
		i = 0
	}

	for j := range g.inputs {
		g.inputs[j].Blur()
	}
	g.focus = i
	if i < len(g.inputs) {
		return g.inputs[i].Focus()
	}
	return nil
}

// submit validates the form and posts it. The control stays disabled until
// the response arrives.
func (g *Generate) submit() tea.Cmd {
	if g.busy {
		return nil
	}

	req := model.GenerateRequest{
		SerialNumber: g.inputs[genSerial].Value(),
		Label:        g.inputs[genLabel].Value(),
		Notes:        g.inputs[genNotes].Value(),
	}
	if raw := strings.TrimSpace(g.inputs[genSeed].Value()); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			g.env.Notifier.Error(common.ErrInvalidSeed.Error())
			return nil
		}
		req.Seed = &seed
	}

	g.busy = true
	client := g.env.Client
	return tea.Batch(g.spinner.Tick, g.env.Action(func(ctx context.Context) tea.Msg {
		p, err := client.GeneratePattern(ctx, req)
		return generatedMsg{pattern: p, err: err}
	}))
}

// View renders the page.
func (g *Generate) View() string {
	theme := g.env.Theme
	header := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render("Generate Pattern"),
		theme.Subtitle.Render("Create a new Copy Detection Pattern for printing and verification"),
	)
	if g.state == stateLoading {
		return lipgloss.JoinVertical(lipgloss.Left, header, "", g.spinner.View()+" Loading...")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, g.formView(), " ", g.previewView()),
		g.galleryView(),
	)
}

func (g *Generate) formView() string {
	theme := g.env.Theme
	labels := []string{"Serial Number", "Label / Name", "Seed (empty = random)", "Notes"}

	lines := []string{theme.Bold.Render("Pattern Settings"), ""}
	for i, in := range g.inputs {
		label := theme.Faint.Render(labels[i])
		if g.focus == i {
			label = theme.StatusInfo.Render(labels[i])
		}
		lines = append(lines, label, in.View(), "")
	}

	btn := "Generate Pattern"
	if g.busy {
		btn = g.spinner.View() + " Generating..."
	}
	lines = append(lines, components.Button(theme, btn, g.focus == genSubmit, g.busy))

	return theme.RoundedBox.Width(40).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (g *Generate) previewView() string {
	theme := g.env.Theme
	if g.result == nil {
		return theme.RoundedBox.Render(lipgloss.JoinVertical(lipgloss.Left,
			theme.Bold.Render("Preview"),
			"",
			theme.Faint.Render("Generate a pattern to see the preview"),
		))
	}

	p := g.result
	lines := []string{
		theme.Bold.Render("Generated Pattern"),
		"",
		fmt.Sprintf("Serial:   %s", p.SerialNumber),
		fmt.Sprintf("Label:    %s", orDash(p.Label)),
		fmt.Sprintf("Seed:     %d", p.Seed),
		fmt.Sprintf("Size:     %dpx", p.PatternSize),
		fmt.Sprintf("Created:  %s", p.CreatedAt.Display()),
		fmt.Sprintf("Preview:  %s", g.env.Client.URL(api.PatternPreviewPath(p.ID))),
		"",
		components.KeyHint(theme, "d", "Download", "v", "Verify This", "p", "Preview"),
	}
	if g.menuOpen {
		menu := make([]string, len(downloadOptions))
		for i, opt := range downloadOptions {
			if i == g.menuIndex {
				menu[i] = theme.Selected.Render("> " + opt.label)
			} else {
				menu[i] = "  " + opt.label
			}
		}
		lines = append(lines, theme.RoundedBox.Render(lipgloss.JoinVertical(lipgloss.Left, menu...)))
	}
	return theme.RoundedBox.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (g *Generate) galleryView() string {
	theme := g.env.Theme
	if len(g.gallery) == 0 {
		return ""
	}

	lines := []string{theme.Bold.Render(fmt.Sprintf("Gallery (%d)", len(g.gallery)))}
	for i, p := range g.gallery {
		line := fmt.Sprintf("%-24s %s", p.DisplayName(), theme.Faint.Render(p.CreatedAt.Display()))
		if g.focus == genGallery && i == g.cursor {
			line = theme.Selected.Render(line)
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// SetSize records the page area.
func (g *Generate) SetSize(width, height int) {
	g.width, g.height = width, height
}

// InputFocused reports whether a form field has focus.
func (g *Generate) InputFocused() bool {
	return g.state == stateReady && g.focus < len(g.inputs)
}

// ShortHelp lists the page bindings.
func (g *Generate) ShortHelp() []key.Binding {
	bindings := []key.Binding{keyNext, keySubmit}
	if g.result != nil {
		bindings = append(bindings, keyDownloadMenu, keyVerifyThis, keyPreview)
	}
	return bindings
}
