package chatcmder

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/papercomputeco/apibot/pkg/cliui"
	"github.com/papercomputeco/apibot/pkg/recommender"
	"github.com/papercomputeco/apibot/pkg/session"
	"github.com/papercomputeco/apibot/pkg/updates"
)

type chatMode int

const (
	modeChat chatMode = iota
	modeUpdates
)

const (
	sidebarWidth = 32

	// title + rule above the viewport; status + input + help below it
	headerHeight = 2
	footerHeight = 3

	chatTitle          = "공공 데이터 AI 검색 로봇 입니다."
	chatPlaceholder    = "어떤 데이터를 찾고 계신가요?"
	updatesPlaceholder = "Search updates"
	aboutText          = "공공 데이터 AI 검색 로봇은 data.go.kr 에서 제공하는 약 1만 2천건의 방대한 공공 데이터 API를 좀더 쉽고 편리하게 사용자가 검색할 수 있도록 자연어 검색이 가능한 AI 기술을 적용한 서비스 입니다."
)

var (
	licenseLines = []string{
		"LLM: Naver Hyper Clovax HCX-003.",
		"UI/UX: apibot terminal",
	}
	footerLines = []string{
		"에스피테크놀러지(주)",
		"서울시 서초구 효령로 17 청진빌딩",
		"대표 02-2101-2500",
		"(FAX) 02-2101-2499",
		"E-mail : info@sptek.co.kr",
	}
)

var (
	chatTitleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	chatMutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	chatAccentStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("215"))
	chatSectionStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	chatDividerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	chatActiveStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("235")).Background(lipgloss.Color("214")).Bold(true)
	chatRoleUserStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("111")).Bold(true)
	chatRoleAsstStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	chatSidebarStyle    = lipgloss.NewStyle().Width(sidebarWidth).PaddingRight(1).BorderRight(true).BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("237"))
	chatSidebarBodyText = lipgloss.NewStyle().Width(sidebarWidth - 2).Foreground(lipgloss.Color("246"))
)

type chatKeyMap struct {
	Submit     key.Binding
	Mode       key.Binding
	About      key.Binding
	License    key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Quit       key.Binding
}

func (k chatKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Mode, k.About, k.License, k.ScrollUp, k.ScrollDown, k.Quit}
}

func (k chatKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Submit, k.Mode, k.ScrollUp, k.ScrollDown}, {k.About, k.License, k.Quit}}
}

func defaultKeyMap() chatKeyMap {
	return chatKeyMap{
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Mode:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "mode")),
		About:      key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "about")),
		License:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "license")),
		ScrollUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		Quit:       key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

// replyMsg carries the outcome of one exchange back to the model.
type replyMsg struct {
	reply string
	ok    bool
}

type chatModel struct {
	ctx  context.Context
	opts chatOptions

	mode        chatMode
	showAbout   bool
	showLicense bool

	// pending is true while an exchange is in flight; input is disabled.
	pending     bool
	pendingText string

	keyword string
	result  string

	avatar string
	width  int
	height int

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	keys     chatKeyMap
	help     help.Model

	render func(content string, width int) string
}

func runTUI(ctx context.Context, opts chatOptions) error {
	renderer := lipgloss.NewRenderer(os.Stdout, termenv.WithProfile(termenv.EnvColorProfile()))
	lipgloss.SetDefaultRenderer(renderer)

	program := bubbletea.NewProgram(newChatModel(ctx, opts),
		bubbletea.WithContext(ctx),
		bubbletea.WithAltScreen(),
	)
	_, err := program.Run()
	return err
}

func newChatModel(ctx context.Context, opts chatOptions) chatModel {
	input := textinput.New()
	input.Placeholder = chatPlaceholder
	input.Prompt = "> "
	input.CharLimit = 500
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := chatModel{
		ctx:       ctx,
		opts:      opts,
		mode:      modeChat,
		showAbout: true,
		input:     input,
		viewport:  viewport.New(80, 20),
		spinner:   sp,
		keys:      defaultKeyMap(),
		help:      help.New(),
		render:    renderMarkdown,
	}

	if opts.updatesMode {
		m.mode = modeUpdates
		m.input.Placeholder = updatesPlaceholder
	}

	if img, ok := opts.assets.Image(opts.config.Assets.AvatarPath, true); ok {
		m.avatar = avatarArt(img, sidebarWidth-2)
	}

	m.refresh()
	return m
}

func (m chatModel) Init() bubbletea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case bubbletea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refresh()
		return m, nil
	case replyMsg:
		m.pending = false
		m.pendingText = ""
		cmd := m.input.Focus()
		m.refresh()
		return m, cmd
	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd bubbletea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case bubbletea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd bubbletea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) handleKey(msg bubbletea.KeyMsg) (bubbletea.Model, bubbletea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, bubbletea.Quit
	case key.Matches(msg, m.keys.Mode):
		m.toggleMode()
		return m, nil
	case key.Matches(msg, m.keys.About):
		m.showAbout = !m.showAbout
		return m, nil
	case key.Matches(msg, m.keys.License):
		m.showLicense = !m.showLicense
		return m, nil
	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd bubbletea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	if m.pending {
		return m, nil
	}

	var cmd bubbletea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *chatModel) toggleMode() {
	if m.mode == modeChat {
		m.mode = modeUpdates
		m.input.Placeholder = updatesPlaceholder
	} else {
		m.mode = modeChat
		m.input.Placeholder = chatPlaceholder
	}
	m.refresh()
}

// submit sends the input as a chat message or, in updates mode, runs a
// keyword search over the update notes.
func (m chatModel) submit() (bubbletea.Model, bubbletea.Cmd) {
	if m.pending {
		return m, nil
	}

	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.input.SetValue("")

	if m.mode == modeUpdates {
		m.keyword = text
		m.result = updates.Search(m.notes(), text)
		m.refresh()
		return m, nil
	}

	m.pending = true
	m.pendingText = text
	m.input.Blur()

	return m, bubbletea.Batch(
		m.spinner.Tick,
		dispatchCmd(m.ctx, m.opts.dispatcher, m.opts.conversation, text),
	)
}

func dispatchCmd(ctx context.Context, d recommender.Dispatcher, conv *session.Session, text string) bubbletea.Cmd {
	return func() bubbletea.Msg {
		reply, ok := recommender.Exchange(ctx, d, conv, text)
		return replyMsg{reply: reply, ok: ok}
	}
}

func (m chatModel) notes() *updates.Document {
	return m.opts.assets.Notes(m.opts.notesPath())
}

func (m *chatModel) resize() {
	mainWidth := max(m.width-sidebarWidth-2, 20)
	m.viewport.Width = mainWidth
	m.viewport.Height = max(m.height-headerHeight-footerHeight, 3)
	m.input.Width = max(mainWidth-4, 10)
	m.help.Width = mainWidth
}

// refresh re-renders the viewport content for the current mode.
func (m *chatModel) refresh() {
	switch m.mode {
	case modeUpdates:
		m.viewport.SetContent(m.renderUpdates())
		m.viewport.GotoTop()
	default:
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
	}
}

func (m chatModel) renderTranscript() string {
	width := m.viewport.Width
	turns := m.opts.conversation.Recent(m.opts.displayLimit())

	blocks := make([]string, 0, len(turns))
	for _, turn := range turns {
		label := chatRoleAsstStyle.Render("assistant")
		if turn.IsUser() {
			label = chatRoleUserStyle.Render("you")
		}
		blocks = append(blocks, label+"\n"+m.render(turn.Content, width))
	}
	return strings.Join(blocks, "\n\n")
}

func (m chatModel) renderUpdates() string {
	var b strings.Builder

	b.WriteString(chatAccentStyle.Render("API AI Bot Announcement"))
	b.WriteString("\n")
	b.WriteString(m.opts.config.Updates.Announcement)
	b.WriteString("\n\n")

	if m.keyword != "" {
		b.WriteString(chatSectionStyle.Render("Search: " + m.keyword))
		b.WriteString("\n")
		b.WriteString(m.result)
		b.WriteString("\n\n")
	}

	b.WriteString(m.render(updates.Summary(m.notes(), m.opts.config.Updates.Featured), m.viewport.Width))
	return b.String()
}

func (m chatModel) View() string {
	main := lipgloss.JoinVertical(lipgloss.Left,
		chatTitleStyle.Render(ansi.Truncate(chatTitle, m.viewport.Width, "…")),
		renderRule(m.viewport.Width),
		m.viewport.View(),
		m.viewStatus(),
		m.input.View(),
		m.help.View(m.keys),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, m.viewSidebar(), " ", main)
}

func (m chatModel) viewStatus() string {
	if !m.pending {
		return ""
	}
	width := max(m.viewport.Width-4, 10)
	return m.spinner.View() + " " + chatMutedStyle.Render(ansi.Truncate("Searching APIs for "+m.pendingText, width, "…"))
}

func (m chatModel) viewSidebar() string {
	inner := sidebarWidth - 2
	lines := []string{}

	if m.avatar != "" {
		lines = append(lines, m.avatar, "")
	}
	lines = append(lines,
		chatTitleStyle.Render("apibot"),
		renderRule(inner),
		chatSectionStyle.Render("Select Mode:"),
		modeLine("Chat with AI Bot", m.mode == modeChat),
		modeLine("Latest Updates", m.mode == modeUpdates),
		renderRule(inner),
		checkbox("Show About Service", m.showAbout),
	)
	if m.showAbout {
		lines = append(lines, chatSidebarBodyText.Render(aboutText))
	}
	lines = append(lines, checkbox("Show License and References", m.showLicense))
	if m.showLicense {
		for _, l := range licenseLines {
			lines = append(lines, chatSidebarBodyText.Render("- "+l))
		}
	}
	lines = append(lines, renderRule(inner))
	for _, l := range footerLines {
		lines = append(lines, chatMutedStyle.Render(ansi.Truncate(l, inner, "…")))
	}

	style := chatSidebarStyle
	if m.height > 0 {
		style = style.Height(m.height)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func modeLine(label string, active bool) string {
	if active {
		return chatActiveStyle.Render("▸ " + label)
	}
	return "  " + label
}

func checkbox(label string, checked bool) string {
	if checked {
		return "[x] " + label
	}
	return "[ ] " + label
}

func renderRule(width int) string {
	if width <= 0 {
		width = 80
	}
	return chatDividerStyle.Render(strings.Repeat("─", width))
}

func renderMarkdown(content string, width int) string {
	out, err := cliui.RenderMarkdown(content, width)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}

// avatarArt renders img as half-block characters, cols cells wide. Each cell
// shows two vertically stacked pixels.
func avatarArt(img image.Image, cols int) string {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || cols <= 0 {
		return ""
	}

	cols = min(cols, b.Dx())
	rows := max(b.Dy()*cols/b.Dx(), 2)
	if rows%2 == 1 {
		rows++
	}

	lines := make([]string, 0, rows/2)
	for y := 0; y < rows; y += 2 {
		var line strings.Builder
		for x := range cols {
			top := samplePixel(img, x, y, cols, rows)
			bottom := samplePixel(img, x, y+1, cols, rows)
			line.WriteString(lipgloss.NewStyle().Foreground(top).Background(bottom).Render("▀"))
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func samplePixel(img image.Image, x, y, cols, rows int) lipgloss.Color {
	b := img.Bounds()
	sx := b.Min.X + min(x*b.Dx()/cols, b.Dx()-1)
	sy := b.Min.Y + min(y*b.Dy()/rows, b.Dy()-1)
	c, _ := color.NRGBAModel.Convert(img.At(sx, sy)).(color.NRGBA)
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
