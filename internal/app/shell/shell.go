// Package shell runs the interactive read-answer loop of the terminal assistant.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cryptobuddy/internal/feature/chat/domain/entity"
)

const maxLineBytes = 1 << 20

// Dispatcher answers questions and reports runtime state.
type Dispatcher interface {
	Process(ctx context.Context, text string) string
	Status(ctx context.Context) entity.Status
}

type styles struct {
	banner  lipgloss.Style
	info    lipgloss.Style
	warn    lipgloss.Style
	ok      lipgloss.Style
	prompt  lipgloss.Style
	bot     lipgloss.Style
	heading lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		banner: r.NewStyle().
			Foreground(lipgloss.Color("#00BCD4")).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#00BCD4")).
			Padding(0, 4).
			Align(lipgloss.Center),
		info:    r.NewStyle().Foreground(lipgloss.Color("#FFC107")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("#e53935")),
		ok:      r.NewStyle().Foreground(lipgloss.Color("#8BC34A")),
		prompt:  r.NewStyle().Foreground(lipgloss.Color("#2196F3")).Bold(true),
		bot:     r.NewStyle().Foreground(lipgloss.Color("#E040FB")).Bold(true),
		heading: r.NewStyle().Foreground(lipgloss.Color("#00BCD4")).Bold(true),
	}
}

// Shell reads one question per line from in and writes answers to out.
type Shell struct {
	d   Dispatcher
	in  io.Reader
	out io.Writer
	st  styles
}

// New creates a Shell. Colors are dropped automatically when out is not a terminal.
func New(d Dispatcher, in io.Reader, out io.Writer) *Shell {
	return &Shell{d: d, in: in, out: out, st: newStyles(lipgloss.NewRenderer(out))}
}

// Run prints the banner and serves queries until quit, end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	s.printf("%s\n\n", s.Banner())
	s.printf("%s\n\n", s.st.ok.Render("✅ CryptoBuddy Pro initialized successfully!"))

	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(s.in)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-readCtx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()

	for {
		s.printf("%s", s.st.prompt.Render("🧑 You: "))

		var line string
		select {
		case <-ctx.Done():
			s.goodbye()
			return nil
		case l, ok := <-lines:
			if !ok {
				s.goodbye()
				select {
				case err := <-errc:
					if err != nil {
						return fmt.Errorf("read input: %w", err)
					}
				default:
				}
				return nil
			}
			line = strings.TrimSpace(l)
		}

		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "quit", "exit", "bye":
			s.printf("%s\n", s.st.heading.Render("👋 Thanks for using CryptoBuddy Pro! Stay safe in the crypto world!"))
			return nil
		case "help":
			s.printf("%s\n", s.Help())
			continue
		case "status":
			s.printf("%s\n", s.StatusReport(ctx))
			continue
		}

		answer := s.d.Process(ctx, line)
		s.printf("%s%s\n\n", s.st.bot.Render("🤖 CryptoBuddy Pro: "), answer)
	}
}

// Banner returns the welcome text with the disclaimer.
func (s *Shell) Banner() string {
	var b strings.Builder
	b.WriteString(s.st.banner.Render("🚀 CryptoBuddy Pro 🚀\nYour Crypto Advisor"))
	b.WriteString("\n\n")
	b.WriteString(s.st.info.Render(`💡 Ask me about cryptocurrencies! I can help with:
   • Live prices and market data
   • Coin comparisons and analysis
   • Sustainability and risk assessments
   • Investment recommendations
   • Market trends and insights`))
	b.WriteString("\n\n")
	b.WriteString(s.st.warn.Render(`⚠️  DISCLAIMER: Cryptocurrency investments are highly risky.
   Always do your own research before making any investment decisions!`))
	b.WriteString("\n\n")
	b.WriteString(s.st.ok.Render("Type 'help' for commands or 'quit' to exit."))
	return b.String()
}

// Help lists the commands and example queries.
func (s *Shell) Help() string {
	var b strings.Builder
	b.WriteString(s.st.heading.Render("🔧 Available Commands:") + "\n")
	b.WriteString(s.st.ok.Render("• help") + "               - Show this help message\n")
	b.WriteString(s.st.ok.Render("• quit / exit / bye") + "  - Exit CryptoBuddy Pro\n")
	b.WriteString(s.st.ok.Render("• status") + "             - Show system status and last data refresh\n\n")
	b.WriteString(s.st.heading.Render("📊 Example Queries:") + "\n")
	b.WriteString(s.st.info.Render(strings.Join(ExampleQueries(), "\n")))
	b.WriteString("\n")
	return b.String()
}

// ExampleQueries returns the sample questions shown by help.
func ExampleQueries() []string {
	return []string{
		`• "What's the price of Bitcoin?"`,
		`• "Which coin is trending?"`,
		`• "Give me a sustainable and low-risk option"`,
		`• "Compare Ethereum vs Solana"`,
		`• "What are the top 5 cryptocurrencies?"`,
		`• "Tell me about Cardano's sustainability"`,
		`• "Which coins have the lowest energy usage?"`,
	}
}

// StatusReport renders the runtime state for the status command.
func (s *Shell) StatusReport(ctx context.Context) string {
	st := s.d.Status(ctx)
	api := "✅ Connected"
	if !st.ProviderReachable {
		api = "❌ Unreachable"
	}
	cacheState := "❌ Empty"
	if st.CacheEntries > 0 {
		cacheState = fmt.Sprintf("✅ Active (%d entries)", st.CacheEntries)
	}

	var b strings.Builder
	b.WriteString(s.st.heading.Render("📊 CryptoBuddy Pro System Status") + "\n\n")
	fmt.Fprintf(&b, "🕐 Last Data Refresh: %s\n", st.LastRefreshText())
	fmt.Fprintf(&b, "📈 API Status: %s\n", api)
	b.WriteString("🧠 NLP Engine: ✅ Active\n")
	fmt.Fprintf(&b, "💾 Local Database: %d cryptocurrencies\n", st.KnowledgeBaseSize)
	fmt.Fprintf(&b, "🌐 Cache Status: %s\n", cacheState)
	return b.String()
}

func (s *Shell) goodbye() {
	s.printf("\n%s\n", s.st.heading.Render("👋 Goodbye! Thanks for using CryptoBuddy Pro!"))
}

func (s *Shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}
