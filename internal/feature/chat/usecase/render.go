package usecase

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	greetingPhrases = []string{
		"Hello! I'm CryptoBuddy Pro, your crypto advisor! 🚀",
		"Hey there! Ready to explore the crypto world together? 💎",
		"Welcome! Let's dive into some cryptocurrency insights! 🌟",
	}
	fallbackPhrases = []string{
		"I'm not sure I understand that completely. Could you rephrase your question?",
		"That's an interesting question! Could you be more specific?",
		"I'd love to help! Can you clarify what you're looking for?",
	}
	noDataPhrases = []string{
		"I couldn't find data for that cryptocurrency right now.",
		"That coin isn't in my database or the API might be having issues.",
		"I don't have information on that particular cryptocurrency.",
	}
)

const generalPrinciples = `🎯 General Investment Principles:

1. 🏦 Diversification: Don't put all eggs in one basket
2. 📚 Research: Understand the technology and team
3. 💰 Risk Management: Only invest what you can afford to lose
4. 🕐 Long-term Thinking: Crypto markets are highly volatile
5. 🌱 Consider Sustainability: Look at environmental impact`

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// renderTable draws a bordered grid. Cells are plain text so the output is stable
// regardless of the terminal's color profile.
func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style { return cellStyle }).
		Headers(headers...).
		Rows(rows...).
		String()
}
