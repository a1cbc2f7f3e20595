// Package report renders a conversation transcript to PDF.
package report

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/nomavia/guestlink/internal/domain"
)

// RenderConversation writes a PDF transcript of the messages to w. Alert
// messages are marked in the margin.
func RenderConversation(w io.Writer, code string, messages []domain.ConversationMessage) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Conversation %s", code), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("Conversation - Code : %s", code), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	for _, m := range messages {
		prefix := ""
		if m.Alert {
			prefix = "[ALERTE] "
		}
		line := fmt.Sprintf("%s %s%s: %s",
			m.CreatedAt.Format("2006-01-02 15:04"), prefix, m.Author, m.Text)
		pdf.MultiCell(0, 6, line, "", "L", false)
		pdf.Ln(1)
	}

	return pdf.Output(w)
}
