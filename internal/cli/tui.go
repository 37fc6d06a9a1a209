package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kuriosis/wallbuilder/pkg/codec"
	"github.com/kuriosis/wallbuilder/pkg/pricing"
	"github.com/kuriosis/wallbuilder/pkg/store"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// GalleryListModel is the bubbletea model for interactive gallery selection.
type GalleryListModel struct {
	Records  []*store.SavedGallery
	Cursor   int
	Selected *store.SavedGallery
	Height   int
	Offset   int
}

// NewGalleryListModel creates a list model over the given records.
func NewGalleryListModel(records []*store.SavedGallery) GalleryListModel {
	return GalleryListModel{Records: records, Height: 15}
}

func (m GalleryListModel) Init() tea.Cmd {
	return nil
}

func (m GalleryListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Records)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = m.Records[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 4
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m GalleryListModel) View() string {
	if len(m.Records) == 0 {
		return listDimStyle.Render("no saved galleries") + "\n"
	}

	out := StyleTitle.Render("Saved galleries") + "\n\n"
	end := min(m.Offset+m.Height, len(m.Records))
	for i := m.Offset; i < end; i++ {
		rec := m.Records[i]
		total := pricing.Total(codec.FromDocument(rec.Document))
		line := fmt.Sprintf("%s  %s  %s",
			rec.Name,
			listDimStyle.Render(rec.UpdatedAt.Format("2006-01-02 15:04")),
			pricing.FormatMinorComma(total.TotalMinor, "€"),
		)
		if i == m.Cursor {
			out += listSelectedStyle.Render("> "+line) + "\n"
		} else {
			out += listNormalStyle.Render("  "+line) + "\n"
		}
	}
	out += "\n" + listDimStyle.Render("↑/↓ move · enter select · q quit") + "\n"
	return out
}

// pickGallery runs the interactive selector and returns the chosen record,
// or nil when the user quit without selecting.
func pickGallery(records []*store.SavedGallery) (*store.SavedGallery, error) {
	model, err := tea.NewProgram(NewGalleryListModel(records)).Run()
	if err != nil {
		return nil, err
	}
	return model.(GalleryListModel).Selected, nil
}
