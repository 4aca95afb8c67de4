package pdfexport

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"hr-agent-backend/models"
)

func TestGenerateLetter(t *testing.T) {
	t.Run(`renders pdf check`, func(t *testing.T) {
		data, err := GenerateLetter(models.LetterData{
			CompanyName: "TalentFlow",
			Title:       "Offer Letter",
			IssuedAt:    "2026-10-12",
			Body:        "**Dear Ann,**\n\nWe are pleased to offer you the position.\n* Salary: 100 000\n\nBest regards",
		})
		require.NoError(t, err)
		require.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	})

	t.Run(`markdown stripped check`, func(t *testing.T) {
		require.Equal(t, "Title", plainLine("## **Title**"))
		require.Equal(t, "- item", plainLine("* item"))
	})

	t.Run(`image without extension check`, func(t *testing.T) {
		_, err := GetImgType("logo")
		require.Error(t, err)
	})
}
