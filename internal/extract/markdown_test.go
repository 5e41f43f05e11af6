package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarkdownExtractorRecoversHeadingOutline(t *testing.T) {
	raw := []byte("# Title\n\nIntro text.\n\n## Section One\n\nBody one.\n\n## Section Two\n\nBody two.\n")

	extractor := NewMarkdownExtractor()
	doc, err := extractor.Extract(context.Background(), raw)
	require.NoError(t, err)

	require.Len(t, doc.Sections, 3)
	require.Equal(t, "Title", doc.Sections[0].Title)
	require.Equal(t, 1, doc.Sections[0].Level)
	require.Equal(t, "Section One", doc.Sections[1].Title)
	require.Equal(t, 2, doc.Sections[1].Level)
	require.Contains(t, doc.Text, "Body one.")
	require.Contains(t, doc.Text, "Body two.")
}
