package resolver

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestYouTubeURLBeatsGenericWebURL(t *testing.T) {
	r := Default()
	all := r.ResolveAll("https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	require.NotEmpty(t, all)
	require.Equal(t, "youtube", all[0].Connector)
	require.Equal(t, "get_video_details", all[0].Tool)

	filtered := FilterAmbiguous(all)
	require.Len(t, filtered, 1)
	require.Equal(t, "youtube", filtered[0].Connector)

	var videoID string
	require.NoError(t, json.Unmarshal(filtered[0].Arguments["video_id"], &videoID))
	require.Equal(t, "dQw4w9WgXcQ", videoID)
}

func TestAmbiguousNumericIDCollapsesToPubMedAfterFiltering(t *testing.T) {
	r := Default()
	all := r.ResolveAll("38500000")
	filtered := FilterAmbiguous(all)
	require.Len(t, filtered, 1)
	require.Equal(t, "pubmed", filtered[0].Connector)

	var pmid string
	require.NoError(t, json.Unmarshal(filtered[0].Arguments["pmid"], &pmid))
	require.Equal(t, "38500000", pmid)
}

func TestBareGitHubShorthandResolves(t *testing.T) {
	r := Default()
	action, ok := r.Resolve("rust-lang/rust")
	require.True(t, ok)
	require.Equal(t, "github", action.Connector)
	require.Equal(t, "get_repository", action.Tool)
	require.Equal(t, uint32(50), action.Priority)

	var owner, repo string
	require.NoError(t, json.Unmarshal(action.Arguments["owner"], &owner))
	require.NoError(t, json.Unmarshal(action.Arguments["repo"], &repo))
	require.Equal(t, "rust-lang", owner)
	require.Equal(t, "rust", repo)
}

func TestResolveIsDeterministic(t *testing.T) {
	r := Default()
	first := r.ResolveAll("https://github.com/ternarybob/arivu/issues/42")
	second := r.ResolveAll("https://github.com/ternarybob/arivu/issues/42")
	require.Equal(t, first, second)
}

func TestEmptyInputResolvesToNothing(t *testing.T) {
	r := Default()
	require.Empty(t, r.ResolveAll(""))
	require.Empty(t, r.ResolveAll("   "))
	require.False(t, r.CanResolve(""))
}

func TestGitHubIssueURLOutranksRepoURL(t *testing.T) {
	r := Default()
	action, ok := r.Resolve("https://github.com/rust-lang/rust/issues/1")
	require.True(t, ok)
	require.Equal(t, "get_issue", action.Tool)

	var issueNumber int
	require.NoError(t, json.Unmarshal(action.Arguments["number"], &issueNumber))
	require.Equal(t, 1, issueNumber)
}

func TestDOIRoutesToSemanticScholar(t *testing.T) {
	r := Default()
	action, ok := r.Resolve("10.1234/example")
	require.True(t, ok)
	require.Equal(t, "semantic-scholar", action.Connector)
	require.Equal(t, "get_paper", action.Tool)

	var paperID string
	require.NoError(t, json.Unmarshal(action.Arguments["paper_id"], &paperID))
	require.Equal(t, "10.1234/example", paperID)
}

func TestCanResolveUnmatchedInputIsFalse(t *testing.T) {
	r := Default()
	require.False(t, r.CanResolve("this is not a recognizable identifier at all"))
}

func TestListPatternsReturnsEveryPatternSortedByPriority(t *testing.T) {
	r := Default()
	infos := r.ListPatterns()
	require.Len(t, infos, len(buildDefaultPatterns()))
	for i := 1; i < len(infos); i++ {
		require.GreaterOrEqual(t, infos[i-1].Priority, infos[i].Priority)
	}
}
