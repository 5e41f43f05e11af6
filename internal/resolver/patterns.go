package resolver

import "regexp"

func re(pattern string) *regexp.Regexp {
	return regexp.MustCompile(pattern)
}

// buildDefaultPatterns returns the closed, priority-ordered pattern table
// used to resolve free-text input to a connector and tool call.
func buildDefaultPatterns() []Pattern {
	return []Pattern{
		// === YouTube ===
		{
			ID: "youtube_url_watch", Connector: "youtube", Tool: "get_video_details",
			Regex:       re(`(?:https?://)?(?:www\.)?youtube\.com/watch\?v=(?P<video_id>[a-zA-Z0-9_-]{11})`),
			ArgMapping:  []argMapping{{"video_id", "video_id"}},
			Priority:    100,
			Description: "YouTube watch URL",
			Example:     "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			ID: "youtube_url_short", Connector: "youtube", Tool: "get_video_details",
			Regex:       re(`(?:https?://)?youtu\.be/(?P<video_id>[a-zA-Z0-9_-]{11})`),
			ArgMapping:  []argMapping{{"video_id", "video_id"}},
			Priority:    100,
			Description: "YouTube short URL",
			Example:     "https://youtu.be/dQw4w9WgXcQ",
		},
		{
			ID: "youtube_url_embed", Connector: "youtube", Tool: "get_video_details",
			Regex:       re(`(?:https?://)?(?:www\.)?youtube\.com/embed/(?P<video_id>[a-zA-Z0-9_-]{11})`),
			ArgMapping:  []argMapping{{"video_id", "video_id"}},
			Priority:    100,
			Description: "YouTube embed URL",
			Example:     "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			ID: "youtube_video_id", Connector: "youtube", Tool: "get_video_details",
			Regex:       re(`^(?P<video_id>[a-zA-Z0-9_-]{11})$`),
			ArgMapping:  []argMapping{{"video_id", "video_id"}},
			Priority:    10,
			Description: "Bare YouTube video ID (11 characters)",
			Example:     "dQw4w9WgXcQ",
		},
		{
			ID: "youtube_playlist", Connector: "youtube", Tool: "get_playlist",
			Regex:       re(`(?:https?://)?(?:www\.)?youtube\.com/playlist\?list=(?P<playlist_id>[a-zA-Z0-9_-]+)`),
			ArgMapping:  []argMapping{{"playlist_id", "playlist_id"}},
			Priority:    100,
			Description: "YouTube playlist URL",
			Example:     "https://www.youtube.com/playlist?list=PLrAXtmErZgOeiKm4sgNOknGvNjby9efdf",
		},
		{
			ID: "youtube_channel", Connector: "youtube", Tool: "get_channel",
			Regex:       re(`(?:https?://)?(?:www\.)?youtube\.com/(?:@|channel/)(?P<channel_id>[a-zA-Z0-9_-]+)`),
			ArgMapping:  []argMapping{{"channel_id", "channel_id"}},
			Priority:    100,
			Description: "YouTube channel URL",
			Example:     "https://www.youtube.com/@channelname",
		},

		// === Hacker News ===
		{
			ID: "hackernews_url", Connector: "hackernews", Tool: "get_post",
			Regex:       re(`(?:https?://)?news\.ycombinator\.com/item\?id=(?P<item_id>\d+)`),
			ArgMapping:  []argMapping{{"item_id", "id"}},
			Priority:    100,
			Description: "Hacker News item URL",
			Example:     "https://news.ycombinator.com/item?id=38500000",
		},
		{
			ID: "hackernews_id", Connector: "hackernews", Tool: "get_post",
			Regex:       re(`^(?:hn:|HN:)?(?P<item_id>\d{7,9})$`),
			ArgMapping:  []argMapping{{"item_id", "id"}},
			Priority:    50,
			Description: "Hacker News item ID (7-9 digits, optionally prefixed with hn:)",
			Example:     "38500000",
		},

		// === ArXiv ===
		{
			ID: "arxiv_url", Connector: "arxiv", Tool: "get_paper",
			Regex:       re(`(?:https?://)?arxiv\.org/(?:abs|pdf)/(?P<arxiv_id>\d{4}\.\d{4,5}(?:v\d+)?)`),
			ArgMapping:  []argMapping{{"arxiv_id", "id"}},
			Priority:    100,
			Description: "ArXiv paper URL",
			Example:     "https://arxiv.org/abs/2301.07041",
		},
		{
			ID: "arxiv_id", Connector: "arxiv", Tool: "get_paper",
			Regex:       re(`^(?:arXiv:|arxiv:)?(?P<arxiv_id>\d{4}\.\d{4,5}(?:v\d+)?)$`),
			ArgMapping:  []argMapping{{"arxiv_id", "id"}},
			Priority:    90,
			Description: "ArXiv paper ID (e.g., 2301.07041 or arXiv:2301.07041)",
			Example:     "2301.07041",
		},
		{
			ID: "arxiv_old_id", Connector: "arxiv", Tool: "get_paper",
			Regex:       re(`^(?:arXiv:|arxiv:)?(?P<arxiv_id>[a-z-]+/\d{7})$`),
			ArgMapping:  []argMapping{{"arxiv_id", "id"}},
			Priority:    90,
			Description: "ArXiv old-style ID (e.g., hep-th/9901001)",
			Example:     "hep-th/9901001",
		},

		// === PubMed ===
		{
			ID: "pubmed_url", Connector: "pubmed", Tool: "get_article",
			Regex:       re(`(?:https?://)?(?:www\.)?(?:ncbi\.nlm\.nih\.gov/pubmed/|pubmed\.ncbi\.nlm\.nih\.gov/)(?P<pmid>\d+)`),
			ArgMapping:  []argMapping{{"pmid", "pmid"}},
			Priority:    100,
			Description: "PubMed article URL",
			Example:     "https://pubmed.ncbi.nlm.nih.gov/38500000",
		},
		{
			ID: "pubmed_id", Connector: "pubmed", Tool: "get_article",
			Regex:       re(`^(?:PMID:|pmid:|PubMed:)?(?P<pmid>\d{7,8})$`),
			ArgMapping:  []argMapping{{"pmid", "pmid"}},
			Priority:    80,
			Description: "PubMed ID (7-8 digits, optionally prefixed with PMID:)",
			Example:     "PMID:38500000",
		},

		// === DOI (routes to semantic-scholar) ===
		{
			ID: "doi_url", Connector: "semantic-scholar", Tool: "get_paper",
			Regex:       re(`(?:https?://)?(?:dx\.)?doi\.org/(?P<doi>10\.\d{4,}/\S+)`),
			ArgMapping:  []argMapping{{"doi", "paper_id"}},
			Priority:    100,
			Description: "DOI URL (doi.org/...)",
			Example:     "https://doi.org/10.1234/example",
		},
		{
			ID: "doi_bare", Connector: "semantic-scholar", Tool: "get_paper",
			Regex:       re(`^(?:doi:|DOI:)?(?P<doi>10\.\d{4,}/\S+)$`),
			ArgMapping:  []argMapping{{"doi", "paper_id"}},
			Priority:    90,
			Description: "DOI (e.g., 10.1234/example)",
			Example:     "10.1234/example",
		},

		// === Semantic Scholar ===
		{
			ID: "semantic_scholar_url", Connector: "semantic-scholar", Tool: "get_paper",
			Regex:       re(`(?:https?://)?(?:www\.)?semanticscholar\.org/paper/[^/]+/(?P<paper_id>[a-f0-9]{40})`),
			ArgMapping:  []argMapping{{"paper_id", "paper_id"}},
			Priority:    100,
			Description: "Semantic Scholar paper URL",
			Example:     "https://www.semanticscholar.org/paper/title/0123456789abcdef0123456789abcdef01234567",
		},

		// === Wikipedia ===
		{
			ID: "wikipedia_url", Connector: "wikipedia", Tool: "get_page",
			Regex:       re(`(?:https?://)?(?P<lang>[a-z]{2})\.wikipedia\.org/wiki/(?P<title>[^\s?#]+)`),
			ArgMapping:  []argMapping{{"title", "title"}},
			Priority:    100,
			Description: "Wikipedia article URL",
			Example:     "https://en.wikipedia.org/wiki/Go_(programming_language)",
		},

		// === GitHub ===
		{
			ID: "github_repo_url", Connector: "github", Tool: "get_repository",
			Regex:       re(`(?:https?://)?github\.com/(?P<owner>[a-zA-Z0-9_-]+)/(?P<repo>[a-zA-Z0-9_.-]+)/?$`),
			ArgMapping:  []argMapping{{"owner", "owner"}, {"repo", "repo"}},
			Priority:    100,
			Description: "GitHub repository URL",
			Example:     "https://github.com/rust-lang/rust",
		},
		{
			ID: "github_issue_url", Connector: "github", Tool: "get_issue",
			Regex:       re(`(?:https?://)?github\.com/(?P<owner>[a-zA-Z0-9_-]+)/(?P<repo>[a-zA-Z0-9_.-]+)/issues/(?P<issue_number>\d+)`),
			ArgMapping:  []argMapping{{"owner", "owner"}, {"repo", "repo"}, {"issue_number", "number"}},
			Priority:    100,
			Description: "GitHub issue URL",
			Example:     "https://github.com/rust-lang/rust/issues/1",
		},
		{
			ID: "github_pr_url", Connector: "github", Tool: "get_pull_request",
			Regex:       re(`(?:https?://)?github\.com/(?P<owner>[a-zA-Z0-9_-]+)/(?P<repo>[a-zA-Z0-9_.-]+)/pull/(?P<pr_number>\d+)`),
			ArgMapping:  []argMapping{{"owner", "owner"}, {"repo", "repo"}, {"pr_number", "pr_number"}},
			Priority:    100,
			Description: "GitHub pull request URL",
			Example:     "https://github.com/rust-lang/rust/pull/1",
		},
		{
			ID: "github_repo_shorthand", Connector: "github", Tool: "get_repository",
			Regex:       re(`^(?P<owner>[a-zA-Z0-9_-]+)/(?P<repo>[a-zA-Z0-9_.-]+)$`),
			ArgMapping:  []argMapping{{"owner", "owner"}, {"repo", "repo"}},
			Priority:    50,
			Description: "GitHub repository shorthand (owner/repo)",
			Example:     "rust-lang/rust",
		},

		// === Reddit ===
		{
			ID: "reddit_post_url", Connector: "reddit", Tool: "get_post",
			Regex:       re(`(?:https?://)?(?:www\.)?reddit\.com/r/(?P<subreddit>[a-zA-Z0-9_]+)/comments/(?P<post_id>[a-z0-9]+)`),
			ArgMapping:  []argMapping{{"subreddit", "subreddit"}, {"post_id", "post_id"}},
			Priority:    100,
			Description: "Reddit post URL",
			Example:     "https://www.reddit.com/r/golang/comments/abc123",
		},
		{
			ID: "reddit_subreddit_url", Connector: "reddit", Tool: "get_subreddit",
			Regex:       re(`(?:https?://)?(?:www\.)?reddit\.com/r/(?P<subreddit>[a-zA-Z0-9_]+)/?$`),
			ArgMapping:  []argMapping{{"subreddit", "subreddit"}},
			Priority:    100,
			Description: "Reddit subreddit URL",
			Example:     "https://www.reddit.com/r/golang",
		},
		{
			ID: "reddit_subreddit_shorthand", Connector: "reddit", Tool: "get_subreddit",
			Regex:       re(`^r/(?P<subreddit>[a-zA-Z0-9_]+)$`),
			ArgMapping:  []argMapping{{"subreddit", "subreddit"}},
			Priority:    80,
			Description: "Reddit subreddit shorthand (r/name)",
			Example:     "r/golang",
		},

		// === X (Twitter) ===
		{
			ID: "twitter_tweet_url", Connector: "x", Tool: "get_tweet",
			Regex:       re(`(?:https?://)?(?:www\.)?(?:twitter\.com|x\.com)/(?P<username>[a-zA-Z0-9_]+)/status/(?P<tweet_id>\d+)`),
			ArgMapping:  []argMapping{{"tweet_id", "tweet_id"}},
			Priority:    100,
			Description: "X/Twitter tweet URL",
			Example:     "https://x.com/golang/status/123456789",
		},
		{
			ID: "twitter_profile_url", Connector: "x", Tool: "get_profile",
			Regex:       re(`(?:https?://)?(?:www\.)?(?:twitter\.com|x\.com)/(?P<username>[a-zA-Z0-9_]+)/?$`),
			ArgMapping:  []argMapping{{"username", "username"}},
			Priority:    90,
			Description: "X/Twitter profile URL",
			Example:     "https://x.com/golang",
		},
		{
			ID: "twitter_handle", Connector: "x", Tool: "get_profile",
			Regex:       re(`^@(?P<username>[a-zA-Z0-9_]+)$`),
			ArgMapping:  []argMapping{{"username", "username"}},
			Priority:    80,
			Description: "X/Twitter handle (@username)",
			Example:     "@golang",
		},

		// === Generic Web URLs ===
		{
			ID: "web_url", Connector: "web", Tool: "fetch",
			Regex:       re(`^(?P<url>https?://\S+)$`),
			ArgMapping:  []argMapping{{"url", "url"}},
			Priority:    1,
			Description: "Generic web URL",
			Example:     "https://example.com/some/page",
		},
	}
}
