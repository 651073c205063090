package request

import "net/http"

// ArticleQuery is the query string of the article endpoints.
type ArticleQuery struct {
	URL    string
	Source string
}

func ParseArticleQuery(r *http.Request) ArticleQuery {
	q := r.URL.Query()
	return ArticleQuery{
		URL:    q.Get("url"),
		Source: q.Get("source"),
	}
}
