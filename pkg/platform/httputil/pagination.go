package httputil

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	HeaderTotalCount = "X-Total-Count"
	HeaderLink       = "Link"
)

// PageInfo carries what the pagination headers need from a result page.
// Pages is the page count computed by the caller's page type.
type PageInfo struct {
	Number int
	Size   int
	Total  int64
	Pages  int
}

// WritePaginationHeaders sets X-Total-Count and an RFC 5988 Link header with
// next, prev, last and first relations. params are carried on every link
// (search links keep their query this way).
func WritePaginationHeaders(w http.ResponseWriter, baseURL string, p PageInfo, params url.Values) {
	w.Header().Set(HeaderTotalCount, strconv.FormatInt(p.Total, 10))

	last := p.Pages - 1
	if last < 0 {
		last = 0
	}

	links := make([]string, 0, 4)
	if p.Number+1 <= last {
		links = append(links, pageLink(baseURL, p.Number+1, p.Size, params, "next"))
	}
	if p.Number > 0 {
		links = append(links, pageLink(baseURL, p.Number-1, p.Size, params, "prev"))
	}
	links = append(links,
		pageLink(baseURL, last, p.Size, params, "last"),
		pageLink(baseURL, 0, p.Size, params, "first"),
	)
	w.Header().Set(HeaderLink, strings.Join(links, ","))
}

func pageLink(baseURL string, page, size int, params url.Values, rel string) string {
	q := url.Values{}
	for k, v := range params {
		q[k] = append([]string(nil), v...)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return "<" + baseURL + "?" + q.Encode() + `>; rel="` + rel + `"`
}
