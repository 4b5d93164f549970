package handlers

import "net/http"

// NewsLatest returns a grounded digest of current design trends. The topic
// query parameter narrows the search.
func (a *App) NewsLatest(w http.ResponseWriter, r *http.Request) {
	digest, err := a.News.Latest(r.Context(), r.URL.Query().Get("topic"))
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	a.json(w, http.StatusOK, digest)
}
