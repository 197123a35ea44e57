package http

import (
	"bytes"
	"net/http"

	"trust/internal/core"
	applog "trust/internal/log"
	"trust/internal/view"
)

// TrustName is shown in the header and footer.
const TrustName = "પઠાણ સમાજ ટ્રસ્ટ"

type navItem struct {
	View   view.View
	Title  string
	Active bool
}

type categoryOption struct {
	Value core.Category
	Label string
	Fee   int64
}

type memberRow struct {
	core.Member
	CategoryLabel string
	Selected      bool
}

type donationRow struct {
	core.Donation
	Donor string
}

// pageData is everything the templates read. It is rebuilt from a fresh
// snapshot on every render, so totals are never stale.
type pageData struct {
	TrustName string
	View      view.View
	Title     string
	Nav       []navItem
	Notice    string
	Error     string
	Year      int

	Categories []categoryOption
	Form       map[string]string

	Members []memberRow

	Fund      core.FundOverview
	Donations []donationRow

	Selected *core.Member
	Query    string
	Results  []core.Member
}

func (s *Server) buildPage(r *http.Request) pageData {
	data := s.store.Snapshot()
	state := s.views.State()

	p := pageData{
		TrustName: TrustName,
		View:      state.Current,
		Title:     state.Current.Title(),
		Notice:    NoticeText(r.URL.Query().Get("notice")),
		Year:      s.now().Year(),
		Fund:      core.Overview(data),
		Form:      map[string]string{},
	}

	for _, v := range view.All() {
		p.Nav = append(p.Nav, navItem{View: v, Title: v.Title(), Active: v == state.Current})
	}
	for _, c := range core.Categories() {
		p.Categories = append(p.Categories, categoryOption{Value: c, Label: c.Label(), Fee: core.FeeFor(c)})
	}

	for _, m := range data.Members {
		p.Members = append(p.Members, memberRow{
			Member:        m,
			CategoryLabel: m.Category.Label(),
			Selected:      m.ID == state.SelectedMemberID,
		})
	}

	for _, d := range data.Donations {
		row := donationRow{Donation: d, Donor: d.DonorName}
		if m, ok := data.FindMember(d.MemberID); ok {
			row.Donor = m.Name
		}
		p.Donations = append(p.Donations, row)
	}

	if m, ok := s.views.SelectedMember(data); ok {
		p.Selected = &m
	}
	if state.Current == view.DikriYojna {
		p.Query = sanitizeInput(r.URL.Query().Get("q"))
		if p.Query != "" {
			p.Results = core.SearchMembers(data.Members, p.Query)
		}
	}
	return p
}

// render executes the page into a buffer first so a template error never
// produces a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, p pageData) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "page", p); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			applog.NewFields().
				WithError(err).
				WithComponent(applog.ComponentTemplate).
				WithOperation(applog.OpRender).
				ToSlice()...)
		InternalServerError("પૃષ્ઠ બતાવી શકાયું નહીં").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
