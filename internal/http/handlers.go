package http

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"trust/internal/core"
	applog "trust/internal/log"
	"trust/internal/services"
	"trust/internal/store"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, s.buildPage(r))
}

// handleNavigate switches the current view. Unknown names leave the view
// unchanged and still redirect back to the page.
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	s.views.Navigate(chi.URLParam(r, "name"))
	RedirectHome("").Write(w)
}

// handleWords renders an amount in grouped digits and in words. The fund
// and registration forms use it for a live preview.
func (s *Server) handleWords(w http.ResponseWriter, r *http.Request) {
	amount, err := core.ParseRupees(r.URL.Query().Get("amount"))
	if err != nil {
		UnprocessableEntityError("રકમ માન્ય આખા રૂપિયામાં લખો.").Write(w)
		return
	}
	fragment, _ := s.previews.GetOrCompute(amount, func() (string, error) {
		words, err := core.ToWords(amount)
		if err != nil {
			words = core.FormatRupees(amount)
		}
		return `<span class="amount">` + template.HTMLEscapeString(core.FormatRupees(amount)) +
			`</span> <span class="words">` + template.HTMLEscapeString(words) + `</span>`, nil
	})
	NewResponse().BodyHTML(fragment).Write(w)
}

// handleExport downloads the whole aggregate as it would be persisted.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	raw, err := store.Encode(s.store.Snapshot())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Export encode failed", applog.FieldError, err.Error())
		InternalServerError("નિકાસ નિષ્ફળ").Write(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.json"`, s.store.Key()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

type importResult struct {
	Members   int    `json:"members"`
	Donations int    `json:"donations"`
	Persisted bool   `json:"persisted"`
	Error     string `json:"error,omitempty"`
}

// handleImport replaces the aggregate with an uploaded export. The payload
// is validated with the same rules applied on load.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		NewResponse().Status(http.StatusBadRequest).BodyJSON(importResult{Error: "read body"}).Write(w)
		return
	}
	data, err := store.Decode(raw)
	if err != nil {
		logger.WarnContext(ctx, "Rejected import",
			applog.NewFields().WithError(err).WithErrorType(applog.ErrorTypeValidation).ToSlice()...)
		NewResponse().Status(http.StatusUnprocessableEntity).BodyJSON(importResult{Error: err.Error()}).Write(w)
		return
	}

	res := importResult{Members: len(data.Members), Donations: len(data.Donations), Persisted: true}
	if err := s.store.Replace(ctx, data); err != nil {
		logger.ErrorContext(ctx, "Import applied but not persisted",
			applog.NewFields().WithError(err).WithErrorType(applog.ErrorTypeStorage).ToSlice()...)
		res.Persisted = false
		res.Error = err.Error()
		NewResponse().Status(http.StatusInternalServerError).BodyJSON(res).Write(w)
		return
	}
	s.views.ClearSelection()
	logger.InfoContext(ctx, "Data imported", "members", res.Members, "donations", res.Donations)
	NewResponse().BodyJSON(res).Write(w)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().BodyJSON(map[string]any{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady reports whether the persistence slot can be read.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", applog.FieldError, err.Error())
		NewResponse().Status(http.StatusServiceUnavailable).
			BodyJSON(map[string]string{"status": "unavailable", "error": err.Error()}).Write(w)
		return
	}
	NewResponse().BodyJSON(map[string]string{"status": "ready"}).Write(w)
}

// writeMutationError answers a failed form post. Storage failures keep the
// in-memory change, so the user is sent back with a warning. Rejected input
// re-renders the current view with the submitted values.
func (s *Server) writeMutationError(w http.ResponseWriter, r *http.Request, err error, form map[string]string) {
	ctx := r.Context()
	switch {
	case errors.Is(err, services.ErrStorage):
		RedirectHome(NoticeNotPersisted).Write(w)
	case errors.Is(err, core.ErrMemberNotFound):
		NotFoundError("સભ્ય મળ્યો નથી.").Write(w)
	case errors.Is(err, core.ErrDonationNotFound):
		NotFoundError("દાન મળ્યું નથી.").Write(w)
	default:
		applog.FromContext(ctx).DebugContext(ctx, "Rejected form input",
			applog.NewFields().WithError(err).WithErrorType(applog.ErrorTypeValidation).ToSlice()...)
		p := s.buildPage(r)
		p.Error = validationMessage(err)
		if form != nil {
			p.Form = form
		}
		s.render(w, r, http.StatusUnprocessableEntity, p)
	}
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyName):
		return "નામ જરૂરી છે."
	case errors.Is(err, core.ErrNameTooLong):
		return "નામ ૨૦૦ અક્ષરથી લાંબું ન હોઈ શકે."
	case errors.Is(err, core.ErrNoteTooLong):
		return "નોંધ ૫૦૦ અક્ષરથી લાંબી ન હોઈ શકે."
	case errors.Is(err, core.ErrAmountTooLarge), errors.Is(err, core.ErrFundOverflow):
		return "રકમ મર્યાદા કરતાં વધારે છે."
	case errors.Is(err, core.ErrInvalidCategory):
		return "અમાન્ય શ્રેણી."
	case errors.Is(err, errFieldAmount), errors.Is(err, core.ErrInvalidAmount), errors.Is(err, core.ErrNegativeAmount):
		return "રકમ માન્ય આખા રૂપિયામાં લખો."
	case errors.Is(err, core.ErrUnknownMember):
		return "પસંદ કરેલ સભ્ય મળ્યો નથી."
	case errors.Is(err, core.ErrDuplicateMember):
		return "આ સભ્ય પહેલેથી નોંધાયેલ છે."
	default:
		return "વિનંતી માન્ય નથી."
	}
}
