package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"trust/internal/view"
)

func (s *Server) handleCreateMember(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("ફોર્મ વાંચી શકાયું નહીં").Write(w)
		return
	}
	in := ParseRegistration(p)
	form := map[string]string{
		"name":     in.Name,
		"phone":    in.Phone,
		"village":  in.Village,
		"category": string(in.Category),
	}

	if _, err := s.svc.RegisterMember(r.Context(), in); err != nil {
		s.writeMutationError(w, r, err, form)
		return
	}
	RedirectHome(NoticeMemberRegistered).Write(w)
}

func (s *Server) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.RemoveMember(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeMutationError(w, r, err, nil)
		return
	}
	RedirectHome(NoticeMemberRemoved).Write(w)
}

// handleSelectMember opens the Dikri Yojna view for an existing member.
func (s *Server) handleSelectMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.store.Snapshot().FindMember(id); !ok {
		NotFoundError("સભ્ય મળ્યો નથી.").Write(w)
		return
	}
	s.views.NavigateWithMember(string(view.DikriYojna), id)
	RedirectHome("").Write(w)
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.views.ClearSelection()
	RedirectHome("").Write(w)
}
